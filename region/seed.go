// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package region

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrNoQualifyingSeed = errors.New("region: no point qualifies as seed")

// PickSeed draws a seed uniformly among the points whose weight exceeds minWeight.
func PickSeed(weights []float64, minWeight float64, rng *rand.Rand) (int, error) {
	qualifying := make([]int, 0, len(weights))
	for i, w := range weights {
		if w > minWeight {
			qualifying = append(qualifying, i)
		}
	}
	if len(qualifying) == 0 {
		return 0, fmt.Errorf("%w: %d points, none with weight > %v", ErrNoQualifyingSeed, len(weights), minWeight)
	}
	return qualifying[rng.Intn(len(qualifying))], nil
}
