// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package render draws a triangulation and a region as an SVG map in plate carrée
// projection.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Delebrith/make-climat-great-again/point"
	"github.com/Delebrith/make-climat-great-again/s2delaunay"
	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/s2"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultWidth = 1500

	triangleStyle = "fill:rgb(255,255,255);stroke:rgb(170,170,170);stroke-width:1;stroke-opacity:1.0"
	regionStyle   = "fill:rgb(255,200,0);fill-opacity:0.6;stroke:rgb(200,120,0);stroke-width:1"
)

var ErrMismatchedPoints = errors.New("render: points do not match triangulation vertices")

type Options struct {
	// Width of the image in pixels; the height is half of it. Zero selects DefaultWidth.
	Width int
	// SiteRadius of the point markers. Zero selects 3.
	SiteRadius int
	// Low and High are the colours of the smallest and largest weight.
	Low, High colorful.Color
}

func DefaultOptions() Options {
	low, _ := colorful.Hex("#0000ff")
	high, _ := colorful.Hex("#ff0000")
	return Options{Width: DefaultWidth, SiteRadius: 3, Low: low, High: high}
}

// SVG writes the triangles of dt, filling those whose corners all belong to regionPoints,
// and then one marker per point coloured by weight. pts[i] must be the point of vertex i.
func SVG(w io.Writer, dt *s2delaunay.Triangulation, pts []point.Point, regionPoints []int, opts Options) error {
	if len(pts) != len(dt.Vertices) {
		return fmt.Errorf("%w: %d points, %d vertices", ErrMismatchedPoints, len(pts), len(dt.Vertices))
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.SiteRadius <= 0 {
		opts.SiteRadius = 3
	}
	pr := newProjector(opts.Width)

	inRegion := make([]bool, len(pts))
	for _, p := range regionPoints {
		if p < 0 || p >= len(pts) {
			return fmt.Errorf("render: region point %d out of range", p)
		}
		inRegion[p] = true
	}

	canvas := svg.New(w)
	canvas.Start(pr.width, pr.height)
	canvas.Rect(0, 0, pr.width, pr.height, "fill:rgb(255,255,255)")

	xPoints := make([]int, 0, 3)
	yPoints := make([]int, 0, 3)
	for _, tri := range dt.Triangles {
		xPoints = xPoints[:0]
		yPoints = yPoints[:0]

		draw := true
		lng0 := s2.LatLngFromPoint(dt.Vertices[tri.Vertices[0]]).Lng.Radians()
		for _, id := range tri.Vertices {
			v := dt.Vertices[id]
			if math.Abs(lng0-s2.LatLngFromPoint(v).Lng.Radians()) > math.Pi {
				draw = false
				break
			}
			x, y := pr.toScreen(v)
			xPoints = append(xPoints, x)
			yPoints = append(yPoints, y)
		}

		// Triangles crossing the antimeridian would span the whole map.
		if !draw {
			continue
		}
		style := triangleStyle
		if inRegion[tri.Vertices[0]] && inRegion[tri.Vertices[1]] && inRegion[tri.Vertices[2]] {
			style = regionStyle
		}
		canvas.Polygon(xPoints, yPoints, style)
	}

	ramp := newWeightRamp(pts, opts.Low, opts.High)
	for i, v := range dt.Vertices {
		x, y := pr.toScreen(v)
		canvas.Circle(x, y, opts.SiteRadius, "fill:"+ramp.color(pts[i].Weight).Hex())
	}
	canvas.End()
	return nil
}

type projector struct {
	proj          s2.Projection
	scale         float64
	width, height int
}

func newProjector(width int) projector {
	scale := float64(width)
	return projector{
		proj:   s2.NewPlateCarreeProjection(scale),
		scale:  scale,
		width:  width,
		height: width / 2,
	}
}

func (pr projector) toScreen(p s2.Point) (int, int) {
	r2p := pr.proj.Project(p)

	x := (r2p.X + pr.scale) / (2 * pr.scale)
	y := (-r2p.Y + pr.scale/2) / pr.scale

	return int(x * float64(pr.width)), int(y * float64(pr.height))
}

type weightRamp struct {
	low, high colorful.Color
	min, span float64
}

func newWeightRamp(pts []point.Point, low, high colorful.Color) weightRamp {
	r := weightRamp{low: low, high: high}
	if len(pts) == 0 {
		return r
	}
	weights := make([]float64, len(pts))
	for i, p := range pts {
		weights[i] = p.Weight
	}
	r.min = floats.Min(weights)
	r.span = floats.Max(weights) - r.min
	return r
}

func (r weightRamp) color(w float64) colorful.Color {
	t := 0.5
	if r.span > 0 {
		t = (w - r.min) / r.span
	}
	return r.low.BlendLab(r.high, t).Clamped()
}
