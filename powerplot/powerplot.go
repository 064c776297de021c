// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package powerplot renders a captured power trace to an image, one line
// per rail. It replaces eyeballing the raw CSV after a capture.
package powerplot

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zcutools/railpower/powerlog"
)

// Opts represents the options available for the chart.
type Opts struct {
	W, H   int
	Title  string
	Labels []string // one per power column in the samples

	_ struct{}
}

const margin = 40.0

// Series line colors, wrapping around for more rails than colors.
var lineColors = [][3]float64{
	{0.85, 0.20, 0.20},
	{0.20, 0.35, 0.85},
	{0.15, 0.65, 0.30},
	{0.80, 0.60, 0.10},
}

// Render draws the trace and returns the image. Sentinel -1 values are
// gaps in the line, not data points. An empty trace renders an empty
// frame of the requested size.
func Render(samples []powerlog.Sample, opts *Opts) (image.Image, error) {
	w, h := opts.W, opts.H
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 300
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 12})

	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, margin, margin, float64(h)-margin)
	dc.DrawLine(margin, float64(h)-margin, float64(w)-margin, float64(h)-margin)
	dc.Stroke()
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, float64(w)/2, margin/2, 0.5, 0.5)
	}

	maxW := maxPower(samples)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f W", maxW), margin-4, margin, 1, 0.5)
	dc.DrawStringAnchored("0", margin-4, float64(h)-margin, 1, 0.5)

	for col := 0; col < columns(samples); col++ {
		c := lineColors[col%len(lineColors)]
		dc.SetRGB(c[0], c[1], c[2])
		drawSeries(dc, samples, col, maxW, float64(w), float64(h))
		if col < len(opts.Labels) {
			lx := margin + 8 + float64(col)*70
			dc.DrawStringAnchored(opts.Labels[col], lx, margin+10, 0, 0.5)
		}
	}
	return dc.Image(), nil
}

// SavePNG renders the trace and writes it to path.
func SavePNG(path string, samples []powerlog.Sample, opts *Opts) error {
	im, err := Render(samples, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, im)
}

func drawSeries(dc *gg.Context, samples []powerlog.Sample, col int, maxW, w, h float64) {
	dc.SetLineWidth(1.5)
	span := float64(len(samples) - 1)
	if span <= 0 {
		span = 1
	}
	pen := false
	for i, s := range samples {
		if col >= len(s.Power) || s.Power[col] < 0 {
			if pen {
				dc.Stroke()
				pen = false
			}
			continue
		}
		x := margin + (w-2*margin)*float64(i)/span
		y := h - margin - (h-2*margin)*(s.Power[col]/maxW)
		if !pen {
			dc.MoveTo(x, y)
			pen = true
		} else {
			dc.LineTo(x, y)
		}
	}
	if pen {
		dc.Stroke()
	}
}

func columns(samples []powerlog.Sample) int {
	n := 0
	for _, s := range samples {
		if len(s.Power) > n {
			n = len(s.Power)
		}
	}
	return n
}

func maxPower(samples []powerlog.Sample) float64 {
	max := 0.0
	for _, s := range samples {
		for _, p := range s.Power {
			if p > max {
				max = p
			}
		}
	}
	if max <= 0 {
		max = 1
	}
	return max
}
