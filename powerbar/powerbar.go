// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package powerbar implements a live one-line power readout that outputs
// to terminal (stdout) using ANSI color codes.
//
// One bar per rail, colored from green at idle to red at full scale.
// Useful to eyeball a workload's draw without waiting for the CSV.
package powerbar

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this readout.
type Opts struct {
	X        int     // blocks per bar
	MaxPower float64 // watts at full scale
	Palette  *ansi256.Palette

	_ struct{}
}

// Dev renders rail power bars to the console.
type Dev struct {
	w       io.Writer
	labels  []string
	l       int
	max     float64
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays one bar per label at the console.
func New(labels []string, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	l := opts.X
	if l <= 0 {
		l = 20
	}
	max := opts.MaxPower
	if max <= 0 {
		max = 10
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		labels:  labels,
		l:       l,
		max:     max,
		palette: *p,
	}
}

func (d *Dev) String() string {
	return "PowerBar"
}

// Update redraws the line in place. powers is indexed like the labels;
// a negative value renders as an unavailable bar instead of a level.
func (d *Dev) Update(powers []float64) error {
	if len(powers) != len(d.labels) {
		return fmt.Errorf("powerbar: got %d values for %d bars", len(powers), len(d.labels))
	}
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m\033[2K")
	for i, w := range powers {
		_, _ = d.buf.WriteString(d.labels[i])
		_ = d.buf.WriteByte(' ')
		d.bar(w)
		if w < 0 {
			_, _ = d.buf.WriteString(" --.---W  ")
		} else {
			fmt.Fprintf(&d.buf, " %6.3fW  ", w)
		}
	}
	_, _ = d.buf.WriteString("\033[0m")
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) bar(w float64) {
	frac := w / d.max
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(d.l))
	for i := 0; i < d.l; i++ {
		if w < 0 || i >= filled {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBA{64, 64, 64, 255}))
			continue
		}
		level := float64(i) / float64(d.l)
		c := color.NRGBA{R: uint8(255 * level), G: uint8(255 * (1 - level)), A: 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
}

// Halt implements conn.Resource.
//
// It moves past the live line and resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

var _ fmt.Stringer = &Dev{}
