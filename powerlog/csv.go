// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package powerlog

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/zcutools/railpower/ina226"
)

// Writer emits samples as CSV. Capture windows are bracketed with #START
// and #STOP marker records so a later pass can split a long log into
// runs, the same framing the serial logger this replaces used.
type Writer struct {
	csv *csv.Writer
}

// NewWriter writes a header naming the rails, then rows of
// timestamp,power... for each sample.
func NewWriter(w io.Writer, rails []ina226.Rail) (*Writer, error) {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(rails)+1)
	header = append(header, "time")
	for _, r := range rails {
		header = append(header, r.String()+"_W")
	}
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	cw.Flush()
	return &Writer{csv: cw}, nil
}

// Start marks the beginning of a capture window.
func (w *Writer) Start() error {
	return w.marker("#START")
}

// Stop marks the end of a capture window.
func (w *Writer) Stop() error {
	return w.marker("#STOP")
}

func (w *Writer) marker(m string) error {
	if err := w.csv.Write([]string{m}); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// WriteSample appends one sample row. Unavailable readings stay as the -1
// the monitor put there, keeping the column count stable.
func (w *Writer) WriteSample(s Sample) error {
	rec := make([]string, 0, len(s.Power)+1)
	rec = append(rec, s.Time.Format(time.RFC3339Nano))
	for _, p := range s.Power {
		rec = append(rec, strconv.FormatFloat(p, 'f', -1, 64))
	}
	if err := w.csv.Write(rec); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}
