// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package powerbar

import (
	"bytes"
	"strings"
	"testing"
)

func testDev() (*Dev, *bytes.Buffer) {
	d := New([]string{"PS", "PL"}, &Opts{X: 4, MaxPower: 2})
	buf := &bytes.Buffer{}
	d.w = buf
	return d, buf
}

func TestUpdateRendersEveryBar(t *testing.T) {
	d, buf := testDev()

	if err := d.Update([]float64{1.234, 0.5}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\r\033[0m") {
		t.Fatalf("line does not rewrite in place: %q", out)
	}
	if !strings.Contains(out, "PS ") || !strings.Contains(out, "PL ") {
		t.Fatalf("missing rail labels: %q", out)
	}
	if !strings.Contains(out, " 1.234W") || !strings.Contains(out, " 0.500W") {
		t.Fatalf("missing rendered values: %q", out)
	}
	if !strings.HasSuffix(out, "\033[0m") {
		t.Fatalf("colors are not reset at end of line: %q", out)
	}
}

func TestUpdateRendersUnavailableReading(t *testing.T) {
	d, buf := testDev()

	if err := d.Update([]float64{-1, 0}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "--.---W") {
		t.Fatalf("sentinel reading should render as unavailable: %q", buf.String())
	}
}

func TestUpdateRejectsWrongArity(t *testing.T) {
	d, _ := testDev()

	if err := d.Update([]float64{1}); err == nil {
		t.Fatal("Update should reject a value count not matching the labels")
	}
}

func TestHaltResetsTerminal(t *testing.T) {
	d, buf := testDev()

	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\n\033[0m" {
		t.Fatalf("Halt wrote %q", got)
	}
}
