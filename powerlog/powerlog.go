// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package powerlog polls rail power at a fixed interval and hands the
// samples to whatever wants them: a CSV file, a live terminal view, a
// chart. Capture can be toggled from another goroutine, typically a GPIO
// edge handler, without stopping the poller.
package powerlog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zcutools/railpower/ina226"
)

// PowerReader is the single sensor operation the monitor needs.
// *ina226.Dev implements it.
type PowerReader interface {
	ReadPower(ina226.Rail) (float64, error)
}

// Sample is one polling cycle. Power is indexed like the rail slice the
// monitor was built with; a rail whose sensor was unreachable this cycle
// carries -1. A failed rail is a missed value, not a stop condition.
type Sample struct {
	Time  time.Time
	Power []float64
}

// Monitor polls every rail once per interval.
type Monitor struct {
	r        PowerReader
	rails    []ina226.Rail
	interval time.Duration

	capture atomic.Bool
	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewMonitor returns a monitor polling rails every interval. Capture
// starts enabled; callers gating on an external trigger flip it off first
// with SetCapture.
func NewMonitor(r PowerReader, rails []ina226.Rail, interval time.Duration) *Monitor {
	m := &Monitor{r: r, rails: rails, interval: interval}
	m.capture.Store(true)
	return m
}

// SetCapture enables or disables sampling. Safe to call from any
// goroutine, including a GPIO edge handler.
func (m *Monitor) SetCapture(on bool) {
	m.capture.Store(on)
}

// Capturing reports whether samples are currently being taken.
func (m *Monitor) Capturing() bool {
	return m.capture.Load()
}

// Samples starts the poller and returns its output channel. The channel
// is closed by Halt. While capture is off, cycles are skipped and nothing
// is emitted.
func (m *Monitor) Samples() <-chan Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wg.Add(1)

	out := make(chan Sample)
	m.stop = make(chan struct{})
	go func() {
		defer m.wg.Done()
		defer close(out)
		t := time.NewTicker(m.interval)
		defer t.Stop()
		for {
			select {
			case <-m.stop:
				return
			case now := <-t.C:
				if !m.capture.Load() {
					continue
				}
				s := Sample{Time: now, Power: make([]float64, len(m.rails))}
				for i, rail := range m.rails {
					w, err := m.r.ReadPower(rail)
					if err != nil {
						w = -1
					}
					s.Power[i] = w
				}
				select {
				case out <- s:
				case <-m.stop:
					return
				}
			}
		}
	}()
	return out
}

// Halt stops the poller started by Samples and closes its channel.
func (m *Monitor) Halt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop == nil {
		return nil
	}
	close(m.stop)
	m.wg.Wait()
	m.stop = nil
	return nil
}
