// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// railpower logs PS/PL rail power on a ZCU102 or ZCU106 to CSV, with an
// optional live terminal view, an optional GPIO trigger gating the
// capture, and an optional PNG chart of the captured trace.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/zcutools/railpower/ina226"
	"github.com/zcutools/railpower/powerbar"
	"github.com/zcutools/railpower/powerlog"
	"github.com/zcutools/railpower/powerplot"
)

func mainImpl() error {
	board := flag.String("board", "ZCU106", "target board (ZCU102 or ZCU106)")
	busName := flag.String("bus", "", "I²C bus to use (\"\" for the first available)")
	addr := flag.Uint("addr", uint(ina226.DefaultAddr), "INA226 address")
	muxAddr := flag.Uint("mux", uint(0x75), "TCA9548A address")
	interval := flag.Duration("interval", 100*time.Millisecond, "sampling interval")
	logPath := flag.String("log", "", "CSV output path (default power_log_<timestamp>.csv)")
	trigger := flag.String("trigger", "", "GPIO pin name toggling capture on rising edges")
	plotPath := flag.String("plot", "", "write a PNG chart of the capture on exit")
	bar := flag.Bool("bar", false, "live terminal power bars")
	scale := flag.Float64("scale", 10, "full scale of the live bars, in watts")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args()[0])
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	b := ina226.Board(strings.ToUpper(*board))
	dev, err := ina226.New(bus, b, &ina226.Opts{Addr: uint16(*addr), MuxAddr: uint16(*muxAddr)})
	if err != nil {
		return err
	}
	rails := b.Rails()

	path := *logPath
	if path == "" {
		path = fmt.Sprintf("power_log_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := powerlog.NewWriter(f, rails)
	if err != nil {
		return err
	}
	log.Printf("logging to %s", path)

	var live *powerbar.Dev
	if *bar {
		labels := make([]string, len(rails))
		for i, r := range rails {
			labels[i] = r.String()
		}
		live = powerbar.New(labels, &powerbar.Opts{MaxPower: *scale})
		defer live.Halt()
	}

	m := powerlog.NewMonitor(dev, rails, *interval)
	defer m.Halt()

	// Each rising edge on the trigger pin toggles capture. Without a
	// trigger pin the capture runs from startup.
	toggles := make(chan struct{}, 1)
	if *trigger != "" {
		pin := gpioreg.ByName(*trigger)
		if pin == nil {
			return fmt.Errorf("no GPIO pin named %q", *trigger)
		}
		if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
			return err
		}
		m.SetCapture(false)
		go func() {
			for {
				if pin.WaitForEdge(-1) {
					toggles <- struct{}{}
				}
			}
		}()
		log.Printf("waiting for trigger on %s", pin)
	} else {
		if err := w.Start(); err != nil {
			return err
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	var trace []powerlog.Sample
	samples := m.Samples()
loop:
	for {
		select {
		case <-sig:
			break loop
		case <-toggles:
			if m.Capturing() {
				m.SetCapture(false)
				if err := w.Stop(); err != nil {
					return err
				}
				log.Print("capture stopped")
			} else {
				if err := w.Start(); err != nil {
					return err
				}
				m.SetCapture(true)
				log.Print("capture started")
			}
		case s := <-samples:
			if err := w.WriteSample(s); err != nil {
				return err
			}
			if live != nil {
				if err := live.Update(s.Power); err != nil {
					return err
				}
			}
			if *plotPath != "" {
				trace = append(trace, s)
			}
		}
	}

	if m.Capturing() {
		if err := w.Stop(); err != nil {
			return err
		}
	}
	if *plotPath != "" {
		opts := &powerplot.Opts{Title: fmt.Sprintf("%s rail power", b)}
		for _, r := range rails {
			opts.Labels = append(opts.Labels, r.String())
		}
		if err := powerplot.SavePNG(*plotPath, trace, opts); err != nil {
			return err
		}
		log.Printf("chart written to %s", *plotPath)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "railpower: %s.\n", err)
		os.Exit(1)
	}
}
