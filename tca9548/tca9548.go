// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tca9548 controls a Texas Instruments TCA9548A 8-channel I²C
// switch.
//
// The switch routes the upstream I²C bus to any subset of its eight
// downstream channels. Routing is sticky: a selected channel stays
// electrically connected until the next control-register write, so every
// transaction intended for a different downstream device must be preceded
// by a new Select. Devices behind unselected channels are unreachable.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/tca9548a.pdf
package tca9548

import (
	"errors"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the address with all three address pins pulled high, as
// wired on the ZCU102/ZCU106 evaluation boards.
const DefaultAddr uint16 = 0x75

var (
	ErrInvalidAddress = errors.New("tca9548: address out of 0x70-0x77 range")
	ErrInvalidChannel = errors.New("tca9548: channel out of 0-7 range")
)

// Dev is a handle to a TCA9548A on an I²C bus.
type Dev struct {
	c *i2c.Dev
}

// New returns a handle to the switch at addr. The three hardware address
// pins give the part a 0x70-0x77 range; anything else is rejected.
//
// No transaction is performed: the control register is write-only state
// that callers set through Select or WriteControl.
func New(bus i2c.Bus, addr uint16) (*Dev, error) {
	if addr < 0x70 || addr > 0x77 {
		return nil, ErrInvalidAddress
	}
	return &Dev{c: &i2c.Dev{Bus: bus, Addr: addr}}, nil
}

func (d *Dev) String() string {
	return "TCA9548A{" + d.c.String() + "}"
}

// Select routes exactly one downstream channel (0-7) to the upstream bus,
// disconnecting all others.
func (d *Dev) Select(channel uint8) error {
	if channel > 7 {
		return ErrInvalidChannel
	}
	return d.WriteControl(1 << channel)
}

// WriteControl writes a raw control byte. Each bit enables one channel, so
// values other than a single set bit connect several channels at once.
// Board families that drive the switch with a non-one-hot encoding use
// this entry point directly.
func (d *Dev) WriteControl(b byte) error {
	return d.c.Tx([]byte{b}, nil)
}

// ReadControl reads back the control register.
func (d *Dev) ReadControl() (byte, error) {
	rx := make([]byte, 1)
	if err := d.c.Tx(nil, rx); err != nil {
		return 0, err
	}
	return rx[0], nil
}

// DisableAll disconnects every downstream channel. Useful to park the
// switch when several TCA9548A share address-conflicting devices.
func (d *Dev) DisableAll() error {
	return d.WriteControl(0)
}

// Halt implements conn.Resource. It disconnects all channels.
func (d *Dev) Halt() error {
	return d.DisableAll()
}
