// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina226

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/zcutools/railpower/tca9548"
)

// DefaultAddr is the INA226 address with A0 and A1 tied to ground, used by
// every sensor on the supported boards.
const DefaultAddr uint16 = 0x40

// Register map.
const (
	regConfig         byte = 0x00
	regShuntVoltage   byte = 0x01
	regBusVoltage     byte = 0x02
	regPower          byte = 0x03
	regCurrent        byte = 0x04
	regCalibration    byte = 0x05
	regMaskEnable     byte = 0x06
	regAlertLimit     byte = 0x07
	regManufacturerID byte = 0xFE
	regDieID          byte = 0xFF
)

// Datasheet voltage register scaling.
const (
	busVoltageLSB   = 0.00125   // 1.25 mV / bit
	shuntVoltageLSB = 0.0000025 // 2.5 µV / bit
)

// The two supported bus clocks. Any other frequency passed to SetBusSpeed
// resolves to SlowSpeed.
const (
	FastSpeed = 400 * physic.KiloHertz
	SlowSpeed = 100 * physic.KiloHertz
)

var (
	ErrUnknownBoard = errors.New("ina226: unknown board")
	ErrInvalidRail  = errors.New("ina226: rail out of range")
	ErrInvalidAddr  = errors.New("ina226: address out of 0x40-0x4f range")
)

// Opts holds the construction options for the driver.
type Opts struct {
	// Addr is the sensor address. Both rails answer on the same address
	// since only one is routed to the bus at a time.
	Addr uint16
	// MuxAddr is the TCA9548A address in front of the sensors.
	MuxAddr uint16
}

// DefaultOpts addresses the sensors and the multiplexer the way the
// supported boards wire them.
var DefaultOpts = Opts{
	Addr:    DefaultAddr,
	MuxAddr: tca9548.DefaultAddr,
}

// Dev is a handle to the per-rail INA226 monitors of one board, reached
// through a TCA9548A multiplexer.
//
// The multiplexer routing is process-wide state: whichever rail was
// selected last stays connected. Dev therefore re-selects the rail before
// every register access and holds a lock across the select-plus-transfer
// pair, so concurrent callers cannot interleave a selection between
// another caller's selection and register transfer.
type Dev struct {
	board Board
	cfg   boardConfig
	bus   i2c.Bus
	mux   *tca9548.Dev

	mu sync.Mutex
	c  *i2c.Dev
}

// New returns a driver for the rails of board and calibrates every rail's
// sensor. Opts can be nil, in which case DefaultOpts is used.
//
// The bus is switched to the fast clock first; buses with a fixed clock
// keep their configured rate. Calibration writes the calibration register
// of each rail before New returns, so a calibration failure on any rail is
// returned as an error instead of leaving that rail silently uncalibrated.
func New(bus i2c.Bus, board Board, opts *Opts) (*Dev, error) {
	cfg, ok := boards[board]
	if !ok {
		return nil, ErrUnknownBoard
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Addr < 0x40 || opts.Addr > 0x4f {
		return nil, ErrInvalidAddr
	}
	mux, err := tca9548.New(bus, opts.MuxAddr)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		board: board,
		cfg:   cfg,
		bus:   bus,
		mux:   mux,
		c:     &i2c.Dev{Bus: bus, Addr: opts.Addr},
	}
	// Fixed-clock hosts (sysfs-i2c) reject SetSpeed; that is not fatal.
	_ = d.SetBusSpeed(FastSpeed)

	for _, rail := range board.Rails() {
		if err := d.selectRail(rail); err != nil {
			return nil, fmt.Errorf("ina226: selecting %s rail: %w", rail, err)
		}
		if err := d.writeReg(regCalibration, cfg.calibration[rail]); err != nil {
			return nil, fmt.Errorf("ina226: calibrating %s rail: %w", rail, err)
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("INA226{%s, %s}", d.board, d.c.String())
}

// ReadPower returns the latest power conversion of the rail in watts.
//
// On any failure it returns -1 along with the error: rail selection
// failing means no sensor is reliably routed to the bus, so the register
// is not touched at all. A failure is a missed sample, not a fault; the
// next call starts from a clean selection.
func (d *Dev) ReadPower(rail Rail) (float64, error) {
	if rail >= railCount {
		return -1, ErrInvalidRail
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.selectRail(rail); err != nil {
		return -1, fmt.Errorf("ina226: selecting %s rail: %w", rail, err)
	}
	raw, err := d.readReg(regPower)
	if err != nil {
		return -1, fmt.Errorf("ina226: reading %s power: %w", rail, err)
	}
	// Power LSB is 25 times the current LSB per the datasheet.
	return float64(raw) * d.cfg.currentLSB[rail] * 25.0, nil
}

// ReadCurrent returns the latest current conversion of the rail in
// amperes. The register is two's complement, negative for reverse flow.
func (d *Dev) ReadCurrent(rail Rail) (float64, error) {
	raw, err := d.readRailReg(rail, regCurrent)
	if err != nil {
		return -1, err
	}
	return float64(int16(raw)) * d.cfg.currentLSB[rail], nil
}

// ReadBusVoltage returns the rail's bus voltage in volts.
func (d *Dev) ReadBusVoltage(rail Rail) (float64, error) {
	raw, err := d.readRailReg(rail, regBusVoltage)
	if err != nil {
		return -1, err
	}
	return float64(raw) * busVoltageLSB, nil
}

// ReadShuntVoltage returns the rail's shunt voltage drop in volts.
func (d *Dev) ReadShuntVoltage(rail Rail) (float64, error) {
	raw, err := d.readRailReg(rail, regShuntVoltage)
	if err != nil {
		return -1, err
	}
	return float64(int16(raw)) * shuntVoltageLSB, nil
}

// ManufacturerID returns the fixed manufacturer identifier of the rail's
// sensor, 0x5449 ("TI") on genuine parts.
func (d *Dev) ManufacturerID(rail Rail) (uint16, error) {
	return d.readRailReg(rail, regManufacturerID)
}

// DieID returns the die identifier register of the rail's sensor.
func (d *Dev) DieID(rail Rail) (uint16, error) {
	return d.readRailReg(rail, regDieID)
}

// SetBusSpeed sets the shared bus clock. Exactly two clocks are supported:
// FastSpeed maps to 400kHz and every other frequency maps to the 100kHz
// SlowSpeed.
func (d *Dev) SetBusSpeed(f physic.Frequency) error {
	if f != FastSpeed {
		f = SlowSpeed
	}
	return d.bus.SetSpeed(f)
}

// SetAddr rebinds the driver to another sensor address for subsequent
// register accesses. Calibration is not redone: when addressing a
// different physical device the caller has to recalibrate it.
func (d *Dev) SetAddr(addr uint16) error {
	if addr < 0x40 || addr > 0x4f {
		return ErrInvalidAddr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.c = &i2c.Dev{Bus: d.bus, Addr: addr}
	return nil
}

// selectRail routes the rail's sensor to the bus using the board's
// channel encoding. Callers must hold d.mu around the selection and the
// register transfer that follows it.
func (d *Dev) selectRail(rail Rail) error {
	return d.mux.WriteControl(d.cfg.encoding.controlByte(rail))
}

func (d *Dev) readRailReg(rail Rail, reg byte) (uint16, error) {
	if rail >= railCount {
		return 0, ErrInvalidRail
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.selectRail(rail); err != nil {
		return 0, fmt.Errorf("ina226: selecting %s rail: %w", rail, err)
	}
	return d.readReg(reg)
}

// writeReg writes a 16-bit register, high byte first.
func (d *Dev) writeReg(reg byte, val uint16) error {
	return d.c.Tx([]byte{reg, byte(val >> 8), byte(val)}, nil)
}

// readReg reads a 16-bit register, assembled big-endian like it is sent
// on the wire.
func (d *Dev) readReg(reg byte) (uint16, error) {
	rx := make([]byte, 2)
	if err := d.c.Tx([]byte{reg}, rx); err != nil {
		return 0, err
	}
	return uint16(rx[0])<<8 | uint16(rx[1]), nil
}
