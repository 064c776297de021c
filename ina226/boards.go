// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina226

import "fmt"

// Board identifies the evaluation board the sensors are mounted on. It
// selects the calibration row and the multiplexer channel encoding.
type Board string

const (
	ZCU102 Board = "ZCU102" // Zynq UltraScale+ ZCU102. One-hot mux channels.
	ZCU106 Board = "ZCU106" // Zynq UltraScale+ ZCU106. Offset mux channels.
)

// Rail identifies a monitored supply rail, which is also the sensor's
// multiplexer channel index.
type Rail uint8

const (
	PS Rail = iota // processing system rail
	PL             // programmable logic rail

	railCount
)

func (r Rail) String() string {
	switch r {
	case PS:
		return "PS"
	case PL:
		return "PL"
	}
	return fmt.Sprintf("Rail(%d)", uint8(r))
}

// muxEncoding is how a board family maps a Rail to the multiplexer control
// byte. The ZCU102 wiring wants a one-hot channel mask while the ZCU106
// wiring wants the channel index offset by four.
type muxEncoding uint8

const (
	encodeOneHot muxEncoding = iota
	encodeOffset4
)

func (e muxEncoding) controlByte(r Rail) byte {
	if e == encodeOffset4 {
		return byte(r) + 0x04
	}
	return 1 << r
}

type boardConfig struct {
	// calibration is the value written to the calibration register of each
	// rail's sensor at construction, taken from the Xilinx SCUI data for
	// the board.
	calibration [railCount]uint16
	// currentLSB is the current per bit implied by each calibration value,
	// from the INA226 datasheet. The power register LSB is 25 times this.
	currentLSB [railCount]float64
	encoding   muxEncoding
}

var boards = map[Board]boardConfig{
	ZCU102: {
		calibration: [railCount]uint16{PS: 0x0D1B, PL: 0x0800},
		currentLSB:  [railCount]float64{PS: 0.0003052, PL: 0.0005},
		encoding:    encodeOneHot,
	},
	ZCU106: {
		calibration: [railCount]uint16{PS: 0x0800, PL: 0x0831},
		currentLSB:  [railCount]float64{PS: 0.00125, PL: 0.0012208},
		encoding:    encodeOffset4,
	},
}

// Rails returns the monitored rails of the board, in calibration order.
func (b Board) Rails() []Rail {
	return []Rail{PS, PL}
}
