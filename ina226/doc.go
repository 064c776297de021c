// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ina226 reads calibrated power figures from the Texas Instruments
// INA226 current, voltage and power monitors fitted on the PS and PL rails
// of Xilinx ZCU102/ZCU106 evaluation boards.
//
// Both sensors answer on the same address and sit behind a TCA9548A I²C
// multiplexer, so every register access first routes the wanted rail to
// the bus. The per-board calibration register values and current LSBs are
// compiled in; they come from the Xilinx SCUI calibration data and the
// INA226 datasheet.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/ina226.pdf
package ina226
