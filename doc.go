// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package railpower is a container for the drivers and tooling used to
// monitor PS and PL rail power on Xilinx ZCU102/ZCU106 evaluation boards:
// the tca9548 multiplexer and ina226 monitor drivers, the powerlog
// acquisition loop, and the powerbar and powerplot output sinks.
package railpower
