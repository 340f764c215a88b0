// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package config

import "errors"

// ErrIncompleteConfig is returned when a configuration file has fewer
// valid lines than the simulator it's being read for requires.
var ErrIncompleteConfig = errors.New("txsim.config: configuration file is missing required lines")
