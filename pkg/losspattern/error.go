// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package losspattern

import "errors"

// ErrEmptyPattern is returned when the loss-pattern file is empty — there
// is no valid offset modulus and nothing to consult.
var ErrEmptyPattern = errors.New("txsim.losspattern: loss pattern file is empty")
