// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package bits

import "errors"

var (
	// ErrTooManyBits is returned when a single ReadBits call asks for more
	// than 32 bits, which the held-register accumulator cannot hold.
	ErrTooManyBits = errors.New("txsim.bits: cannot read more than 32 bits in one call")

	// ErrShortBuffer is returned when the underlying buffer runs out before
	// the requested number of bits could be produced.
	ErrShortBuffer = errors.New("txsim.bits: buffer exhausted while reading bits")
)
