// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package psmem

import "errors"

var (
	// ErrUnknownPPS is returned when a slice header references a pps id
	// that has never been seen.
	ErrUnknownPPS = errors.New("txsim.psmem: unknown pps id")

	// ErrUnknownSPS is returned when a pps references an sps id, or a
	// slice header (via its pps) references an sps id, that has never
	// been seen.
	ErrUnknownSPS = errors.New("txsim.psmem: unknown sps id")
)
