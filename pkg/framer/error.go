// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import "errors"

var (
	// ErrBadStartCode covers every Annex B framing violation: a missing
	// leading 0x01 terminator, a start code shorter than 3 bytes, a
	// leading_zero_8bits run outside the first NAL unit, or a bad
	// start-code length handed to the writer.
	ErrBadStartCode = errors.New("txsim.framer: malformed annex b start code")

	// ErrNaluTooLarge is returned when a NAL unit would exceed MaxNaluSize.
	ErrNaluTooLarge = errors.New("txsim.framer: nal unit exceeds maximum size")

	// ErrCorruptStream covers RTP packet-file-format framing violations:
	// bad packet length, wrong payload type, or wrong SSRC.
	ErrCorruptStream = errors.New("txsim.framer: corrupt rtp packet stream")

	// ErrForbiddenBit is returned when a NAL unit scheduled for writing
	// has its forbidden_bit set — the original simulator treats this as
	// a programming error, never a recoverable input condition.
	ErrForbiddenBit = errors.New("txsim.framer: forbidden_bit must be zero on write")
)
