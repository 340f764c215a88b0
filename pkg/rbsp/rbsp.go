// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package rbsp converts an HEVC EBSP NAL unit payload into its RBSP form
// by stripping emulation prevention bytes (0x03 following two 0x00 bytes).
package rbsp

// ToRBSP strips emulation prevention bytes from buf, returning a new slice.
// A zero_count of two consecutive 0x00 bytes followed by 0x03 drops the
// 0x03 byte and resets the run; everything else is copied through as-is.
func ToRBSP(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	zeroCount := 0

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if zeroCount == 2 && b == 0x03 {
			zeroCount = 0
			i++
			if i == len(buf) {
				break
			}
			b = buf[i]
		}
		if b == 0x00 {
			zeroCount++
		} else {
			zeroCount = 0
		}
		out = append(out, b)
	}

	return out
}
