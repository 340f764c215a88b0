// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package avcsyntax implements the shallow H.264/AVC slice-header parse
// the loss-decision engine needs: just enough exp-Golomb decoding to pull
// the slice type out of a coded-slice NAL unit, without touching the rest
// of the slice header.
package avcsyntax

import (
	"github.com/mnaccari/txsim/pkg/bits"
	"github.com/mnaccari/txsim/pkg/nalu"
)

// DecodeSliceType reads first_mb_in_slice then slice_type from payload
// (the NAL unit's bytes, header byte included) and maps it onto the
// shared SliceType vocabulary. slice_type values greater than 4 indicate
// the "all slices of this type in the picture use this type" variant
// (5..9) and fold back onto 0..4.
func DecodeSliceType(payload []byte) (nalu.SliceType, error) {
	if len(payload) < 2 {
		return nalu.SliceTypeInvalid, ErrShortPayload
	}

	r := bits.NewReader(payload[1:])

	if _, err := r.ReadGolomb(); err != nil { // first_mb_in_slice, unused
		return nalu.SliceTypeInvalid, err
	}

	raw, err := r.ReadGolomb()
	if err != nil {
		return nalu.SliceTypeInvalid, err
	}

	if raw > 4 {
		raw -= 5
	}

	return nalu.SliceType(raw), nil
}
