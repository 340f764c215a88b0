// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import (
	"io"

	"github.com/mnaccari/txsim/pkg/nalu"
	"github.com/mnaccari/txsim/pkg/rbsp"
)

// AnnexB265 frames an H.265 Annex B byte stream: one NAL unit per start
// code, 2-byte NAL header (forbidden_bit | nal_unit_type | layer/temporal
// id fields, of which only the type is tracked here).
type AnnexB265 struct {
	src         *byteSource
	dst         io.Writer
	isFirstUnit bool
}

// NewAnnexB265 constructs a framer reading from r and writing to w. Either
// may be nil if the framer is only used in the other direction.
func NewAnnexB265(r io.Reader, w io.Writer) *AnnexB265 {
	f := &AnnexB265{dst: w, isFirstUnit: true}
	if r != nil {
		f.src = newByteSource(r)
	}
	return f
}

func (f *AnnexB265) GetPacket() (*nalu.Unit, error) {
	payload, startCodeLen, err := scanAnnexB(f.src, &f.isFirstUnit)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, ErrBadStartCode
	}

	u := &nalu.Unit{
		StartCodeLen: startCodeLen,
		ForbiddenBit: int(payload[0]>>7) & 1,
		HEVCType:     nalu.HEVCType((payload[0] & 0x7e) >> 1),
		Payload:      payload,
	}
	u.RBSP = rbsp.ToRBSP(payload)

	return u, nil
}

func (f *AnnexB265) WritePacket(u *nalu.Unit) error {
	if u.ForbiddenBit != 0 {
		return ErrForbiddenBit
	}
	u.Payload[0] = byte(u.ForbiddenBit<<7 | int(u.HEVCType)<<1)
	return writeAnnexB(f.dst, u.StartCodeLen, u.Payload)
}
