// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import (
	"io"

	"github.com/mnaccari/txsim/pkg/nalu"
)

// AnnexB264 frames an H.264 Annex B byte stream: one NAL unit per start
// code, 1-byte NAL header (forbidden_bit | nal_ref_idc | nal_unit_type).
type AnnexB264 struct {
	src          *byteSource
	dst          io.Writer
	isFirstUnit  bool
}

// NewAnnexB264 constructs a framer reading from r and writing to w. Either
// may be nil if the framer is only used in the other direction.
func NewAnnexB264(r io.Reader, w io.Writer) *AnnexB264 {
	f := &AnnexB264{dst: w, isFirstUnit: true}
	if r != nil {
		f.src = newByteSource(r)
	}
	return f
}

// Timestamp always returns a non-zero placeholder: Annex B carries no RTP
// timestamp, so the H.264 timestamp==0 force-emit quirk never fires here.
func (f *AnnexB264) Timestamp() int {
	return 1
}

func (f *AnnexB264) GetPacket() (*nalu.Unit, error) {
	payload, startCodeLen, err := scanAnnexB(f.src, &f.isFirstUnit)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, ErrBadStartCode
	}

	u := &nalu.Unit{
		StartCodeLen: startCodeLen,
		ForbiddenBit: int(payload[0]>>7) & 1,
		RefIdc:       int(payload[0]>>5) & 3,
		AVCType:      nalu.AVCType(payload[0] & 0x1f),
		Payload:      payload,
	}
	return u, nil
}

func (f *AnnexB264) WritePacket(u *nalu.Unit) error {
	if u.ForbiddenBit != 0 {
		return ErrForbiddenBit
	}
	u.Payload[0] = byte(u.ForbiddenBit<<7 | u.RefIdc<<5 | int(u.AVCType))
	return writeAnnexB(f.dst, u.StartCodeLen, u.Payload)
}
