// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mnaccari/txsim/pkg/nalu"
)

func TestAnnexB264RoundTrip(t *testing.T) {
	// Two NAL units: a 4-byte-start-code SPS, then a 3-byte-start-code
	// slice, with no trailing zero bytes after either.
	src := []byte{
		0, 0, 0, 1, 0x67, 0xAA, 0xBB,
		0, 0, 1, 0x61, 0xCC, 0xDD,
	}

	f := NewAnnexB264(bytes.NewReader(src), nil)

	u1, err := f.GetPacket()
	require.NoError(t, err)
	require.Equal(t, 4, u1.StartCodeLen)
	require.Equal(t, nalu.AVCTypeSPS, u1.AVCType)
	require.Equal(t, []byte{0x67, 0xAA, 0xBB}, u1.Payload)

	u2, err := f.GetPacket()
	require.NoError(t, err)
	require.Equal(t, 3, u2.StartCodeLen)
	require.Equal(t, nalu.AVCTypeSlice, u2.AVCType)
	require.Equal(t, []byte{0x61, 0xCC, 0xDD}, u2.Payload)

	_, err = f.GetPacket()
	require.ErrorIs(t, err, io.EOF)
}

func TestAnnexB264WritePacket(t *testing.T) {
	var out bytes.Buffer
	f := NewAnnexB264(nil, &out)

	u := &nalu.Unit{
		StartCodeLen: 4,
		ForbiddenBit: 0,
		RefIdc:       3,
		AVCType:      nalu.AVCTypeIDR,
		Payload:      []byte{0x00, 0xAA, 0xBB},
	}
	require.NoError(t, f.WritePacket(u))
	require.Equal(t, []byte{0, 0, 0, 1, 0x65, 0xAA, 0xBB}, out.Bytes())
}

func TestAnnexB264RejectsForbiddenBitOnWrite(t *testing.T) {
	var out bytes.Buffer
	f := NewAnnexB264(nil, &out)

	u := &nalu.Unit{StartCodeLen: 3, ForbiddenBit: 1, Payload: []byte{0x00}}
	require.ErrorIs(t, f.WritePacket(u), ErrForbiddenBit)
}

func TestAnnexB264AcceptsLeadingZerosOnFirstUnitOnly(t *testing.T) {
	// Extra zero bytes ahead of a start code (leading_zero_8bits) are only
	// legal before the very first NAL unit in the stream.
	src := []byte{
		0, 0, 0, 0, 0, 1, 0x67, 0xAA,
		0, 0, 1, 0x61, 0xBB,
	}
	f := NewAnnexB264(bytes.NewReader(src), nil)

	u1, err := f.GetPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x67, 0xAA}, u1.Payload)

	u2, err := f.GetPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x61, 0xBB}, u2.Payload)
}

func TestScanAnnexBRejectsLeadingZerosOnNonFirstUnit(t *testing.T) {
	// leading_zero_8bits is only legal ahead of the very first NAL unit of
	// the whole stream (spec.md §4.2 step 1, §8 Boundary Behaviors). The
	// two-call chain through GetPacket can never itself present this case
	// to a later unit, since the rewind after each detected start code
	// always hands the next call exactly the minimal 3- or 4-byte prefix
	// (see annexb_scan.go's trailingZeros trimming) — so this is exercised
	// directly against scanAnnexB with isFirstUnit already false, as the
	// original simulator's own defensive check on the syntax element
	// itself, independent of whether normal framing can reach it.
	src := []byte{0, 0, 0, 0, 1, 0x67, 0xAA}
	notFirst := false

	_, _, err := scanAnnexB(newByteSource(bytes.NewReader(src)), &notFirst)
	require.ErrorIs(t, err, ErrBadStartCode)
}
