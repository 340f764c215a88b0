// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package framer implements the three packet framings the simulator
// supports: H.264 Annex B, H.264 RTP packet-file-format, and H.265 Annex
// B. Each framer pulls one NAL unit at a time from an input file and
// writes one NAL unit at a time to an output file, hiding the
// packetization detail from the loss-decision engine (pkg/engine).
package framer

import (
	"bufio"
	"io"

	"github.com/mnaccari/txsim/pkg/nalu"
)

// MaxNaluSize is the default maximum NAL unit size the framer will
// buffer, matching the original simulator's fixed 8,000,000-byte allocation.
const MaxNaluSize = 8 * 1000 * 1000

// Framer is implemented by each of the three packet formats. GetPacket
// returns io.EOF (with a nil Unit) once the input is exhausted.
type Framer interface {
	GetPacket() (*nalu.Unit, error)
	WritePacket(u *nalu.Unit) error
}

// byteSource wraps a buffered reader with a small pushback queue, so a
// framer that over-reads while looking for the next start code can hand
// the surplus bytes back instead of seeking the underlying file.
type byteSource struct {
	r       *bufio.Reader
	pending []byte
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: bufio.NewReaderSize(r, 64*1024)}
}

// readByte returns the next byte and true, or 0 and false at EOF.
func (b *byteSource) readByte() (byte, bool) {
	if len(b.pending) > 0 {
		c := b.pending[0]
		b.pending = b.pending[1:]
		return c, true
	}
	c, err := b.r.ReadByte()
	if err != nil {
		return 0, false
	}
	return c, true
}

// pushback returns bs to the front of the stream, to be re-read by the
// next readByte calls, in order.
func (b *byteSource) pushback(bs []byte) {
	if len(bs) == 0 {
		return
	}
	merged := make([]byte, 0, len(bs)+len(b.pending))
	merged = append(merged, bs...)
	merged = append(merged, b.pending...)
	b.pending = merged
}
