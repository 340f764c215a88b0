// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import (
	"encoding/binary"
	"io"

	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazalog"

	"github.com/mnaccari/txsim/pkg/nalu"
)

// MaxRTPPacketSize bounds a single RTP packet (65536 minus a generous IP/UDP
// header allowance), matching the original simulator's MAXRTPPACKETSIZE.
const MaxRTPPacketSize = 65536 - 28

const (
	h26xPayloadType = 105
	h264SSRC        = 0x12345678
)

// RTP264 frames H.264 NAL units packed one-per-packet in the packet-file
// format: a little-endian (packlen uint32, timestamp int32) record header
// followed by a raw RTP packet (12-byte header + payload, one NAL unit
// per packet, no fragmentation/aggregation).
type RTP264 struct {
	r   io.Reader
	dst io.Writer

	lastTimestamp int

	seq       uint16
	timestamp uint32
}

// NewRTP264 constructs a framer reading from r and writing to w. Either
// may be nil if the framer is only used in the other direction.
func NewRTP264(r io.Reader, w io.Writer) *RTP264 {
	return &RTP264{r: r, dst: w}
}

// Timestamp returns the RTP header timestamp of the last packet read —
// the input stream's own per-access-unit clock value, not the writer's.
func (f *RTP264) Timestamp() int {
	return f.lastTimestamp
}

func (f *RTP264) GetPacket() (*nalu.Unit, error) {
	var lenBuf, tsBuf [4]byte

	if _, err := io.ReadFull(f.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	if _, err := io.ReadFull(f.r, tsBuf[:]); err != nil {
		return nil, ErrCorruptStream
	}

	packlen := binary.LittleEndian.Uint32(lenBuf[:])
	if packlen >= MaxRTPPacketSize || packlen < 12 {
		return nil, ErrCorruptStream
	}

	packet := make([]byte, packlen)
	if _, err := io.ReadFull(f.r, packet); err != nil {
		return nil, ErrCorruptStream
	}

	v := (packet[0] >> 6) & 0x03
	p := (packet[0] >> 5) & 0x01
	x := (packet[0] >> 4) & 0x01
	cc := packet[0] & 0x0f
	pt := packet[1] & 0x7f

	seq := bele.BeUint16(packet[2:4])
	timestamp := bele.BeUint32(packet[4:8])
	ssrc := bele.BeUint32(packet[8:12])

	if v != 2 || p != 0 || x != 0 || cc != 0 {
		dumpRTPHeader(packet, v, p, x, cc, pt, seq, timestamp, ssrc)
		return nil, ErrCorruptStream
	}
	if pt != h26xPayloadType {
		dumpRTPHeader(packet, v, p, x, cc, pt, seq, timestamp, ssrc)
		return nil, ErrCorruptStream
	}
	if ssrc != h264SSRC {
		dumpRTPHeader(packet, v, p, x, cc, pt, seq, timestamp, ssrc)
		return nil, ErrCorruptStream
	}

	payload := packet[12:]
	f.lastTimestamp = int(timestamp)

	u := &nalu.Unit{
		ForbiddenBit: int(payload[0]>>7) & 1,
		RefIdc:       int(payload[0]>>5) & 3,
		AVCType:      nalu.AVCType(payload[0] & 0x1f),
		Payload:      append([]byte(nil), payload...),
	}
	return u, nil
}

// dumpRTPHeader logs an incoming RTP packet's fixed header fields when
// validation rejects it, matching the original simulator's RTP header
// consistency dump on a corrupt packet.
func dumpRTPHeader(packet []byte, v, p, x, cc, pt byte, seq uint16, timestamp, ssrc uint32) {
	nazalog.Warnf("rtp264: bad header (%d bytes). v=%d p=%d x=%d cc=%d pt=%d seq=%d timestamp=%d ssrc=%x",
		len(packet), v, p, x, cc, pt, seq, timestamp, ssrc)
}

func (f *RTP264) WritePacket(u *nalu.Unit) error {
	if len(u.Payload) >= 65000 {
		return ErrNaluTooLarge
	}
	if u.ForbiddenBit != 0 {
		return ErrForbiddenBit
	}

	u.Payload[0] = byte(u.ForbiddenBit<<7 | u.RefIdc<<5 | int(u.AVCType))

	packet := make([]byte, 12+len(u.Payload))
	packet[0] = 0x02 << 6 // v=2, p=0, x=0, cc=0
	marker := byte(0)
	if u.StartCodeLen == 4 {
		marker = 1
	}
	packet[1] = marker<<7 | h26xPayloadType

	binary.BigEndian.PutUint16(packet[2:4], f.seq)
	f.seq++
	bele.BePutUint32(packet[4:8], f.timestamp)
	bele.BePutUint32(packet[8:12], h264SSRC)
	copy(packet[12:], u.Payload)

	var lenBuf, tsBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(packet)))
	var negOneTs int32 = -1
	binary.LittleEndian.PutUint32(tsBuf[:], uint32(negOneTs))

	if _, err := f.dst.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := f.dst.Write(tsBuf[:]); err != nil {
		return err
	}
	_, err := f.dst.Write(packet)
	return err
}
