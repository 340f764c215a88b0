// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package framer

import "io"

// scanAnnexB pulls one Annex B NAL unit (the bytes strictly between two
// start codes, start code itself excluded) out of src. isFirstUnit tracks
// whether this is the very first unit read from the stream: only the
// first unit is allowed leading zero bytes ahead of its start code (RFC
// "leading_zero_8bits"); every later one treats such zeros as the
// previous unit's trailing padding and rejects them.
//
// Bytes read past the NAL unit's end while probing for the next start
// code are handed back to src via pushback, so the caller never needs to
// seek the underlying file.
func scanAnnexB(src *byteSource, isFirstUnit *bool) (payload []byte, startCodeLen int, err error) {
	var buf []byte

	for {
		c, ok := src.readByte()
		if !ok {
			if len(buf) == 0 {
				return nil, 0, io.EOF
			}
			return nil, 0, ErrBadStartCode
		}
		buf = append(buf, c)
		if c != 0 {
			break
		}
		if len(buf) >= MaxNaluSize {
			return nil, 0, ErrNaluTooLarge
		}
	}

	if buf[len(buf)-1] != 1 {
		return nil, 0, ErrBadStartCode
	}
	if len(buf) < 3 {
		return nil, 0, ErrBadStartCode
	}

	var leadingZero8Count int
	if len(buf) == 3 {
		startCodeLen = 3
		leadingZero8Count = 0
	} else {
		leadingZero8Count = len(buf) - 4
		startCodeLen = 4
	}

	if !*isFirstUnit && leadingZero8Count > 0 {
		return nil, 0, ErrBadStartCode
	}
	*isFirstUnit = false

	for {
		c, ok := src.readByte()
		if !ok {
			trailingZeros := 0
			for len(buf)-1-trailingZeros >= 0 && buf[len(buf)-1-trailingZeros] == 0 {
				trailingZeros++
			}
			naluLen := len(buf) - startCodeLen - leadingZero8Count - trailingZeros
			out := make([]byte, naluLen)
			copy(out, buf[leadingZero8Count+startCodeLen:leadingZero8Count+startCodeLen+naluLen])
			return out, startCodeLen, nil
		}
		buf = append(buf, c)
		if len(buf) >= MaxNaluSize {
			return nil, 0, ErrNaluTooLarge
		}

		info3 := findStartCode(buf[len(buf)-4:], 3)
		info2 := false
		if !info3 {
			info2 = findStartCode(buf[len(buf)-3:], 2)
		}
		if !info2 && !info3 {
			continue
		}

		rewind := -3
		trailingZeros := 0
		if info3 {
			rewind = -4
			for buf[len(buf)-5-trailingZeros] == 0 {
				trailingZeros++
			}
		}

		naluLen := (len(buf) + rewind) - startCodeLen - leadingZero8Count - trailingZeros
		out := make([]byte, naluLen)
		copy(out, buf[leadingZero8Count+startCodeLen:leadingZero8Count+startCodeLen+naluLen])

		src.pushback(buf[len(buf)+rewind:])

		return out, startCodeLen, nil
	}
}

// findStartCode reports whether buf begins with zeros zero bytes followed
// by a single 0x01 byte.
func findStartCode(buf []byte, zeros int) bool {
	if len(buf) < zeros+1 {
		return false
	}
	for i := 0; i < zeros; i++ {
		if buf[i] != 0 {
			return false
		}
	}
	return buf[zeros] == 1
}

// writeAnnexB writes a start code (3 or 4 bytes, per startCodeLen)
// followed by payload (the reconstructed header byte(s) plus the rest of
// the NAL unit) to w.
func writeAnnexB(w io.Writer, startCodeLen int, payload []byte) error {
	if startCodeLen != 3 && startCodeLen != 4 {
		return ErrBadStartCode
	}
	code := []byte{0, 0, 1}
	if startCodeLen == 4 {
		code = []byte{0, 0, 0, 1}
	}
	if _, err := w.Write(code); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
