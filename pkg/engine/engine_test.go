// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package engine_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mnaccari/txsim/pkg/engine"
	"github.com/mnaccari/txsim/pkg/losspattern"
	"github.com/mnaccari/txsim/pkg/nalu"
)

// fakeAVCFramer hands out a scripted sequence of AVC units, with an
// optional constant timestamp, and records what got written.
type fakeAVCFramer struct {
	units     []*nalu.Unit
	pos       int
	timestamp int
	written   []*nalu.Unit
}

func (f *fakeAVCFramer) GetPacket() (*nalu.Unit, error) {
	if f.pos >= len(f.units) {
		return nil, io.EOF
	}
	u := f.units[f.pos]
	f.pos++
	return u, nil
}

func (f *fakeAVCFramer) WritePacket(u *nalu.Unit) error {
	f.written = append(f.written, u)
	return nil
}

func (f *fakeAVCFramer) Timestamp() int {
	return f.timestamp
}

func loadPattern(t *testing.T, contents string) *losspattern.Pattern {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	p, err := losspattern.Load(path, 0)
	require.NoError(t, err)
	return p
}

func sliceUnit(st nalu.SliceType) *nalu.Unit {
	return &nalu.Unit{
		AVCType: nalu.AVCTypeSlice,
		Payload: sliceTypePayload(st),
	}
}

// sliceTypePayload builds a minimal AVC slice NAL unit (header byte +
// exp-Golomb-coded first_mb_in_slice=0, slice_type=st) so
// avcsyntax.DecodeSliceType recovers st exactly.
func sliceTypePayload(st nalu.SliceType) []byte {
	switch st {
	case nalu.SliceTypeP: // n=0 -> ue "1"
		return []byte{0x00, 0b1_1_000000}
	case nalu.SliceTypeB: // n=1 -> ue "010"
		return []byte{0x00, 0b1_010_0000}
	case nalu.SliceTypeI: // n=2 -> ue "011"
		return []byte{0x00, 0b1_011_0000}
	default:
		return []byte{0x00, 0b1_011_0000}
	}
}

func TestRunAVCNormalModalityDropsOnLoss(t *testing.T) {
	f := &fakeAVCFramer{
		units: []*nalu.Unit{
			sliceUnit(nalu.SliceTypeP),
			sliceUnit(nalu.SliceTypeI),
		},
		timestamp: 1,
	}
	// The cursor wraps at len-1, so the final character is never consulted:
	// "100" drops the first unit and keeps the second.
	pattern := loadPattern(t, "100")

	require.NoError(t, engine.RunAVC(f, pattern, engine.ModalityNormal))
	require.Len(t, f.written, 1)
}

func TestRunAVCProtectAllButIntraForcesIntraThrough(t *testing.T) {
	f := &fakeAVCFramer{
		units: []*nalu.Unit{
			sliceUnit(nalu.SliceTypeI),
		},
		timestamp: 1,
	}
	pattern := loadPattern(t, "10")

	require.NoError(t, engine.RunAVC(f, pattern, engine.ModalityProtectAllButIntra))
	require.Len(t, f.written, 1)
}

func TestRunAVCTimestampZeroForcesWrite(t *testing.T) {
	f := &fakeAVCFramer{
		units: []*nalu.Unit{
			sliceUnit(nalu.SliceTypeP),
		},
		timestamp: 0,
	}
	pattern := loadPattern(t, "10")

	require.NoError(t, engine.RunAVC(f, pattern, engine.ModalityNormal))
	require.Len(t, f.written, 1)
}

func TestRunAVCNonVCLAlwaysForwarded(t *testing.T) {
	f := &fakeAVCFramer{
		units: []*nalu.Unit{
			{AVCType: nalu.AVCTypeSPS, Payload: []byte{0x67}},
		},
		timestamp: 1,
	}
	pattern := loadPattern(t, "1")

	require.NoError(t, engine.RunAVC(f, pattern, engine.ModalityNormal))
	require.Len(t, f.written, 1)
}

func TestRunAVCBadPatternCharDropsWithoutAdvancing(t *testing.T) {
	f := &fakeAVCFramer{
		units: []*nalu.Unit{
			sliceUnit(nalu.SliceTypeP),
			sliceUnit(nalu.SliceTypeP),
		},
		timestamp: 1,
	}
	// The cursor never moves off the stray 'x', so both units land on
	// the same malformed character and neither is written.
	pattern := loadPattern(t, "x0")

	require.NoError(t, engine.RunAVC(f, pattern, engine.ModalityNormal))
	require.Empty(t, f.written)
}

func TestModalityString(t *testing.T) {
	require.Equal(t, "all", engine.ModalityNormal.String())
	require.Equal(t, "all but intra", engine.ModalityProtectAllButIntra.String())
	require.Equal(t, "intra only", engine.ModalityProtectIntraOnly.String())
}
