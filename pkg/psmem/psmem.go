// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package psmem holds the reduced HEVC parameter-set records (SPS/PPS)
// that the slice-header parser needs, keyed by their id and replaced
// whenever a later NAL unit redefines the same id.
package psmem

import "github.com/q191201771/naza/pkg/nazaerrors"

// ReducedPPS carries only the PPS fields the slice-header parser needs.
type ReducedPPS struct {
	ID                              uint32
	SPSID                           uint32
	DependentSliceSegmentsEnabled   bool
	NumExtraSliceHeaderBits         uint8
}

// ReducedSPS carries only the SPS fields the slice-header parser needs.
type ReducedSPS struct {
	ID                                uint32
	PicWidthInLumaSamples             uint32
	PicHeightInLumaSamples            uint32
	Log2MinLumaCodingBlockSizeMinus3  uint32
	Log2DiffMaxMinLumaCodingBlockSize uint32
	CUWidth                           uint32
	CUHeight                          uint32
}

// Memory is the parameter-set memory: the latest PPS/SPS seen for each id,
// overwritten in place whenever a NAL unit redefines that id.
type Memory struct {
	pps map[uint32]ReducedPPS
	sps map[uint32]ReducedSPS
}

// New returns an empty parameter-set memory.
func New() *Memory {
	return &Memory{
		pps: make(map[uint32]ReducedPPS),
		sps: make(map[uint32]ReducedSPS),
	}
}

// PutPPS stores or replaces a PPS record.
func (m *Memory) PutPPS(p ReducedPPS) {
	m.pps[p.ID] = p
}

// PutSPS stores or replaces an SPS record.
func (m *Memory) PutSPS(s ReducedSPS) {
	m.sps[s.ID] = s
}

// PPS looks up a PPS by id.
func (m *Memory) PPS(id uint32) (ReducedPPS, error) {
	p, ok := m.pps[id]
	if !ok {
		return ReducedPPS{}, nazaerrors.Wrap(ErrUnknownPPS)
	}
	return p, nil
}

// SPS looks up an SPS by id.
func (m *Memory) SPS(id uint32) (ReducedSPS, error) {
	s, ok := m.sps[id]
	if !ok {
		return ReducedSPS{}, nazaerrors.Wrap(ErrUnknownSPS)
	}
	return s, nil
}
