// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package engine drives the per-NAL-unit loss decision: for every packet
// pulled from a framer.Framer it decides, against the active corruption
// modality and the loss pattern's cursor, whether to forward the packet
// to the transmitted bitstream or drop it.
//
// AVC and HEVC run genuinely different state machines here, inherited
// verbatim from the two original simulators: the HEVC loop only ever
// advances the loss-pattern cursor for VCL NAL units, while the AVC loop
// advances it for almost every unit it pulls, VCL or not, and additionally
// forces a write whenever the current packet's timestamp is zero. These
// are kept as two separate run loops rather than unified into one,
// because unifying them would silently change either codec's behaviour.
package engine

import (
	"encoding/hex"
	"io"

	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"

	"github.com/mnaccari/txsim/pkg/avcsyntax"
	"github.com/mnaccari/txsim/pkg/framer"
	"github.com/mnaccari/txsim/pkg/hevcsyntax"
	"github.com/mnaccari/txsim/pkg/losspattern"
	"github.com/mnaccari/txsim/pkg/nalu"
	"github.com/mnaccari/txsim/pkg/psmem"
)

// Modality selects which slices the engine is willing to protect from an
// otherwise-lost packet.
type Modality int

const (
	// ModalityNormal applies the loss pattern as-is: no slice is protected.
	ModalityNormal Modality = 0

	// ModalityProtectAllButIntra forces every intra (I) slice through even
	// when the loss pattern calls for dropping it.
	ModalityProtectAllButIntra Modality = 1

	// ModalityProtectIntraOnly forces every non-intra slice through even
	// when the loss pattern calls for dropping it.
	ModalityProtectIntraOnly Modality = 2
)

func (m Modality) String() string {
	switch m {
	case ModalityNormal:
		return "all"
	case ModalityProtectAllButIntra:
		return "all but intra"
	case ModalityProtectIntraOnly:
		return "intra only"
	default:
		return "unknown"
	}
}

// timestamper is implemented by framers that carry a real per-packet
// timestamp (framer.RTP264) or a constant placeholder (framer.AnnexB264).
// HEVC framers don't need it: the HEVC state machine has no timestamp
// concept at all.
type timestamper interface {
	Timestamp() int
}

// writeable reports whether modality forces a write for a slice of type
// st even though the loss pattern would otherwise drop it.
func writeable(modality Modality, st nalu.SliceType) bool {
	switch modality {
	case ModalityProtectAllButIntra:
		return st == nalu.SliceTypeI
	case ModalityProtectIntraOnly:
		return st != nalu.SliceTypeI
	default:
		return false
	}
}

// RunAVC transmits one H.264 bitstream through f, consulting pattern to
// decide which VCL units to drop. f is read and written through the same
// framer instance, so its GetPacket/WritePacket pair must share state
// consistent with a single packetization (Annex B or RTP).
func RunAVC(f framer.Framer, pattern *losspattern.Pattern, modality Modality) error {
	ts, hasTimestamp := f.(timestamper)

	for {
		u, err := f.GetPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return nazaerrors.Wrap(err)
		}

		isVCL := u.AVCType.IsVCL()
		if isVCL {
			st, err := avcsyntax.DecodeSliceType(u.Payload)
			if err != nil {
				nazalog.Errorf("engine: decode slice type failed. err=%+v, payload=%s",
					err, hex.Dump(nazabytes.Prefix(u.Payload, 128)))
				return nazaerrors.Wrap(err)
			}
			u.SliceType = st
		}

		timestamp := 1
		if hasTimestamp {
			timestamp = ts.Timestamp()
		}

		switch {
		case timestamp == 0 || !isVCL:
			if err := f.WritePacket(u); err != nil {
				return nazaerrors.Wrap(err)
			}
			pattern.Advance()
		default:
			switch pattern.Decide() {
			case losspattern.DecisionKeep:
				if err := f.WritePacket(u); err != nil {
					return nazaerrors.Wrap(err)
				}
				pattern.Advance()
			case losspattern.DecisionDrop:
				if writeable(modality, u.SliceType) {
					if err := f.WritePacket(u); err != nil {
						return nazaerrors.Wrap(err)
					}
				} else {
					pattern.Advance()
				}
			case losspattern.DecisionInvalid:
				// Malformed pattern character: Decide already warned.
				// Neither emit nor advance, matching the original
				// simulator's final else branch.
			}
		}
	}
}

// RunHEVC transmits one H.265 bitstream through f, consulting pattern to
// decide which VCL units to drop and mem to remember the parameter sets
// the slice-type decoder needs.
func RunHEVC(f framer.Framer, pattern *losspattern.Pattern, modality Modality, mem *psmem.Memory) error {
	for {
		u, err := f.GetPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return nazaerrors.Wrap(err)
		}

		if u.HEVCType.IsSPS() {
			sps, err := hevcsyntax.ParseReducedSPS(u.RBSP)
			if err != nil {
				nazalog.Errorf("engine: parse SPS failed. err=%+v, rbsp=%s",
					err, hex.Dump(nazabytes.Prefix(u.RBSP, 128)))
				return nazaerrors.Wrap(err)
			}
			mem.PutSPS(sps)
		}
		if u.HEVCType.IsPPS() {
			pps, err := hevcsyntax.ParseReducedPPS(u.RBSP)
			if err != nil {
				nazalog.Errorf("engine: parse PPS failed. err=%+v, rbsp=%s",
					err, hex.Dump(nazabytes.Prefix(u.RBSP, 128)))
				return nazaerrors.Wrap(err)
			}
			mem.PutPPS(pps)
		}
		if u.HEVCType.IsSlice() {
			st, err := hevcsyntax.ParseSliceType(u.RBSP, u.HEVCType, mem)
			if err != nil {
				nazalog.Errorf("engine: decode slice type failed. err=%+v, rbsp=%s",
					err, hex.Dump(nazabytes.Prefix(u.RBSP, 128)))
				return nazaerrors.Wrap(err)
			}
			u.SliceType = st
		}

		switch {
		case !u.HEVCType.IsVCL():
			if err := f.WritePacket(u); err != nil {
				return nazaerrors.Wrap(err)
			}
		default:
			switch pattern.Decide() {
			case losspattern.DecisionKeep:
				if err := f.WritePacket(u); err != nil {
					return nazaerrors.Wrap(err)
				}
				pattern.Advance()
			case losspattern.DecisionDrop:
				if writeable(modality, u.SliceType) {
					if err := f.WritePacket(u); err != nil {
						return nazaerrors.Wrap(err)
					}
				} else {
					pattern.Advance()
				}
			case losspattern.DecisionInvalid:
				// Malformed pattern character: Decide already warned.
				// Neither emit nor advance, matching the original
				// simulator's final else branch.
			}
		}
	}
}
