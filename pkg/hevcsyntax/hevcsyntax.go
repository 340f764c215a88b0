// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package hevcsyntax implements the subset of H.265/HEVC RBSP syntax
// parsing the loss-decision engine needs: profile_tier_level, the reduced
// PPS/SPS records, and enough of the slice segment header to recover the
// slice type.
package hevcsyntax

import (
	"github.com/mnaccari/txsim/pkg/bits"
	"github.com/mnaccari/txsim/pkg/nalu"
	"github.com/mnaccari/txsim/pkg/psmem"
)

// Profile is the general_profile_idc value (Table A.2).
type Profile uint8

const (
	ProfileNone               Profile = 0
	ProfileMain               Profile = 1
	ProfileMain10             Profile = 2
	ProfileMainStillPicture   Profile = 3
	ProfileMainREXT           Profile = 4
	ProfileHighThroughputREXT Profile = 5
	ProfileMainSCC            Profile = 9
	ProfileHighThroughputSCC  Profile = 11
)

// ChromaFormat is the chroma_format_idc value.
type ChromaFormat uint8

const ChromaFormat444 ChromaFormat = 3

// u reads an unsigned n-bit value; named after the standard's u(n)
// descriptor, kept as a one-line wrapper purely for readability parity
// with the syntax tables it mirrors.
func u(r *bits.Reader, n uint32) (uint32, error) {
	return r.ReadBits(n)
}

// ue reads an Exponential-Golomb coded unsigned value.
func ue(r *bits.Reader) (uint32, error) {
	return r.ReadGolomb()
}

// profileTier parses the profile_tier() syntax structure shared by the
// general and sub-layer profile/tier/level information (Clause 7.3.3).
func profileTier(r *bits.Reader) error {
	var compat [32]bool

	if _, err := u(r, 2); err != nil { // profile_space
		return err
	}
	if _, err := u(r, 1); err != nil { // tier_flag
		return err
	}
	profileIdc, err := u(r, 5) // profile_idc
	if err != nil {
		return err
	}
	profile := Profile(profileIdc)

	for j := 0; j < 32; j++ {
		v, err := u(r, 1)
		if err != nil {
			return err
		}
		compat[j] = v != 0
	}

	if _, err := u(r, 1); err != nil { // progressive_source_flag
		return err
	}
	if _, err := u(r, 1); err != nil { // interlaced_source_flag
		return err
	}
	if _, err := u(r, 1); err != nil { // non_packed_constraint_flag
		return err
	}
	if _, err := u(r, 1); err != nil { // frame_only_constraint_flag
		return err
	}

	isREXT := profile == ProfileMainREXT || compat[ProfileMainREXT] ||
		profile == ProfileHighThroughputREXT || compat[ProfileHighThroughputREXT]
	isMain10 := profile == ProfileMain10 || compat[ProfileMain10]

	switch {
	case isREXT:
		for i := 0; i < 9; i++ { // max_12bit .. lower_bit_rate constraint flags
			if _, err := u(r, 1); err != nil {
				return err
			}
		}
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 2); err != nil {
			return err
		}
	case isMain10:
		if _, err := u(r, 7); err != nil {
			return err
		}
		if _, err := u(r, 1); err != nil { // one_picture_only_constraint_flag
			return err
		}
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 3); err != nil {
			return err
		}
	default:
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 16); err != nil {
			return err
		}
		if _, err := u(r, 11); err != nil {
			return err
		}
	}

	compatibilityCheck := compat[ProfileMain] || compat[ProfileMain10] ||
		compat[ProfileMainStillPicture] || compat[ProfileMainREXT] || compat[ProfileHighThroughputREXT]

	if (profile >= ProfileMain && profile <= ProfileHighThroughputREXT) || compatibilityCheck {
		if _, err := u(r, 1); err != nil { // inbld_flag
			return err
		}
	} else {
		if _, err := u(r, 1); err != nil { // reserved_zero_bit
			return err
		}
	}

	return nil
}

// profileTierLevel parses profile_tier_level() as specified in Clause
// 7.3.3, including the recursive per-sub-layer profile/tier/level data.
func profileTierLevel(r *bits.Reader, profilePresentFlag bool, maxSubLayersMinus1 uint32) error {
	var subLayerProfilePresent, subLayerLevelPresent [8]bool

	if profilePresentFlag {
		if err := profileTier(r); err != nil {
			return err
		}
	}
	if _, err := u(r, 8); err != nil { // general_level_idc
		return err
	}

	for i := uint32(0); i < maxSubLayersMinus1; i++ {
		p, err := u(r, 1)
		if err != nil {
			return err
		}
		l, err := u(r, 1)
		if err != nil {
			return err
		}
		subLayerProfilePresent[i] = p != 0
		subLayerLevelPresent[i] = l != 0
	}

	if maxSubLayersMinus1 > 0 {
		for i := maxSubLayersMinus1; i < 8; i++ {
			if _, err := u(r, 2); err != nil { // reserved_zero_2bits
				return err
			}
		}
	}

	for i := uint32(0); i < maxSubLayersMinus1; i++ {
		if subLayerProfilePresent[i] {
			if err := profileTier(r); err != nil {
				return err
			}
		}
		if subLayerLevelPresent[i] {
			if _, err := u(r, 8); err != nil { // sub_layer_level_idc[i]
				return err
			}
		}
	}

	return nil
}

// ParseReducedPPS parses the picture_parameter_set_rbsp() fields the
// engine needs (Clause 7.3.2.3.1), stopping right after
// num_extra_slice_header_bits.
func ParseReducedPPS(rbsp []byte) (psmem.ReducedPPS, error) {
	r := bits.NewReader(rbsp[2:]) // skip the 2-byte NAL unit header

	id, err := ue(r)
	if err != nil {
		return psmem.ReducedPPS{}, err
	}
	spsID, err := ue(r)
	if err != nil {
		return psmem.ReducedPPS{}, err
	}
	dep, err := u(r, 1)
	if err != nil {
		return psmem.ReducedPPS{}, err
	}
	if _, err := u(r, 1); err != nil { // output_flag_present_flag
		return psmem.ReducedPPS{}, err
	}
	extraBits, err := u(r, 3)
	if err != nil {
		return psmem.ReducedPPS{}, err
	}

	return psmem.ReducedPPS{
		ID:                            id,
		SPSID:                         spsID,
		DependentSliceSegmentsEnabled: dep != 0,
		NumExtraSliceHeaderBits:       uint8(extraBits),
	}, nil
}

// ParseReducedSPS parses the seq_parameter_set_rbsp() fields the engine
// needs (Clause 7.3.2.2.1), deriving the CTU width/height from the
// log2 coding-block-size fields.
func ParseReducedSPS(rbsp []byte) (psmem.ReducedSPS, error) {
	r := bits.NewReader(rbsp[2:]) // skip the 2-byte NAL unit header

	if _, err := u(r, 4); err != nil { // sps_video_parameter_set_id
		return psmem.ReducedSPS{}, err
	}
	maxSubLayersMinus1, err := u(r, 3)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}
	if _, err := u(r, 1); err != nil { // sps_temporal_id_nesting_flag
		return psmem.ReducedSPS{}, err
	}

	if err := profileTierLevel(r, true, maxSubLayersMinus1); err != nil {
		return psmem.ReducedSPS{}, err
	}

	id, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}

	chromaFormatIdc, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}
	if ChromaFormat(chromaFormatIdc) == ChromaFormat444 {
		if _, err := u(r, 1); err != nil { // separate_colour_plane_flag
			return psmem.ReducedSPS{}, err
		}
	}

	picWidth, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}
	picHeight, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}

	confWinFlag, err := u(r, 1)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}
	if confWinFlag != 0 {
		for i := 0; i < 4; i++ {
			if _, err := ue(r); err != nil {
				return psmem.ReducedSPS{}, err
			}
		}
	}

	if _, err := ue(r); err != nil { // bit_depth_luma_minus8
		return psmem.ReducedSPS{}, err
	}
	if _, err := ue(r); err != nil { // bit_depth_chroma_minus8
		return psmem.ReducedSPS{}, err
	}
	if _, err := ue(r); err != nil { // log2_max_pic_order_cnt_lsb_minus4
		return psmem.ReducedSPS{}, err
	}

	orderingInfoPresent, err := u(r, 1)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}

	start := maxSubLayersMinus1
	if orderingInfoPresent != 0 {
		start = 0
	}
	for i := start; i <= maxSubLayersMinus1; i++ {
		if _, err := ue(r); err != nil { // sps_max_dec_pic_buffering_minus1[i]
			return psmem.ReducedSPS{}, err
		}
		if _, err := ue(r); err != nil { // sps_max_num_reorder_pics[i]
			return psmem.ReducedSPS{}, err
		}
		if _, err := ue(r); err != nil { // sps_max_latency_increase_plus1[i]
			return psmem.ReducedSPS{}, err
		}
	}

	log2MinCbSizeMinus3, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}
	log2DiffMaxMinCbSize, err := ue(r)
	if err != nil {
		return psmem.ReducedSPS{}, err
	}

	log2MaxCuSize := log2MinCbSizeMinus3 + 3 + log2DiffMaxMinCbSize
	cuSize := uint32(1) << log2MaxCuSize

	return psmem.ReducedSPS{
		ID:                                id,
		PicWidthInLumaSamples:             picWidth,
		PicHeightInLumaSamples:            picHeight,
		Log2MinLumaCodingBlockSizeMinus3:  log2MinCbSizeMinus3,
		Log2DiffMaxMinLumaCodingBlockSize: log2DiffMaxMinCbSize,
		CUWidth:                           cuSize,
		CUHeight:                          cuSize,
	}, nil
}

// ParseSliceType parses just enough of the general slice segment header
// (Clause 7.3.6.1) to recover the slice type, consulting mem for the
// referenced PPS/SPS.
func ParseSliceType(rbsp []byte, nt nalu.HEVCType, mem *psmem.Memory) (nalu.SliceType, error) {
	r := bits.NewReader(rbsp[2:]) // skip the 2-byte NAL unit header

	firstSliceSegment, err := u(r, 1)
	if err != nil {
		return nalu.SliceTypeInvalid, err
	}

	if nt >= nalu.HEVCTypeBlaWLp && nt <= 23 {
		if _, err := u(r, 1); err != nil { // no_output_of_prior_pics_flag
			return nalu.SliceTypeInvalid, err
		}
	}

	ppsID, err := ue(r)
	if err != nil {
		return nalu.SliceTypeInvalid, err
	}
	pps, err := mem.PPS(ppsID)
	if err != nil {
		return nalu.SliceTypeInvalid, err
	}

	dependentSliceSegment := false

	if firstSliceSegment == 0 {
		if pps.DependentSliceSegmentsEnabled {
			flag, err := u(r, 1)
			if err != nil {
				return nalu.SliceTypeInvalid, err
			}
			dependentSliceSegment = flag != 0
		}

		sps, err := mem.SPS(pps.SPSID)
		if err != nil {
			return nalu.SliceTypeInvalid, err
		}

		totalCtus := ((sps.PicWidthInLumaSamples + sps.CUWidth - 1) / sps.CUWidth) *
			((sps.PicHeightInLumaSamples + sps.CUHeight - 1) / sps.CUHeight)

		var bitsSegAddress uint32
		for totalCtus > (1 << bitsSegAddress) {
			bitsSegAddress++
		}

		if _, err := u(r, bitsSegAddress); err != nil { // slice_segment_address
			return nalu.SliceTypeInvalid, err
		}
	}

	if dependentSliceSegment {
		return nalu.SliceTypeInvalid, nil
	}

	for i := uint8(0); i < pps.NumExtraSliceHeaderBits; i++ {
		if _, err := u(r, 1); err != nil { // slice_reserved_flag[i]
			return nalu.SliceTypeInvalid, err
		}
	}

	sliceTypeRaw, err := ue(r)
	if err != nil {
		return nalu.SliceTypeInvalid, err
	}

	// HEVC's SliceType enum is {B, P, I}, unlike AVC's {P, B, I, SP, SI} —
	// remap onto the shared vocabulary.
	switch sliceTypeRaw {
	case 0:
		return nalu.SliceTypeB, nil
	case 1:
		return nalu.SliceTypeP, nil
	case 2:
		return nalu.SliceTypeI, nil
	default:
		return nalu.SliceTypeInvalid, nil
	}
}
