// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package nalu holds the NAL unit data model shared by the AVC and HEVC
// packet framers: unit-type enumerations, the NalUnit record itself, and
// the VCL/non-VCL classification the loss-decision engine consults.
package nalu

import "fmt"

// AVCType is a H.264/AVC nal_unit_type value (Annex B / Table 7-1).
type AVCType uint8

const (
	AVCTypeSlice  AVCType = 1
	AVCTypeDPA    AVCType = 2
	AVCTypeDPB    AVCType = 3
	AVCTypeDPC    AVCType = 4
	AVCTypeIDR    AVCType = 5
	AVCTypeSEI    AVCType = 6
	AVCTypeSPS    AVCType = 7
	AVCTypePPS    AVCType = 8
	AVCTypeAUD    AVCType = 9
	AVCTypeEOSeq  AVCType = 10
	AVCTypeEOStr  AVCType = 11
	AVCTypeFiller AVCType = 12
	AVCTypePrefix AVCType = 14
	AVCTypeSubSPS AVCType = 15
	AVCTypeSlcExt AVCType = 20
	AVCTypeVDRD   AVCType = 24
)

var avcTypeNames = map[AVCType]string{
	AVCTypeSlice:  "slice",
	AVCTypeDPA:    "dpa",
	AVCTypeDPB:    "dpb",
	AVCTypeDPC:    "dpc",
	AVCTypeIDR:    "idr",
	AVCTypeSEI:    "sei",
	AVCTypeSPS:    "sps",
	AVCTypePPS:    "pps",
	AVCTypeAUD:    "aud",
	AVCTypeEOSeq:  "end_of_seq",
	AVCTypeEOStr:  "end_of_stream",
	AVCTypeFiller: "filler",
	AVCTypePrefix: "prefix",
	AVCTypeSubSPS: "subset_sps",
	AVCTypeSlcExt: "slice_ext",
	AVCTypeVDRD:   "vdrd",
}

// String returns a readable name for logging, matching the teacher's
// NaluUintTypeMapping convention.
func (t AVCType) String() string {
	if s, ok := avcTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// IsVCL reports whether t is a Video Coding Layer NAL unit type. Per the
// original simulator, only types 1..5 (coded slice data) carry video
// payload; everything above is a non-VCL unit (parameter sets, SEI, etc.)
// and is always forwarded.
func (t AVCType) IsVCL() bool {
	return t >= AVCTypeSlice && t <= AVCTypeIDR
}

// HEVCType is a H.265/HEVC nal_unit_type value (Annex B / Table 7-1).
type HEVCType uint8

const (
	HEVCTypeTrailN HEVCType = 0
	HEVCTypeTrailR HEVCType = 1
	HEVCTypeTsaN   HEVCType = 2
	HEVCTypeTsaR   HEVCType = 3
	HEVCTypeStsaN  HEVCType = 4
	HEVCTypeStsaR  HEVCType = 5
	HEVCTypeRadlN  HEVCType = 6
	HEVCTypeRadlR  HEVCType = 7
	HEVCTypeRaslN  HEVCType = 8
	HEVCTypeRaslR  HEVCType = 9

	HEVCTypeBlaWLp   HEVCType = 16
	HEVCTypeBlaWRadl HEVCType = 17
	HEVCTypeBlaNLp   HEVCType = 18
	HEVCTypeIdrWRadl HEVCType = 19
	HEVCTypeIdrNLp   HEVCType = 20
	HEVCTypeCra      HEVCType = 21

	HEVCTypeVPS       HEVCType = 32
	HEVCTypeSPS       HEVCType = 33
	HEVCTypePPS       HEVCType = 34
	HEVCTypeAUD       HEVCType = 35
	HEVCTypeEOS       HEVCType = 36
	HEVCTypeEOB       HEVCType = 37
	HEVCTypeFiller    HEVCType = 38
	HEVCTypePrefixSEI HEVCType = 39
	HEVCTypeSuffixSEI HEVCType = 40
)

var hevcTypeNames = map[HEVCType]string{
	HEVCTypeTrailN: "trail_n", HEVCTypeTrailR: "trail_r",
	HEVCTypeTsaN: "tsa_n", HEVCTypeTsaR: "tsa_r",
	HEVCTypeStsaN: "stsa_n", HEVCTypeStsaR: "stsa_r",
	HEVCTypeRadlN: "radl_n", HEVCTypeRadlR: "radl_r",
	HEVCTypeRaslN: "rasl_n", HEVCTypeRaslR: "rasl_r",
	HEVCTypeBlaWLp: "bla_w_lp", HEVCTypeBlaWRadl: "bla_w_radl", HEVCTypeBlaNLp: "bla_n_lp",
	HEVCTypeIdrWRadl: "idr_w_radl", HEVCTypeIdrNLp: "idr_n_lp", HEVCTypeCra: "cra",
	HEVCTypeVPS: "vps", HEVCTypeSPS: "sps", HEVCTypePPS: "pps", HEVCTypeAUD: "aud",
	HEVCTypeEOS: "eos", HEVCTypeEOB: "eob", HEVCTypeFiller: "filler",
	HEVCTypePrefixSEI: "prefix_sei", HEVCTypeSuffixSEI: "suffix_sei",
}

// String returns a readable name for logging, falling back to the raw
// numeric type for the reserved/unspecified ranges the table doesn't name.
func (t HEVCType) String() string {
	if s, ok := hevcTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// IsVCL reports whether t is a Video Coding Layer NAL unit type (0..31).
func (t HEVCType) IsVCL() bool {
	return t < 32
}

// IsSlice reports whether t carries coded slice segment data — i.e. every
// VCL type except the reserved ranges 10-15, 22-23, 24-31.
func (t HEVCType) IsSlice() bool {
	switch t {
	case HEVCTypeTrailN, HEVCTypeTrailR,
		HEVCTypeTsaN, HEVCTypeTsaR,
		HEVCTypeStsaN, HEVCTypeStsaR,
		HEVCTypeRadlN, HEVCTypeRadlR,
		HEVCTypeRaslN, HEVCTypeRaslR,
		HEVCTypeBlaWLp, HEVCTypeBlaWRadl, HEVCTypeBlaNLp,
		HEVCTypeIdrWRadl, HEVCTypeIdrNLp, HEVCTypeCra:
		return true
	}
	return false
}

func (t HEVCType) IsSPS() bool { return t == HEVCTypeSPS }
func (t HEVCType) IsPPS() bool { return t == HEVCTypePPS }

// SliceType is the coded slice type decoded from the slice header (both
// codecs share the underlying B/P/I/… vocabulary, with a different
// numeric mapping per codec — see avcsyntax/hevcsyntax).
type SliceType int

const (
	SliceTypeP SliceType = iota
	SliceTypeB
	SliceTypeI
	SliceTypeSP
	SliceTypeSI
	SliceTypeInvalid
)

func (s SliceType) String() string {
	switch s {
	case SliceTypeP:
		return "P"
	case SliceTypeB:
		return "B"
	case SliceTypeI:
		return "I"
	case SliceTypeSP:
		return "SP"
	case SliceTypeSI:
		return "SI"
	default:
		return "invalid"
	}
}

// Unit is a single NAL unit pulled from the bitstream: its framing
// metadata (start-code length, forbidden bit) plus the payload bytes
// (first byte followed by the EBSP, exactly as read off the wire).
type Unit struct {
	StartCodeLen  int
	ForbiddenBit  int
	RefIdc        int // AVC only; unused for HEVC
	AVCType       AVCType
	HEVCType      HEVCType
	Payload       []byte // first byte(s) of the NAL header followed by EBSP
	RBSP          []byte // emulation-prevention-stripped payload (HEVC)
	SliceType     SliceType
}
