// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package config loads the simulator's run parameters, either from a
// positional command-line argument list or from a line-oriented
// configuration file, following the two constructor forms of the
// original simulators.
package config

import (
	"bufio"
	"os"
	"regexp"
	"strconv"

	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// PacketType selects an H.264 packetization; HEVC only ever uses AnnexB.
type PacketType int

const (
	PacketTypeRTP    PacketType = 0
	PacketTypeAnnexB PacketType = 1
)

// Config holds every run parameter for one simulator invocation. The HEVC
// constructors set PacketType to PacketTypeAnnexB; the HEVC simulator does
// not read it.
type Config struct {
	BitstreamOriginal    string
	BitstreamTransmitted string
	LossPatternFile      string
	PacketType           PacketType
	Offset               int
	Modality             int
}

var (
	tokenPattern = regexp.MustCompile(`[^ ]+`)
	numberPattern = regexp.MustCompile(`[+-]?[0-9]+`)
)

// FromAVCArgs builds a Config from the 6 positional H.264 arguments
// (input bitstream, output bitstream, loss pattern, packet type, offset,
// modality), matching the original simulator's 7-argv command-line form.
func FromAVCArgs(in, out, lossPattern, packetType, offset, modality string) (Config, error) {
	pt, err := strconv.Atoi(packetType)
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	off, err := strconv.Atoi(offset)
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	mod, err := strconv.Atoi(modality)
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}

	c := Config{
		BitstreamOriginal:    in,
		BitstreamTransmitted: out,
		LossPatternFile:      lossPattern,
		PacketType:           PacketType(pt),
		Offset:               off,
		Modality:             mod,
	}
	c.checkParameters()
	return c, nil
}

// FromHEVCArgs builds a Config from the 5 positional H.265 arguments (no
// packet type: HEVC is Annex B only).
func FromHEVCArgs(in, out, lossPattern, offset, modality string) (Config, error) {
	off, err := strconv.Atoi(offset)
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	mod, err := strconv.Atoi(modality)
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}

	c := Config{
		BitstreamOriginal:    in,
		BitstreamTransmitted: out,
		LossPatternFile:      lossPattern,
		PacketType:           PacketTypeAnnexB,
		Offset:               off,
		Modality:             mod,
	}
	c.checkParameters()
	return c, nil
}

// FromAVCFile parses a 6-line H.264 configuration file: input path,
// output path, loss-pattern path, packet type, offset, modality.
func FromAVCFile(path string) (Config, error) {
	fields, err := parseConfigFile(path, 6)
	if err != nil {
		return Config{}, err
	}

	pt, err := strconv.Atoi(matchNumber(fields[3]))
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	off, err := strconv.Atoi(matchNumber(fields[4]))
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	mod, err := strconv.Atoi(matchNumber(fields[5]))
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}

	c := Config{
		BitstreamOriginal:    matchToken(fields[0]),
		BitstreamTransmitted: matchToken(fields[1]),
		LossPatternFile:      matchToken(fields[2]),
		PacketType:           PacketType(pt),
		Offset:               off,
		Modality:             mod,
	}
	c.checkParameters()
	return c, nil
}

// FromHEVCFile parses a 5-line H.265 configuration file: input path,
// output path, loss-pattern path, offset, modality.
func FromHEVCFile(path string) (Config, error) {
	fields, err := parseConfigFile(path, 5)
	if err != nil {
		return Config{}, err
	}

	off, err := strconv.Atoi(matchNumber(fields[3]))
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}
	mod, err := strconv.Atoi(matchNumber(fields[4]))
	if err != nil {
		return Config{}, nazaerrors.Wrap(err)
	}

	c := Config{
		BitstreamOriginal:    matchToken(fields[0]),
		BitstreamTransmitted: matchToken(fields[1]),
		LossPatternFile:      matchToken(fields[2]),
		PacketType:           PacketTypeAnnexB,
		Offset:               off,
		Modality:             mod,
	}
	c.checkParameters()
	return c, nil
}

// parseConfigFile reads path and returns the first want valid lines, a
// valid line being one that isn't empty and doesn't start with '#', '\r',
// ' ' or '\n' — matching Parameters::valid_line in the original.
func parseConfigFile(path string, want int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	defer f.Close()

	var fields []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(fields) < want {
		line := scanner.Text()
		if !validLine(line) {
			continue
		}
		fields = append(fields, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	if len(fields) < want {
		return nil, ErrIncompleteConfig
	}
	return fields, nil
}

func validLine(line string) bool {
	if len(line) == 0 {
		return false
	}
	switch line[0] {
	case '\r', '#', ' ', '\n':
		return false
	}
	return true
}

func matchToken(line string) string {
	return tokenPattern.FindString(line)
}

func matchNumber(line string) string {
	return numberPattern.FindString(line)
}

// checkParameters applies the original simulator's fault-tolerant policy:
// out-of-range values are warned about and clamped to zero rather than
// rejected.
func (c *Config) checkParameters() {
	if c.Offset < 0 {
		nazalog.Warnf("config: offset %d is not allowed, set it to zero", c.Offset)
		c.Offset = 0
	}
	if c.Modality < 0 || c.Modality > 2 {
		nazalog.Warnf("config: modality %d is not allowed, set it to zero", c.Modality)
		c.Modality = 0
	}
}
