// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Command avctxsim transmits one H.264 elementary bitstream through a
// simulated lossy channel, dropping VCL NAL units per a binary loss
// pattern and the selected corruption modality.
package main

import (
	"errors"
	"os"

	log "github.com/q191201771/naza/pkg/nazalog"

	"github.com/mnaccari/txsim/pkg/config"
	"github.com/mnaccari/txsim/pkg/engine"
	"github.com/mnaccari/txsim/pkg/framer"
	"github.com/mnaccari/txsim/pkg/losspattern"
)

const version = "0.2"

var errBadArgCount = errors.New("avctxsim: bad argument count")

func main() {
	cfg, err := parseArgs(os.Args)
	if errors.Is(err, errBadArgCount) {
		printHelp()
		os.Exit(0)
	}
	if err != nil {
		log.Errorf("avctxsim: %+v", err)
		os.Exit(exitCodeFor(err))
	}

	printHeader(cfg)

	pattern, err := losspattern.Load(cfg.LossPatternFile, cfg.Offset)
	exitIfError(err)

	in, err := os.Open(cfg.BitstreamOriginal)
	exitIfError(err)
	defer in.Close()

	out, err := os.Create(cfg.BitstreamTransmitted)
	exitIfError(err)
	defer out.Close()

	var f framer.Framer
	switch cfg.PacketType {
	case config.PacketTypeRTP:
		f = framer.NewRTP264(in, out)
	case config.PacketTypeAnnexB:
		f = framer.NewAnnexB264(in, out)
	default:
		log.Fatalf("avctxsim: bad packet type %d", cfg.PacketType)
	}

	err = engine.RunAVC(f, pattern, engine.Modality(cfg.Modality))
	exitIfError(err)

	log.Infof("avctxsim: done, wrote %s", cfg.BitstreamTransmitted)
}

// exitCodeFor maps a CLI-boundary error onto an exit code: a malformed
// configuration (the user's fault, but a real error — unlike a bad
// argument count, which main handles separately and exits 0 for) gets 2;
// everything else (I/O, stream corruption, parse failure) gets 1.
func exitCodeFor(err error) int {
	if errors.Is(err, config.ErrIncompleteConfig) {
		return 2
	}
	return 1
}

// exitIfError logs and terminates with exitCodeFor's verdict if err is
// non-nil; a no-op otherwise.
func exitIfError(err error) {
	if err == nil {
		return
	}
	log.Errorf("avctxsim: %+v", err)
	os.Exit(exitCodeFor(err))
}

// parseArgs dispatches on argument count, matching the original
// simulator's argc-based constructor selection: a single argument names a
// configuration file, six name the parameters directly.
func parseArgs(args []string) (config.Config, error) {
	switch len(args) {
	case 2:
		return config.FromAVCFile(args[1])
	case 7:
		return config.FromAVCArgs(args[1], args[2], args[3], args[4], args[5], args[6])
	default:
		return config.Config{}, errBadArgCount
	}
}

func printHeader(cfg config.Config) {
	modalityText := [...]string{"all", "all but intra", "intra only"}
	log.Infof("Input bitstream: %s", cfg.BitstreamOriginal)
	log.Infof("Transmitted bitstream: %s", cfg.BitstreamTransmitted)
	log.Infof("Error pattern file: %s", cfg.LossPatternFile)
	log.Infof("Starting offset: %d", cfg.Offset)
	log.Infof("Corruption modality: %s", modalityText[cfg.Modality])
}

func printHelp() {
	log.Infof("Transmitter Simulator (AVC) version %s", version)
	log.Infof("Usage (1): avctxsim <in_bitstream> <out_bitstream> <loss_pattern_file> <packet_type> <offset> <modality>")
	log.Infof("Usage (2): avctxsim <configuration_file>")
	log.Infof("packet_type: 0 = RTP, 1 = Annex B")
}
