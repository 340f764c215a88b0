// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Command hevctxsim transmits one H.265 elementary bitstream through a
// simulated lossy channel, dropping VCL NAL units per a binary loss
// pattern and the selected corruption modality. HEVC is always framed as
// Annex B; there is no RTP packet-file-format variant.
package main

import (
	"errors"
	"os"

	log "github.com/q191201771/naza/pkg/nazalog"

	"github.com/mnaccari/txsim/pkg/config"
	"github.com/mnaccari/txsim/pkg/engine"
	"github.com/mnaccari/txsim/pkg/framer"
	"github.com/mnaccari/txsim/pkg/losspattern"
	"github.com/mnaccari/txsim/pkg/psmem"
)

const version = "0.1"

var errBadArgCount = errors.New("hevctxsim: bad argument count")

func main() {
	cfg, err := parseArgs(os.Args)
	if errors.Is(err, errBadArgCount) {
		printHelp()
		os.Exit(0)
	}
	if err != nil {
		log.Errorf("hevctxsim: %+v", err)
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

	f := framer.NewAnnexB265(in, out)
	mem := psmem.New()

	err = engine.RunHEVC(f, pattern, engine.Modality(cfg.Modality), mem)
	exitIfError(err)

	log.Infof("hevctxsim: done, wrote %s", cfg.BitstreamTransmitted)
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
	log.Errorf("hevctxsim: %+v", err)
	os.Exit(exitCodeFor(err))
}

// parseArgs dispatches on argument count: a single argument names a
// configuration file, five name the parameters directly.
func parseArgs(args []string) (config.Config, error) {
	switch len(args) {
	case 2:
		return config.FromHEVCFile(args[1])
	case 6:
		return config.FromHEVCArgs(args[1], args[2], args[3], args[4], args[5])
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
	log.Infof("Transmitter Simulator (HEVC) version %s", version)
	log.Infof("Usage (1): hevctxsim <in_bitstream> <out_bitstream> <loss_pattern_file> <offset> <modality>")
	log.Infof("Usage (2): hevctxsim <configuration_file>")
}
