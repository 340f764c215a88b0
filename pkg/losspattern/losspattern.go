// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

// Package losspattern implements the circular binary loss-pattern buffer
// the loss-decision engine consults for every VCL NAL unit: '0' means
// emit, '1' means drop (subject to the active corruption modality).
package losspattern

import (
	"os"

	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// Pattern is the rotated loss-pattern string plus a read cursor.
//
// The cursor wraps with an off-by-one quirk inherited from the original
// simulator: it resets to 0 once it reaches len-1, not len. This means the
// last character of a pattern longer than one character is never
// consulted — preserved verbatim, not "fixed".
type Pattern struct {
	s   string
	cur int
}

// Load reads the loss-pattern file at path and rotates it left by
// offset mod len(contents), matching the original simulator's
// `substr(offset, len-offset) + substr(0, offset)` construction.
func Load(path string, offset int) (*Pattern, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	s := string(raw)
	if len(s) == 0 {
		return nil, nazaerrors.Wrap(ErrEmptyPattern)
	}

	off := offset % len(s)
	rotated := s[off:] + s[:off]

	return &Pattern{s: rotated}, nil
}

// Len returns the number of characters in the (rotated) pattern.
func (p *Pattern) Len() int {
	return len(p.s)
}

// Current returns the character at the cursor without advancing it.
func (p *Pattern) Current() byte {
	return p.s[p.cur]
}

// Advance moves the cursor forward one position, wrapping at len-1 back
// to 0 (see the off-by-one note on Pattern).
func (p *Pattern) Advance() {
	p.cur++
	if p.cur >= len(p.s)-1 {
		p.cur = 0
	}
}

// Decision is the three-way outcome of consulting the pattern at the
// current cursor position.
type Decision int

const (
	// DecisionKeep means the character at the cursor is '0': no loss.
	// The caller emits the unit and advances the cursor.
	DecisionKeep Decision = iota

	// DecisionDrop means the character at the cursor is '1': the pattern
	// calls for a drop, subject to the active corruption modality. The
	// caller advances the cursor only when the drop actually happens; if
	// the modality overrides the drop and force-emits the unit instead,
	// the cursor stays put.
	DecisionDrop

	// DecisionInvalid means the character at the cursor is neither '0'
	// nor '1'. The original simulator's final else branch only logs a
	// warning — it neither writes the unit nor advances the cursor — and
	// this is preserved verbatim: the caller must do nothing else.
	DecisionInvalid
)

// Decide reports which of the three outcomes applies at the cursor,
// logging a warning via nazalog when the character is malformed. It does
// not advance the cursor; callers decide that separately based on the
// returned Decision.
func (p *Pattern) Decide() Decision {
	switch c := p.Current(); c {
	case '0':
		return DecisionKeep
	case '1':
		return DecisionDrop
	default:
		nazalog.Warnf("losspattern: unexpected character %q in loss pattern, ignoring", c)
		return DecisionInvalid
	}
}
