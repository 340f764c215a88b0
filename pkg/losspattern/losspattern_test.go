package losspattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePatternFile(t *testing.T, contents string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "loss.txt")
	require.Nil(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadRotatesByOffset(t *testing.T) {
	path := writePatternFile(t, "0011")

	p, err := Load(path, 2)
	require.Nil(t, err)
	assert.Equal(t, "1100", p.s)
}

func TestLoadOffsetWrapsModLength(t *testing.T) {
	path := writePatternFile(t, "0011")

	p, err := Load(path, 6) // 6 % 4 == 2
	require.Nil(t, err)
	assert.Equal(t, "1100", p.s)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writePatternFile(t, "")

	_, err := Load(path, 0)
	assert.NotNil(t, err)
}

func TestCursorOffByOneWrap(t *testing.T) {
	path := writePatternFile(t, "0101")
	p, err := Load(path, 0)
	require.Nil(t, err)

	assert.Equal(t, byte('0'), p.Current())
	p.Advance()
	assert.Equal(t, byte('1'), p.Current())
	p.Advance()
	assert.Equal(t, byte('0'), p.Current())
	p.Advance()
	// cursor is now at len-1 == 3, which wraps back to 0 instead of
	// ever exposing the final character.
	assert.Equal(t, byte('0'), p.Current())
}

func TestDecideTreatsBadCharAsInvalid(t *testing.T) {
	path := writePatternFile(t, "20")
	p, err := Load(path, 0)
	require.Nil(t, err)

	assert.Equal(t, DecisionInvalid, p.Decide())
}

func TestDecideKeepAndDrop(t *testing.T) {
	// Three characters, since the cursor wraps at len-1 and never reaches
	// the last one.
	path := writePatternFile(t, "010")
	p, err := Load(path, 0)
	require.Nil(t, err)

	assert.Equal(t, DecisionKeep, p.Decide())
	p.Advance()
	assert.Equal(t, DecisionDrop, p.Decide())
}
