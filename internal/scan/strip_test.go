package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripLineComments(t *testing.T) {
	lines := []string{
		"pub struct Widget { // trailing note",
		"    // a full comment line",
		"    id: u64,",
		"}",
	}

	out := StripComments(lines)
	require.Len(t, out, 4)
	assert.Equal(t, "pub struct Widget { ", out[0])
	assert.Equal(t, "    ", out[1])
	assert.Equal(t, "    id: u64,", out[2])
}

func TestStripBlockCommentsPreservesLineCount(t *testing.T) {
	lines := []string{
		"/* header",
		"   spanning",
		"   lines */ pub enum Mode {",
		"    Fast,",
		"}",
	}

	out := StripComments(lines)
	require.Len(t, out, len(lines))
	assert.Equal(t, "", out[0])
	assert.Equal(t, "", out[1])
	assert.Equal(t, " pub enum Mode {", out[2])
}

func TestStripNestedBlockComments(t *testing.T) {
	lines := []string{
		"/* outer /* inner */ still outer */ struct Hidden;",
	}

	out := StripComments(lines)
	assert.Equal(t, " struct Hidden;", out[0])
}

func TestStripKeepsCodeBetweenBlocks(t *testing.T) {
	out := StripComments([]string{"a /* x */ b /* y */ c"})
	assert.Equal(t, "a  b  c", out[0])
}

func TestBraceDelta(t *testing.T) {
	delta, min := braceDelta("} else {")
	assert.Equal(t, 0, delta)
	assert.Equal(t, -1, min)

	delta, _ = braceDelta("match x { Some(_) => {}")
	assert.Equal(t, 1, delta)
}

func TestStripCommentOnlyFileIsBlank(t *testing.T) {
	out := StripComments([]string{"// one", "// two"})
	for _, l := range out {
		assert.Empty(t, strings.TrimSpace(l))
	}
}
