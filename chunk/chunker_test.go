package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBoundaries(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, Split("", 1000, 150))
	})

	t.Run("whitespace-only text yields no chunks", func(t *testing.T) {
		assert.Empty(t, Split("   \n\t  ", 1000, 150))
	})

	t.Run("short text yields one trimmed chunk", func(t *testing.T) {
		chunks := Split("short", 1000, 150)
		require.Len(t, chunks, 1)
		assert.Equal(t, "short", chunks[0])
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		chunks := Split("  padded text \n", 1000, 150)
		require.Len(t, chunks, 1)
		assert.Equal(t, "padded text", chunks[0])
	})

	t.Run("non-positive size yields no chunks", func(t *testing.T) {
		assert.Empty(t, Split("anything", 0, 0))
	})
}

func TestSplitWindowWalk(t *testing.T) {
	// 2500 characters with size 1000 and overlap 150 produce windows of
	// 1000, 1000 and 650 characters; trimming is a no-op here.
	text := strings.Repeat("A", 2500)
	chunks := Split(text, 1000, 150)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 650)
}

func TestSplitEmitsTrailingWindow(t *testing.T) {
	// Lengths just past a cursor step used to end the walk before the
	// final window was emitted. 2000 characters with size 1000 and
	// overlap 150 must produce windows of 1000, 1000 and 150.
	t.Run("window lengths", func(t *testing.T) {
		text := strings.Repeat("A", 2000)
		chunks := Split(text, 1000, 150)

		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 1000)
		assert.Len(t, chunks[1], 1000)
		assert.Len(t, chunks[2], 150)
	})

	t.Run("tail characters are kept", func(t *testing.T) {
		text := strings.Repeat("A", 1850) + strings.Repeat("Z", 150)
		chunks := Split(text, 1000, 150)

		require.NotEmpty(t, chunks)
		assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "Z"))
		assert.Contains(t, strings.Join(chunks, ""), strings.Repeat("Z", 150))
	})

	t.Run("exact multiple emits no extra window", func(t *testing.T) {
		chunks := Split(strings.Repeat("A", 1000), 1000, 150)
		require.Len(t, chunks, 1)
		assert.Len(t, chunks[0], 1000)
	})
}

func TestSplitOverlapSharesContext(t *testing.T) {
	// Distinct characters make the shared region visible: the second
	// window begins overlap characters before the end of the first.
	var b strings.Builder
	for i := 0; i < 26; i++ {
		b.WriteString(strings.Repeat(string(rune('a'+i)), 10))
	}
	text := b.String() // 260 chars, no whitespace

	chunks := Split(text, 100, 20)
	require.GreaterOrEqual(t, len(chunks), 2)
	tail := chunks[0][len(chunks[0])-20:]
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}

func TestSplitDeterminism(t *testing.T) {
	text := strings.Repeat("aanbesteding kennisbank ", 400)
	first := Split(text, 1000, 150)
	second := Split(text, 1000, 150)
	assert.Equal(t, first, second)
}

func TestSplitCoverage(t *testing.T) {
	// Every character of the input appears in at least one window: the
	// concatenation of all windows contains the full text modulo the
	// defined overlap duplication.
	// Aperiodic input so every window locates a unique offset.
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "%03d", i)
	}
	text := b.String() // 360 chars
	chunks := Split(text, 100, 20)
	require.NotEmpty(t, chunks)

	// Each window is a verbatim substring, the walk starts at the first
	// character and ends at the last, and windows advance monotonically.
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
	prev := -1
	total := 0
	for _, c := range chunks {
		idx := strings.Index(text, c)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, prev)
		prev = idx
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
}

func TestSplitForwardProgressWithLargeOverlap(t *testing.T) {
	// overlap >= size is rejected by Options.Validate, but Split itself
	// must still terminate and cover the text when misconfigured.
	text := strings.Repeat("x", 500)
	chunks := Split(text, 100, 100)
	assert.NotEmpty(t, chunks)
}

func TestOptionsValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultOptions().Validate())
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		assert.Error(t, Options{Size: 100, Overlap: 100}.Validate())
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		assert.Error(t, Options{Size: 100, Overlap: -1}.Validate())
	})

	t.Run("zero size rejected", func(t *testing.T) {
		assert.Error(t, Options{Size: 0, Overlap: 0}.Validate())
	})
}
