package common

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "250,000", FormatNumber(250000))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
}

func TestFormatProgressBar(t *testing.T) {
	assert.Equal(t, "□□□□□□□□□□", FormatProgressBar(0, 100, 10))
	assert.Equal(t, "■■■■■□□□□□", FormatProgressBar(50, 100, 10))
	assert.Equal(t, "■■■■■■■■■■", FormatProgressBar(100, 100, 10))
	assert.Equal(t, "", FormatProgressBar(10, 0, 10))

	// Overfull never exceeds the width
	assert.Equal(t, "■■■■■■■■■■", FormatProgressBar(150, 100, 10))
}

func TestSplitMessage_Short(t *testing.T) {
	chunks := SplitMessage("hello")
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitMessage_SplitsOnLineBoundaries(t *testing.T) {
	line := strings.Repeat("a", 900)
	text := line + "\n" + line + "\n" + line

	chunks := SplitMessage(text)

	assert.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 2000)
	}
	assert.Equal(t, text, strings.Join(chunks, "\n"))
}

func TestSplitMessage_HardSplitWithoutNewlines(t *testing.T) {
	text := strings.Repeat("a", 4100)

	chunks := SplitMessage(text)

	assert.Len(t, chunks, 3)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessage_MultibyteStaysValidUTF8(t *testing.T) {
	// 2100 two-byte characters with no newlines forces a hard split
	text := strings.Repeat("é", 2100)

	chunks := SplitMessage(text)

	assert.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 2000)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
