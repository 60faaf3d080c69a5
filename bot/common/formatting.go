package common

import (
	"fmt"
	"strings"
	"time"
)

const maxMessageLength = 2000

// FormatNumber formats an integer with thousand separators
func FormatNumber(n int) string {
	str := fmt.Sprintf("%d", n)

	length := len(str)
	if length <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatProgressBar renders xp progress toward the next level as a fixed-width bar
func FormatProgressBar(xp, maxXP, width int) string {
	if maxXP <= 0 || width <= 0 {
		return ""
	}
	filled := xp * width / maxXP
	if filled > width {
		filled = width
	}
	return strings.Repeat("■", filled) + strings.Repeat("□", width-filled)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in
// the viewer's local timezone.
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// SplitMessage breaks text into chunks that fit Discord's message length
// limit, preferring to split on line boundaries. The limit counts characters,
// not bytes, so the split runs on runes and never lands inside one.
func SplitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxMessageLength {
		cut := lastLineBreak(runes[:maxMessageLength])
		if cut <= 0 {
			cut = maxMessageLength
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastLineBreak(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
