package voice

import (
	"strings"

	"spotvoice/internal/chat"
)

var sentinels = []string{chat.EndOfTurn, chat.EndOfText}

// Clean removes end-of-turn sentinels and surrounding whitespace. With
// trimQuotes it also strips double quotes and then single quotes from both ends.
func Clean(text string, trimQuotes bool) string {
	for _, s := range sentinels {
		text = strings.ReplaceAll(text, s, "")
	}
	text = strings.TrimSpace(text)
	if trimQuotes {
		text = strings.Trim(text, `"`)
		text = strings.Trim(text, "'")
	}
	return text
}
