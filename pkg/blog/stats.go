package blog

import (
	"strings"
	"time"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// wordsPerMinute is the reading speed assumed for prose.
const wordsPerMinute = 200

// Stats summarizes a post body.
type Stats struct {
	Words     int `json:"words"`
	CodeLines int `json:"code_lines"`
}

// ReadingTime estimates how long the prose takes to read, rounded up to the
// nearest minute. Code lines are not counted; readers skim them.
func (s Stats) ReadingTime() time.Duration {
	if s.Words == 0 {
		return 0
	}
	minutes := (s.Words + wordsPerMinute - 1) / wordsPerMinute
	return time.Duration(minutes) * time.Minute
}

// ComputeStats counts prose words and fenced-code lines in a markdown body.
// Word boundaries follow UAX #29 segmentation; tokens without a letter or
// digit (punctuation, whitespace runs) do not count as words.
func ComputeStats(body string) Stats {
	var s Stats
	var prose strings.Builder
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			s.CodeLines++
			continue
		}
		prose.WriteString(line)
		prose.WriteByte('\n')
	}

	tokens := words.FromString(prose.String())
	for tokens.Next() {
		if isWord(tokens.Value()) {
			s.Words++
		}
	}
	return s
}

func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
