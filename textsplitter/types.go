package textsplitter

import "errors"

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

var ErrInvalidConfig = errors.New("invalid chunk config")

// DefaultSeparators is the separator hierarchy used when none is configured:
// paragraph break, line break, space, and finally single characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", " ", ""}
}

// span is a half-open byte range [start, end) of the source text.
type span struct {
	start int
	end   int
}

func (s span) empty() bool {
	return s.end <= s.start
}
