package processor

import (
	"fmt"
	"sort"
	"strings"
)

// SignResult is the text recovered from a recording
type SignResult struct {
	DetectedSigns map[string]int
	TotalSigns    int
	UniqueSigns   int
	OrderedSigns  []string

	Gloss   string
	English string
	Kannada string
	// KannadaErr is set when the Kannada translation failed
	KannadaErr error
}

// Signs returns the detected signs in order of first appearance. Signs that
// never appear in OrderedSigns follow alphabetically.
func (r *SignResult) Signs() []string {
	seen := make(map[string]bool, len(r.DetectedSigns))
	signs := make([]string, 0, len(r.DetectedSigns))
	for _, s := range r.OrderedSigns {
		if _, ok := r.DetectedSigns[s]; ok && !seen[s] {
			seen[s] = true
			signs = append(signs, s)
		}
	}

	var rest []string
	for s := range r.DetectedSigns {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(signs, rest...)
}

// Summary renders the result for the clipboard
func (r *SignResult) Summary() string {
	lines := make([]string, 0, len(r.DetectedSigns))
	for _, s := range r.Signs() {
		lines = append(lines, fmt.Sprintf("%s: %d time(s)", s, r.DetectedSigns[s]))
	}
	text := strings.Join(lines, "\n")

	if r.English != "" {
		text += "\n\nEnglish Text:\n" + r.English
	}
	if r.Kannada != "" {
		text += "\n\nKannada Translation:\n" + r.Kannada
	}
	return text
}
