package gloss

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultAssetRoot is where sign videos are served from, relative to the asset host
const DefaultAssetRoot = "/sign-videos"

// Formats lists the sibling encodings published for a sign video
type Formats struct {
	MP4  string
	WebM string
	GIF  string
}

// Word is one segmented token of a gloss
type Word struct {
	Text         string
	Translatable bool
	VideoSrc     string
	Formats      *Formats
}

// Vocabulary is the set of words with a known sign video
type Vocabulary struct {
	words     map[string]struct{}
	aliases   map[string]string // upper-case alias -> canonical word
	assetRoot string
}

var (
	nonWordRe = regexp.MustCompile(`[^\w\s\v\p{Z}]`)
	lowerCase = cases.Lower(language.Und)
)

var defaultWords = []string{
	"hello", "your", "doctor", "danger", "want", "what", "thirsty", "eat",
	"feeling", "fever", "inform", "need", "please", "right", "sleep", "welcome",
	"toilet", "bye", "have", "take", "water", "parent", "rest", "wrong", "name",
	"comfortable", "help", "well", "thankyou", "problem", "i", "not", "pain", "call",
}

// DefaultAliases maps pronouns that share the "i" sign
func DefaultAliases() map[string]string {
	return map[string]string{
		"me": "i",
		"my": "i",
	}
}

// DefaultVocabulary returns the published word list plus the fingerspelled letters a-z
func DefaultVocabulary() *Vocabulary {
	words := make([]string, 0, len(defaultWords)+26)
	words = append(words, defaultWords...)
	for r := 'a'; r <= 'z'; r++ {
		words = append(words, string(r))
	}
	return NewVocabulary(words, DefaultAliases(), DefaultAssetRoot)
}

// NewVocabulary creates a vocabulary. An empty assetRoot falls back to DefaultAssetRoot.
func NewVocabulary(words []string, aliases map[string]string, assetRoot string) *Vocabulary {
	if assetRoot == "" {
		assetRoot = DefaultAssetRoot
	}
	v := &Vocabulary{
		words:     make(map[string]struct{}, len(words)),
		aliases:   make(map[string]string, len(aliases)),
		assetRoot: strings.TrimSuffix(assetRoot, "/"),
	}
	for _, w := range words {
		v.words[strings.ToLower(w)] = struct{}{}
	}
	for alias, canonical := range aliases {
		v.aliases[strings.ToUpper(alias)] = strings.ToLower(canonical)
	}
	return v
}

// Segment splits input into words in input order
func (v *Vocabulary) Segment(input string) []Word {
	cleaned := nonWordRe.ReplaceAllString(lowerCase.String(input), "")
	tokens := strings.Fields(cleaned)

	words := make([]Word, 0, len(tokens))
	for _, token := range tokens {
		asset := token
		translatable := v.IsTranslatable(token)
		if canonical, ok := v.aliases[strings.ToUpper(token)]; ok {
			asset = canonical
			translatable = true
		}

		w := Word{Text: token, Translatable: translatable}
		if translatable {
			w.VideoSrc = v.VideoPath(asset, "mp4")
			w.Formats = &Formats{
				MP4:  v.VideoPath(asset, "mp4"),
				WebM: v.VideoPath(asset, "webm"),
				GIF:  v.VideoPath(asset, "gif"),
			}
		}
		words = append(words, w)
	}
	return words
}

// IsTranslatable reports whether word has a sign video. Aliases are not consulted.
func (v *Vocabulary) IsTranslatable(word string) bool {
	_, ok := v.words[strings.ToLower(word)]
	return ok
}

// VideoSource returns the mp4 path for word, or "" when it has no sign
func (v *Vocabulary) VideoSource(word string) string {
	normalized := strings.ToLower(word)
	if !v.IsTranslatable(normalized) {
		return ""
	}
	return v.VideoPath(normalized, "mp4")
}

// VideoPath builds the asset path for word in the given container format
func (v *Vocabulary) VideoPath(word, format string) string {
	return v.assetRoot + "/" + word + "." + format
}

// Words returns the vocabulary sorted alphabetically
func (v *Vocabulary) Words() []string {
	out := make([]string, 0, len(v.words))
	for w := range v.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Texts returns the Text of each word
func Texts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
