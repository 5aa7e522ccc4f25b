package translation

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/signreel/internal/batch"
)

// Phrase is a sentence with its known translation
type Phrase struct {
	Source string
	Target string
}

// Phrasebook maps known sentences directly to their translation
type Phrasebook struct {
	phrases []Phrase
}

// NewPhrasebook creates a phrasebook. Earlier phrases win on duplicates.
func NewPhrasebook(phrases ...Phrase) *Phrasebook {
	pb := &Phrasebook{}
	pb.Add(phrases...)
	return pb
}

// DefaultKannadaPhrasebook returns common Kannada sentences with their English
// equivalent
func DefaultKannadaPhrasebook() *Phrasebook {
	return NewPhrasebook(
		Phrase{"ನಮಸ್ಕಾರ", "hello"},
		Phrase{"ನನಗೆ ನೀರು ಬೇಕು", "I want water"},
		Phrase{"ನನಗೆ ಬಾಯಾರಿಕೆಯಾಗಿದೆ", "I am thirsty"},
		Phrase{"ನನಗೆ ಸಹಾಯ ಬೇಕು", "I need help"},
		Phrase{"ನನಗೆ ಜ್ವರ ಇದೆ", "I have fever"},
		Phrase{"ನನಗೆ ನೋವಾಗುತ್ತಿದೆ", "I have pain"},
		Phrase{"ವೈದ್ಯರನ್ನು ಕರೆಯಿರಿ", "please call doctor"},
		Phrase{"ನಿಮ್ಮ ಹೆಸರೇನು", "what is your name"},
		Phrase{"ನನಗೆ ವಿಶ್ರಾಂತಿ ಬೇಕು", "I need rest"},
		Phrase{"ನನಗೆ ನಿದ್ರೆ ಬೇಕು", "I want sleep"},
		Phrase{"ನನಗೆ ಶೌಚಾಲಯಕ್ಕೆ ಹೋಗಬೇಕು", "I need toilet"},
		Phrase{"ನನಗೆ ಆರಾಮವಿಲ್ಲ", "I am not comfortable"},
		Phrase{"ನಾನು ಚೆನ್ನಾಗಿದ್ದೇನೆ", "I am well"},
		Phrase{"ಧನ್ಯವಾದಗಳು", "thankyou"},
		Phrase{"ಸುಸ್ವಾಗತ", "welcome"},
		Phrase{"ಹೋಗಿ ಬರುತ್ತೇನೆ", "bye"},
	)
}

// LoadPhrasebook reads "source = target" lines from a file. Lines without a
// source or a target are skipped.
func LoadPhrasebook(filename string) (*Phrasebook, error) {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load phrasebook: %w", err)
	}

	pb := &Phrasebook{}
	for _, e := range entries {
		if e.Source != "" && e.Target != "" {
			pb.Add(Phrase{Source: e.Source, Target: e.Target})
		}
	}
	return pb, nil
}

// Add appends phrases. Sources are stored trimmed.
func (pb *Phrasebook) Add(phrases ...Phrase) {
	for _, p := range phrases {
		p.Source = strings.TrimSpace(p.Source)
		p.Target = strings.TrimSpace(p.Target)
		if p.Source == "" {
			continue
		}
		pb.phrases = append(pb.phrases, p)
	}
}

// Lookup returns the translation of text when it matches a known phrase
// exactly, ignoring surrounding whitespace
func (pb *Phrasebook) Lookup(text string) (string, bool) {
	if pb == nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	for _, p := range pb.phrases {
		if p.Source == text {
			return p.Target, true
		}
	}
	return "", false
}

// Phrases returns a copy of all phrases in order
func (pb *Phrasebook) Phrases() []Phrase {
	if pb == nil {
		return nil
	}
	return append([]Phrase(nil), pb.phrases...)
}

// Len returns the number of phrases
func (pb *Phrasebook) Len() int {
	if pb == nil {
		return 0
	}
	return len(pb.phrases)
}
