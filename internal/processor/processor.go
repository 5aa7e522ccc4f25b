package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/batch"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/translation"
)

var (
	// ErrEmptyInput is returned for blank text before anything is sent
	ErrEmptyInput = errors.New("input text is empty")
	// ErrNoSignsDetected is returned when the recording contains no known sign
	ErrNoSignsDetected = errors.New("no signs were detected in the video")
	// ErrInvalidResponse is returned when the service sends no English text
	ErrInvalidResponse = errors.New("received invalid response from the server")
)

// Backend is the part of the recognition service the processor uses
type Backend interface {
	Ping(ctx context.Context) error
	ProcessVideo(ctx context.Context, name string, r io.Reader, size int64, progress func(percent int)) (*backend.VideoResult, error)
	English(ctx context.Context, gloss string) (string, error)
	ISL(ctx context.Context, sentence string) (string, error)
}

// VideoCache prefetches and resolves sign clips
type VideoCache interface {
	Preload(ctx context.Context, words []gloss.Word)
	Resolve(words []gloss.Word) []gloss.Word
}

// Deps are the collaborators of a Processor. Only Backend is required.
type Deps struct {
	Backend    Backend
	Vocabulary *gloss.Vocabulary
	Cache      VideoCache
	Translator translation.Translator
	Phrasebook *translation.Phrasebook
	Logger     *zap.SugaredLogger
}

// Processor handles translation in both directions
type Processor struct {
	backend    Backend
	vocab      *gloss.Vocabulary
	cache      VideoCache
	translator translation.Translator
	phrasebook *translation.Phrasebook
	logger     *zap.SugaredLogger
}

// NewProcessor creates a new processor
func NewProcessor(deps Deps) *Processor {
	vocab := deps.Vocabulary
	if vocab == nil {
		vocab = gloss.DefaultVocabulary()
	}
	return &Processor{
		backend:    deps.Backend,
		vocab:      vocab,
		cache:      deps.Cache,
		translator: deps.Translator,
		phrasebook: deps.Phrasebook,
		logger:     logging.OrNop(deps.Logger),
	}
}

// Vocabulary returns the vocabulary used for segmentation
func (p *Processor) Vocabulary() *gloss.Vocabulary {
	return p.vocab
}

// TextResult is a translated sentence ready for playback
type TextResult struct {
	Input string
	// Sentence is the English sentence sent to the service
	Sentence string
	Gloss    string
	// Words point at cached clips where the preload succeeded
	Words []gloss.Word
}

// TextToISL translates text typed in lang ("en" or "kn") into sign clips
func (p *Processor) TextToISL(ctx context.Context, text, lang string) (*TextResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	sentence, err := p.toEnglish(ctx, text, lang)
	if err != nil {
		return nil, err
	}

	glossText, err := p.backend.ISL(ctx, sentence)
	if err != nil {
		return nil, fmt.Errorf("failed to translate text to ISL: %w", err)
	}
	p.logger.Infow("Received gloss", "sentence", sentence, "gloss", glossText)

	words := p.vocab.Segment(glossText)
	if p.cache != nil {
		p.cache.Preload(ctx, words)
		words = p.cache.Resolve(words)
	}

	return &TextResult{
		Input:    text,
		Sentence: sentence,
		Gloss:    glossText,
		Words:    words,
	}, nil
}

// toEnglish returns the English sentence for text. Kannada input is looked up
// in the phrasebook first and translated otherwise.
func (p *Processor) toEnglish(ctx context.Context, text, lang string) (string, error) {
	if lang != translation.Kannada {
		return text, nil
	}

	if english, ok := p.phrasebook.Lookup(text); ok {
		p.logger.Debugw("Phrasebook match", "text", text, "english", english)
		return english, nil
	}

	if p.translator == nil {
		return "", fmt.Errorf("no translator configured for %s input", translation.LanguageName(lang))
	}
	english, err := p.translator.Translate(ctx, text, translation.Kannada, translation.English)
	if err != nil {
		return "", fmt.Errorf("failed to translate input: %w", err)
	}
	if strings.TrimSpace(english) == "" {
		return "", fmt.Errorf("failed to translate input: %w", ErrEmptyInput)
	}
	return english, nil
}

// VideoToText uploads a recording and turns the detected signs into text.
// The returned result is non-nil whenever the upload succeeded, even when an
// error is returned alongside it.
func (p *Processor) VideoToText(ctx context.Context, path string, progress func(percent int)) (*SignResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}
	if _, err := backend.ValidateUpload(path, info.Size()); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}
	defer f.Close()

	video, err := p.backend.ProcessVideo(ctx, filepath.Base(path), f, info.Size(), progress)
	if err != nil {
		return nil, err
	}

	result := &SignResult{
		DetectedSigns: video.DetectedSigns,
		TotalSigns:    video.TotalSigns,
		UniqueSigns:   video.UniqueSigns,
		OrderedSigns:  video.OrderedSigns,
	}
	if len(video.DetectedSigns) == 0 {
		return result, ErrNoSignsDetected
	}

	result.Gloss = strings.ToUpper(strings.Join(video.OrderedSigns, " "))
	if len(video.OrderedSigns) > 1 {
		english, err := p.backend.English(ctx, result.Gloss)
		if err != nil {
			return result, fmt.Errorf("error generating sentence: %w", err)
		}
		if english == "" {
			return result, ErrInvalidResponse
		}
		result.English = english
	} else {
		result.English = result.Gloss
	}

	p.translateResult(ctx, result)
	return result, nil
}

// translateResult fills in the Kannada text. Failures are kept on the result.
func (p *Processor) translateResult(ctx context.Context, result *SignResult) {
	if result.English == "" || p.translator == nil {
		return
	}
	kannada, err := p.translator.Translate(ctx, result.English, translation.English, translation.Kannada)
	if err != nil {
		p.logger.Errorw("Error translating to Kannada", "text", result.English, "error", err)
		result.KannadaErr = err
		return
	}
	result.Kannada = kannada
}

// CheckConnection tests whether the service is reachable
func (p *Processor) CheckConnection(ctx context.Context) error {
	if err := p.backend.Ping(ctx); err != nil {
		return fmt.Errorf("server connection failed: %w", err)
	}
	return nil
}

// ProcessBatch translates every sentence of a batch file and writes the
// gloss and per-word availability to w
func (p *Processor) ProcessBatch(ctx context.Context, filename, lang string, w io.Writer) error {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}

	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, entryLang := entry.Source, lang
		if entry.Target != "" {
			text, entryLang = entry.Target, translation.English
		}

		fmt.Fprintf(w, "\nProcessing %d/%d: %s\n", i+1, len(entries), text)
		result, err := p.TextToISL(ctx, text, entryLang)
		if err != nil {
			fmt.Fprintf(w, "  Error: %v\n", err)
			p.logger.Errorw("Batch entry failed", "text", text, "error", err)
			errorCount++
			continue
		}

		if result.Sentence != result.Input {
			fmt.Fprintf(w, "  English: %s\n", result.Sentence)
		}
		fmt.Fprintf(w, "  Gloss: %s\n", result.Gloss)
		for _, word := range result.Words {
			mark := "✓"
			if !word.Translatable {
				mark = "✗"
			}
			fmt.Fprintf(w, "  %s %s\n", mark, word.Text)
		}
		processedCount++
	}

	fmt.Fprintf(w, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(w, "Total sentences: %d\n", len(entries))
	fmt.Fprintf(w, "Processed: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(w, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(w, "================================\n")

	return nil
}
