package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/cli"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/processor"
	"codeberg.org/snonux/signreel/internal/translation"
	"codeberg.org/snonux/signreel/internal/videocache"
)

// services holds everything a run needs and releases it on Close
type services struct {
	proc   *processor.Processor
	cache  *videocache.Cache
	blobs  *videocache.TempBlobStore
	logger *zap.SugaredLogger
}

func newServices(ctx context.Context, cfg *cli.Config, logger *zap.SugaredLogger) (*services, error) {
	tcfg := cfg.TranslationConfig()
	tcfg.Logger = logger
	translator, err := translation.NewTranslator(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	phrasebook := translation.DefaultKannadaPhrasebook()
	if cfg.PhrasebookFile != "" {
		extra, err := translation.LoadPhrasebook(cfg.PhrasebookFile)
		if err != nil {
			return nil, err
		}
		phrasebook.Add(extra.Phrases()...)
	}

	blobs, err := videocache.NewTempBlobStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}

	var fetcher videocache.Fetcher
	if cfg.AssetsDir != "" {
		fetcher = videocache.NewDirFetcher(cfg.AssetsDir)
	} else {
		fetcher = videocache.NewHTTPFetcher(cfg.AssetsBaseURL, nil)
	}
	cache := videocache.New(fetcher, blobs, videocache.WithLogger(logger))

	logger.Debugw("Services ready",
		"backend", cfg.BackendURL,
		"translator", translator.Name(),
		"phrases", phrasebook.Len())

	return &services{
		proc: processor.NewProcessor(processor.Deps{
			Backend:    backend.NewClient(cfg.BackendURL, backend.WithLogger(logger)),
			Vocabulary: gloss.DefaultVocabulary(),
			Cache:      cache,
			Translator: translation.Cached(translator, translation.NewTranslationCache()),
			Phrasebook: phrasebook,
			Logger:     logger,
		}),
		cache:  cache,
		blobs:  blobs,
		logger: logger,
	}, nil
}

// Close revokes every cached clip and removes the clip directory
func (s *services) Close() {
	s.cache.Close()
	if err := s.blobs.Close(); err != nil {
		s.logger.Warnw("Failed to remove clip directory", "dir", s.blobs.Dir(), "error", err)
	}
}
