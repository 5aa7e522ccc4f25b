package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/cli"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/gui"
	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/metrics"
	"codeberg.org/snonux/signreel/internal/models"
	"codeberg.org/snonux/signreel/internal/player"
	"codeberg.org/snonux/signreel/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cfg := cli.LoadConfig(flags)
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	// Handle --list-words flag
	if flags.ListWords {
		for _, w := range gloss.DefaultVocabulary().Words() {
			fmt.Println(w)
		}
		return nil
	}

	if cfg.MetricsAddr != "" {
		srv, err := metrics.Start(cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer shutdownMetrics(srv, logger)
	}

	svc, err := newServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	switch {
	case flags.VideoFile != "":
		return runVideo(ctx, svc.proc, flags.VideoFile)
	case flags.BatchFile != "":
		return svc.proc.ProcessBatch(ctx, flags.BatchFile, cfg.Language, os.Stdout)
	case len(args) > 0:
		return runText(ctx, svc, cfg, strings.Join(args, " "))
	default:
		// No input provided - launch GUI mode by default
		app := gui.New(&gui.Config{
			Service:       svc.proc,
			Language:      cfg.Language,
			NoticeDelay:   cfg.NoticeDelay,
			PlayerCommand: cfg.PlayerCommand,
			Logger:        logger,
		})
		app.Run()
		return nil
	}
}

func shutdownMetrics(srv *metrics.Server, logger *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warnw("Metrics server shutdown failed", "error", err)
	}
}

func runVideo(ctx context.Context, proc *processor.Processor, path string) error {
	fmt.Printf("Uploading %s...\n", path)
	last := -1
	result, err := proc.VideoToText(ctx, path, func(percent int) {
		if percent != last && percent%10 == 0 {
			fmt.Printf("  %d%%\n", percent)
			last = percent
		}
	})
	if errors.Is(err, processor.ErrNoSignsDetected) {
		fmt.Println("No signs were detected in the video. Please try again with a clearer video.")
		return nil
	}
	if err != nil {
		return errors.New(backend.UserMessage(err))
	}

	fmt.Println()
	fmt.Print(result.Summary())
	if result.KannadaErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: Kannada translation failed: %v\n", result.KannadaErr)
	}
	return nil
}

func runText(ctx context.Context, svc *services, cfg *cli.Config, text string) error {
	result, err := svc.proc.TextToISL(ctx, text, cfg.Language)
	if err != nil {
		return errors.New(backend.UserMessage(err))
	}

	fmt.Printf("Sentence: %s\n", result.Sentence)
	fmt.Printf("Gloss:    %s\n", result.Gloss)

	media := player.NewProcessMedia(cfg.PlayerCommand, svc.logger)
	shown := -1
	err = player.PlayAll(ctx, media, result.Words, player.ControllerConfig{
		Sequencer: []player.SequencerOption{player.WithNoticeDelay(cfg.NoticeDelay)},
		OnState: func(state player.PlaybackState, w gloss.Word) {
			if state.ActiveIndex == shown {
				return
			}
			shown = state.ActiveIndex
			printState(state, w, len(result.Words))
		},
		Logger: svc.logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\nDone!")
	return nil
}

func printState(state player.PlaybackState, w gloss.Word, total int) {
	if !w.Translatable {
		fmt.Printf("[%d/%d] %s: no sign available\n", state.ActiveIndex+1, total, w.Text)
		return
	}
	fmt.Printf("[%d/%d] %s\n", state.ActiveIndex+1, total, w.Text)
}
