package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/signreel/internal"
	"codeberg.org/snonux/signreel/internal/translation"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "signreel [text]",
		Short: "Indian Sign Language translator",
		Long: `signreel translates between text and Indian Sign Language (ISL).

Typed English or Kannada text is turned into an ISL gloss and played back
as a sequence of sign clips. Recordings of signing are uploaded to the
recognition service and turned back into English and Kannada text.

Examples:
  signreel                          # Launch interactive GUI (default)
  signreel "I want water"           # Play the signs in a video player
  signreel --lang kn "ನಮಸ್ಕಾರ"        # Translate Kannada input
  signreel --video clip.mp4         # Recognise signs in a recording
  signreel --batch sentences.txt    # Translate sentences from a file`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.signreel.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate sentences from file (one per line, optional 'source = english')")
	cmd.Flags().StringVar(&flags.VideoFile, "video", "", "Recognise signs in a video file (MP4, MOV, WebM or AVI, up to 100MB)")
	cmd.Flags().BoolVar(&flags.ListWords, "list-words", false, "List the words that have a sign clip")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().StringVarP(&flags.Language, "lang", "l", flags.Language, "Input language: en or kn")
	cmd.Flags().StringVar(&flags.PhrasebookFile, "phrasebook", "", "Extra Kannada phrases ('kannada = english' per line)")

	// Service flags
	cmd.Flags().StringVar(&flags.BackendURL, "backend", flags.BackendURL, "Recognition service URL")
	cmd.Flags().StringVar(&flags.AssetsBaseURL, "assets-url", flags.AssetsBaseURL, "Base URL serving /sign-videos")
	cmd.Flags().StringVar(&flags.AssetsDir, "assets-dir", "", "Local directory containing sign-videos/ (overrides --assets-url)")
	cmd.Flags().StringVar(&flags.TranslationProvider, "translator", flags.TranslationProvider, "Translation provider: google, openai or gemini")
	cmd.Flags().StringVar(&flags.TranslationEndpoint, "translate-endpoint", flags.TranslationEndpoint, "Google Translate endpoint")

	// Player flags
	cmd.Flags().DurationVar(&flags.NoticeDelay, "notice-delay", flags.NoticeDelay, "How long a word without sign is announced")
	cmd.Flags().StringVar(&flags.PlayerCommand, "player", "", "Video player command (default: mpv or ffplay)")
	cmd.PersistentFlags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. localhost:9090)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("input.language", cmd.Flags().Lookup("lang"))
	viper.BindPFlag("phrasebook.file", cmd.Flags().Lookup("phrasebook"))
	viper.BindPFlag("backend.url", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("assets.base_url", cmd.Flags().Lookup("assets-url"))
	viper.BindPFlag("assets.dir", cmd.Flags().Lookup("assets-dir"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("translator"))
	viper.BindPFlag("translation.endpoint", cmd.Flags().Lookup("translate-endpoint"))
	viper.BindPFlag("player.notice_delay", cmd.Flags().Lookup("notice-delay"))
	viper.BindPFlag("player.command", cmd.Flags().Lookup("player"))
	viper.BindPFlag("metrics.addr", cmd.PersistentFlags().Lookup("metrics-addr"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".signreel" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".signreel")
	}

	// Environment variables
	viper.SetEnvPrefix("SIGNREEL")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Config is the effective configuration after flags, config file and
// environment have been merged
type Config struct {
	LogLevel       string
	Language       string
	PhrasebookFile string

	BackendURL          string
	AssetsBaseURL       string
	AssetsDir           string
	TranslationProvider string
	TranslationEndpoint string

	NoticeDelay   time.Duration
	PlayerCommand string

	MetricsAddr string
}

// LoadConfig reads the effective configuration from viper. Flags that were
// never bound fall back to their defaults in flags.
func LoadConfig(flags *Flags) *Config {
	return &Config{
		LogLevel:            stringOr("log.level", flags.LogLevel),
		Language:            stringOr("input.language", flags.Language),
		PhrasebookFile:      stringOr("phrasebook.file", flags.PhrasebookFile),
		BackendURL:          stringOr("backend.url", flags.BackendURL),
		AssetsBaseURL:       stringOr("assets.base_url", flags.AssetsBaseURL),
		AssetsDir:           stringOr("assets.dir", flags.AssetsDir),
		TranslationProvider: stringOr("translation.provider", flags.TranslationProvider),
		TranslationEndpoint: stringOr("translation.endpoint", flags.TranslationEndpoint),
		NoticeDelay:         durationOr("player.notice_delay", flags.NoticeDelay),
		PlayerCommand:       stringOr("player.command", flags.PlayerCommand),
		MetricsAddr:         stringOr("metrics.addr", flags.MetricsAddr),
	}
}

// TranslationConfig builds the translation provider configuration
func (c *Config) TranslationConfig() *translation.Config {
	cfg := translation.DefaultConfig()
	cfg.Provider = c.TranslationProvider
	if c.TranslationEndpoint != "" {
		cfg.GoogleEndpoint = c.TranslationEndpoint
	}
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.GeminiKey = GetGeminiKey()
	if model := viper.GetString("translation.openai_model"); model != "" {
		cfg.OpenAIModel = model
	}
	if model := viper.GetString("translation.gemini_model"); model != "" {
		cfg.GeminiModel = model
	}
	return cfg
}

func stringOr(key, fallback string) string {
	if viper.IsSet(key) {
		if v := viper.GetString(key); v != "" {
			return v
		}
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if viper.IsSet(key) {
		if v := viper.GetDuration(key); v > 0 {
			return v
		}
	}
	return fallback
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}
