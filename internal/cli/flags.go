package cli

import (
	"time"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/player"
	"codeberg.org/snonux/signreel/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	VideoFile  string
	ListWords  bool
	ListModels bool
	LogLevel   string

	// Input flags
	Language       string
	PhrasebookFile string

	// Service flags
	BackendURL          string
	AssetsBaseURL       string
	AssetsDir           string
	TranslationProvider string
	TranslationEndpoint string

	// Player flags
	NoticeDelay   time.Duration
	PlayerCommand string

	// MetricsAddr serves Prometheus metrics when set
	MetricsAddr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:            "info",
		Language:            translation.English,
		BackendURL:          backend.DefaultURL,
		AssetsBaseURL:       "http://localhost:5173",
		TranslationProvider: "google",
		TranslationEndpoint: translation.DefaultGoogleEndpoint,
		NoticeDelay:         player.DefaultNoticeDelay,
	}
}
