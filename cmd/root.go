// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cnnvideo/internal/config"
	xlog "cnnvideo/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON        bool
	flagListFormats bool
	flagDownload    bool
	flagPlay        bool
	flagPlayer      string
	flagOutput      string
	flagFormat      string
	flagUserAgent   string
	flagNoArchive   bool
	flagDebug       bool
	flagLogJSON     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cnnvideo [url...]",
	Short: "Extract video metadata from CNN pages",
	Long: `cnnvideo resolves cnn.com video, article and blog URLs to the underlying video,
prints its metadata and formats, and optionally downloads or plays a selected rendition.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              extractRun,
	SilenceUsage:      true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight work.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the video record as JSON")
	rootCmd.Flags().BoolVarP(&flagListFormats, "list-formats", "F", false, "List available formats")
	rootCmd.Flags().BoolVarP(&flagDownload, "download", "d", false, "Download the selected format")
	rootCmd.Flags().BoolVarP(&flagPlay, "play", "p", false, "Play the selected format")
	rootCmd.Flags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Download directory (default: download_dir from config)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Format to download: best | worst | bestaudio | <format id>")
	rootCmd.Flags().BoolVar(&flagNoArchive, "no-archive", false, "Ignore and do not update the download archive")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "HTTP User-Agent override")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Write log lines as JSON instead of console text")

	rootCmd.AddCommand(extractorsCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagOutput != "" {
		cfg.DownloadDir = flagOutput
	}
	if flagUserAgent != "" {
		cfg.UserAgent = flagUserAgent
	}
	if flagNoArchive {
		cfg.Archive = false
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagLogJSON {
		cfg.LogJSON = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := ""
	if cfg.Debug {
		level = "debug"
	}
	xlog.Configure(xlog.Config{Level: level, Output: cmd.ErrOrStderr(), JSON: cfg.LogJSON})

	return nil
}

// cliLog returns the logger for command-level events.
func cliLog() *zerolog.Logger {
	l := xlog.Base().With().Str("component", "cli").Logger()
	return &l
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cnnvideo %s\n", Version)
	},
}
