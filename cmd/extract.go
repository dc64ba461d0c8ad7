package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cnnvideo/internal/archive"
	"cnnvideo/internal/download"
	"cnnvideo/internal/extract"
	"cnnvideo/internal/httputil"
	"cnnvideo/internal/media"
	"cnnvideo/internal/player"
	"cnnvideo/internal/ui"
)

func newRegistry() (*extract.Registry, error) {
	f := httputil.NewFetcher(httputil.NewClient(cfg.RequestTimeout()), cfg.UserAgent)
	return extract.NewDefault(f, cfg.ExtractOptions(), cfg.MaxRedirects)
}

func extractRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	ctx := cmd.Context()
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	// URLs are handled one after another; a failure does not stop the rest.
	var failed int
	for _, rawURL := range args {
		if err := processURL(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), reg, rawURL); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %s\n", describe(err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(args))
	}
	return nil
}

func processURL(ctx context.Context, out, errOut io.Writer, reg *extract.Registry, rawURL string) error {
	info, err := reg.Resolve(ctx, rawURL)
	if err != nil {
		return err
	}
	cliLog().Debug().Str("id", info.ID).Str("extractor", info.Extractor).Int("formats", len(info.Formats)).Msg("resolved")

	p := ui.NewPrinter(out)
	switch {
	case flagJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case flagListFormats:
		p.Formats(info.Formats)
	default:
		p.Summary(info)
	}

	if flagDownload {
		// Keep stdout a single JSON document under --json.
		pathOut := out
		if flagJSON {
			pathOut = errOut
		}
		if err := downloadInfo(ctx, pathOut, errOut, info); err != nil {
			return err
		}
	}
	if flagPlay {
		return playInfo(ctx, info)
	}
	return nil
}

func playInfo(ctx context.Context, info *media.Info) error {
	f, err := media.Select(info.Formats, cfg.Format)
	if err != nil {
		return err
	}
	p, err := player.New(cfg.Player)
	if err != nil {
		return err
	}
	if !p.Available() {
		return fmt.Errorf("%s not found in PATH", p.Name())
	}
	cliLog().Debug().Str("player", p.Name()).Str("format_id", f.FormatID).Msg("starting player")
	return p.Play(ctx, f.URL, info.Title)
}

// downloadInfo writes the saved path to out and notices to errOut.
func downloadInfo(ctx context.Context, out, errOut io.Writer, info *media.Info) error {
	f, err := media.Select(info.Formats, cfg.Format)
	if err != nil {
		return err
	}

	var arc *archive.Archive
	if cfg.Archive {
		if arc, err = archive.OpenDefault(); err != nil {
			return err
		}
		done, err := arc.Contains(info.Extractor, info.ID)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintf(errOut, "%s has already been downloaded\n", info.ID)
			return nil
		}
	}

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		return err
	}

	// Downloads are bounded by the context, not the page-fetch timeout.
	client := httputil.NewClient(cfg.RequestTimeout())
	client.Timeout = 0
	dl := download.New(httputil.NewFetcher(client, cfg.UserAgent))

	bar := ui.StartProgress(ctx, errOut, f.FormatID)
	path, err := dl.Download(ctx, info, f, dir, bar.Update)
	bar.Stop()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)

	if arc != nil {
		if err := arc.Add(archive.Entry{Extractor: info.Extractor, ID: info.ID, Title: info.Title}); err != nil {
			return fmt.Errorf("updating archive: %w", err)
		}
	}
	return nil
}

// describe adds a hint for the failure kinds a user can act on.
func describe(err error) string {
	var (
		unsupported *extract.UnsupportedURLError
		status      *httputil.StatusError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.As(err, &unsupported):
		return fmt.Sprintf("%v (see 'cnnvideo extractors' for accepted URLs)", err)
	case errors.As(err, &status) && status.StatusCode == 404:
		return fmt.Sprintf("%v (the video may have been removed)", err)
	default:
		return err.Error()
	}
}
