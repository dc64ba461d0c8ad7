// Package download streams a selected rendition to a local file.
// Output paths are sanitized and validated against directory traversal, and
// the file only appears under its final name once fully written.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"cnnvideo/internal/httputil"
	xlog "cnnvideo/internal/log"
	"cnnvideo/internal/media"
)

// Progress receives the bytes written so far and the expected total
// (-1 when the server does not say).
type Progress func(written, total int64)

// Downloader fetches format URLs with the shared HTTP stack.
type Downloader struct {
	fetcher *httputil.Fetcher
	log     zerolog.Logger
}

// New creates a Downloader.
func New(f *httputil.Fetcher) *Downloader {
	return &Downloader{fetcher: f, log: xlog.WithComponent("download")}
}

// Filename returns "<title> [<id basename>].<ext>" with unsafe characters removed.
func Filename(info *media.Info, f media.Format) string {
	title := strings.ReplaceAll(info.Title, "/", "-")
	name := title
	if base := httputil.URLBasename(info.ID); base != "" {
		name += " [" + strings.ReplaceAll(base, "/", "-") + "]"
	}
	ext := f.Ext
	if ext == "" {
		ext = "mp4"
	}
	return httputil.SanitizeFilename(name + "." + ext)
}

// Download writes format f of info into outputDir and returns the final path.
// progress may be nil.
func (d *Downloader) Download(ctx context.Context, info *media.Info, f media.Format, outputDir string, progress Progress) (string, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, Filename(info, f))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	resp, err := d.fetcher.Get(ctx, f.URL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httputil.StatusError{URL: f.URL, StatusCode: resp.StatusCode}
	}

	d.log.Info().Str("format_id", f.FormatID).Str("path", outputPath).Msg("downloading")

	tmpFile, err := os.CreateTemp(absDir, ".cnnvideo-*.part")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var dst io.Writer = tmpFile
	if progress != nil {
		dst = &countingWriter{w: tmpFile, total: resp.ContentLength, report: progress}
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("downloading %s: %w", f.URL, err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming download: %w", err)
	}

	return outputPath, nil
}

type countingWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  Progress
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	c.report(c.written, c.total)
	return n, err
}
