package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnnvideo/internal/httputil"
	"cnnvideo/internal/media"
)

var nadal = &media.Info{
	ID:    "sports/2013/06/09/nadal-1-on-1.cnn",
	Title: "Nadal wins 8th French Open title",
}

func newDownloader() *Downloader {
	return New(httputil.NewFetcher(httputil.NewClient(5*time.Second), ""))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		info *media.Info
		f    media.Format
		want string
	}{
		{"plain", nadal, media.Format{Ext: "mp4"}, "Nadal wins 8th French Open title [nadal-1-on-1.cnn].mp4"},
		{"audio", nadal, media.Format{Ext: "m4a"}, "Nadal wins 8th French Open title [nadal-1-on-1.cnn].m4a"},
		{"no ext", nadal, media.Format{}, "Nadal wins 8th French Open title [nadal-1-on-1.cnn].mp4"},
		{"slash in title", &media.Info{ID: "a/b.cnn", Title: "AC/DC live"}, media.Format{Ext: "mp4"}, "AC-DC live [b.cnn].mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.info, tt.f))
		})
	}
}

func TestDownload(t *testing.T) {
	payload := strings.Repeat("frame", 4096)
	tests := []struct {
		name      string
		chunked   bool
		wantTotal int64
	}{
		{"content length", false, int64(len(payload))},
		{"chunked reports unknown total", true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.chunked {
					w.(http.Flusher).Flush()
				} else {
					w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
				}
				w.Write([]byte(payload))
			}))
			defer srv.Close()

			dir := t.TempDir()
			var last, total int64
			path, err := newDownloader().Download(context.Background(), nadal,
				media.Format{FormatID: "hd", URL: srv.URL + "/hd.mp4", Ext: "mp4"}, dir,
				func(written, expected int64) { last, total = written, expected })
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "Nadal wins 8th French Open title [nadal-1-on-1.cnn].mp4"), path)
			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, payload, string(got))
			assert.Equal(t, int64(len(payload)), last)
			assert.Equal(t, tt.wantTotal, total)

			leftovers, _ := filepath.Glob(filepath.Join(dir, "*.part"))
			assert.Empty(t, leftovers)
		})
	}
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := newDownloader().Download(context.Background(), nadal, media.Format{URL: srv.URL + "/x.mp4"}, dir, nil)

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusGone, se.StatusCode)

	files, _ := os.ReadDir(dir)
	assert.Empty(t, files)
}

func TestDownload_Canceled(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	dir := t.TempDir()
	_, err := newDownloader().Download(ctx, nadal, media.Format{URL: srv.URL + "/x.mp4", Ext: "mp4"}, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)

	files, _ := os.ReadDir(dir)
	assert.Empty(t, files, "partial download must be cleaned up")
}

func TestDownload_RejectsBadURL(t *testing.T) {
	_, err := newDownloader().Download(context.Background(), nadal, media.Format{URL: "file:///etc/passwd"}, t.TempDir(), nil)
	assert.Error(t, err)
}
