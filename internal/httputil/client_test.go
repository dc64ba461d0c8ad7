package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<video id=\"x\"/>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "cnnvideo-test")

	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, `<video id="x"/>`, string(body))
	assert.Equal(t, "cnnvideo-test", gotUA)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var se *StatusError
	require.True(t, errors.As(err, &se), "want *StatusError, got %v", err)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestFetch_RejectsBadScheme(t *testing.T) {
	f := NewFetcher(nil, "")
	assert.Equal(t, DefaultUserAgent, f.UserAgent)

	_, err := f.Fetch(context.Background(), "ftp://cnn.com/video")
	assert.Error(t, err)
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(srv.Client(), "").Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
