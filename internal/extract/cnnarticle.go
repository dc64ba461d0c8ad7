package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"cnnvideo/internal/httputil"
	xlog "cnnvideo/internal/log"
	"cnnvideo/internal/media"
)

// CNNArticleKey identifies the article redirect extractor.
const CNNArticleKey = "CNNArticle"

// articleVideoPrefix turns the script literal into a URL the CNN extractor accepts.
const articleVideoPrefix = "http://cnn.com/video/?/video/"

var (
	// cnnArticleURLRE captures everything after the host; paths under video/
	// are rejected in Suitable since RE2 has no negative lookahead.
	cnnArticleURLRE = regexp.MustCompile(`^https?://(?:(?:edition|www)\.)?cnn\.com/(.*)`)
	videoLiteralRE  = regexp.MustCompile(`video:\s*'([^']+)'`)
)

// CNNArticle resolves generic cnn.com articles to the video their player script names.
type CNNArticle struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// NewCNNArticle creates the article redirect extractor.
func NewCNNArticle(f Fetcher) *CNNArticle {
	return &CNNArticle{
		fetcher: f,
		log:     xlog.WithComponent("extract").With().Str("extractor", CNNArticleKey).Logger(),
	}
}

func (*CNNArticle) Key() string { return CNNArticleKey }

func (*CNNArticle) Pattern() string { return cnnArticleURLRE.String() + " (path not under video/)" }

func (*CNNArticle) Suitable(rawURL string) bool {
	m := cnnArticleURLRE.FindStringSubmatch(rawURL)
	return m != nil && !strings.HasPrefix(m[1], "video/")
}

// Extract finds the player's video literal and redirects to the CNN video URL.
func (a *CNNArticle) Extract(ctx context.Context, rawURL string) (media.Result, error) {
	if !a.Suitable(rawURL) {
		return nil, &UnsupportedURLError{URL: rawURL}
	}

	a.log.Debug().Str("id", httputil.URLBasename(rawURL)).Msg("downloading webpage")
	page, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("downloading webpage: %w", err)
	}

	videoPath, err := htmlSearchRegex(videoLiteralRE, string(page), "cnn url")
	if err != nil {
		return nil, err
	}

	return &media.Redirect{URL: articleVideoPrefix + videoPath, ExtractorKey: CNNKey}, nil
}
