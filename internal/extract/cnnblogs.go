package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"cnnvideo/internal/httputil"
	xlog "cnnvideo/internal/log"
	"cnnvideo/internal/media"
)

// CNNBlogsKey identifies the blog post redirect extractor.
const CNNBlogsKey = "CNNBlogs"

var (
	cnnBlogsURLRE = regexp.MustCompile(`^https?://[^.]+\.blogs\.cnn\.com/.+`)
	dataURLRE     = regexp.MustCompile(`data-url="(.+?)"`)
)

// CNNBlogs resolves *.blogs.cnn.com posts to the video they embed.
type CNNBlogs struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// NewCNNBlogs creates the blog redirect extractor.
func NewCNNBlogs(f Fetcher) *CNNBlogs {
	return &CNNBlogs{
		fetcher: f,
		log:     xlog.WithComponent("extract").With().Str("extractor", CNNBlogsKey).Logger(),
	}
}

func (*CNNBlogs) Key() string { return CNNBlogsKey }

func (*CNNBlogs) Pattern() string { return cnnBlogsURLRE.String() }

func (*CNNBlogs) Suitable(rawURL string) bool { return cnnBlogsURLRE.MatchString(rawURL) }

// Extract finds the embedded player's data-url and redirects to it.
func (b *CNNBlogs) Extract(ctx context.Context, rawURL string) (media.Result, error) {
	if !b.Suitable(rawURL) {
		return nil, &UnsupportedURLError{URL: rawURL}
	}

	b.log.Debug().Str("id", httputil.URLBasename(rawURL)).Msg("downloading webpage")
	page, err := b.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("downloading webpage: %w", err)
	}

	cnnURL, err := htmlSearchRegex(dataURLRE, string(page), "cnn url")
	if err != nil {
		// Single-quoted or otherwise unusual attribute markup.
		v, ok := findAttr(page, "data-url")
		if !ok {
			return nil, err
		}
		cnnURL = v
	}

	return &media.Redirect{URL: cnnURL, ExtractorKey: CNNKey}, nil
}
