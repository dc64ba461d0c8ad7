// Package extract turns CNN page URLs into video metadata records.
//
// Each extractor is stateless: it matches a URL shape, performs one or two
// sequential fetches and returns either a *media.Info or a *media.Redirect
// naming the extractor that should continue. Registry ties them together.
package extract

import (
	"context"

	"cnnvideo/internal/media"
)

// Extractor translates a matching URL into a metadata record or a redirect.
type Extractor interface {
	// Key is the stable identifier redirects use to address this extractor.
	Key() string

	// Pattern describes the accepted URL shape (for listings).
	Pattern() string

	// Suitable reports whether rawURL has the shape this extractor handles.
	Suitable(rawURL string) bool

	// Extract fetches whatever rawURL needs and builds the result.
	Extract(ctx context.Context, rawURL string) (media.Result, error)
}

// Fetcher downloads a whole document. *httputil.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Options carries the endpoint templates shared by the extractors.
type Options struct {
	ManifestBase string // rendition manifests live at <ManifestBase>/<path>/index.xml
	CDNBase      string // file paths from the manifest are appended to this
}

const (
	DefaultManifestBase = "http://edition.cnn.com/video/data/3.0"
	DefaultCDNBase      = "http://ht.cdn.turner.com/cnn/big"
)

func (o Options) withDefaults() Options {
	if o.ManifestBase == "" {
		o.ManifestBase = DefaultManifestBase
	}
	if o.CDNBase == "" {
		o.CDNBase = DefaultCDNBase
	}
	return o
}
