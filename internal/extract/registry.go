package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	xlog "cnnvideo/internal/log"
	"cnnvideo/internal/media"
)

// DefaultMaxRedirects bounds a redirect chain when the caller does not.
const DefaultMaxRedirects = 5

// Registry is an ordered, read-only set of extractors.
// Suitable tries extractors in registration order, so more specific patterns
// must be registered first.
type Registry struct {
	ordered      []Extractor
	byKey        map[string]Extractor
	maxRedirects int
	log          zerolog.Logger
}

// NewRegistry builds a registry; maxRedirects <= 0 selects DefaultMaxRedirects.
func NewRegistry(maxRedirects int, extractors ...Extractor) (*Registry, error) {
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	byKey := make(map[string]Extractor, len(extractors))
	for _, e := range extractors {
		if e == nil {
			return nil, fmt.Errorf("extractor cannot be nil")
		}
		key := strings.ToLower(strings.TrimSpace(e.Key()))
		if key == "" {
			return nil, fmt.Errorf("extractor key cannot be empty")
		}
		if _, ok := byKey[key]; ok {
			return nil, fmt.Errorf("duplicate extractor %q", e.Key())
		}
		byKey[key] = e
	}
	return &Registry{
		ordered:      append([]Extractor(nil), extractors...),
		byKey:        byKey,
		maxRedirects: maxRedirects,
		log:          xlog.WithComponent("registry"),
	}, nil
}

// NewDefault registers the CNN extractors in dispatch order: the direct video
// pattern first, then blogs, then the article catch-all.
func NewDefault(f Fetcher, opts Options, maxRedirects int) (*Registry, error) {
	return NewRegistry(maxRedirects,
		NewCNN(f, opts),
		NewCNNBlogs(f),
		NewCNNArticle(f),
	)
}

// Get looks up an extractor by key (case-insensitive).
func (r *Registry) Get(key string) (Extractor, bool) {
	e, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
	return e, ok
}

// Suitable returns the first extractor accepting rawURL, or nil.
func (r *Registry) Suitable(rawURL string) Extractor {
	for _, e := range r.ordered {
		if e.Suitable(rawURL) {
			return e
		}
	}
	return nil
}

// List returns the extractors in dispatch order.
func (r *Registry) List() []Extractor {
	return append([]Extractor(nil), r.ordered...)
}

// Resolve extracts rawURL, following redirects one at a time until an extractor
// returns a terminal record.
func (r *Registry) Resolve(ctx context.Context, rawURL string) (*media.Info, error) {
	current := rawURL
	key := ""
	chain := []string{rawURL}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e, err := r.pick(current, key)
		if err != nil {
			return nil, err
		}

		r.log.Debug().Str("extractor", e.Key()).Str("url", current).Msg("extracting")
		res, err := e.Extract(ctx, current)
		if err != nil {
			return nil, &Error{Extractor: e.Key(), URL: current, Err: err}
		}

		switch v := res.(type) {
		case *media.Info:
			v.Extractor = e.Key()
			if v.WebpageURL == "" {
				v.WebpageURL = current
			}
			return v, nil
		case *media.Redirect:
			chain = append(chain, v.URL)
			if len(chain)-1 > r.maxRedirects {
				return nil, &Error{Extractor: e.Key(), URL: rawURL, Err: &TooManyRedirectsError{Chain: chain}}
			}
			r.log.Debug().Str("from", current).Str("to", v.URL).Str("ie_key", v.ExtractorKey).Msg("following redirect")
			current, key = v.URL, v.ExtractorKey
		default:
			return nil, &Error{Extractor: e.Key(), URL: current, Err: fmt.Errorf("unexpected result type %T", res)}
		}
	}
}

func (r *Registry) pick(rawURL, key string) (Extractor, error) {
	if key != "" {
		e, ok := r.Get(key)
		if !ok {
			return nil, &Error{URL: rawURL, Err: fmt.Errorf("unknown extractor %q", key)}
		}
		if !e.Suitable(rawURL) {
			return nil, &Error{Extractor: e.Key(), URL: rawURL, Err: &UnsupportedURLError{URL: rawURL}}
		}
		return e, nil
	}
	e := r.Suitable(rawURL)
	if e == nil {
		return nil, &Error{URL: rawURL, Err: &UnsupportedURLError{URL: rawURL}}
	}
	return e, nil
}
