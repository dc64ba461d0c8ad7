package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"cnnvideo/internal/httputil"
	xlog "cnnvideo/internal/log"
	"cnnvideo/internal/media"
	"cnnvideo/internal/parse"
)

// CNNKey identifies the primary video extractor.
const CNNKey = "CNN"

// cnnURLRE matches direct video URLs. The path ends either in a known file suffix
// or right before a '&' glued on by feed trackers; the latter is captured as the
// "amp" group and trimmed from the path afterwards.
var cnnURLRE = regexp.MustCompile(`^https?://(?:(?:edition|www)\.)?cnn\.com/video/(?:data/.+?|\?)/` +
	`(?P<path>.+?/(?P<title>[^/]+?)(?:\.(?:cnn|hln|ktvk)(?:-ap)?|(?P<amp>&)))`)

// CNN extracts metadata for cnn.com/video URLs from the rendition manifest.
type CNN struct {
	fetcher Fetcher
	opts    Options
	log     zerolog.Logger
}

// NewCNN creates the primary extractor.
func NewCNN(f Fetcher, opts Options) *CNN {
	return &CNN{
		fetcher: f,
		opts:    opts.withDefaults(),
		log:     xlog.WithComponent("extract").With().Str("extractor", CNNKey).Logger(),
	}
}

func (*CNN) Key() string { return CNNKey }

func (*CNN) Pattern() string { return cnnURLRE.String() }

func (*CNN) Suitable(rawURL string) bool { return cnnURLRE.MatchString(rawURL) }

// ParseVideoURL splits a direct video URL into its content path (the manifest
// lookup key) and the trailing title segment.
func ParseVideoURL(rawURL string) (path, title string, err error) {
	m := cnnURLRE.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", &UnsupportedURLError{URL: rawURL}
	}
	path = m[cnnURLRE.SubexpIndex("path")]
	if m[cnnURLRE.SubexpIndex("amp")] != "" {
		path = strings.TrimSuffix(path, "&")
	}
	return path, m[cnnURLRE.SubexpIndex("title")], nil
}

// ManifestURL returns the manifest location for a content path.
func (c *CNN) ManifestURL(path string) string {
	return httputil.JoinURL(c.opts.ManifestBase, path, "index.xml")
}

// Extract downloads the manifest behind rawURL and maps it to a record.
func (c *CNN) Extract(ctx context.Context, rawURL string) (media.Result, error) {
	path, title, err := ParseVideoURL(rawURL)
	if err != nil {
		return nil, err
	}

	manifestURL := c.ManifestURL(path)
	c.log.Debug().Str("id", title).Str("url", manifestURL).Msg("downloading manifest")

	body, err := c.fetcher.Fetch(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("downloading manifest: %w", err)
	}

	m, err := decodeManifest(body)
	if err != nil {
		return nil, err
	}

	return c.buildInfo(m)
}

// manifest mirrors the rendition manifest. Pointer fields distinguish an absent
// element from an empty one.
type manifest struct {
	ID          *string         `xml:"id,attr"`
	Headline    *string         `xml:"headline"`
	Description *string         `xml:"description"`
	Length      *string         `xml:"length"`
	Metas       *manifestMetas  `xml:"metas"`
	Files       []manifestFile  `xml:"files>file"`
	Images      []manifestImage `xml:"images>image"`
}

type manifestMetas struct {
	Version *string `xml:"version,attr"`
}

type manifestFile struct {
	Bitrate *string `xml:"bitrate,attr"`
	Path    string  `xml:",chardata"`
}

type manifestImage struct {
	Width  *string `xml:"width,attr"`
	Height *string `xml:"height,attr"`
	URL    string  `xml:",chardata"`
}

func decodeManifest(body []byte) (*manifest, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = true
	// No entity expansion beyond the XML builtins.
	dec.Entity = map[string]string{}
	dec.CharsetReader = charset.NewReaderLabel

	var m manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedManifestError{Element: "document", Reason: "empty"}
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

func (c *CNN) buildInfo(m *manifest) (*media.Info, error) {
	formats := make([]media.Format, 0, len(m.Files))
	for i, f := range m.Files {
		if f.Bitrate == nil {
			return nil, &MissingElementError{Element: fmt.Sprintf("file[%d]@bitrate", i)}
		}
		formats = append(formats, c.buildFormat(*f.Bitrate, f.Path))
	}
	if err := media.SortFormats(formats); err != nil {
		return nil, err
	}

	thumbnails := make([]media.Thumbnail, 0, len(m.Images))
	for i, img := range m.Images {
		t, err := buildThumbnail(i, img)
		if err != nil {
			return nil, err
		}
		thumbnails = append(thumbnails, t)
	}

	var uploadDate *string
	if m.Metas != nil && m.Metas.Version != nil {
		uploadDate = media.String(*m.Metas.Version)
	}

	if m.Length == nil {
		return nil, &MissingElementError{Element: "length"}
	}
	var duration *float64
	if d, ok := parse.Duration(*m.Length); ok {
		duration = media.Float(d)
	}

	if m.ID == nil {
		return nil, &MissingElementError{Element: "id attribute"}
	}
	if m.Headline == nil {
		return nil, &MissingElementError{Element: "headline"}
	}
	if m.Description == nil {
		return nil, &MissingElementError{Element: "description"}
	}

	return &media.Info{
		ID:          *m.ID,
		Title:       *m.Headline,
		Description: *m.Description,
		Duration:    duration,
		UploadDate:  uploadDate,
		Formats:     formats,
		Thumbnails:  thumbnails,
	}, nil
}

func (c *CNN) buildFormat(bitrate, text string) media.Format {
	f := media.Format{
		FormatID: bitrate,
		URL:      c.opts.CDNBase + strings.TrimSpace(text),
	}

	hint, matcher := matchBitrate(bitrate, text)
	if matcher == "" {
		c.log.Debug().Str("format_id", bitrate).Msg("no quality hint for format")
	}
	f.Width, f.Height, f.TBR = hint.Width, hint.Height, hint.TBR
	f.VCodec = hint.VCodec

	f.Ext = hint.Ext
	if f.Ext == "" {
		f.Ext = parse.DetermineExt(f.URL, "")
	}
	return f
}

func buildThumbnail(i int, img manifestImage) (media.Thumbnail, error) {
	dim := func(name string, v *string) (int, error) {
		if v == nil {
			return 0, &MalformedManifestError{Element: fmt.Sprintf("image[%d]", i), Reason: "missing " + name}
		}
		n, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return 0, &MalformedManifestError{Element: fmt.Sprintf("image[%d]", i), Reason: fmt.Sprintf("bad %s %q", name, *v)}
		}
		return n, nil
	}

	w, err := dim("width", img.Width)
	if err != nil {
		return media.Thumbnail{}, err
	}
	h, err := dim("height", img.Height)
	if err != nil {
		return media.Thumbnail{}, err
	}
	return media.Thumbnail{URL: strings.TrimSpace(img.URL), Width: w, Height: h}, nil
}
