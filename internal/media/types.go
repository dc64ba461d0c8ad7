// Package media defines the records extractors produce: video metadata with its
// formats and thumbnails, and redirects to other extractors.
package media

// Result is what an extractor returns for a URL: either a terminal *Info or a
// *Redirect that the registry must resolve further.
type Result interface {
	result()
}

// Info is the terminal metadata record for one video.
// Optional fields are pointers so "absent" stays distinct from zero.
type Info struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    *float64    `json:"duration,omitempty"`    // seconds
	UploadDate  *string     `json:"upload_date,omitempty"` // YYYYMMDD as published in the manifest
	Formats     []Format    `json:"formats"`
	Thumbnails  []Thumbnail `json:"thumbnails"`

	// Filled in by the registry once the redirect chain settles.
	Extractor  string `json:"extractor,omitempty"`
	WebpageURL string `json:"webpage_url,omitempty"`
}

func (*Info) result() {}

// Format is one downloadable rendition.
type Format struct {
	FormatID string `json:"format_id"`
	URL      string `json:"url"`
	Ext      string `json:"ext,omitempty"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
	TBR      *int   `json:"tbr,omitempty"`    // target bitrate, kbit/s
	VCodec   string `json:"vcodec,omitempty"` // "none" for audio-only renditions
}

// AudioOnly reports whether the rendition carries no video stream.
func (f Format) AudioOnly() bool {
	return f.VCodec == "none"
}

// Thumbnail is one preview image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Redirect points at another URL that a named extractor should handle.
// An empty ExtractorKey means "whichever extractor matches the URL".
type Redirect struct {
	URL          string `json:"url"`
	ExtractorKey string `json:"ie_key,omitempty"`
}

func (*Redirect) result() {}

// Int returns a pointer to n, for populating optional fields.
func Int(n int) *int { return &n }

// String returns a pointer to s, for populating optional fields.
func String(s string) *string { return &s }

// Float returns a pointer to f, for populating optional fields.
func Float(f float64) *float64 { return &f }
