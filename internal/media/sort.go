package media

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNoFormats is returned when a record has nothing to download.
var ErrNoFormats = errors.New("no video formats found")

// SortFormats orders formats worst to best in place: audio-only renditions first,
// then by height, width and target bitrate (absent values sort lowest), with the
// format id as the final tie-break.
func SortFormats(formats []Format) error {
	if len(formats) == 0 {
		return ErrNoFormats
	}
	slices.SortStableFunc(formats, compareFormats)
	return nil
}

func compareFormats(a, b Format) int {
	if c := cmp.Compare(boolRank(!a.AudioOnly()), boolRank(!b.AudioOnly())); c != 0 {
		return c
	}
	if c := cmp.Compare(optRank(a.Height), optRank(b.Height)); c != 0 {
		return c
	}
	if c := cmp.Compare(optRank(a.Width), optRank(b.Width)); c != 0 {
		return c
	}
	if c := cmp.Compare(optRank(a.TBR), optRank(b.TBR)); c != 0 {
		return c
	}
	return cmp.Compare(a.FormatID, b.FormatID)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optRank(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

// Select picks a format from a list already sorted by SortFormats.
// selector is "best", "worst", "bestaudio" or an exact format id.
func Select(formats []Format, selector string) (Format, error) {
	if len(formats) == 0 {
		return Format{}, ErrNoFormats
	}

	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "", "best":
		return formats[len(formats)-1], nil
	case "worst":
		return formats[0], nil
	case "bestaudio":
		for i := len(formats) - 1; i >= 0; i-- {
			if formats[i].AudioOnly() {
				return formats[i], nil
			}
		}
		return Format{}, fmt.Errorf("no audio-only format available")
	}

	for _, f := range formats {
		if f.FormatID == selector {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("requested format %q not available", selector)
}
