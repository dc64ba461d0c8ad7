package extract

import (
	"regexp"

	"cnnvideo/internal/media"
	"cnnvideo/internal/parse"
)

var (
	// resolutionRE matches "640x360" with an optional "_800k" bitrate suffix.
	resolutionRE         = regexp.MustCompile(`(?P<width>[0-9]+)x(?P<height>[0-9]+)(?:_(?P<bitrate>[0-9]+)k)?`)
	anchoredResolutionRE = regexp.MustCompile(`^` + resolutionRE.String())

	iosVariantRE = regexp.MustCompile(`^ios_(audio|[0-9]+)$`)
)

// formatHint is whatever quality information a manifest file entry gives away.
type formatHint struct {
	Width  *int
	Height *int
	TBR    *int
	VCodec string
	Ext    string
}

// bitrateMatcher derives a hint from a file entry's bitrate attribute and text.
type bitrateMatcher struct {
	Name  string
	Match func(bitrate, text string) (formatHint, bool)
}

// bitrateMatchers are tried in order; the first match wins, so the bitrate
// attribute takes precedence over the file path.
var bitrateMatchers = []bitrateMatcher{
	{
		Name: "bitrate-resolution",
		Match: func(bitrate, _ string) (formatHint, bool) {
			return matchResolution(anchoredResolutionRE, bitrate)
		},
	},
	{
		Name: "path-resolution",
		Match: func(_, text string) (formatHint, bool) {
			return matchResolution(resolutionRE, text)
		},
	},
	{
		Name:  "ios-variant",
		Match: matchIOSVariant,
	},
}

// matchBitrate runs the matcher chain and reports which matcher succeeded.
// An empty name means nothing matched and the hint is empty.
func matchBitrate(bitrate, text string) (formatHint, string) {
	for _, m := range bitrateMatchers {
		if h, ok := m.Match(bitrate, text); ok {
			return h, m.Name
		}
	}
	return formatHint{}, ""
}

func matchResolution(re *regexp.Regexp, s string) (formatHint, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return formatHint{}, false
	}
	w := parse.IntOrNone(m[re.SubexpIndex("width")])
	h := parse.IntOrNone(m[re.SubexpIndex("height")])
	if w == nil || h == nil {
		return formatHint{}, false
	}
	return formatHint{
		Width:  w,
		Height: h,
		TBR:    parse.IntOrNone(m[re.SubexpIndex("bitrate")]),
	}, true
}

func matchIOSVariant(bitrate, _ string) (formatHint, bool) {
	m := iosVariantRE.FindStringSubmatch(bitrate)
	if m == nil {
		return formatHint{}, false
	}
	if m[1] == "audio" {
		return formatHint{VCodec: "none", Ext: "m4a"}, true
	}
	tbr := parse.IntOrNone(m[1])
	if tbr == nil {
		return formatHint{}, false
	}
	return formatHint{TBR: media.Int(*tbr)}, true
}
