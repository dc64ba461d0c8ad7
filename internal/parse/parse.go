// Package parse holds the loose string coercions extractors rely on: duration
// strings, optional integers and file extensions guessed from URLs.
package parse

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	// clockRE matches [[[DD:]HH:]MM:]SS[.fff]
	clockRE = regexp.MustCompile(`^(?:(?:(?:(?P<days>[0-9]+):)?(?P<hours>[0-9]+):)?(?P<mins>[0-9]+):)?(?P<secs>[0-9]+)(?P<ms>\.[0-9]+)?Z?$`)

	// unitRE matches "1h 2m 3s", "2 min", "PT1H2M3S" and friends.
	unitRE = regexp.MustCompile(`(?i)^(?:P?(?:(?P<days>[0-9]+)\s*d(?:ays?)?\s*)?T)?(?:(?P<hours>[0-9]+)\s*h(?:ours?)?\s*)?(?:(?P<mins>[0-9]+)\s*m(?:in(?:ute)?s?)?\s*)?(?:(?P<secs>[0-9]+)(?P<ms>\.[0-9]+)?\s*s(?:ec(?:ond)?s?)?\s*)?Z?$`)

	// fractionalRE matches "1.5 hours" or "2.5 mins".
	fractionalRE = regexp.MustCompile(`(?i)^(?:(?P<hours>[0-9.]+)\s*hours?|(?P<mins>[0-9.]+)\s*(?:mins?\.?|minutes?))\s*Z?$`)

	extRE = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// Duration converts a human or machine duration string into seconds.
// The second return value is false when the string is not a duration.
func Duration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if m := clockRE.FindStringSubmatch(s); m != nil {
		return sumDuration(clockRE, m), true
	}

	if m := unitRE.FindStringSubmatch(s); m != nil {
		matched := false
		for _, name := range []string{"days", "hours", "mins", "secs"} {
			if m[unitRE.SubexpIndex(name)] != "" {
				matched = true
				break
			}
		}
		if matched {
			return sumDuration(unitRE, m), true
		}
	}

	if m := fractionalRE.FindStringSubmatch(s); m != nil {
		if h := m[fractionalRE.SubexpIndex("hours")]; h != "" {
			if f, err := strconv.ParseFloat(h, 64); err == nil {
				return f * 3600, true
			}
		}
		if mins := m[fractionalRE.SubexpIndex("mins")]; mins != "" {
			if f, err := strconv.ParseFloat(mins, 64); err == nil {
				return f * 60, true
			}
		}
	}

	return 0, false
}

func sumDuration(re *regexp.Regexp, m []string) float64 {
	group := func(name string) float64 {
		i := re.SubexpIndex(name)
		if i < 0 || m[i] == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(m[i], 64)
		return f
	}
	total := group("secs")
	total += group("mins") * 60
	total += group("hours") * 60 * 60
	total += group("days") * 24 * 60 * 60
	if i := re.SubexpIndex("ms"); i >= 0 && m[i] != "" {
		f, _ := strconv.ParseFloat("0"+m[i], 64)
		total += f
	}
	return total
}

// IntOrNone parses a base-10 integer, returning nil for empty or malformed input.
func IntOrNone(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// DetermineExt guesses a file extension from the last path segment of rawURL,
// falling back to def when there is no plausible extension.
func DetermineExt(rawURL, def string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" || !extRE.MatchString(ext) {
		return def
	}
	return strings.ToLower(ext)
}
