package extract

import (
	"fmt"
	"strings"
)

// Error is an extraction failure tagged with the extractor and URL it happened on.
// The CLI reports it as-is; callers can errors.As into the cause.
type Error struct {
	Extractor string // empty when no extractor matched
	URL       string
	Err       error
}

func (e *Error) Error() string {
	if e.Extractor == "" {
		return fmt.Sprintf("%s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Extractor, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UnsupportedURLError means no extractor (or not the addressed one) accepts the URL.
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	return "unsupported URL: " + e.URL
}

// RegexNotFoundError means a required pattern was absent from a fetched page.
type RegexNotFoundError struct {
	Name string // what was being searched for, e.g. "cnn url"
}

func (e *RegexNotFoundError) Error() string {
	return "unable to extract " + e.Name
}

// MissingElementError means the manifest lacks a required element or attribute.
type MissingElementError struct {
	Element string // e.g. "headline", "video@id"
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("manifest has no %s", e.Element)
}

// MalformedManifestError means an element is present but unusable.
type MalformedManifestError struct {
	Element string
	Reason  string
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("malformed %s in manifest: %s", e.Element, e.Reason)
}

// TooManyRedirectsError stops a redirect chain that does not settle.
type TooManyRedirectsError struct {
	Chain []string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("too many redirects (%d): %s", len(e.Chain)-1, strings.Join(e.Chain, " -> "))
}
