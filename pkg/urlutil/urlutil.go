package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve parses ref and resolves it against base following RFC 3986
// reference resolution. Absolute references pass through unchanged.
//
// Leading and trailing ASCII whitespace is stripped from ref the way HTML
// user agents do for attribute URLs. No other normalization is applied:
// the result keeps its fragment, query and letter case so that two spellings
// of the same resource stay distinct.
func Resolve(base url.URL, ref string) (url.URL, error) {
	parsed, err := url.Parse(strings.Trim(ref, " \t\n\f\r"))
	if err != nil {
		return url.URL{}, err
	}
	return *base.ResolveReference(parsed), nil
}

// ParseAbsolute parses raw and requires it to carry both a scheme and a host.
func ParseAbsolute(raw string) (url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, err
	}
	if !IsAbsolute(*parsed) {
		return url.URL{}, fmt.Errorf("not an absolute address: %q", raw)
	}
	return *parsed, nil
}

// IsAbsolute reports whether u names a network resource on its own.
func IsAbsolute(u url.URL) bool {
	return u.Scheme != "" && u.Host != ""
}
