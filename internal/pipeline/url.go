package pipeline

import "net/url"

// ValidateURL implements validate_url: the input must parse to an absolute
// URL (scheme and host both present).
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{Input: raw, Cause: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &InvalidURLError{Input: raw, Cause: errNotAbsolute}
	}
	return u, nil
}

var errNotAbsolute = errAbsoluteURLRequired{}

type errAbsoluteURLRequired struct{}

func (errAbsoluteURLRequired) Error() string { return "url must be absolute with a host" }
