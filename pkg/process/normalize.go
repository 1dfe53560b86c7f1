package process

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var ErrBadEndpoint = errors.New("invalid corpus endpoint")

const endpointFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment |
	purell.FlagDecodeUnnecessaryEscapes |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveDotSegments

// NormalizeEndpoint canonicalizes the corpus search URL. Only absolute
// http(s) URLs with a host are accepted.
func NormalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrBadEndpoint)
	}

	normalized, err := purell.NormalizeURLString(raw, endpointFlags)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q is not http or https", ErrBadEndpoint, u.Scheme)
	}
	if u.Host == "" || u.Opaque != "" {
		return "", fmt.Errorf("%w: %q has no host", ErrBadEndpoint, raw)
	}

	return normalized, nil
}
