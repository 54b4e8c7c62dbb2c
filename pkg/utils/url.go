package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

var errNotAbsolute = errors.New("url must be absolute http(s)")

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (*url.URL, error) {
	relURL, err := url.Parse(strings.TrimSpace(relative))
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(relURL), nil
}

// ResolveURL resolves ref against the absolute baseURL.
func ResolveURL(baseURL, ref string) (string, error) {
	base, err := ParseAbsolute(baseURL)
	if err != nil {
		return "", err
	}
	u, err := ToAbsoluteURL(base, ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ParseAbsolute parses rawURL and requires an http or https scheme and a host.
func ParseAbsolute(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, errNotAbsolute
	}
	return u, nil
}

// Origin returns scheme://host[:port] in lower case with default ports elided.
func Origin(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}
	return scheme + "://" + host
}

// Normalize returns the dedup key of u: origin and path, without query or fragment.
// An empty path becomes "/".
func Normalize(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return Origin(u) + path
}

// NormalizeURL parses rawURL and returns its dedup key.
func NormalizeURL(rawURL string) (string, error) {
	u, err := ParseAbsolute(rawURL)
	if err != nil {
		return "", err
	}
	return Normalize(u), nil
}
