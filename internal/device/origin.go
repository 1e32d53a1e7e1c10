package device

import (
	"errors"
	"strings"
)

const (
	secureScheme = "https://"
	localSuffix  = ".local"
)

// ErrEmptyDeviceID is returned when no device identifier was given.
var ErrEmptyDeviceID = errors.New("device id is empty")

// NormalizeOrigin turns a raw device identifier into an origin: https is
// assumed when no scheme is given, a trailing slash is dropped, and bare host
// names get the .local mDNS suffix.
func NormalizeOrigin(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", ErrEmptyDeviceID
	}
	if !strings.HasPrefix(strings.ToLower(host), secureScheme) {
		host = secureScheme + host
	}
	host = strings.TrimSuffix(host, "/")
	if !strings.Contains(host, ".") {
		host += localSuffix
	}
	return host, nil
}
