// types.go
package options

import (
	"fmt"
	"strings"
)

// TLSBackend selects the TLS library libwebsockets is built against
type TLSBackend string

const (
	// TLSNone builds without TLS support
	TLSNone TLSBackend = "none"
	// TLSOpenSSL builds against OpenSSL
	TLSOpenSSL TLSBackend = "openssl"
	// TLSMbedTLS builds against mbed TLS
	TLSMbedTLS TLSBackend = "mbedtls"
)

// AllTLSBackends contains every accepted TLS backend
var AllTLSBackends = []TLSBackend{TLSNone, TLSOpenSSL, TLSMbedTLS}

// ParseTLSBackend accepts the backend names plus the recipe-style "False" for no TLS
func ParseTLSBackend(s string) (TLSBackend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false", "off", "no", "0":
		return TLSNone, nil
	case "openssl":
		return TLSOpenSSL, nil
	case "mbedtls":
		return TLSMbedTLS, nil
	}
	return "", fmt.Errorf("%w: unknown TLS backend %q (want one of False, openssl, mbedtls)", ErrInvalidConfiguration, s)
}

// String returns the string representation of the backend
func (b TLSBackend) String() string {
	return string(b)
}

// IsValid checks if the backend is a known value
func (b TLSBackend) IsValid() bool {
	for _, valid := range AllTLSBackends {
		if b == valid {
			return true
		}
	}
	return false
}

// Enabled reports whether any TLS backend is selected
func (b TLSBackend) Enabled() bool {
	return b == TLSOpenSSL || b == TLSMbedTLS
}

// Platform is the target operating system family as far as the recipe cares
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformOther   Platform = "other"
)

// AllPlatforms contains every accepted platform
var AllPlatforms = []Platform{PlatformWindows, PlatformLinux, PlatformOther}

// PlatformFromGOOS maps a Go GOOS value onto a recipe platform
func PlatformFromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	default:
		return PlatformOther
	}
}

// ParsePlatform parses a platform name. Any GOOS value is accepted and folded into "other"
// unless it is windows or linux; "other" itself is accepted too.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%w: empty platform", ErrInvalidConfiguration)
	}
	if p := Platform(s); p.IsValid() {
		return p, nil
	}
	if _, ok := knownGOOS[s]; ok {
		return PlatformFromGOOS(s), nil
	}
	return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidConfiguration, s)
}

var knownGOOS = map[string]struct{}{
	"darwin": {}, "freebsd": {}, "netbsd": {}, "openbsd": {}, "dragonfly": {},
	"solaris": {}, "illumos": {}, "android": {}, "ios": {}, "aix": {},
}

// String returns the string representation of the platform
func (p Platform) String() string {
	return string(p)
}

// IsValid checks if the platform is a known value
func (p Platform) IsValid() bool {
	for _, valid := range AllPlatforms {
		if p == valid {
			return true
		}
	}
	return false
}

// OptionSet is the user-selectable build configuration of one recipe invocation
type OptionSet struct {
	Shared                  bool       `yaml:"shared" json:"shared"`
	PositionIndependentCode bool       `yaml:"fPIC" json:"fPIC"`
	TLSBackend              TLSBackend `yaml:"ssl" json:"ssl"`
	WithPlugins             bool       `yaml:"lws_with_plugins" json:"lws_with_plugins"`
	WithLibuv               bool       `yaml:"lws_with_libuv" json:"lws_with_libuv"`
	WithLibevent            bool       `yaml:"lws_with_libevent" json:"lws_with_libevent"`
	WithZlib                bool       `yaml:"lws_with_zlib" json:"lws_with_zlib"`
	WithIPv6                bool       `yaml:"lws_with_ipv6" json:"lws_with_ipv6"`
	WithRanges              bool       `yaml:"lws_with_ranges" json:"lws_with_ranges"`
	WithMQTT                bool       `yaml:"lws_with_mqtt" json:"lws_with_mqtt"`
	WithHTTP2               bool       `yaml:"lws_with_http2" json:"lws_with_http2"`
	WithLwsServer           bool       `yaml:"lws_with_lwsws" json:"lws_with_lwsws"`
	Platform                Platform   `yaml:"platform" json:"platform"`
}

// Validate reports enum values outside their domain
func (o OptionSet) Validate() error {
	if !o.TLSBackend.IsValid() {
		return fmt.Errorf("%w: unknown TLS backend %q", ErrInvalidConfiguration, o.TLSBackend)
	}
	if !o.Platform.IsValid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidConfiguration, o.Platform)
	}
	return nil
}

// Offers reports whether the named option is part of the schema for this option set's platform
func (o OptionSet) Offers(name string) bool {
	_, ok := lookup(o.Platform, name)
	return ok
}

// Values renders the option set as schema name -> value, only for options offered on the platform
func (o OptionSet) Values() map[string]string {
	out := make(map[string]string)
	for _, opt := range Schema(o.Platform) {
		out[opt.Name] = opt.get(&o)
	}
	return out
}
