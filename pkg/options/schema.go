// schema.go
package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the value type of a schema option
type Kind string

const (
	KindBool Kind = "bool"
	KindEnum Kind = "enum"
)

// Option names as presented to the invoking package manager
const (
	OptShared        = "shared"
	OptFPIC          = "fPIC"
	OptSSL           = "ssl"
	OptWithPlugins   = "lws_with_plugins"
	OptWithLibuv     = "lws_with_libuv"
	OptWithLibevent  = "lws_with_libevent"
	OptWithZlib      = "lws_with_zlib"
	OptWithIPv6      = "lws_with_ipv6"
	OptWithRanges    = "lws_with_ranges"
	OptWithMQTT      = "lws_with_mqtt"
	OptWithHTTP2     = "lws_with_http2"
	OptWithLwsServer = "lws_with_lwsws"
)

// Option declares one user-selectable option
type Option struct {
	Name        string   // Schema key (e.g. "lws_with_zlib")
	Kind        Kind     // bool or enum
	Values      []string // Accepted values, in display form
	Default     string   // Default value, in display form
	Description string

	get func(*OptionSet) string
	set func(*OptionSet, string) error
}

var boolValues = []string{"True", "False"}

func boolOption(name, def, desc string, field func(*OptionSet) *bool) Option {
	return Option{
		Name:        name,
		Kind:        KindBool,
		Values:      boolValues,
		Default:     def,
		Description: desc,
		get: func(o *OptionSet) string {
			return formatBool(*field(o))
		},
		set: func(o *OptionSet, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return fmt.Errorf("%w: option %s: %v", ErrInvalidConfiguration, name, err)
			}
			*field(o) = b
			return nil
		},
	}
}

// declarations is the full schema in display order; platform filtering happens in Schema
var declarations = []Option{
	boolOption(OptShared, "False", "build a shared library instead of a static one",
		func(o *OptionSet) *bool { return &o.Shared }),
	boolOption(OptFPIC, "True", "position independent code for the static library",
		func(o *OptionSet) *bool { return &o.PositionIndependentCode }),
	{
		Name:        OptSSL,
		Kind:        KindEnum,
		Values:      []string{"False", string(TLSOpenSSL), string(TLSMbedTLS)},
		Default:     "False",
		Description: "TLS backend",
		get: func(o *OptionSet) string {
			if o.TLSBackend == TLSNone || o.TLSBackend == "" {
				return "False"
			}
			return string(o.TLSBackend)
		},
		set: func(o *OptionSet, v string) error {
			b, err := ParseTLSBackend(v)
			if err != nil {
				return err
			}
			o.TLSBackend = b
			return nil
		},
	},
	boolOption(OptWithPlugins, "False", "build the protocol plugins (requires libuv)",
		func(o *OptionSet) *bool { return &o.WithPlugins }),
	boolOption(OptWithLibuv, "False", "libuv event loop",
		func(o *OptionSet) *bool { return &o.WithLibuv }),
	boolOption(OptWithLibevent, "False", "libevent event loop",
		func(o *OptionSet) *bool { return &o.WithLibevent }),
	boolOption(OptWithZlib, "False", "zlib compression and permessage-deflate extensions",
		func(o *OptionSet) *bool { return &o.WithZlib }),
	boolOption(OptWithIPv6, "False", "IPv6 support",
		func(o *OptionSet) *bool { return &o.WithIPv6 }),
	boolOption(OptWithRanges, "False", "HTTP ranges support",
		func(o *OptionSet) *bool { return &o.WithRanges }),
	boolOption(OptWithMQTT, "False", "MQTT client role",
		func(o *OptionSet) *bool { return &o.WithMQTT }),
	boolOption(OptWithHTTP2, "False", "HTTP/2 support",
		func(o *OptionSet) *bool { return &o.WithHTTP2 }),
	boolOption(OptWithLwsServer, "False", "lwsws server application",
		func(o *OptionSet) *bool { return &o.WithLwsServer }),
}

// removedOn lists the options that are not offered on a platform at all
var removedOn = map[Platform][]string{
	PlatformWindows: {OptFPIC},
}

// Schema returns the options offered on the given platform, in display order
func Schema(p Platform) []Option {
	removed := removedOn[p]
	out := make([]Option, 0, len(declarations))
	for _, opt := range declarations {
		if containsString(removed, opt.Name) {
			continue
		}
		out = append(out, opt)
	}
	return out
}

// Names returns the option names offered on the given platform
func Names(p Platform) []string {
	schema := Schema(p)
	names := make([]string, len(schema))
	for i, opt := range schema {
		names[i] = opt.Name
	}
	return names
}

// Defaults returns the option set every invocation starts from
func Defaults(p Platform) OptionSet {
	o := OptionSet{Platform: p}
	for _, opt := range declarations {
		// Declared defaults are always valid.
		_ = opt.set(&o, opt.Default)
	}
	return o
}

// Set assigns a single option from its textual value
func (o *OptionSet) Set(name, value string) error {
	opt, ok := lookup(o.Platform, name)
	if !ok {
		if _, declared := lookup("", name); declared {
			return fmt.Errorf("%w: %w: %s on %s", ErrInvalidConfiguration, ErrOptionNotOffered, name, o.Platform)
		}
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfiguration, ErrUnknownOption, name)
	}
	return opt.set(o, value)
}

// Get returns the display value of a single option
func (o OptionSet) Get(name string) (string, error) {
	opt, ok := lookup(o.Platform, name)
	if !ok {
		return "", fmt.Errorf("%w: %w: %s", ErrInvalidConfiguration, ErrUnknownOption, name)
	}
	return opt.get(&o), nil
}

// lookup finds an option offered on p; an empty platform searches the full declaration list
func lookup(p Platform, name string) (Option, bool) {
	list := declarations
	if p != "" {
		list = Schema(p)
	}
	for _, opt := range list {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
