package session

import (
	"fmt"
	"strings"
)

// Tristate is a boolean setting that may be left unset so that another
// setting decides it.
type Tristate uint8

const (
	Unset Tristate = iota
	On
	Off
)

// UnwrapOr resolves the setting, falling back to def when unset.
func (t Tristate) UnwrapOr(def bool) bool {
	switch t {
	case On:
		return true
	case Off:
		return false
	default:
		return def
	}
}

func (t Tristate) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unset"
	}
}

// Set implements pflag.Value.
func (t *Tristate) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		*t = On
	case "off", "false", "no", "0":
		*t = Off
	case "", "unset", "auto":
		*t = Unset
	default:
		return fmt.Errorf("invalid value %q (expected on, off or unset)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (t *Tristate) Type() string {
	return "on|off|unset"
}

// UnmarshalText lets Tristate appear as a string in mirror.toml.
func (t *Tristate) UnmarshalText(text []byte) error {
	return t.Set(string(text))
}

// MarshalText renders the canonical spelling.
func (t Tristate) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
