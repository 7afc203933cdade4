package chain

import "fmt"

// Mode is the error policy of a chain.
type Mode int

const (
	// Fallible chains accept TryConvert steps; Migrate may fail. This is the default.
	Fallible Mode = iota

	// Infallible chains accept only Convert steps; Migrate cannot fail on a
	// representation produced by the same chain.
	Infallible
)

// String returns the manifest spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Fallible:
		return "fallible"
	case Infallible:
		return "infallible"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "fallible" or "infallible". The empty string is Fallible.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "fallible":
		return Fallible, nil
	case "infallible":
		return Infallible, nil
	default:
		return 0, fmt.Errorf("invalid mode %q, expected \"infallible\" or \"fallible\"", s)
	}
}
