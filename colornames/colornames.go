// Package colornames implements the closed, case-insensitive color-name
// table board documents use for LED/Button colorOff/colorOn and the
// board's background/foreground attributes (spec.md §6). No third-party
// color package appears anywhere in the retrieved example pack, so this
// stays on the standard library (see DESIGN.md).
package colornames

import "strings"

// ANSI SGR codes for the closed set spec.md §6 names. Values are the
// foreground escape sequence body (without the leading "\x1b[" / trailing
// "m"), matching the convention internal/wpilog already uses for level
// coloring.
var table = map[string]string{
	"reset":        "0",
	"black":        "30",
	"red":          "31",
	"green":        "32",
	"yellow":       "33",
	"blue":         "34",
	"magenta":      "35",
	"cyan":         "36",
	"gray":         "90",
	"darkgray":     "90",
	"lightred":     "91",
	"lightgreen":   "92",
	"lightyellow":  "93",
	"lightblue":    "94",
	"lightmagenta": "95",
	"lightcyan":    "96",
	"white":        "37",
}

// Default is the name Resolve falls back to for an unrecognized or empty
// name. Board parts keep their own per-type default colors instead (see
// board.defaultLED/defaultButton).
const Default = "reset"

// Lookup resolves name case-insensitively against the closed set,
// returning its SGR code and true, or ("", false) if name isn't one of
// the table entries.
func Lookup(name string) (string, bool) {
	code, ok := table[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// Resolve is Lookup but falls back to Default on a miss, matching
// spec.md §6's "unknown names leave the corresponding attribute at its
// default" rule.
func Resolve(name string) string {
	if code, ok := Lookup(name); ok {
		return code
	}
	return table[Default]
}

// Valid reports whether name is one of the closed set's members.
func Valid(name string) bool {
	_, ok := Lookup(name)
	return ok
}
