package texmark

import (
	"fmt"
	"strings"
)

// escapePairs maps every character the rendering backend reserves to its
// escaped spelling. The serializer applies the table left-to-right and the
// parser applies the exact inverse, so any literal user text round-trips.
// Backslash must come first so escaping never rewrites its own output.
var escapePairs = [][2]string{
	{`\`, `\textbackslash{}`},
	{`{`, `\{`},
	{`}`, `\}`},
	{`&`, `\&`},
	{`%`, `\%`},
	{`$`, `\$`},
	{`#`, `\#`},
	{`_`, `\_`},
	{`~`, `\textasciitilde{}`},
	{`^`, `\textasciicircum{}`},
}

var (
	escaper = func() *strings.Replacer {
		args := make([]string, 0, len(escapePairs)*2)
		for _, p := range escapePairs {
			args = append(args, p[0], p[1])
		}
		return strings.NewReplacer(args...)
	}()

	unescaper = func() *strings.Replacer {
		args := make([]string, 0, len(escapePairs)*2)
		for _, p := range escapePairs {
			args = append(args, p[1], p[0])
		}
		return strings.NewReplacer(args...)
	}()
)

// SerializationError reports a value the content format cannot carry.
type SerializationError struct {
	Where   string
	Message string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %s: %s", e.Where, e.Message)
}

// escapeValue renders a literal field value in backend syntax. Values are
// single-line; control characters have no escaped spelling and are rejected.
func escapeValue(where, s string) (string, error) {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return "", &SerializationError{
				Where:   where,
				Message: fmt.Sprintf("contains control character %q", r),
			}
		}
	}
	return escaper.Replace(s), nil
}

// unescapeValue inverts escapeValue on parsed argument text.
func unescapeValue(s string) string {
	return unescaper.Replace(s)
}
