// Package slug turns catalog titles into URL path segments and back.
//
// Spaces become dashes and existing dash runs grow by one, so both kinds of
// dash survive the trip:
//
//	Encode("hello world") // "hello-world"
//	Encode("a-b")         // "a--b"
//	Decode("a--b")        // "a-b"
//	Decode("a-b")         // "a b"
//
// A space that touches another space or a dash cannot be told apart from a
// dash run, so it is written as the pair "~-" instead, and a literal tilde is
// doubled. Decode(Encode(s)) == s holds for every string.
package slug

import "strings"

const (
	dash   = '-'
	space  = ' '
	escape = '~'
)

// Encode returns the URL form of title. It never fails.
func Encode(title string) string {
	var b strings.Builder
	b.Grow(len(title) + len(title)/4)

	for i := 0; i < len(title); {
		switch c := title[i]; c {
		case dash:
			j := runEnd(title, i)
			b.WriteString(title[i:j])
			b.WriteByte(dash)
			i = j
		case space:
			if isLoneSpace(title, i) {
				b.WriteByte(dash)
			} else {
				b.WriteByte(escape)
				b.WriteByte(dash)
			}
			i++
		case escape:
			b.WriteByte(escape)
			b.WriteByte(escape)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// Decode reverses Encode. Input that Encode could not have produced is still
// decoded without error, but the result is unspecified.
func Decode(slug string) string {
	var b strings.Builder
	b.Grow(len(slug))

	for i := 0; i < len(slug); {
		switch c := slug[i]; c {
		case escape:
			if i+1 < len(slug) {
				switch slug[i+1] {
				case escape:
					b.WriteByte(escape)
					i += 2
					continue
				case dash:
					b.WriteByte(space)
					i += 2
					continue
				}
			}
			b.WriteByte(escape)
			i++
		case dash:
			j := runEnd(slug, i)
			if j-i == 1 {
				b.WriteByte(space)
			} else {
				b.WriteString(slug[i+1 : j])
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// runEnd returns the index just past the dash run starting at i.
func runEnd(s string, i int) int {
	for i < len(s) && s[i] == dash {
		i++
	}
	return i
}

// isLoneSpace reports whether the space at i has no space or dash neighbour.
func isLoneSpace(s string, i int) bool {
	if i > 0 && (s[i-1] == space || s[i-1] == dash) {
		return false
	}
	if i+1 < len(s) && (s[i+1] == space || s[i+1] == dash) {
		return false
	}
	return true
}
