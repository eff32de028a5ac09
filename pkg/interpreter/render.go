package interpreter

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Render returns the text spit writes for v. Strings are written as-is at the
// top level and quoted inside arrays and objects, so that a rendered array of
// numbers and strings is itself a valid array literal.
func Render(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}

	var b strings.Builder
	render(&b, v)
	return b.String()
}

func render(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case Null:
		b.WriteString("zip")
	case Number:
		b.WriteString(FormatNumber(float64(v)))
	case Boolean:
		if v {
			b.WriteString("yup")
		} else {
			b.WriteString("nope")
		}
	case String:
		b.WriteByte('#')
		b.WriteString(string(v))
		b.WriteByte('#')
	case *Array:
		b.WriteByte('[')
		for i, elem := range v.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, elem)
		}
		b.WriteByte(']')
	case *Object:
		b.WriteByte('{')
		for i, key := range slices.Sorted(maps.Keys(v.Properties)) {
			if i > 0 {
				b.WriteString(", ")
			}
			if isPlainKey(key) {
				b.WriteString(key)
			} else {
				b.WriteByte('#')
				b.WriteString(key)
				b.WriteByte('#')
			}
			b.WriteString(" => ")
			render(b, v.Properties[key])
		}
		b.WriteByte('}')
	case *Function:
		b.WriteString("<conjure ")
		b.WriteString(v.Name)
		b.WriteByte('>')
	case *NativeFunction:
		b.WriteString("<native ")
		b.WriteString(v.Name)
		b.WriteByte('>')
	}
}

func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}

	for i, r := range key {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}

	return true
}
