package httpclient

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

const objectText = "[object Object]"

// textOf renders a payload the way a browser's String(value) does: scalars print
// themselves, arrays join their elements with commas and every other object collapses
// to "[object Object]".
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return numberText(t)
	case float32:
		return numberText(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return numberText(f)
		}
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
		return textOf(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return numberText(rv.Float())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = elementText(rv.Index(i))
		}
		return strings.Join(parts, ",")
	}
	return objectText
}

// elementText renders one array element; null elements join as empty strings.
func elementText(rv reflect.Value) string {
	if !rv.IsValid() {
		return ""
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return ""
		}
	}
	return textOf(rv.Interface())
}

// numberText formats a float with the shortest round-trip digits, switching to
// exponent form outside [1e-6, 1e21).
func numberText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
