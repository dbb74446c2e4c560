package schemaform

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return str == ""
	}
	return false
}

// isFalsy mirrors the loose truthiness used for file inputs.
func isFalsy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	}
	if number, ok := toFloat(value); ok {
		return number == 0 || math.IsNaN(number)
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		number, err := v.Float64()
		return number, err == nil
	default:
		return 0, false
	}
}

// toNumber coerces form input into a number: numeric values pass through and
// numeric strings are parsed.
func toNumber(value any) (float64, bool) {
	if number, ok := toFloat(value); ok {
		return number, !math.IsNaN(number)
	}
	str, ok := value.(string)
	if !ok {
		return 0, false
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(number) {
		return 0, false
	}
	return number, true
}

func toInt(value any) (int, bool) {
	number, ok := toFloat(value)
	if !ok || number != math.Trunc(number) {
		return 0, false
	}
	return int(number), true
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case *object:
		out, _ := plain(typed).(map[string]any)
		return out, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asSlice(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = item
		}
		return out, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for idx := 0; idx < rv.Len(); idx++ {
		out[idx] = rv.Index(idx).Interface()
	}
	return out, true
}

// sameValue compares literals, treating numeric kinds by value.
func sameValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

func indexOfValue(list []any, value any) int {
	for idx, item := range list {
		if sameValue(item, value) {
			return idx
		}
	}
	return -1
}

func formatValue(value any) string {
	if number, ok := toFloat(value); ok {
		return formatNumber(number)
	}
	if value == nil {
		return "null"
	}
	return fmt.Sprint(value)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
