package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a sealed interface representing a value bound to a query
// placeholder. Only Null, String, Int, Number, Bool and Array implement it.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// Null represents an explicit null binding.
type Null struct{}

func (Null) irValue() {}

// String represents a textual value.
type String string

func (String) irValue() {}

// Int represents an integer value.
type Int int64

func (Int) irValue() {}

// Number represents a decimal value kept in its textual form.
// Decimals are never stored as float64 so that 1000.10 stays 1000.10.
type Number string

func (Number) irValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) irValue() {}

// Array represents an ordered list of values (used by "in" lists).
type Array []Value

func (Array) irValue() {}

// FromAny converts a decoded YAML/JSON scalar or list into a Value.
//
// Supported inputs: nil, string, bool, all integer kinds, float32/float64
// (converted to Number), json.Number, []any and Value itself.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case float32:
		return numberFromFloat(float64(val))
	case float64:
		return numberFromFloat(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		if _, err := val.Float64(); err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return Number(val.String()), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			item, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = item
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// numberFromFloat converts a float to its shortest exact decimal text.
// Whole floats (YAML "10.0") stay Numbers so the author's intent survives.
func numberFromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite number: %v", f)
	}
	return Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// MarshalValue marshals a Value to JSON bytes.
// Numbers are emitted as JSON numbers, not strings.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Number:
		return []byte(val), nil
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		parts := make([]json.RawMessage, len(val))
		for i, elem := range val {
			b, err := MarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			parts[i] = b
		}
		return json.Marshal(parts)
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// Values wraps a slice of Values for JSON output.
type Values []Value

// MarshalJSON implements json.Marshaler.
func (vs Values) MarshalJSON() ([]byte, error) {
	return MarshalValue(Array(vs))
}
