package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floatIntPrec is the tolerance under which a Number prints as an integer.
const floatIntPrec = 1e-8

// IsInt reports whether x is close enough to an integer to print as one.
func IsInt(x float64) bool {
	r := x - float64(int64(x))
	if r < 0 {
		r = -r
	}
	return r < floatIntPrec || 1-r < floatIntPrec
}

// ToBoolean coerces any value into the three-valued boolean domain.
// Values with no sensible truthiness collapse to Maybe.
func ToBoolean(v Value) Tri {
	switch val := v.(type) {
	case BoolValue:
		return val.Val
	case NumberValue:
		if val.Val == 0 {
			return False
		}
		return True
	case StringValue:
		if val.Val == "" {
			return False
		}
		return True
	case UndefinedValue:
		return False
	case *ListValue:
		if len(val.Elements) == 0 {
			return False
		}
		return True
	default:
		return Maybe
	}
}

// Truthy is the guard rule: only a definite true runs a body.
func Truthy(v Value) bool {
	return ToBoolean(v) == True
}

// ToNumber coerces a value to a Number; maybe maps to one half.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case NumberValue:
		return val.Val
	case BoolValue:
		switch val.Val {
		case True:
			return 1
		case False:
			return 0
		default:
			return 0.5
		}
	case StringValue:
		n, err := strconv.ParseFloat(strings.TrimSpace(val.Val), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// NumericString reports whether a string cleanly parses as a number.
func NumericString(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}

// FormatNumber prints integers without a decimal point.
func FormatNumber(x float64) string {
	if IsInt(x) {
		return strconv.FormatInt(int64(math.Round(x)), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ToString renders a value the way the language prints it.
func ToString(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case NumberValue:
		return FormatNumber(val.Val)
	case BoolValue:
		return val.Val.String()
	case UndefinedValue:
		return "undefined"
	case *ListValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = ToString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *MapValue:
		parts := make([]string, 0, len(val.Entries))
		for _, k := range val.Keys() {
			parts = append(parts, fmt.Sprintf("%s: %s", k, ToString(val.Entries[k])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *FunctionValue:
		return "<function " + val.Node.Name + ">"
	case NativeFunctionValue:
		return "<builtin " + val.Name + ">"
	case *ClassValue:
		return "<class " + val.Node.Name + ">"
	case *ObjectValue:
		return "<" + val.ClassName + " instance>"
	case *PromiseValue:
		if val.Resolved() {
			return "<promise " + ToString(val.Value()) + ">"
		}
		return "<pending promise>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
