package runtime

// The four equality precision tiers. Each tier implies the ones looser
// than it; the dedicated negation operators invert the matching tier.

// CoercingEqual is the loosest tier: values are equal when any coercion
// lines them up. Scalars compare through their string rendering, with a
// numeric comparison for anything that parses as a number.
func CoercingEqual(a, b Value) bool {
	if ValueEqual(a, b) {
		return true
	}
	an, aNum := coerceNumeric(a)
	bn, bNum := coerceNumeric(b)
	if aNum && bNum {
		return an == bn
	}
	return ToString(a) == ToString(b)
}

func coerceNumeric(v Value) (float64, bool) {
	switch val := v.(type) {
	case NumberValue:
		return val.Val, true
	case BoolValue:
		return ToNumber(val), true
	case StringValue:
		return NumericString(val.Val)
	default:
		return 0, false
	}
}

// ValueEqual compares by value, allowing number/numeric-string and
// boolean/number pairings but not arbitrary stringification.
func ValueEqual(a, b Value) bool {
	if a.Kind() == b.Kind() {
		return sameKindEqual(a, b)
	}
	an, aNum := coerceNumeric(a)
	bn, bNum := coerceNumeric(b)
	return aNum && bNum && an == bn
}

// StrictEqual requires the same kind and equal content.
func StrictEqual(a, b Value) bool {
	return a.Kind() == b.Kind() && sameKindEqual(a, b)
}

// IdenticalEqual is the deepest tier: containers and objects must be the
// very same container; scalars fall back to strict equality.
func IdenticalEqual(a, b Value) bool {
	switch av := a.(type) {
	case *ListValue:
		bv, ok := b.(*ListValue)
		return ok && av.ID() == bv.ID()
	case *MapValue:
		bv, ok := b.(*MapValue)
		return ok && av.ID() == bv.ID()
	case *ObjectValue:
		bv, ok := b.(*ObjectValue)
		return ok && av.ID() == bv.ID()
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		return ok && av == bv
	case *PromiseValue:
		bv, ok := b.(*PromiseValue)
		return ok && av == bv
	default:
		return StrictEqual(a, b)
	}
}

func sameKindEqual(a, b Value) bool {
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case UndefinedValue:
		return true
	case *ListValue:
		bv := b.(*ListValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !ValueEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *MapValue:
		bv := b.(*MapValue)
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for k, v := range av.Entries {
			other, ok := bv.Entries[k]
			if !ok || !ValueEqual(v, other) {
				return false
			}
		}
		return true
	case *FunctionValue:
		return av == b.(*FunctionValue)
	case NativeFunctionValue:
		bv := b.(NativeFunctionValue)
		return av.Name == bv.Name
	case *ClassValue:
		return av == b.(*ClassValue)
	case *ObjectValue:
		return av == b.(*ObjectValue)
	case *PromiseValue:
		return av == b.(*PromiseValue)
	default:
		return false
	}
}
