// Package settings implements the three-section mod-settings file: an
// envelope around a property tree restricted to the shapes a settings
// section is allowed to take.
package settings

import (
	"fmt"

	"factorix/internal/proptree"
)

// Kind classifies a setting's Go-level representation. The wire format
// (see proptree) carries only bool/double/string/list/dictionary — there
// is no distinct wire tag for signed vs. unsigned vs. floating-point
// numbers, so Kind is a construction-time hint rather than something the
// decoder can recover byte-for-byte. On load, any decoded Number is
// classified KindDouble; callers that need an integer view should use
// Int64/Uint64, which always succeed for integral values regardless of
// the Kind reported.
type Kind int

const (
	KindBool Kind = iota
	KindSigned
	KindUnsigned
	KindDouble
	KindString
	KindColor
	KindList
	KindDictionary
)

// Value is one setting's value together with the Kind it was
// constructed as.
type Value struct {
	Kind  Kind
	Bool  bool
	Num   float64
	Str   string
	List  []Value
	Dict  map[string]Value
	order []string
}

func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func Signed(v int64) Value  { return Value{Kind: KindSigned, Num: float64(v)} }
func Unsigned(v uint64) Value { return Value{Kind: KindUnsigned, Num: float64(v)} }
func Double(v float64) Value { return Value{Kind: KindDouble, Num: v} }
func String(v string) Value { return Value{Kind: KindString, Str: v} }
func Color(rgba string) Value { return Value{Kind: KindColor, Str: rgba} }
func ListOf(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// DictOf builds a dictionary value from keys in the given order.
func DictOf(keys []string, vals map[string]Value) Value {
	return Value{Kind: KindDictionary, Dict: vals, order: append([]string(nil), keys...)}
}

// Int64 returns the value's integral view, truncating any fractional
// part. It is valid for KindSigned, KindUnsigned, and KindDouble.
func (v Value) Int64() int64 { return int64(v.Num) }

// Uint64 returns the value's unsigned integral view.
func (v Value) Uint64() uint64 { return uint64(v.Num) }

// Equal compares two settings values by their represented value,
// ignoring Kind (since the wire format cannot distinguish signed,
// unsigned, and double numbers — see Kind's doc comment).
func Equal(a, b Value) bool {
	switch {
	case a.Kind == KindBool || b.Kind == KindBool:
		return a.Kind == KindBool && b.Kind == KindBool && a.Bool == b.Bool
	case a.Kind == KindString || a.Kind == KindColor || b.Kind == KindString || b.Kind == KindColor:
		return a.Str == b.Str
	case a.Kind == KindList || b.Kind == KindList:
		if a.Kind != KindList || b.Kind != KindList || len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case a.Kind == KindDictionary || b.Kind == KindDictionary:
		if a.Kind != KindDictionary || b.Kind != KindDictionary || len(a.order) != len(b.order) {
			return false
		}
		for i, k := range a.order {
			if b.order[i] != k || !Equal(a.Dict[k], b.Dict[k]) {
				return false
			}
		}
		return true
	default:
		return a.Num == b.Num
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindString, KindColor:
		return v.Str
	default:
		return fmt.Sprintf("%v", v.Num)
	}
}

func toWire(v Value) (proptree.Value, error) {
	switch v.Kind {
	case KindBool:
		return proptree.Bool(v.Bool), nil
	case KindSigned, KindUnsigned, KindDouble:
		return proptree.Number(v.Num), nil
	case KindString:
		return proptree.Str(v.Str), nil
	case KindColor:
		return proptree.ColorToDict(v.Str)
	case KindList:
		list := make(proptree.List, 0, len(v.List))
		for _, elem := range v.List {
			w, err := toWire(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, w)
		}
		return list, nil
	case KindDictionary:
		d := proptree.NewDict()
		for _, k := range v.order {
			w, err := toWire(v.Dict[k])
			if err != nil {
				return nil, err
			}
			d.Set(k, w)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("settings: unknown value kind %d", v.Kind)
	}
}

func fromWire(pv proptree.Value) Value {
	switch val := pv.(type) {
	case proptree.Bool:
		return Bool(bool(val))
	case proptree.Number:
		return Double(float64(val))
	case proptree.Str:
		return String(string(val))
	case proptree.List:
		out := make([]Value, 0, len(val))
		for _, elem := range val {
			out = append(out, fromWire(elem))
		}
		return Value{Kind: KindList, List: out}
	case *proptree.Dict:
		if rgba, ok := proptree.DictToColor(val); ok {
			return Color(rgba)
		}
		dict := map[string]Value{}
		order := append([]string(nil), val.Keys()...)
		for _, k := range order {
			elem, _ := val.Get(k)
			dict[k] = fromWire(elem)
		}
		return Value{Kind: KindDictionary, Dict: dict, order: order}
	default:
		return Value{}
	}
}
