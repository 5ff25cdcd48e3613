package inspect

import (
	"cmp"
	"math"
	"reflect"
	"slices"

	"github.com/signadot/objbrowse/opath"
)

type mapEntry struct {
	key, val reflect.Value
}

// sortedEntries returns the entries of the map mv in a deterministic order.
// The order defines entry steps ({n}), so Build and Resolve must agree on it.
func sortedEntries(mv reflect.Value) []mapEntry {
	res := make([]mapEntry, 0, mv.Len())
	iter := mv.MapRange()
	for iter.Next() {
		res = append(res, mapEntry{key: iter.Key(), val: iter.Value()})
	}
	slices.SortStableFunc(res, func(a, b mapEntry) int {
		return compareValues(a.key, b.key)
	})
	return res
}

// compareValues orders comparable values: numbers numerically, strings
// lexically, false before true, pointers and channels by address, structs
// and arrays field by field, interfaces by dynamic type then value.
func compareValues(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface || b.Kind() == reflect.Interface {
		a, b = unwrap(a), unwrap(b)
		switch {
		case !a.IsValid() && !b.IsValid():
			return 0
		case !a.IsValid():
			return -1
		case !b.IsValid():
			return 1
		}
		if a.Type() != b.Type() {
			return cmp.Compare(a.Type().String(), b.Type().String())
		}
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		if c := cmp.Compare(real(ac), real(bc)); c != 0 {
			return c
		}
		return cmp.Compare(imag(ac), imag(bc))
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case a.Bool():
			return 1
		}
		return -1
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		return cmp.Compare(a.Pointer(), b.Pointer())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if c := compareValues(a.Field(i), b.Field(i)); c != 0 {
				return c
			}
		}
		return 0
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if c := compareValues(a.Index(i), b.Index(i)); c != 0 {
				return c
			}
		}
		return 0
	}
	return 0
}

// keyStep returns the path segment addressing the map entry with key k at
// position i of sortedEntries.
func keyStep(k reflect.Value, i int) *opath.Path {
	k = unwrap(k)
	if !k.IsValid() {
		return opath.Entry(i)
	}
	switch k.Kind() {
	case reflect.String:
		return opath.Key(k.String())
	case reflect.Bool:
		return opath.Key(k.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if seg := opath.Key(k.Int()); seg != nil {
			return seg
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := k.Uint(); u <= math.MaxInt {
			return opath.Index(int(u))
		}
	case reflect.Float32, reflect.Float64:
		if seg := opath.Key(k.Float()); seg != nil {
			return seg
		}
	}
	return opath.Entry(i)
}

// keyName is the key as shown in labels: strings unquoted, other keys as
// their preview.
func keyName(k reflect.Value) string {
	k = unwrap(k)
	if k.IsValid() && k.Kind() == reflect.String {
		return Truncate(k.String(), PreviewLimit)
	}
	return Truncate(Preview(k), PreviewLimit)
}
