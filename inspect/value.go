package inspect

import (
	"reflect"
)

// Attributer lets a type supply its own attribute namespace instead of its
// struct fields and methods. Attr may fail; a failing attribute is left out
// of the tree. Attr is called during both tree building and resolution, so
// implementations should not have side effects.
type Attributer interface {
	AttrNames() []string
	Attr(name string) (any, error)
}

var attributerType = reflect.TypeFor[Attributer]()

// maxHops bounds pointer/interface chains such as `var x any; x = &x`.
const maxHops = 64

// unwrap looks through interfaces only, so the result carries the dynamic
// type a user would expect to see for the value.
func unwrap(v reflect.Value) reflect.Value {
	for i := 0; i < maxHops && v.IsValid() && v.Kind() == reflect.Interface; i++ {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// indirect looks through interfaces and pointers. It returns the invalid
// value for nil or for chains longer than maxHops.
func indirect(v reflect.Value) reflect.Value {
	for i := 0; v.IsValid(); i++ {
		if i == maxHops {
			return reflect.Value{}
		}
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

// TypeName returns the runtime type name of v, "nil" for absent values.
func TypeName(v reflect.Value) string {
	v = unwrap(v)
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}

// isNil reports whether v is the absence marker: an invalid value or a nil
// pointer, interface, map, slice, func or chan.
func isNil(v reflect.Value) bool {
	v = unwrap(v)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Classify returns the kind of v.
func Classify(v reflect.Value) Kind {
	if isNil(v) {
		return Scalar
	}
	if _, ok := asAttributer(v); ok {
		return Attributes
	}
	iv := indirect(v)
	if !iv.IsValid() {
		return Scalar
	}
	switch iv.Kind() {
	case reflect.Map:
		if iv.IsNil() {
			return Scalar
		}
		return Mapping
	case reflect.Slice:
		if iv.IsNil() {
			return Scalar
		}
		return Sequence
	case reflect.Array:
		return Sequence
	case reflect.Struct:
		return Attributes
	case reflect.Func:
		if iv.IsNil() {
			return Scalar
		}
		return Callable
	}
	return Scalar
}

// asAttributer checks v and every value along its pointer chain for the
// Attributer capability.
func asAttributer(v reflect.Value) (Attributer, bool) {
	for i := 0; i < maxHops && v.IsValid(); i++ {
		if v.Type().Implements(attributerType) && v.CanInterface() {
			if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
				return nil, false
			}
			a, ok := v.Interface().(Attributer)
			return a, ok
		}
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				return nil, false
			}
			v = v.Elem()
		default:
			return nil, false
		}
	}
	return nil, false
}

// structOf returns the struct behind v together with the value whose method
// set should be listed: the innermost pointer to the struct when there is
// one, so pointer receiver methods are included.
func structOf(v reflect.Value) (sv, recv reflect.Value) {
	recv = unwrap(v)
	for i := 0; i < maxHops && recv.IsValid() && recv.Kind() == reflect.Pointer; i++ {
		if recv.IsNil() {
			return reflect.Value{}, reflect.Value{}
		}
		e := recv.Elem()
		if e.Kind() == reflect.Interface {
			// a value held by an interface has the methods of its dynamic type
			recv = unwrap(e)
			continue
		}
		if e.Kind() != reflect.Pointer {
			sv = e
			break
		}
		recv = e
	}
	if !sv.IsValid() {
		sv = recv
	}
	if !sv.IsValid() || sv.Kind() != reflect.Struct {
		sv = reflect.Value{}
	}
	if recv.IsValid() && recv.Kind() != reflect.Pointer && recv.CanAddr() {
		recv = recv.Addr()
	}
	return sv, recv
}

// Unwrap looks through interfaces. The result is invalid for nil.
func Unwrap(v reflect.Value) reflect.Value {
	return unwrap(v)
}

// Indirect looks through interfaces and pointers. The result is invalid
// for nil.
func Indirect(v reflect.Value) reflect.Value {
	return indirect(v)
}

// AttributerOf returns the Attributer of v or of a value along its pointer
// chain.
func AttributerOf(v reflect.Value) (Attributer, bool) {
	return asAttributer(v)
}

// StructOf returns the struct behind v, invalid if there is none, together
// with the value whose methods Build lists for v.
func StructOf(v reflect.Value) (sv, recv reflect.Value) {
	return structOf(v)
}
