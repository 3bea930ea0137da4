package module

import (
	"fmt"
	"reflect"
)

// PortsOf pulls T out of a module's Ports bundle, either the bundle itself or one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}

	rv := reflect.Indirect(reflect.ValueOf(p))
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf panics naming the module and the wanted type when T is absent
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	var zero T
	panic(fmt.Sprintf("module %s: no port of type %T", m.Name(), &zero))
}
