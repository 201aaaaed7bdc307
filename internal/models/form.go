package models

import "sort"

// FieldSource is the view of a live form that the draft store works against.
// Implementations decide what "a control with that name exists" means.
type FieldSource interface {
	Names() []string
	Get(name string) (string, bool)
	// Set assigns value to the named control and reports whether the control exists.
	Set(name, value string) bool
}

// FieldMap is an in-memory form: a name to value mapping where only names
// already present are settable
type FieldMap map[string]string

// Names returns the field names in sorted order
func (f FieldMap) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the current value of a field
func (f FieldMap) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Set updates an existing field. Unknown names are ignored.
func (f FieldMap) Set(name, value string) bool {
	if _, ok := f[name]; !ok {
		return false
	}
	f[name] = value
	return true
}

// Snapshot copies the current values of any FieldSource
func Snapshot(src FieldSource) map[string]string {
	out := make(map[string]string)
	for _, name := range src.Names() {
		if v, ok := src.Get(name); ok {
			out[name] = v
		}
	}
	return out
}
