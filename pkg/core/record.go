package core

import "sort"

// Attributes is the generic attribute mapping backing every record.
type Attributes map[string]any

// Record is an ordered attribute collection with an optional allow-list.
// Seed attributes are ordered by sorted key; attributes set afterwards keep
// insertion order. When an allow-list is active, writes to keys outside it
// are silently dropped.
type Record struct {
	attrs   Attributes
	order   []string
	allowed []string
}

// NewRecord creates a record seeded with the given attributes.
func NewRecord(attrs Attributes) *Record {
	r := &Record{attrs: make(Attributes, len(attrs))}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		r.attrs[k] = attrs[k]
		r.order = append(r.order, k)
	}
	return r
}

// Get returns the attribute value, or nil when absent.
func (r *Record) Get(key string) any {
	return r.attrs[key]
}

// GetString returns the attribute as a string, or "" when absent or not a
// string.
func (r *Record) GetString(key string) string {
	s, _ := r.attrs[key].(string)
	return s
}

// Has reports whether the attribute is present.
func (r *Record) Has(key string) bool {
	_, ok := r.attrs[key]
	return ok
}

// Set stores an attribute value. Keys outside an active allow-list are
// silently dropped.
func (r *Record) Set(key string, value any) {
	if !r.permitted(key) {
		return
	}
	if _, ok := r.attrs[key]; !ok {
		r.order = append(r.order, key)
	}
	r.attrs[key] = value
}

// Unset removes an attribute.
func (r *Record) Unset(key string) {
	if _, ok := r.attrs[key]; !ok {
		return
	}
	delete(r.attrs, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Merge fills in attributes that are not present yet. Existing values win.
func (r *Record) Merge(defaults Attributes) {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !r.Has(k) {
			r.Set(k, defaults[k])
		}
	}
}

// Restrict activates the allow-list: only the given keys may be set from now
// on. Attributes already present outside the list are dropped.
func (r *Record) Restrict(keys ...string) {
	r.allowed = append([]string{}, keys...)
	for _, k := range r.Keys() {
		if !r.permitted(k) {
			r.Unset(k)
		}
	}
}

// Allow extends an active allow-list. Without one, every key is already
// permitted and this is a no-op.
func (r *Record) Allow(keys ...string) {
	if r.allowed == nil {
		return
	}
	for _, key := range keys {
		if !r.permitted(key) {
			r.allowed = append(r.allowed, key)
		}
	}
}

// Restricted reports whether an allow-list is active.
func (r *Record) Restricted() bool {
	return r.allowed != nil
}

// Keys returns the attribute names in record order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// All returns a copy of the attribute mapping.
func (r *Record) All() Attributes {
	attrs := make(Attributes, len(r.attrs))
	for k, v := range r.attrs {
		attrs[k] = v
	}
	return attrs
}

func (r *Record) permitted(key string) bool {
	if r.allowed == nil {
		return true
	}
	for _, k := range r.allowed {
		if k == key {
			return true
		}
	}
	return false
}
