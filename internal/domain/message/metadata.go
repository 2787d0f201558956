package message

import (
	"maps"
	"slices"
)

// MetaData maps string keys to arbitrary structured values. The zero value
// is an empty, usable MetaData.
type MetaData struct {
	values map[string]any
}

// NewMetaData returns an empty MetaData.
func NewMetaData() MetaData {
	return MetaData{values: make(map[string]any)}
}

// MetaDataFrom copies the given map into a new MetaData.
func MetaDataFrom(values map[string]any) MetaData {
	md := MetaData{values: make(map[string]any, len(values))}
	maps.Copy(md.values, values)
	return md
}

// Add inserts or replaces key in place.
func (m *MetaData) Add(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
}

// With returns a copy of m with key set to value. m is not modified.
func (m MetaData) With(key string, value any) MetaData {
	out := m.Clone()
	out.values[key] = value
	return out
}

// Get returns the value stored under key.
func (m MetaData) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value stored under key when it is a string.
func (m MetaData) GetString(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Contains reports whether key is present.
func (m MetaData) Contains(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Merge copies every entry of other into m. Keys from other win on conflict.
func (m *MetaData) Merge(other MetaData) {
	if len(other.values) == 0 {
		return
	}
	if m.values == nil {
		m.values = make(map[string]any, len(other.values))
	}
	maps.Copy(m.values, other.values)
}

// Merged returns a copy of m with other merged into it.
func (m MetaData) Merged(other MetaData) MetaData {
	out := m.Clone()
	out.Merge(other)
	return out
}

// Len returns the number of entries.
func (m MetaData) Len() int { return len(m.values) }

// IsEmpty reports whether m has no entries.
func (m MetaData) IsEmpty() bool { return len(m.values) == 0 }

// Keys returns the keys in sorted order.
func (m MetaData) Keys() []string {
	return slices.Sorted(maps.Keys(m.values))
}

// Clone returns a copy whose map can be modified independently of m.
// Values themselves are shared.
func (m MetaData) Clone() MetaData {
	out := MetaData{values: make(map[string]any, len(m.values))}
	maps.Copy(out.values, m.values)
	return out
}

// ToMap returns a copy of the underlying entries.
func (m MetaData) ToMap() map[string]any {
	out := make(map[string]any, len(m.values))
	maps.Copy(out, m.values)
	return out
}

// MarshalJSON encodes m as a JSON object.
func (m MetaData) MarshalJSON() ([]byte, error) {
	if m.values == nil {
		return []byte("{}"), nil
	}
	return codec.Marshal(m.values)
}

// UnmarshalJSON decodes a JSON object into m, replacing its contents.
func (m *MetaData) UnmarshalJSON(data []byte) error {
	values := make(map[string]any)
	if err := codec.Unmarshal(data, &values); err != nil {
		return err
	}
	m.values = values
	return nil
}
