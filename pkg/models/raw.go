package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies which variant a RawValue holds.
type Kind int

const (
	// KindNull is an absent value or a JSON null.
	KindNull Kind = iota
	// KindScalar is a string, number or boolean.
	KindScalar
	// KindObject is a JSON object such as {"name": "Bug"}.
	KindObject
	// KindList is a JSON array.
	KindList
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// RawValue is one field value exactly as the tracker returned it.
// The zero value is Null.
type RawValue struct {
	kind     Kind
	text     string
	isString bool
	object   map[string]RawValue
	list     []RawValue
}

// Null returns the null value.
func Null() RawValue {
	return RawValue{}
}

// String builds a string scalar.
func String(s string) RawValue {
	return RawValue{kind: KindScalar, text: s, isString: true}
}

// Number builds a numeric scalar from its literal text.
func Number(literal string) RawValue {
	return RawValue{kind: KindScalar, text: literal}
}

// Bool builds a boolean scalar.
func Bool(b bool) RawValue {
	if b {
		return RawValue{kind: KindScalar, text: "true"}
	}
	return RawValue{kind: KindScalar, text: "false"}
}

// Object builds an object value. A nil map yields an empty object.
func Object(fields map[string]RawValue) RawValue {
	if fields == nil {
		fields = map[string]RawValue{}
	}
	return RawValue{kind: KindObject, object: fields}
}

// List builds a list value.
func List(items ...RawValue) RawValue {
	if items == nil {
		items = []RawValue{}
	}
	return RawValue{kind: KindList, list: items}
}

// Kind reports the variant held by v.
func (v RawValue) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v RawValue) IsNull() bool { return v.kind == KindNull }

// IsString reports whether v is a string scalar.
func (v RawValue) IsString() bool { return v.kind == KindScalar && v.isString }

// Text returns the text of a scalar, or "" for any other kind.
func (v RawValue) Text() string {
	if v.kind != KindScalar {
		return ""
	}
	return v.text
}

// Has reports whether v is an object carrying the named key, even when the
// key maps to null.
func (v RawValue) Has(name string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.object[name]
	return ok
}

// Field returns the named member of an object, or Null.
func (v RawValue) Field(name string) RawValue {
	if v.kind != KindObject {
		return Null()
	}
	return v.object[name]
}

// Str returns the scalar text of the named member of an object, or "".
func (v RawValue) Str(name string) string {
	return v.Field(name).Text()
}

// Keys returns the sorted member names of an object.
func (v RawValue) Keys() []string {
	keys := make([]string, 0, len(v.object))
	for k := range v.object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns the elements of a list, or nil.
func (v RawValue) Items() []RawValue {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// String renders v for display: scalars as their text, objects and lists as
// compact JSON, null as "".
func (v RawValue) String() string {
	switch v.kind {
	case KindScalar:
		return v.text
	case KindObject, KindList:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// MarshalJSON encodes v back into the tracker's JSON shape.
func (v RawValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		if v.isString {
			return json.Marshal(v.text)
		}
		return []byte(v.text), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := v.object[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			ib, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(ib)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value, keeping numbers in their literal form.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("failed to decode raw value: %w", err)
	}

	*v = FromAny(decoded)
	return nil
}

// FromAny converts a value produced by encoding/json (with or without
// UseNumber) into a RawValue.
func FromAny(x any) RawValue {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case json.Number:
		return Number(t.String())
	case bool:
		return Bool(t)
	case float64:
		return Number(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return Number(strconv.Itoa(t))
	case map[string]any:
		fields := make(map[string]RawValue, len(t))
		for k, val := range t {
			fields[k] = FromAny(val)
		}
		return Object(fields)
	case []any:
		items := make([]RawValue, 0, len(t))
		for _, val := range t {
			items = append(items, FromAny(val))
		}
		return List(items...)
	case RawValue:
		return t
	default:
		return String(fmt.Sprintf("%v", t))
	}
}
