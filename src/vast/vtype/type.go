// Copyright (c) 2026 the VAST authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package vtype implements VAST's type lattice: a fixed sum of kinds
// with optional name and attributes, structural equality, and record
// flattening.
package vtype

import "strings"

// Kind identifies one member of the fixed type sum.
type Kind int

// The fixed sum of type kinds.
const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindCount
	KindReal
	KindTimespan
	KindTimestamp
	KindString
	KindPattern
	KindAddress
	KindSubnet
	KindPort
	KindEnumeration
	KindVector
	KindSet
	KindMap
	KindRecord
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindCount:
		return "count"
	case KindReal:
		return "real"
	case KindTimespan:
		return "timespan"
	case KindTimestamp:
		return "timestamp"
	case KindString:
		return "string"
	case KindPattern:
		return "pattern"
	case KindAddress:
		return "ip_address"
	case KindSubnet:
		return "ip_subnet"
	case KindPort:
		return "port"
	case KindEnumeration:
		return "enumeration"
	case KindVector:
		return "vector"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Attribute is a (key, value) annotation on a Type, e.g.
// {skip}, {base,"[10,8,8,8,8]"}, {max_length,256}.
type Attribute struct {
	Key   string
	Value string
}

// Field is one (name, type) pair inside a record, or one name inside
// an enumeration.
type Field struct {
	Name string
	Type Type
}

// Type is a structurally-compared, immutable value drawn from the
// fixed kind sum. The zero Type has KindNone and no children; callers
// build compound types with the New* constructors.
type Type struct {
	kind       Kind
	name       string
	attrs      []Attribute
	elem       *Type   // vector/set/alias element or underlying type
	key        *Type   // map key type
	value      *Type   // map value type
	fields     []Field // record fields, or enumeration field names (Type unused)
	maxLength  int
	base       []int64
}

// NewSimple returns an atomic type of the given kind (bool, int,
// count, real, timespan, timestamp, string, pattern, address, port —
// anything with no children).
func NewSimple(k Kind) Type {
	return Type{kind: k}
}

// NewSubnet returns the ip_subnet type.
func NewSubnet() Type {
	return Type{kind: KindSubnet}
}

// NewEnumeration returns an enumeration type over the ordered field
// names.
func NewEnumeration(names []string) Type {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n}
	}
	return Type{kind: KindEnumeration, fields: fields}
}

// NewVector returns a vector type over elem.
func NewVector(elem Type) Type {
	return Type{kind: KindVector, elem: &elem}
}

// NewSet returns a set type over elem.
func NewSet(elem Type) Type {
	return Type{kind: KindSet, elem: &elem}
}

// NewMap returns a map type from key to value.
func NewMap(key, value Type) Type {
	return Type{kind: KindMap, key: &key, value: &value}
}

// NewRecord returns a record type with the given ordered fields.
func NewRecord(fields []Field) Type {
	return Type{kind: KindRecord, fields: fields}
}

// NewAlias returns an alias type wrapping underlying.
func NewAlias(underlying Type) Type {
	return Type{kind: KindAlias, elem: &underlying}
}

// Kind returns the type's kind.
func (t Type) Kind() Kind { return t.kind }

// Name returns the type's optional name.
func (t Type) Name() string { return t.name }

// Named returns a copy of t carrying the given name.
func (t Type) Named(name string) Type {
	t.name = name
	return t
}

// Attributes returns the type's attribute list.
func (t Type) Attributes() []Attribute { return t.attrs }

// WithAttributes returns a copy of t carrying the given attributes.
func (t Type) WithAttributes(attrs []Attribute) Type {
	t.attrs = attrs
	return t
}

// Attribute looks up an attribute by key.
func (t Type) Attribute(key string) (Attribute, bool) {
	for _, a := range t.attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// Skip reports whether the type carries the {skip} attribute, which
// causes value_index::make to skip the column at ingest.
func (t Type) Skip() bool {
	_, ok := t.Attribute("skip")
	return ok
}

// MaxLength returns the {max_length,N} attribute value, or the
// default of 1024 for strings.
func (t Type) MaxLength() int {
	if a, ok := t.Attribute("max_length"); ok {
		n := 0
		for _, c := range a.Value {
			if c < '0' || c > '9' {
				break
			}
			n = n*10 + int(c-'0')
		}
		if n > 0 {
			return n
		}
	}
	return 1024
}

// MaxSize returns the {max_size,N} attribute value, or the default of
// 128 for sequence types.
func (t Type) MaxSize() int {
	if a, ok := t.Attribute("max_size"); ok {
		n := 0
		for _, c := range a.Value {
			if c < '0' || c > '9' {
				break
			}
			n = n*10 + int(c-'0')
		}
		if n > 0 {
			return n
		}
	}
	return 128
}

// Elem returns the element type of a vector, set, or alias.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// MapKey returns the key type of a map.
func (t Type) MapKey() (Type, bool) {
	if t.key == nil {
		return Type{}, false
	}
	return *t.key, true
}

// MapValue returns the value type of a map.
func (t Type) MapValue() (Type, bool) {
	if t.value == nil {
		return Type{}, false
	}
	return *t.value, true
}

// Fields returns a record's fields (or an enumeration's field names,
// with each Field's Type left as the zero value).
func (t Type) Fields() []Field { return t.fields }

// Underlying resolves an alias chain to its final non-alias type.
func (t Type) Underlying() Type {
	cur := t
	for cur.kind == KindAlias && cur.elem != nil {
		cur = *cur.elem
	}
	return cur
}

// Congruent reports structural equality ignoring name and attributes.
func (t Type) Congruent(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindVector, KindSet, KindAlias:
		te, tok := t.Elem()
		oe, ook := other.Elem()
		if tok != ook {
			return !tok && !ook
		}
		return te.Congruent(oe)
	case KindMap:
		tk, _ := t.MapKey()
		ok, _ := other.MapKey()
		tv, _ := t.MapValue()
		ov, _ := other.MapValue()
		return tk.Congruent(ok) && tv.Congruent(ov)
	case KindRecord:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != other.fields[i].Name {
				return false
			}
			if !t.fields[i].Type.Congruent(other.fields[i].Type) {
				return false
			}
		}
		return true
	case KindEnumeration:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != other.fields[i].Name {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal reports strict equality: congruent AND same name AND same
// attributes.
func (t Type) Equal(other Type) bool {
	if !t.Congruent(other) {
		return false
	}
	if t.name != other.name {
		return false
	}
	if len(t.attrs) != len(other.attrs) {
		return false
	}
	for i := range t.attrs {
		if t.attrs[i] != other.attrs[i] {
			return false
		}
	}
	return true
}

// Flatten concatenates nested record field names with "." producing
// the unique flat representation of a record type. Non-record types
// flatten to a single field named "".
func (t Type) Flatten() []Field {
	if t.kind != KindRecord {
		return []Field{{Name: "", Type: t}}
	}
	var out []Field
	for _, f := range t.fields {
		if f.Type.kind == KindRecord {
			for _, nested := range f.Type.Flatten() {
				name := f.Name
				if nested.Name != "" {
					name = f.Name + "." + nested.Name
				}
				out = append(out, Field{Name: name, Type: nested.Type})
			}
		} else {
			out = append(out, f)
		}
	}
	return out
}

// FlattenedName joins path segments the way Flatten does, for
// building extractor suffix comparisons without allocating a full
// flattened type.
func FlattenedName(path ...string) string {
	return strings.Join(path, ".")
}
