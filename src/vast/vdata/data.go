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

// Package vdata implements the tagged-union value representation
// (Data) that flows through every layer, plus the Event envelope that
// binds an ID and timestamp to a typed Data.
package vdata

import (
	"net/netip"
	"time"

	"github.com/vast-io/vast/src/vast/vtype"
)

// Data is a tagged union mirroring vtype's kind lattice, plus a
// distinguished Nil. Concrete kinds implement this marker interface;
// callers type-switch on the concrete type.
type Data interface {
	isData()
}

// Nil is the distinguished absent value.
type Nil struct{}

func (Nil) isData() {}

// Bool wraps a boolean value.
type Bool bool

func (Bool) isData() {}

// Int wraps a signed 64-bit integer.
type Int int64

func (Int) isData() {}

// Count wraps an unsigned 64-bit integer.
type Count uint64

func (Count) isData() {}

// Real wraps a double.
type Real float64

func (Real) isData() {}

// Timespan wraps a duration.
type Timespan time.Duration

func (Timespan) isData() {}

// Timestamp wraps nanoseconds since epoch.
type Timestamp time.Time

func (Timestamp) isData() {}

// String wraps a UTF-8 string.
type String string

func (String) isData() {}

// Pattern wraps a regular expression pattern.
type Pattern string

func (Pattern) isData() {}

// Address wraps an IP address. netip.Addr already distinguishes IPv4
// and IPv4-in-IPv6 forms via Is4In6, which the address index depends
// on.
type Address struct {
	Addr netip.Addr
}

func (Address) isData() {}

// Subnet wraps a CIDR-style network/prefix-length pair.
type Subnet struct {
	Prefix netip.Prefix
}

func (Subnet) isData() {}

// Protocol is the transport-layer protocol tag a Port carries.
type Protocol uint8

// Protocol values a Port's transport layer can carry.
const (
	ProtoUnknown Protocol = iota
	ProtoTCP
	ProtoUDP
	ProtoICMP
)

// Port is a (number, protocol) pair.
type Port struct {
	Number   uint16
	Protocol Protocol
}

func (Port) isData() {}

// Enumeration wraps the selected field name's index into its type's
// field list.
type Enumeration uint32

func (Enumeration) isData() {}

// Vector wraps an ordered sequence of Data.
type Vector []Data

func (Vector) isData() {}

// Set wraps an ordered sequence of Data with set semantics (no
// duplicate detection is enforced here; callers dedupe on ingest).
type Set []Data

func (Set) isData() {}

// MapEntry is one (key, value) pair of a Map.
type MapEntry struct {
	Key   Data
	Value Data
}

// Map wraps an ordered sequence of key/value pairs.
type Map []MapEntry

func (Map) isData() {}

// RecordField is one (name, value) pair of a Record.
type RecordField struct {
	Name  string
	Value Data
}

// Record wraps an ordered sequence of named fields.
type Record []RecordField

func (Record) isData() {}

// TypeCheck reports whether d conforms to t. Nil always conforms.
func TypeCheck(t vtype.Type, d Data) bool {
	if _, ok := d.(Nil); ok {
		return true
	}
	u := t.Underlying()
	switch u.Kind() {
	case vtype.KindNone:
		return false
	case vtype.KindBool:
		_, ok := d.(Bool)
		return ok
	case vtype.KindInt:
		_, ok := d.(Int)
		return ok
	case vtype.KindCount:
		_, ok := d.(Count)
		return ok
	case vtype.KindReal:
		_, ok := d.(Real)
		return ok
	case vtype.KindTimespan:
		_, ok := d.(Timespan)
		return ok
	case vtype.KindTimestamp:
		_, ok := d.(Timestamp)
		return ok
	case vtype.KindString:
		_, ok := d.(String)
		return ok
	case vtype.KindPattern:
		_, ok := d.(Pattern)
		return ok
	case vtype.KindAddress:
		_, ok := d.(Address)
		return ok
	case vtype.KindSubnet:
		_, ok := d.(Subnet)
		return ok
	case vtype.KindPort:
		_, ok := d.(Port)
		return ok
	case vtype.KindEnumeration:
		v, ok := d.(Enumeration)
		return ok && int(v) < len(u.Fields())
	case vtype.KindVector:
		v, ok := d.(Vector)
		if !ok {
			return false
		}
		elem, _ := u.Elem()
		for _, e := range v {
			if !TypeCheck(elem, e) {
				return false
			}
		}
		return true
	case vtype.KindSet:
		v, ok := d.(Set)
		if !ok {
			return false
		}
		elem, _ := u.Elem()
		for _, e := range v {
			if !TypeCheck(elem, e) {
				return false
			}
		}
		return true
	case vtype.KindMap:
		v, ok := d.(Map)
		if !ok {
			return false
		}
		key, _ := u.MapKey()
		val, _ := u.MapValue()
		for _, e := range v {
			if !TypeCheck(key, e.Key) || !TypeCheck(val, e.Value) {
				return false
			}
		}
		return true
	case vtype.KindRecord:
		v, ok := d.(Record)
		if !ok {
			return false
		}
		fields := u.Fields()
		if len(v) != len(fields) {
			return false
		}
		for i, f := range fields {
			if v[i].Name != f.Name || !TypeCheck(f.Type, v[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Event is a single persisted record: a dense 64-bit ID assigned at
// ingestion, its timestamp, and its typed Data payload.
type Event struct {
	ID        uint64
	Timestamp time.Time
	Type      vtype.Type
	Data      Data
}
