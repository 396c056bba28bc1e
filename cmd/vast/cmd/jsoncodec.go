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

package cmd

import (
	"sort"

	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

// jsonRecord builds the (layout, row) pair for one decoded JSON object.
// This is deliberately the only format the CLI ships with: a
// self-describing line-delimited JSON object infers its own layout
// from its keys (sorted for determinism), with strings, numbers,
// booleans, and nested objects supported; every other shape becomes an
// untyped nil field. A real deployment's Bro/PCAP/MRT readers are
// external collaborators and are not part of this tree.
func jsonRecord(m map[string]interface{}) (vtype.Type, vdata.Record) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]vtype.Field, 0, len(keys))
	row := make(vdata.Record, 0, len(keys))
	for _, k := range keys {
		t, v := jsonValue(m[k])
		fields = append(fields, vtype.Field{Name: k, Type: t})
		row = append(row, vdata.RecordField{Name: k, Value: v})
	}
	return vtype.NewRecord(fields).Named("json_line"), row
}

func jsonValue(raw interface{}) (vtype.Type, vdata.Data) {
	switch v := raw.(type) {
	case string:
		return vtype.NewSimple(vtype.KindString), vdata.String(v)
	case float64:
		return vtype.NewSimple(vtype.KindReal), vdata.Real(v)
	case bool:
		return vtype.NewSimple(vtype.KindBool), vdata.Bool(v)
	case map[string]interface{}:
		t, r := jsonRecord(v)
		return t, r
	case nil:
		return vtype.NewSimple(vtype.KindNone), vdata.Nil{}
	default:
		return vtype.NewSimple(vtype.KindNone), vdata.Nil{}
	}
}
