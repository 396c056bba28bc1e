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

package expr

import (
	"testing"

	"github.com/vast-io/vast/src/vast/vtype"
)

func timestampLayout(t *testing.T) vtype.Type {
	t.Helper()
	return vtype.NewRecord([]vtype.Field{
		{Name: "ts", Type: vtype.NewSimple(vtype.KindTimestamp)},
		{Name: "src_ip", Type: vtype.NewSimple(vtype.KindAddress)},
	})
}

func TestKeyExtractorMatchesSuffix(t *testing.T) {
	layout := timestampLayout(t)
	p := Predicate{Extractor: KeyExtractor{Suffix: "ip"}}
	if got := p.MatchingColumns(layout); len(got) != 1 || got[0] != "src_ip" {
		t.Fatalf("MatchingColumns = %v", got)
	}
}
