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

package index

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vast-io/vast/src/vast/vdata"
)

func TestPortEqualityWithProtocol(t *testing.T) {
	p := NewPort()
	require.NoError(t, p.Append(vdata.Port{Number: 53, Protocol: vdata.ProtoUDP}))
	require.NoError(t, p.Append(vdata.Port{Number: 53, Protocol: vdata.ProtoTCP}))
	require.NoError(t, p.Append(vdata.Port{Number: 80, Protocol: vdata.ProtoTCP}))

	eq, err := p.Lookup(OpEqual, vdata.Port{Number: 53, Protocol: vdata.ProtoUDP})
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, eq.Positions())

	// Protocol unknown ignores the protocol tag.
	eqAny, err := p.Lookup(OpEqual, vdata.Port{Number: 53, Protocol: vdata.ProtoUnknown})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1}, eqAny.Positions())
}

func TestPortOrdering(t *testing.T) {
	p := NewPort()
	for _, n := range []uint16{22, 53, 80, 443, 8080} {
		require.NoError(t, p.Append(vdata.Port{Number: n, Protocol: vdata.ProtoUnknown}))
	}
	gt, err := p.Lookup(OpGreater, vdata.Port{Number: 100, Protocol: vdata.ProtoUnknown})
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, gt.Positions())
}

func TestPortInUnsupported(t *testing.T) {
	p := NewPort()
	require.NoError(t, p.Append(vdata.Port{Number: 53, Protocol: vdata.ProtoUDP}))
	_, err := p.Lookup(OpIn, vdata.Port{Number: 53, Protocol: vdata.ProtoUDP})
	require.Error(t, err)
}
