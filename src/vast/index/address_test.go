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
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vast-io/vast/src/vast/vdata"
)

func addr(t *testing.T, s string) vdata.Address {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return vdata.Address{Addr: a}
}

func subnet(t *testing.T, s string) vdata.Subnet {
	t.Helper()
	p, err := netip.ParsePrefix(s)
	require.NoError(t, err)
	return vdata.Subnet{Prefix: p}
}

func TestAddressEquality(t *testing.T) {
	a := NewAddress()
	require.NoError(t, a.Append(addr(t, "192.168.1.1")))
	require.NoError(t, a.Append(addr(t, "10.0.0.1")))
	require.NoError(t, a.Append(addr(t, "192.168.1.1")))
	require.NoError(t, a.Append(addr(t, "::1")))

	eq, err := a.Lookup(OpEqual, addr(t, "192.168.1.1"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2}, eq.Positions())

	neq, err := a.Lookup(OpNotEqual, addr(t, "192.168.1.1"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, neq.Positions())
}

func TestAddressSubnetMembership(t *testing.T) {
	a := NewAddress()
	require.NoError(t, a.Append(addr(t, "192.168.1.5")))
	require.NoError(t, a.Append(addr(t, "192.168.2.5")))
	require.NoError(t, a.Append(addr(t, "10.0.0.1")))

	in, err := a.Lookup(OpIn, subnet(t, "192.168.1.0/24"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, in.Positions())

	notIn, err := a.Lookup(OpNotIn, subnet(t, "192.168.1.0/24"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, notIn.Positions())
}

func TestSubnetEqualityAndContainment(t *testing.T) {
	s := NewSubnet()
	require.NoError(t, s.Append(subnet(t, "192.168.0.0/16")))
	require.NoError(t, s.Append(subnet(t, "192.168.1.0/24")))

	eq, err := s.Lookup(OpEqual, subnet(t, "192.168.1.0/24"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, eq.Positions())

	// Both entries are subsets of 192.168.0.0/16: index 0 equals it,
	// index 1 (192.168.1.0/24) nests inside it.
	in, err := s.Lookup(OpIn, subnet(t, "192.168.0.0/16"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1}, in.Positions())

	// Both entries include 192.168.1.0/24: index 0 as a proper
	// superset, index 1 by being equal to it.
	ni, err := s.Lookup(OpNi, subnet(t, "192.168.1.0/24"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1}, ni.Positions())
}
