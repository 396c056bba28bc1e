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

// Package segment implements the on-disk chunked event archive
// format: a little-endian magic/version/uuid/compression/base/n/bytes
// header followed by a fixed-width uint32 chunk count (not a varint)
// and that many compressed chunks, each holding a run of encoded
// events.
package segment

import (
	"bytes"
	"encoding/binary"
	"net/netip"
	"time"

	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// dataTag identifies a vdata.Data variant on the wire. Every encoded
// value carries its tag, so decoding needs no type information and
// none travels with the event itself.
type dataTag byte

const (
	tagNil dataTag = iota
	tagBool
	tagInt
	tagCount
	tagReal
	tagTimespan
	tagTimestamp
	tagString
	tagPattern
	tagAddress
	tagSubnet
	tagPort
	tagEnumeration
	tagVector
	tagSet
	tagMap
	tagRecord
)

// EncodeEvent serializes an event's ID, timestamp, and data. The
// event's vtype.Type is not encoded.
func EncodeEvent(e vdata.Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, e.ID); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, e.Timestamp.UnixNano()); err != nil {
		return nil, err
	}
	if err := encodeData(&buf, e.Data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(b []byte) (vdata.Event, error) {
	r := bytes.NewReader(b)
	var id uint64
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return vdata.Event{}, verrors.Wrap(verrors.FormatError, err, "decode event id")
	}
	var nanos int64
	if err := binary.Read(r, binary.LittleEndian, &nanos); err != nil {
		return vdata.Event{}, verrors.Wrap(verrors.FormatError, err, "decode event timestamp")
	}
	data, err := decodeData(r)
	if err != nil {
		return vdata.Event{}, err
	}
	return vdata.Event{ID: id, Timestamp: time.Unix(0, nanos), Data: data}, nil
}

func writeTag(w *bytes.Buffer, tag dataTag) {
	w.WriteByte(byte(tag))
}

func writeString(w *bytes.Buffer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func encodeData(w *bytes.Buffer, d vdata.Data) error {
	switch v := d.(type) {
	case nil, vdata.Nil:
		writeTag(w, tagNil)
		return nil
	case vdata.Bool:
		writeTag(w, tagBool)
		var b byte
		if v {
			b = 1
		}
		return w.WriteByte(b)
	case vdata.Int:
		writeTag(w, tagInt)
		return binary.Write(w, binary.LittleEndian, int64(v))
	case vdata.Count:
		writeTag(w, tagCount)
		return binary.Write(w, binary.LittleEndian, uint64(v))
	case vdata.Real:
		writeTag(w, tagReal)
		return binary.Write(w, binary.LittleEndian, float64(v))
	case vdata.Timespan:
		writeTag(w, tagTimespan)
		return binary.Write(w, binary.LittleEndian, int64(v))
	case vdata.Timestamp:
		writeTag(w, tagTimestamp)
		return binary.Write(w, binary.LittleEndian, time.Time(v).UnixNano())
	case vdata.String:
		writeTag(w, tagString)
		return writeString(w, string(v))
	case vdata.Pattern:
		writeTag(w, tagPattern)
		return writeString(w, string(v))
	case vdata.Address:
		writeTag(w, tagAddress)
		b := v.Addr.As16()
		_, err := w.Write(b[:])
		return err
	case vdata.Subnet:
		writeTag(w, tagSubnet)
		b := v.Prefix.Addr().As16()
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
		return w.WriteByte(byte(v.Prefix.Bits()))
	case vdata.Port:
		writeTag(w, tagPort)
		if err := binary.Write(w, binary.LittleEndian, v.Number); err != nil {
			return err
		}
		return w.WriteByte(byte(v.Protocol))
	case vdata.Enumeration:
		writeTag(w, tagEnumeration)
		return binary.Write(w, binary.LittleEndian, uint32(v))
	case vdata.Vector:
		writeTag(w, tagVector)
		return encodeSeq(w, v)
	case vdata.Set:
		writeTag(w, tagSet)
		return encodeSeq(w, []vdata.Data(v))
	case vdata.Map:
		writeTag(w, tagMap)
		if err := binary.Write(w, binary.LittleEndian, uint32(len(v))); err != nil {
			return err
		}
		for _, e := range v {
			if err := encodeData(w, e.Key); err != nil {
				return err
			}
			if err := encodeData(w, e.Value); err != nil {
				return err
			}
		}
		return nil
	case vdata.Record:
		writeTag(w, tagRecord)
		if err := binary.Write(w, binary.LittleEndian, uint32(len(v))); err != nil {
			return err
		}
		for _, f := range v {
			if err := writeString(w, f.Name); err != nil {
				return err
			}
			if err := encodeData(w, f.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return verrors.New(verrors.FormatError, "unknown data kind")
	}
}

func encodeSeq(w *bytes.Buffer, xs []vdata.Data) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(xs))); err != nil {
		return err
	}
	for _, x := range xs {
		if err := encodeData(w, x); err != nil {
			return err
		}
	}
	return nil
}

func decodeData(r *bytes.Reader) (vdata.Data, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, verrors.Wrap(verrors.FormatError, err, "decode data tag")
	}
	switch dataTag(tagByte) {
	case tagNil:
		return vdata.Nil{}, nil
	case tagBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return vdata.Bool(b != 0), nil
	case tagInt:
		var v int64
		err := binary.Read(r, binary.LittleEndian, &v)
		return vdata.Int(v), err
	case tagCount:
		var v uint64
		err := binary.Read(r, binary.LittleEndian, &v)
		return vdata.Count(v), err
	case tagReal:
		var v float64
		err := binary.Read(r, binary.LittleEndian, &v)
		return vdata.Real(v), err
	case tagTimespan:
		var v int64
		err := binary.Read(r, binary.LittleEndian, &v)
		return vdata.Timespan(v), err
	case tagTimestamp:
		var v int64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		return vdata.Timestamp(time.Unix(0, v)), nil
	case tagString:
		s, err := readString(r)
		return vdata.String(s), err
	case tagPattern:
		s, err := readString(r)
		return vdata.Pattern(s), err
	case tagAddress:
		var b [16]byte
		if _, err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		return vdata.Address{Addr: netip.AddrFrom16(b).Unmap()}, nil
	case tagSubnet:
		var b [16]byte
		if _, err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		bits, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		addr := netip.AddrFrom16(b).Unmap()
		p, err := addr.Prefix(int(bits))
		if err != nil {
			return nil, err
		}
		return vdata.Subnet{Prefix: p}, nil
	case tagPort:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		proto, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return vdata.Port{Number: n, Protocol: vdata.Protocol(proto)}, nil
	case tagEnumeration:
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return vdata.Enumeration(v), err
	case tagVector:
		xs, err := decodeSeq(r)
		return vdata.Vector(xs), err
	case tagSet:
		xs, err := decodeSeq(r)
		return vdata.Set(xs), err
	case tagMap:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		m := make(vdata.Map, n)
		for i := range m {
			k, err := decodeData(r)
			if err != nil {
				return nil, err
			}
			v, err := decodeData(r)
			if err != nil {
				return nil, err
			}
			m[i] = vdata.MapEntry{Key: k, Value: v}
		}
		return m, nil
	case tagRecord:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		rec := make(vdata.Record, n)
		for i := range rec {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			v, err := decodeData(r)
			if err != nil {
				return nil, err
			}
			rec[i] = vdata.RecordField{Name: name, Value: v}
		}
		return rec, nil
	default:
		return nil, verrors.New(verrors.FormatError, "unknown data tag")
	}
}

func decodeSeq(r *bytes.Reader) ([]vdata.Data, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	xs := make([]vdata.Data, n)
	for i := range xs {
		v, err := decodeData(r)
		if err != nil {
			return nil, err
		}
		xs[i] = v
	}
	return xs, nil
}
