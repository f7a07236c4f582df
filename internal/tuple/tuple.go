// Package tuple defines the fixed-width (key, value) record that flows
// through every stage of the sort-merge equijoin, and its little-endian
// wire encoding.
package tuple

import "encoding/binary"

// Size is the encoded width of a Tuple in bytes: a uint32 key followed by
// a uint32 value, matching the original accelerator's tuple_t layout.
const Size = 8

// Tuple is a fixed-width (key, value) record. Sort and join decisions are
// made on Key only; Value is carried along unmodified.
type Tuple struct {
	Key   uint32
	Value uint32
}

// Less reports whether t sorts strictly before o, by key only.
func (t Tuple) Less(o Tuple) bool { return t.Key < o.Key }

// Encode writes t into buf[0:Size] in little-endian order: key at offset
// 0, value at offset 4. It panics if buf is shorter than Size, mirroring
// the caller-guarantees-alignment contract of the rest of the package.
func Encode(buf []byte, t Tuple) {
	_ = buf[Size-1]
	binary.LittleEndian.PutUint32(buf[0:4], t.Key)
	binary.LittleEndian.PutUint32(buf[4:8], t.Value)
}

// Decode reads a Tuple from buf[0:Size].
func Decode(buf []byte) Tuple {
	_ = buf[Size-1]
	return Tuple{
		Key:   binary.LittleEndian.Uint32(buf[0:4]),
		Value: binary.LittleEndian.Uint32(buf[4:8]),
	}
}
