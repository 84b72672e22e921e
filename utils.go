/*******************************************************************************
The MIT License (MIT)

Copyright (c) 2013 Hajime Nakagami

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
the Software, and to permit persons to whom the Software is furnished to do so,
subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*******************************************************************************/

package fb

import (
	"encoding/binary"
	"math"
)

// XSQLDA slots hold C values in host byte order.
var native = binary.NativeEndian

func align(n int, b int) int {
	return (n + b - 1) &^ (b - 1)
}

// vax_integer decodes the little endian integers found in info buffers.
func vax_integer(b []byte) int64 {
	var v int64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | int64(b[i])
	}
	// sign extend short values
	if n := len(b); n > 0 && n < 8 && b[n-1]&0x80 != 0 {
		v -= int64(1) << (uint(n) * 8)
	}
	return v
}

func bytes_to_str(b []byte) string {
	return string(b)
}

func str_to_bytes(s string) []byte {
	return []byte(s)
}

func get_int16(buf []byte, off int) int16 {
	return int16(native.Uint16(buf[off:]))
}

func put_int16(buf []byte, off int, v int16) {
	native.PutUint16(buf[off:], uint16(v))
}

func get_int32(buf []byte, off int) int32 {
	return int32(native.Uint32(buf[off:]))
}

func put_int32(buf []byte, off int, v int32) {
	native.PutUint32(buf[off:], uint32(v))
}

func get_uint32(buf []byte, off int) uint32 {
	return native.Uint32(buf[off:])
}

func put_uint32(buf []byte, off int, v uint32) {
	native.PutUint32(buf[off:], v)
}

func get_int64(buf []byte, off int) int64 {
	return int64(native.Uint64(buf[off:]))
}

func put_int64(buf []byte, off int, v int64) {
	native.PutUint64(buf[off:], uint64(v))
}

func get_float32(buf []byte, off int) float32 {
	return math.Float32frombits(native.Uint32(buf[off:]))
}

func put_float32(buf []byte, off int, v float32) {
	native.PutUint32(buf[off:], math.Float32bits(v))
}

func get_float64(buf []byte, off int) float64 {
	return math.Float64frombits(native.Uint64(buf[off:]))
}

func put_float64(buf []byte, off int, v float64) {
	native.PutUint64(buf[off:], math.Float64bits(v))
}
