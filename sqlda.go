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
	"github.com/fbgo/fb/isc"
	"modernc.org/mathutil"
)

// slotShape returns the alignment and data length of a buffer slot.
func slotShape(x *isc.XSQLVar) (alignment int, length int) {
	alignment = int(x.SQLLen)
	length = int(x.SQLLen)
	switch x.Type() {
	case isc.SQL_TYPE_TEXT:
		alignment = 1
	case isc.SQL_TYPE_VARYING:
		length += 2
		alignment = 2
	}
	if alignment < 1 {
		alignment = 1
	}
	return
}

// nextSlot reserves a slot starting at offset and returns the data and
// indicator offsets and the offset following the indicator.
func nextSlot(x *isc.XSQLVar, offset int) (data int, ind int, end int) {
	alignment, length := slotShape(x)
	data = align(offset, alignment)
	ind = align(data+length, 2)
	end = ind + 2
	return
}

func calculateBufferSize(da *isc.SQLDA) int {
	offset := 0
	vars := da.Described()
	for i := range vars {
		_, _, offset = nextSlot(&vars[i], offset)
	}
	return offset
}

// layoutSQLDA points every described entry into da.Buffer, growing it
// when the current layout does not fit.
func layoutSQLDA(da *isc.SQLDA) {
	da.Buffer = growBuffer(da.Buffer, calculateBufferSize(da))
	offset := 0
	vars := da.Described()
	for i := range vars {
		vars[i].DataOffset, vars[i].IndOffset, offset = nextSlot(&vars[i], offset)
	}
}

// growBuffer never shrinks: buffers are sized to the largest layout seen.
func growBuffer(buf []byte, size int) []byte {
	if size <= len(buf) {
		return buf
	}
	if size <= cap(buf) {
		return buf[:size]
	}
	nbuf := make([]byte, size, mathutil.Max(size, 2*cap(buf)))
	copy(nbuf, buf)
	return nbuf
}

// clearLayout forgets the data pointers, the state after a describe.
func clearLayout(da *isc.SQLDA) {
	for i := range da.Vars {
		da.Vars[i].DataOffset = -1
		da.Vars[i].IndOffset = -1
	}
}

// Column is one entry of Cursor.Description.
type Column struct {
	Name         string
	Alias        string
	TypeCode     int
	SubType      int
	DisplaySize  int
	InternalSize int
	Precision    int
	Scale        int
	Nullable     bool
}

func describeColumns(da *isc.SQLDA) []Column {
	vars := da.Described()
	if len(vars) == 0 {
		return nil
	}
	columns := make([]Column, len(vars))
	for i := range vars {
		x := &vars[i]
		columns[i] = Column{
			Name:         x.SQLName,
			Alias:        x.AliasName,
			TypeCode:     x.Type(),
			SubType:      int(x.SQLSubtype),
			DisplaySize:  int(x.SQLLen),
			InternalSize: x.SlotLen(),
			Precision:    0,
			Scale:        int(x.SQLScale),
			Nullable:     x.Nullable(),
		}
	}
	return columns
}
