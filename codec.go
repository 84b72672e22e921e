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
	"fmt"
	"math"
	"time"

	"github.com/fbgo/fb/isc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// codec converts between Go values and XSQLDA buffer slots for one
// connection inside the ambient transaction. BLOB values need both
// handles, TEXT values the connection character set.
type codec struct {
	drv    isc.Driver
	db     *isc.DBHandle
	tr     *isc.TrHandle
	cs     *charset
	loc    *time.Location
	logger zerolog.Logger
}

// encodeParams writes args into da.Buffer and points the descriptor
// entries at them. The layout follows the values: TEXT takes its actual
// length plus one byte, VARYING its length plus the two byte prefix.
func (c *codec) encodeParams(da *isc.SQLDA, args []interface{}) error {
	vars := da.Described()
	if len(vars) != len(args) {
		return errParameterCount(len(vars), len(args))
	}

	offset := 0
	for i := range vars {
		x := &vars[i]
		v := args[i]
		x.DataOffset = -1
		x.IndOffset = -1

		if v == nil {
			if !x.Nullable() {
				return ErrNotNullable
			}
		} else {
			var err error
			if offset, err = c.encodeValue(da, x, v, offset); err != nil {
				return err
			}
		}

		if x.Nullable() {
			offset = align(offset, 2)
			da.Buffer = growBuffer(da.Buffer, offset+2)
			x.IndOffset = offset
			if v == nil {
				put_int16(da.Buffer, offset, -1)
			} else {
				put_int16(da.Buffer, offset, 0)
			}
			offset += 2
		}
	}
	return nil
}

// reserve aligns offset, grows the buffer for n bytes and records the
// slot in x.
func reserve(da *isc.SQLDA, x *isc.XSQLVar, offset int, alignment int, n int) int {
	offset = align(offset, alignment)
	da.Buffer = growBuffer(da.Buffer, offset+n)
	x.DataOffset = offset
	return offset
}

func (c *codec) encodeValue(da *isc.SQLDA, x *isc.XSQLVar, v interface{}, offset int) (int, error) {
	alignment, _ := slotShape(x)

	switch x.Type() {
	case isc.SQL_TYPE_TEXT:
		b, err := c.encodeText(v)
		if err != nil {
			return offset, err
		}
		x.SQLLen = int16(len(b))
		offset = reserve(da, x, offset, 1, len(b)+1)
		copy(da.Buffer[offset:], b)
		return offset + len(b) + 1, nil

	case isc.SQL_TYPE_VARYING:
		b, err := c.encodeText(v)
		if err != nil {
			return offset, err
		}
		offset = reserve(da, x, offset, 2, len(b)+2)
		put_int16(da.Buffer, offset, int16(len(b)))
		copy(da.Buffer[offset+2:], b)
		return offset + len(b) + 2, nil

	case isc.SQL_TYPE_SHORT:
		n, ok := toInt64(v, x.SQLScale)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		if n < math.MinInt16 || n > math.MaxInt16 {
			return offset, ErrShortOverflow
		}
		offset = reserve(da, x, offset, alignment, 2)
		put_int16(da.Buffer, offset, int16(n))
		return offset + 2, nil

	case isc.SQL_TYPE_LONG:
		n, ok := toInt64(v, x.SQLScale)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return offset, ErrLongOverflow
		}
		offset = reserve(da, x, offset, alignment, 4)
		put_int32(da.Buffer, offset, int32(n))
		return offset + 4, nil

	case isc.SQL_TYPE_INT64:
		n, ok := toInt64(v, x.SQLScale)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		offset = reserve(da, x, offset, alignment, 8)
		put_int64(da.Buffer, offset, n)
		return offset + 8, nil

	case isc.SQL_TYPE_FLOAT:
		f, ok := toFloat64(v)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		if a := math.Abs(f); f != 0 && (a < FLT_MIN || a > FLT_MAX) {
			return offset, ErrFloatOverflow
		}
		offset = reserve(da, x, offset, alignment, 4)
		put_float32(da.Buffer, offset, float32(f))
		return offset + 4, nil

	case isc.SQL_TYPE_DOUBLE, isc.SQL_TYPE_D_FLOAT:
		f, ok := toFloat64(v)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		offset = reserve(da, x, offset, alignment, 8)
		put_float64(da.Buffer, offset, f)
		return offset + 8, nil

	case isc.SQL_TYPE_TIMESTAMP:
		t, ok := v.(time.Time)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		t = t.In(c.loc)
		offset = reserve(da, x, offset, alignment, 8)
		put_int32(da.Buffer, offset, encodeDate(t.Date()))
		put_uint32(da.Buffer, offset+4, encodeTime(t))
		return offset + 8, nil

	case isc.SQL_TYPE_DATE:
		t, ok := v.(time.Time)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		offset = reserve(da, x, offset, alignment, 4)
		put_int32(da.Buffer, offset, encodeDate(t.In(c.loc).Date()))
		return offset + 4, nil

	case isc.SQL_TYPE_TIME:
		t, ok := v.(time.Time)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		offset = reserve(da, x, offset, alignment, 4)
		put_uint32(da.Buffer, offset, encodeTime(t.In(c.loc)))
		return offset + 4, nil

	case isc.SQL_TYPE_BLOB:
		id, err := c.writeBlob(x, v)
		if err != nil {
			return offset, err
		}
		offset = reserve(da, x, offset, alignment, len(id))
		copy(da.Buffer[offset:], id[:])
		return offset + len(id), nil

	case isc.SQL_TYPE_BOOLEAN:
		b, ok := v.(bool)
		if !ok {
			return offset, errArgumentType(v, x)
		}
		offset = reserve(da, x, offset, 1, 1)
		da.Buffer[offset] = 0
		if b {
			da.Buffer[offset] = 1
		}
		return offset + 1, nil

	case isc.SQL_TYPE_INT128:
		d, ok := v.(decimal.Decimal)
		if !ok {
			n, ok := toInt64(v, x.SQLScale)
			if !ok {
				return offset, errArgumentType(v, x)
			}
			d = decimal.New(n, int32(x.SQLScale))
		}
		offset = reserve(da, x, offset, alignment, 16)
		encodeInt128(da.Buffer[offset:], d, x.SQLScale)
		return offset + 16, nil

	case isc.SQL_TYPE_DEC16, isc.SQL_TYPE_DEC34:
		// bound as text, the server converts
		b, err := c.encodeText(v)
		if err != nil {
			return offset, err
		}
		x.SQLType = int16(isc.SQL_TYPE_VARYING | int(x.SQLType)&1)
		x.SQLLen = int16(len(b))
		return c.encodeValue(da, x, b, offset)

	case isc.SQL_TYPE_ARRAY:
		return offset, ErrArrayUnsupported
	}
	return offset, errUnsupportedType(x.Type())
}

func (c *codec) encodeText(v interface{}) ([]byte, error) {
	switch s := v.(type) {
	case []byte:
		return s, nil
	case string:
		return c.cs.encode(s)
	case fmt.Stringer:
		return c.cs.encode(s.String())
	}
	return c.cs.encode(fmt.Sprint(v))
}

// toInt64 converts v for an integer column. Plain numbers are stored as
// given; a decimal.Decimal is rescaled to the column scale.
func toInt64(v interface{}, scale int16) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case decimal.Decimal:
		return n.Shift(int32(-scale)).Round(0).IntPart(), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	}
	if i, ok := toInt64(v, 0); ok {
		return float64(i), true
	}
	return 0, false
}

func (c *codec) decodeRow(da *isc.SQLDA) ([]interface{}, error) {
	vars := da.Described()
	row := make([]interface{}, len(vars))
	for i := range vars {
		v, err := c.decodeValue(&vars[i], da.Buffer)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func scaled(n int64, scale int16) interface{} {
	if scale < 0 {
		return float64(n) / math.Pow10(int(-scale))
	}
	return n
}

func (c *codec) decodeValue(x *isc.XSQLVar, buf []byte) (interface{}, error) {
	if x.Nullable() && x.IndOffset >= 0 && get_int16(buf, x.IndOffset) < 0 {
		return nil, nil
	}
	off := x.DataOffset

	switch x.Type() {
	case isc.SQL_TYPE_TEXT:
		return c.decodeText(x.SQLSubtype, buf[off:off+int(x.SQLLen)])
	case isc.SQL_TYPE_VARYING:
		l := int(get_int16(buf, off))
		return c.decodeText(x.SQLSubtype, buf[off+2:off+2+l])
	case isc.SQL_TYPE_SHORT:
		return scaled(int64(get_int16(buf, off)), x.SQLScale), nil
	case isc.SQL_TYPE_LONG:
		return scaled(int64(get_int32(buf, off)), x.SQLScale), nil
	case isc.SQL_TYPE_INT64:
		return get_int64(buf, off), nil
	case isc.SQL_TYPE_FLOAT:
		return float64(get_float32(buf, off)), nil
	case isc.SQL_TYPE_DOUBLE, isc.SQL_TYPE_D_FLOAT:
		return get_float64(buf, off), nil
	case isc.SQL_TYPE_TIMESTAMP:
		return timestampFrom(get_int32(buf, off), get_uint32(buf, off+4), c.loc), nil
	case isc.SQL_TYPE_DATE:
		return dateFrom(get_int32(buf, off), c.loc), nil
	case isc.SQL_TYPE_TIME:
		return timeFrom(get_uint32(buf, off), c.loc), nil
	case isc.SQL_TYPE_BLOB:
		var id isc.BlobID
		copy(id[:], buf[off:off+len(id)])
		b, err := c.readBlob(&id)
		if err != nil {
			return nil, err
		}
		if x.SQLSubtype == BLOB_SUB_TYPE_TEXT {
			return c.cs.decode(b)
		}
		return b, nil
	case isc.SQL_TYPE_BOOLEAN:
		return buf[off] != 0, nil
	case isc.SQL_TYPE_INT128:
		return decodeInt128(buf[off:off+16], x.SQLScale), nil
	case isc.SQL_TYPE_DEC16, isc.SQL_TYPE_DEC34:
		f := decimal64Format
		if x.Type() == isc.SQL_TYPE_DEC34 {
			f = decimal128Format
		}
		d, err := decodeDecFloat(bigEndian(buf[off:off+f.size]), f)
		if err != nil {
			return nil, errors.Wrap(err, x.SQLName)
		}
		return d, nil
	case isc.SQL_TYPE_ARRAY:
		c.logger.Warn().Str("column", x.SQLName).Msg(ErrArrayUnsupported.Error())
		return nil, nil
	}
	return nil, errUnsupportedType(x.Type())
}

// decodeText copies the slot out of the shared buffer.
func (c *codec) decodeText(subtype int16, b []byte) (interface{}, error) {
	if subtype&0xff == CHARSET_OCTETS {
		return append([]byte(nil), b...), nil
	}
	return c.cs.decode(b)
}
