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
	"reflect"
	"time"

	"github.com/fbgo/fb/isc"
	"github.com/shopspring/decimal"
)

var xsqlvarTypeName = map[int]string{
	isc.SQL_TYPE_TEXT:      "CHAR",
	isc.SQL_TYPE_VARYING:   "VARCHAR",
	isc.SQL_TYPE_SHORT:     "SMALLINT",
	isc.SQL_TYPE_LONG:      "INTEGER",
	isc.SQL_TYPE_FLOAT:     "FLOAT",
	isc.SQL_TYPE_DOUBLE:    "DOUBLE PRECISION",
	isc.SQL_TYPE_D_FLOAT:   "DOUBLE PRECISION",
	isc.SQL_TYPE_TIMESTAMP: "TIMESTAMP",
	isc.SQL_TYPE_BLOB:      "BLOB",
	isc.SQL_TYPE_ARRAY:     "ARRAY",
	isc.SQL_TYPE_QUAD:      "DECIMAL",
	isc.SQL_TYPE_TIME:      "TIME",
	isc.SQL_TYPE_DATE:      "DATE",
	isc.SQL_TYPE_INT64:     "BIGINT",
	isc.SQL_TYPE_BOOLEAN:   "BOOLEAN",
	isc.SQL_TYPE_INT128:    "INT128",
	isc.SQL_TYPE_DEC16:     "DECFLOAT",
	isc.SQL_TYPE_DEC34:     "DECFLOAT",
	isc.SQL_TYPE_NULL:      "NULL",
}

var (
	scanTypeInt64   = reflect.TypeOf(int64(0))
	scanTypeFloat64 = reflect.TypeOf(float64(0))
	scanTypeString  = reflect.TypeOf("")
	scanTypeBytes   = reflect.TypeOf([]byte(nil))
	scanTypeTime    = reflect.TypeOf(time.Time{})
	scanTypeBool    = reflect.TypeOf(false)
	scanTypeDecimal = reflect.TypeOf(decimal.Decimal{})
	scanTypeAny     = reflect.TypeOf((*interface{})(nil)).Elem()
)

// typeName is the SQL name of a column, NUMERIC for scaled integers.
func (col Column) typeName() string {
	switch col.TypeCode {
	case isc.SQL_TYPE_SHORT, isc.SQL_TYPE_LONG, isc.SQL_TYPE_INT64, isc.SQL_TYPE_INT128:
		if col.Scale < 0 {
			return "NUMERIC"
		}
	}
	if name, ok := xsqlvarTypeName[col.TypeCode]; ok {
		return name
	}
	return "UNKNOWN"
}

// scanType follows what the codec decodes the column to.
func (col Column) scanType() reflect.Type {
	switch col.TypeCode {
	case isc.SQL_TYPE_TEXT, isc.SQL_TYPE_VARYING:
		if col.SubType&0xff == CHARSET_OCTETS {
			return scanTypeBytes
		}
		return scanTypeString
	case isc.SQL_TYPE_SHORT, isc.SQL_TYPE_LONG:
		if col.Scale < 0 {
			return scanTypeFloat64
		}
		return scanTypeInt64
	case isc.SQL_TYPE_INT64:
		return scanTypeInt64
	case isc.SQL_TYPE_FLOAT, isc.SQL_TYPE_DOUBLE, isc.SQL_TYPE_D_FLOAT:
		return scanTypeFloat64
	case isc.SQL_TYPE_TIMESTAMP, isc.SQL_TYPE_DATE, isc.SQL_TYPE_TIME:
		return scanTypeTime
	case isc.SQL_TYPE_BLOB:
		if col.SubType == BLOB_SUB_TYPE_TEXT {
			return scanTypeString
		}
		return scanTypeBytes
	case isc.SQL_TYPE_BOOLEAN:
		return scanTypeBool
	case isc.SQL_TYPE_INT128, isc.SQL_TYPE_DEC16, isc.SQL_TYPE_DEC34:
		return scanTypeDecimal
	}
	return scanTypeAny
}

// variableLength reports the declared length of character columns.
func (col Column) variableLength() (int64, bool) {
	switch col.TypeCode {
	case isc.SQL_TYPE_TEXT, isc.SQL_TYPE_VARYING:
		return int64(col.DisplaySize), true
	}
	return 0, false
}
