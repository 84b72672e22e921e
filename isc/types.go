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

package isc

import "fmt"

type DBHandle uint32
type TrHandle uint32
type StmtHandle uint32
type BlobHandle uint32

// BlobID is the ISC_QUAD stored in a BLOB column slot.
type BlobID [8]byte

func (id BlobID) IsZero() bool {
	return id == BlobID{}
}

// StatusVector mirrors ISC_STATUS[20]. ISC_STATUS is pointer sized.
type StatusVector [STATUS_VECTOR_LENGTH]int

func (sv *StatusVector) Clear() {
	*sv = StatusVector{}
}

// Set stores gds codes as a sequence of isc_arg_gds clumplets.
func (sv *StatusVector) Set(codes ...int) {
	sv.Clear()
	i := 0
	for _, code := range codes {
		if i+2 >= len(sv) {
			break
		}
		sv[i] = ARG_GDS
		sv[i+1] = code
		i += 2
	}
	sv[i] = ARG_END
}

// GDSCode returns the leading gds code, or 0 when the vector holds no error.
func (sv *StatusVector) GDSCode() int {
	if sv[0] == ARG_GDS {
		return sv[1]
	}
	return 0
}

func (sv *StatusVector) GDSCodes() (codes []int) {
	for i := 0; i+1 < len(sv) && sv[i] != ARG_END; {
		switch sv[i] {
		case ARG_GDS:
			if sv[i+1] != 0 {
				codes = append(codes, sv[i+1])
			}
			i += 2
		case ARG_CSTRING:
			i += 3
		default:
			i += 2
		}
	}
	return
}

// TEB pairs a database handle with the TPB used for it in a
// multi-database transaction.
type TEB struct {
	DB  *DBHandle
	TPB []byte
}

// XSQLVar is one entry of an XSQLDA. The C pointers sqldata and sqlind are
// offsets into the owning SQLDA's Buffer; -1 stands for NULL.
type XSQLVar struct {
	SQLType    int16
	SQLScale   int16
	SQLSubtype int16
	SQLLen     int16
	DataOffset int
	IndOffset  int
	SQLName    string
	RelName    string
	OwnName    string
	AliasName  string
}

func (v *XSQLVar) Type() int {
	return int(v.SQLType) &^ 1
}

func (v *XSQLVar) Nullable() bool {
	return v.SQLType&1 != 0
}

// SlotLen is the number of data bytes the slot occupies in the buffer.
func (v *XSQLVar) SlotLen() int {
	if v.Type() == SQL_TYPE_VARYING {
		return int(v.SQLLen) + 2
	}
	return int(v.SQLLen)
}

func (v *XSQLVar) String() string {
	return fmt.Sprintf("%s type=%d scale=%d len=%d", v.SQLName, v.SQLType, v.SQLScale, v.SQLLen)
}

// SQLDA is the Go side of an XSQLDA. Vars has Sqln entries, the driver
// reports the number of columns in Sqld.
type SQLDA struct {
	Version int16
	Sqln    int16
	Sqld    int16
	Vars    []XSQLVar
	Buffer  []byte
}

func NewSQLDA(n int) *SQLDA {
	da := &SQLDA{Version: SQLDA_VERSION1}
	da.Resize(n)
	return da
}

// Resize reallocates the descriptor array to exactly n entries.
func (da *SQLDA) Resize(n int) {
	da.Vars = make([]XSQLVar, n)
	for i := range da.Vars {
		da.Vars[i].DataOffset = -1
		da.Vars[i].IndOffset = -1
	}
	da.Sqln = int16(n)
	da.Sqld = 0
}

// Described returns the entries filled in by the last describe.
func (da *SQLDA) Described() []XSQLVar {
	n := int(da.Sqld)
	if n > int(da.Sqln) {
		n = int(da.Sqln)
	}
	return da.Vars[:n]
}

// Fits reports whether every described column has an entry.
func (da *SQLDA) Fits() bool {
	return da.Sqln >= da.Sqld
}
