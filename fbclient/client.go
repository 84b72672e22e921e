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

package fbclient

import (
	"runtime"
	"unsafe"

	"github.com/fbgo/fb/isc"
)

type status = *isc.StatusVector

// Client implements isc.Driver on a loaded client library.
type Client struct {
	lib  uintptr
	path string

	attachDatabase func(sv status, nameLen int16, name *byte, db *isc.DBHandle, dpbLen int16, dpb *byte) int
	detachDatabase func(sv status, db *isc.DBHandle) int
	dropDatabase   func(sv status, db *isc.DBHandle) int
	databaseInfo   func(sv status, db *isc.DBHandle, itemsLen int16, items *byte, bufLen int16, buf *byte) int

	startMultiple       func(sv status, tr *isc.TrHandle, count int16, tebs unsafe.Pointer) int
	commitTransaction   func(sv status, tr *isc.TrHandle) int
	rollbackTransaction func(sv status, tr *isc.TrHandle) int

	dsqlAllocateStatement func(sv status, db *isc.DBHandle, stmt *isc.StmtHandle) int
	dsqlPrepare           func(sv status, tr *isc.TrHandle, stmt *isc.StmtHandle, length uint16, sql *byte, dialect uint16, da unsafe.Pointer) int
	dsqlSQLInfo           func(sv status, stmt *isc.StmtHandle, itemsLen int16, items *byte, bufLen int16, buf *byte) int
	dsqlDescribe          func(sv status, stmt *isc.StmtHandle, version uint16, da unsafe.Pointer) int
	dsqlDescribeBind      func(sv status, stmt *isc.StmtHandle, version uint16, da unsafe.Pointer) int
	dsqlExecute2          func(sv status, tr *isc.TrHandle, stmt *isc.StmtHandle, version uint16, in unsafe.Pointer, out unsafe.Pointer) int
	dsqlExecuteImmediate  func(sv status, db *isc.DBHandle, tr *isc.TrHandle, length uint16, sql *byte, dialect uint16, da unsafe.Pointer) int
	dsqlFetch             func(sv status, stmt *isc.StmtHandle, version uint16, da unsafe.Pointer) int
	dsqlFreeStatement     func(sv status, stmt *isc.StmtHandle, option uint16) int

	createBlob2 func(sv status, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID, bpbLen int16, bpb *byte) int
	openBlob2   func(sv status, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID, bpbLen uint16, bpb *byte) int
	putSegment  func(sv status, blob *isc.BlobHandle, length uint16, seg *byte) int
	getSegment  func(sv status, blob *isc.BlobHandle, actual *uint16, bufLen uint16, buf *byte) int
	closeBlob   func(sv status, blob *isc.BlobHandle) int
	blobInfo    func(sv status, blob *isc.BlobHandle, itemsLen int16, items *byte, bufLen int16, buf *byte) int

	sqlcode       func(sv status) int32
	sqlInterprete func(sqlcode int16, buf *byte, bufLen int16)
	interprete    func(buf *byte, vector *uintptr) int32
}

var _ isc.Driver = (*Client)(nil)

// Path is the library the client was loaded from.
func (c *Client) Path() string {
	return c.path
}

// ptr returns the first byte of b, nil for an empty slice.
func ptr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

// cstring NUL-terminates s. Names and SQL text are passed with length 0
// so the client reads up to the terminator.
func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func (c *Client) AttachDatabase(sv *isc.StatusVector, path string, db *isc.DBHandle, dpb []byte) {
	name := cstring(path)
	c.attachDatabase(sv, 0, &name[0], db, int16(len(dpb)), ptr(dpb))
}

func (c *Client) DetachDatabase(sv *isc.StatusVector, db *isc.DBHandle) {
	c.detachDatabase(sv, db)
}

func (c *Client) DropDatabase(sv *isc.StatusVector, db *isc.DBHandle) {
	c.dropDatabase(sv, db)
}

func (c *Client) DatabaseInfo(sv *isc.StatusVector, db *isc.DBHandle, items []byte, buf []byte) {
	c.databaseInfo(sv, db, int16(len(items)), ptr(items), int16(len(buf)), ptr(buf))
}

func (c *Client) StartMultiple(sv *isc.StatusVector, tr *isc.TrHandle, tebs []isc.TEB) {
	var pinner runtime.Pinner
	defer pinner.Unpin()
	cTebs := make([]cTEB, len(tebs))
	for i, teb := range tebs {
		pinner.Pin(teb.DB)
		cTebs[i].db = uintptr(unsafe.Pointer(teb.DB))
		cTebs[i].tpbLen = len(teb.TPB)
		if len(teb.TPB) > 0 {
			pinner.Pin(&teb.TPB[0])
			cTebs[i].tpb = uintptr(unsafe.Pointer(&teb.TPB[0]))
		}
	}
	var p unsafe.Pointer
	if len(cTebs) > 0 {
		p = unsafe.Pointer(&cTebs[0])
	}
	c.startMultiple(sv, tr, int16(len(cTebs)), p)
}

func (c *Client) CommitTransaction(sv *isc.StatusVector, tr *isc.TrHandle) {
	c.commitTransaction(sv, tr)
}

func (c *Client) RollbackTransaction(sv *isc.StatusVector, tr *isc.TrHandle) {
	c.rollbackTransaction(sv, tr)
}

func (c *Client) DSQLAllocateStatement(sv *isc.StatusVector, db *isc.DBHandle, stmt *isc.StmtHandle) {
	c.dsqlAllocateStatement(sv, db, stmt)
}

func (c *Client) DSQLPrepare(sv *isc.StatusVector, tr *isc.TrHandle, stmt *isc.StmtHandle, sql string, dialect int, out *isc.SQLDA) {
	d := newDescriptor(out)
	defer d.release()
	text := cstring(sql)
	c.dsqlPrepare(sv, tr, stmt, 0, &text[0], uint16(dialect), d.ptr())
	d.describe()
}

func (c *Client) DSQLSQLInfo(sv *isc.StatusVector, stmt *isc.StmtHandle, items []byte, buf []byte) {
	c.dsqlSQLInfo(sv, stmt, int16(len(items)), ptr(items), int16(len(buf)), ptr(buf))
}

func (c *Client) DSQLDescribe(sv *isc.StatusVector, stmt *isc.StmtHandle, out *isc.SQLDA) {
	d := newDescriptor(out)
	defer d.release()
	c.dsqlDescribe(sv, stmt, isc.SQLDA_VERSION1, d.ptr())
	d.describe()
}

func (c *Client) DSQLDescribeBind(sv *isc.StatusVector, stmt *isc.StmtHandle, in *isc.SQLDA) {
	d := newDescriptor(in)
	defer d.release()
	c.dsqlDescribeBind(sv, stmt, isc.SQLDA_VERSION1, d.ptr())
	d.describe()
}

func (c *Client) DSQLExecute2(sv *isc.StatusVector, tr *isc.TrHandle, stmt *isc.StmtHandle, in *isc.SQLDA, out *isc.SQLDA) {
	din, dout := newDescriptor(in), newDescriptor(out)
	defer din.release()
	defer dout.release()
	c.dsqlExecute2(sv, tr, stmt, isc.SQLDA_VERSION1, din.ptr(), dout.ptr())
}

func (c *Client) DSQLExecuteImmediate(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, sql string, dialect int) {
	text := cstring(sql)
	c.dsqlExecuteImmediate(sv, db, tr, 0, &text[0], uint16(dialect), nil)
}

func (c *Client) DSQLFetch(sv *isc.StatusVector, stmt *isc.StmtHandle, out *isc.SQLDA) int {
	d := newDescriptor(out)
	defer d.release()
	return c.dsqlFetch(sv, stmt, isc.SQLDA_VERSION1, d.ptr())
}

func (c *Client) DSQLFreeStatement(sv *isc.StatusVector, stmt *isc.StmtHandle, option int) {
	c.dsqlFreeStatement(sv, stmt, uint16(option))
}

func (c *Client) CreateBlob2(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID) {
	c.createBlob2(sv, db, tr, blob, id, 0, nil)
}

func (c *Client) OpenBlob2(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID) {
	c.openBlob2(sv, db, tr, blob, id, 0, nil)
}

func (c *Client) PutSegment(sv *isc.StatusVector, blob *isc.BlobHandle, seg []byte) {
	c.putSegment(sv, blob, uint16(len(seg)), ptr(seg))
}

func (c *Client) GetSegment(sv *isc.StatusVector, blob *isc.BlobHandle, buf []byte) int {
	var actual uint16
	c.getSegment(sv, blob, &actual, uint16(len(buf)), ptr(buf))
	return int(actual)
}

func (c *Client) CloseBlob(sv *isc.StatusVector, blob *isc.BlobHandle) {
	c.closeBlob(sv, blob)
}

func (c *Client) BlobInfo(sv *isc.StatusVector, blob *isc.BlobHandle, items []byte, buf []byte) {
	c.blobInfo(sv, blob, int16(len(items)), ptr(items), int16(len(buf)), ptr(buf))
}

func (c *Client) SQLCode(sv *isc.StatusVector) int {
	if sv[1] == 0 {
		return 0
	}
	return int(c.sqlcode(sv))
}

func (c *Client) SQLInterprete(sqlcode int) string {
	buf := make([]byte, 512)
	c.sqlInterprete(int16(sqlcode), &buf[0], int16(len(buf)))
	return zstring(buf)
}

// Interprete walks the status vector with isc_interprete, one message
// per clumplet.
func (c *Client) Interprete(sv *isc.StatusVector) []string {
	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&sv[0])

	var lines []string
	buf := make([]byte, 512)
	vector := uintptr(unsafe.Pointer(&sv[0]))
	for i := 0; i < isc.STATUS_VECTOR_LENGTH; i++ {
		if c.interprete(&buf[0], &vector) == 0 {
			break
		}
		lines = append(lines, zstring(buf))
	}
	return lines
}

func zstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
