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

// Package isc describes the subset of the Firebird client library used by
// the fb core. A Driver is a thin veneer over the isc_* entry points: every
// call reports its outcome through a StatusVector, which the caller inspects
// with SQLCode.
package isc

type Driver interface {
	AttachDatabase(sv *StatusVector, path string, db *DBHandle, dpb []byte)
	DetachDatabase(sv *StatusVector, db *DBHandle)
	DropDatabase(sv *StatusVector, db *DBHandle)
	DatabaseInfo(sv *StatusVector, db *DBHandle, items []byte, buf []byte)

	StartMultiple(sv *StatusVector, tr *TrHandle, tebs []TEB)
	CommitTransaction(sv *StatusVector, tr *TrHandle)
	RollbackTransaction(sv *StatusVector, tr *TrHandle)

	DSQLAllocateStatement(sv *StatusVector, db *DBHandle, stmt *StmtHandle)
	// DSQLPrepare fills out with the select list; out may be nil.
	DSQLPrepare(sv *StatusVector, tr *TrHandle, stmt *StmtHandle, sql string, dialect int, out *SQLDA)
	DSQLSQLInfo(sv *StatusVector, stmt *StmtHandle, items []byte, buf []byte)
	DSQLDescribe(sv *StatusVector, stmt *StmtHandle, out *SQLDA)
	DSQLDescribeBind(sv *StatusVector, stmt *StmtHandle, in *SQLDA)
	// DSQLExecute2 reads parameters from in.Buffer and, for singleton
	// results, writes into out.Buffer. Either SQLDA may be nil.
	DSQLExecute2(sv *StatusVector, tr *TrHandle, stmt *StmtHandle, in *SQLDA, out *SQLDA)
	DSQLExecuteImmediate(sv *StatusVector, db *DBHandle, tr *TrHandle, sql string, dialect int)
	// DSQLFetch returns 0 on a row, SQLCODE_NOMORE at the end of the cursor
	// and any other value on error.
	DSQLFetch(sv *StatusVector, stmt *StmtHandle, out *SQLDA) int
	DSQLFreeStatement(sv *StatusVector, stmt *StmtHandle, option int)

	CreateBlob2(sv *StatusVector, db *DBHandle, tr *TrHandle, blob *BlobHandle, id *BlobID)
	OpenBlob2(sv *StatusVector, db *DBHandle, tr *TrHandle, blob *BlobHandle, id *BlobID)
	PutSegment(sv *StatusVector, blob *BlobHandle, seg []byte)
	// GetSegment returns the number of bytes read into buf. A partial
	// segment leaves GDS_SEGMENT in sv, the end of the blob GDS_SEGSTR_EOF.
	GetSegment(sv *StatusVector, blob *BlobHandle, buf []byte) int
	CloseBlob(sv *StatusVector, blob *BlobHandle)
	BlobInfo(sv *StatusVector, blob *BlobHandle, items []byte, buf []byte)

	SQLCode(sv *StatusVector) int
	SQLInterprete(sqlcode int) string
	// Interprete drains sv into human readable lines.
	Interprete(sv *StatusVector) []string
}
