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
	"database/sql/driver"

	"github.com/pkg/errors"
)

type fbResult struct {
}

func (r *fbResult) LastInsertId() (int64, error) {
	return 0, errors.New("LastInsertId is not supported, use RETURNING")
}

func (r *fbResult) RowsAffected() (int64, error) {
	return 0, nil
}

// fbStmt keeps the query text; the cursor prepares it on every execute.
type fbStmt struct {
	fc            *fbConn
	query         string
	cur           *Cursor
	closeWithRows bool
}

func newFbStmt(fc *fbConn, query string) (*fbStmt, error) {
	cur, err := fc.conn.Cursor()
	if err != nil {
		return nil, err
	}
	return &fbStmt{fc: fc, query: query, cur: cur}, nil
}

func (stmt *fbStmt) Close() error {
	return stmt.cur.dropIfAlive()
}

func (stmt *fbStmt) NumInput() int {
	return -1
}

func (stmt *fbStmt) Exec(args []driver.Value) (driver.Result, error) {
	return stmt.exec(driverValues(args))
}

func (stmt *fbStmt) Query(args []driver.Value) (driver.Rows, error) {
	return stmt.queryRows(driverValues(args))
}

func driverValues(args []driver.Value) []interface{} {
	values := make([]interface{}, len(args))
	for i, v := range args {
		values[i] = v
	}
	return values
}

func (stmt *fbStmt) exec(args []interface{}) (driver.Result, error) {
	if _, err := stmt.cur.Execute(stmt.query, args...); err != nil {
		return nil, stmt.fc.abandon(err)
	}
	if err := stmt.cur.Close(); err != nil && err != ErrClosedCursor {
		return nil, err
	}
	if err := stmt.fc.autocommit(); err != nil {
		return nil, err
	}
	return &fbResult{}, nil
}

func (stmt *fbStmt) queryRows(args []interface{}) (driver.Rows, error) {
	if _, err := stmt.cur.Execute(stmt.query, args...); err != nil {
		if stmt.closeWithRows {
			stmt.Close()
		}
		return nil, stmt.fc.abandon(err)
	}
	return newFbRows(stmt), nil
}
