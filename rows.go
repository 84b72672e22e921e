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
	"io"
	"reflect"
)

type fbRows struct {
	stmt    *fbStmt
	columns []Column
}

func newFbRows(stmt *fbStmt) *fbRows {
	return &fbRows{stmt: stmt, columns: stmt.cur.Description()}
}

func (rows *fbRows) Columns() []string {
	columns := make([]string, len(rows.columns))
	for i, col := range rows.columns {
		columns[i] = col.Alias
		if columns[i] == "" {
			columns[i] = col.Name
		}
	}
	return columns
}

// Close ends the result set and commits when no transaction was begun.
func (rows *fbRows) Close() error {
	stmt := rows.stmt
	if err := stmt.cur.Close(); err != nil && err != ErrClosedCursor && err != ErrDroppedCursor {
		return err
	}
	if stmt.closeWithRows {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return stmt.fc.autocommit()
}

func (rows *fbRows) Next(dest []driver.Value) error {
	if len(rows.columns) == 0 {
		return io.EOF
	}
	row, err := rows.stmt.cur.Fetch()
	if err != nil {
		return err
	}
	if row == nil {
		return io.EOF
	}
	for i := range dest {
		dest[i] = row[i]
	}
	return nil
}

func (rows *fbRows) ColumnTypeDatabaseTypeName(index int) string {
	return rows.columns[index].typeName()
}

func (rows *fbRows) ColumnTypeNullable(index int) (nullable, ok bool) {
	return rows.columns[index].Nullable, true
}

func (rows *fbRows) ColumnTypeScanType(index int) reflect.Type {
	return rows.columns[index].scanType()
}

func (rows *fbRows) ColumnTypeLength(index int) (length int64, ok bool) {
	return rows.columns[index].variableLength()
}
