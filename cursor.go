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
	"runtime"

	"github.com/fbgo/fb/isc"
)

type cursorState int

const (
	cursorNew cursorState = iota
	cursorPrepared
	cursorExecutedNoRows
	cursorOpen
	cursorClosed
	cursorDropped
)

func (s cursorState) String() string {
	switch s {
	case cursorNew:
		return "NEW"
	case cursorPrepared:
		return "PREPARED"
	case cursorExecutedNoRows:
		return "EXECUTED_NOROWS"
	case cursorOpen:
		return "CURSOR_OPEN"
	case cursorClosed:
		return "CLOSED"
	case cursorDropped:
		return "DROPPED"
	}
	return "UNKNOWN"
}

// cursor owns a statement handle and the two descriptor areas used to
// prepare, bind and fetch through it.
type cursor struct {
	conn     *connection
	stmt     isc.StmtHandle
	state    cursorState
	stmtType int
	in       *isc.SQLDA
	out      *isc.SQLDA
	laidOut  bool
	describe []Column
}

type Cursor struct {
	*cursor
	owner *Connection // keeps the Connection finalizer from running first
}

func wrapCursor(cur *cursor, owner *Connection) *Cursor {
	c := &Cursor{cur, owner}
	runtime.SetFinalizer(c, (*Cursor).finalize)
	return c
}

func (c *Cursor) finalize() {
	env := c.conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if c.state != cursorDropped {
		c.drop(true)
	}
}

func (cur *cursor) env() *Environment {
	return cur.conn.env
}

func (cur *cursor) usable() error {
	switch {
	case cur.state == cursorDropped:
		return ErrDroppedCursor
	case cur.conn.db == 0:
		return ErrClosedConnection
	}
	return nil
}

// paramRows splits execute arguments into the rows to bind: either a flat
// argument list, a list of []interface{} rows, or one [][]interface{}.
func paramRows(args []interface{}) [][]interface{} {
	if len(args) == 1 {
		if rows, ok := args[0].([][]interface{}); ok {
			return rows
		}
	}
	if len(args) == 0 {
		return [][]interface{}{nil}
	}
	rows := make([][]interface{}, 0, len(args))
	for _, a := range args {
		row, ok := a.([]interface{})
		if !ok {
			return [][]interface{}{args}
		}
		rows = append(rows, row)
	}
	return rows
}

func (cur *cursor) statementInfo() (int, error) {
	env := cur.env()
	var sv isc.StatusVector
	buf := make([]byte, 16)
	env.drv.DSQLSQLInfo(&sv, &cur.stmt, []byte{isc_info_sql_stmt_type}, buf)
	if err := env.errorCheck(&sv); err != nil {
		return 0, err
	}
	v, ok := NewXPBReader(buf).InfoItems()[isc_info_sql_stmt_type]
	if !ok {
		return 0, errUnsupportedType(0)
	}
	return int(vax_integer(v)), nil
}

// execute prepares query inside the ambient transaction, binds args and
// either runs it or opens the result set. Caller holds env.mu.
func (cur *cursor) execute(query string, args []interface{}) (int, error) {
	if err := cur.usable(); err != nil {
		return 0, err
	}
	env := cur.env()
	if cur.state == cursorOpen {
		if err := cur.close(); err != nil {
			return 0, err
		}
	}
	if env.trans == 0 {
		if err := env.startTransaction("", nil); err != nil {
			return 0, err
		}
	}

	var sv isc.StatusVector
	cur.describe = nil
	cur.laidOut = false
	clearLayout(cur.out)
	env.drv.DSQLPrepare(&sv, &env.trans, &cur.stmt, query, cur.conn.dialect, cur.out)
	if err := env.errorCheck(&sv); err != nil {
		return 0, err
	}
	cur.state = cursorPrepared

	stmtType, err := cur.statementInfo()
	if err != nil {
		return 0, err
	}
	cur.stmtType = stmtType

	env.drv.DSQLDescribeBind(&sv, &cur.stmt, cur.in)
	if err := env.errorCheck(&sv); err != nil {
		return 0, err
	}
	if !cur.in.Fits() {
		cur.in.Resize(int(cur.in.Sqld))
		env.drv.DSQLDescribeBind(&sv, &cur.stmt, cur.in)
		if err := env.errorCheck(&sv); err != nil {
			return 0, err
		}
	}
	nparams := int(cur.in.Sqld)
	if nparams > 0 && len(args) == 0 {
		return 0, ErrParametersRequired
	}
	if nparams == 0 && len(args) > 0 {
		return 0, errParameterCount(0, len(args))
	}

	codec := env.codec(cur.conn)
	if cur.out.Sqld == 0 {
		switch stmtType {
		case isc_info_sql_stmt_start_trans, isc_info_sql_stmt_commit, isc_info_sql_stmt_rollback:
			return 0, ErrUseTransactionMethods
		}
		if nparams == 0 {
			env.drv.DSQLExecute2(&sv, &env.trans, &cur.stmt, nil, nil)
			if err := env.errorCheck(&sv); err != nil {
				return 0, err
			}
		}
		for _, row := range paramRows(args) {
			if nparams == 0 {
				break
			}
			if err := codec.encodeParams(cur.in, row); err != nil {
				return 0, err
			}
			env.drv.DSQLExecute2(&sv, &env.trans, &cur.stmt, cur.in, nil)
			if err := env.errorCheck(&sv); err != nil {
				return 0, err
			}
		}
		cur.state = cursorExecutedNoRows
	} else {
		if !cur.out.Fits() {
			cur.out.Resize(int(cur.out.Sqld))
			env.drv.DSQLDescribe(&sv, &cur.stmt, cur.out)
			if err := env.errorCheck(&sv); err != nil {
				return 0, err
			}
		}
		var in *isc.SQLDA
		if nparams > 0 {
			if err := codec.encodeParams(cur.in, args); err != nil {
				return 0, err
			}
			in = cur.in
		}
		env.drv.DSQLExecute2(&sv, &env.trans, &cur.stmt, in, nil)
		if err := env.errorCheck(&sv); err != nil {
			return 0, err
		}
		cur.state = cursorOpen
		layoutSQLDA(cur.out)
		cur.laidOut = true
		cur.describe = describeColumns(cur.out)
	}

	env.logger.Debug().Str("sql", query).Int("stmt_type", stmtType).Stringer("state", cur.state).Msg("execute")

	switch stmtType {
	case isc_info_sql_stmt_select, isc_info_sql_stmt_select_for_upd:
		return STATEMENT_SELECT, nil
	case isc_info_sql_stmt_ddl:
		return STATEMENT_DDL, nil
	}
	return STATEMENT_DML, nil
}

// fetch returns the next row, or nil once the cursor is exhausted.
func (cur *cursor) fetch() ([]interface{}, error) {
	if err := cur.usable(); err != nil {
		return nil, err
	}
	if cur.state != cursorOpen {
		return nil, ErrCursorNotOpen
	}
	env := cur.env()
	if !cur.laidOut {
		layoutSQLDA(cur.out)
		cur.laidOut = true
	}
	var sv isc.StatusVector
	code := env.drv.DSQLFetch(&sv, &cur.stmt, cur.out)
	if code == isc.SQLCODE_NOMORE {
		return nil, nil
	}
	if err := env.errorCheck(&sv); err != nil {
		return nil, err
	}
	return env.codec(cur.conn).decodeRow(cur.out)
}

// close releases the result set. The statement stays prepared.
func (cur *cursor) close() error {
	env := cur.env()
	if cur.state == cursorOpen {
		var sv isc.StatusVector
		env.drv.DSQLFreeStatement(&sv, &cur.stmt, isc.DSQL_close)
		if err := env.errorCheck(&sv); err != nil {
			return err
		}
	}
	cur.state = cursorClosed
	cur.describe = nil
	return nil
}

// drop closes the cursor if needed, frees the statement and detaches it
// from the connection. With warn set, driver errors are only logged.
func (cur *cursor) drop(warn bool) error {
	env := cur.env()
	var sv isc.StatusVector
	if cur.state == cursorOpen {
		env.drv.DSQLFreeStatement(&sv, &cur.stmt, isc.DSQL_close)
		if err := env.check(&sv, warn); err != nil {
			return err
		}
	}
	if cur.stmt != 0 {
		env.drv.DSQLFreeStatement(&sv, &cur.stmt, isc.DSQL_drop)
		if err := env.check(&sv, warn); err != nil {
			return err
		}
		cur.stmt = 0
	}
	cur.state = cursorDropped
	cur.describe = nil
	cur.conn.removeCursor(cur)
	return nil
}

// Execute runs query on the cursor. Statements producing rows leave the
// cursor open and return STATEMENT_SELECT.
func (c *Cursor) Execute(query string, args ...interface{}) (int, error) {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	return c.execute(query, args)
}

// ExecuteMany runs a DML statement once per row.
func (c *Cursor) ExecuteMany(query string, rows [][]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, ErrParametersRequired
	}
	return c.Execute(query, rows)
}

func (c *Cursor) Fetch() ([]interface{}, error) {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	return c.fetch()
}

func (c *Cursor) FetchAll() ([][]interface{}, error) {
	var rows [][]interface{}
	err := c.Each(func(row []interface{}) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Each calls fn for every remaining row. The environment lock is held
// only while a row is fetched, so fn may use other cursors.
func (c *Cursor) Each(fn func(row []interface{}) error) error {
	for {
		row, err := c.Fetch()
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// FetchMap is Fetch keyed by column alias.
func (c *Cursor) FetchMap() (map[string]interface{}, error) {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	row, err := c.fetch()
	if err != nil || row == nil {
		return nil, err
	}
	m := make(map[string]interface{}, len(row))
	for i, col := range c.describe {
		name := col.Alias
		if name == "" {
			name = col.Name
		}
		m[name] = row[i]
	}
	return m, nil
}

// Description describes the columns of the open result set.
func (c *Cursor) Description() []Column {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	return c.describe
}

func (c *Cursor) StatementType() int {
	return c.stmtType
}

func (c *Cursor) Close() error {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	switch {
	case c.state == cursorDropped:
		return ErrDroppedCursor
	case c.state != cursorOpen:
		return ErrClosedCursor
	}
	return c.close()
}

func (c *Cursor) Drop() error {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	if c.state == cursorDropped {
		return ErrDroppedCursor
	}
	if err := c.drop(false); err != nil {
		return err
	}
	runtime.SetFinalizer(c, nil)
	return nil
}

func (c *Cursor) dropIfAlive() error {
	env := c.env()
	env.mu.Lock()
	defer env.mu.Unlock()
	if c.state == cursorDropped {
		return nil
	}
	if err := c.drop(false); err != nil {
		return err
	}
	runtime.SetFinalizer(c, nil)
	return nil
}
