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
	"time"

	"github.com/fbgo/fb/isc"
	"golang.org/x/exp/slices"
	"modernc.org/mathutil"
)

// connection is the registered state of an attached database. The public
// Connection wraps it so that an abandoned Connection can be finalized
// while the registry still refers to the state.
type connection struct {
	env       *Environment
	db        isc.DBHandle
	dialect   int
	dbDialect int
	params    DatabaseParams
	cs        *charset
	loc       *time.Location
	cursors   []*cursor
}

type Connection struct {
	*connection
}

// newConnection registers an attached handle and learns its dialect.
// Caller holds env.mu.
func (env *Environment) newConnection(db isc.DBHandle, params DatabaseParams) (*Connection, error) {
	c := &connection{
		env:    env,
		db:     db,
		params: params,
		cs:     lookupCharset(params.Charset),
		loc:    env.location,
	}
	if params.TimeZone != "" {
		loc, err := time.LoadLocation(params.TimeZone)
		if err != nil {
			var sv isc.StatusVector
			env.drv.DetachDatabase(&sv, &c.db)
			env.warnCheck(&sv)
			return nil, err
		}
		c.loc = loc
	}

	dialect, err := c.queryDialect()
	if err != nil {
		var sv isc.StatusVector
		env.drv.DetachDatabase(&sv, &c.db)
		env.warnCheck(&sv)
		return nil, err
	}
	c.dbDialect = dialect
	c.dialect = mathutil.Min(SQL_DIALECT_CURRENT, c.dbDialect)
	env.register(c)

	conn := &Connection{c}
	runtime.SetFinalizer(conn, (*Connection).finalize)
	return conn, nil
}

// queryDialect asks for isc_info_db_SQL_dialect; databases that do not
// know the item are dialect 1.
func (c *connection) queryDialect() (int, error) {
	var sv isc.StatusVector
	buf := make([]byte, 16)
	c.env.drv.DatabaseInfo(&sv, &c.db, []byte{isc_info_db_sql_dialect, isc_info_end}, buf)
	if err := c.env.errorCheck(&sv); err != nil {
		return 0, err
	}
	if v, ok := NewXPBReader(buf).InfoItems()[isc_info_db_sql_dialect]; ok {
		return int(vax_integer(v)), nil
	}
	return SQL_DIALECT_V5, nil
}

func (conn *Connection) finalize() {
	env := conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if conn.db != 0 {
		conn.disconnect(true)
	}
}

// disconnect drops the owned cursors, commits a pending transaction and
// detaches. With warn set, driver errors are only logged.
func (c *connection) disconnect(warn bool) error {
	env := c.env
	for _, cur := range slices.Clone(c.cursors) {
		if err := cur.drop(warn); err != nil {
			return err
		}
	}
	if env.trans != 0 {
		if err := env.commit(); err != nil {
			if !warn {
				return err
			}
			env.logger.Warn().Err(err).Msg("commit on disconnect")
		}
	}

	var sv isc.StatusVector
	env.drv.DetachDatabase(&sv, &c.db)
	if err := env.check(&sv, warn); err != nil {
		return err
	}
	c.db = 0
	env.unregister(c)
	return nil
}

func (c *connection) removeCursor(cur *cursor) {
	if i := slices.Index(c.cursors, cur); i >= 0 {
		c.cursors = slices.Delete(c.cursors, i, i+1)
	}
}

func (c *connection) newCursor() (*cursor, error) {
	cur := &cursor{
		conn: c,
		in:   isc.NewSQLDA(SQLDA_COLSINIT),
		out:  isc.NewSQLDA(SQLDA_COLSINIT),
	}
	var sv isc.StatusVector
	c.env.drv.DSQLAllocateStatement(&sv, &c.db, &cur.stmt)
	if err := c.env.errorCheck(&sv); err != nil {
		return nil, err
	}
	c.cursors = append(c.cursors, cur)
	return cur, nil
}

// Close drops the cursors of the connection, commits the ambient
// transaction if one is active, and detaches.
func (conn *Connection) Close() error {
	env := conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if conn.db == 0 {
		return ErrClosedConnection
	}
	if err := conn.disconnect(false); err != nil {
		return err
	}
	runtime.SetFinalizer(conn, nil)
	return nil
}

func (conn *Connection) Closed() bool {
	conn.env.mu.Lock()
	defer conn.env.mu.Unlock()
	return conn.db == 0
}

// Dialect is the SQL dialect statements are prepared with, never above
// DBDialect.
func (conn *Connection) Dialect() int {
	return conn.dialect
}

func (conn *Connection) DBDialect() int {
	return conn.dbDialect
}

func (conn *Connection) Charset() string {
	return conn.cs.name
}

func (conn *Connection) Database() string {
	return conn.params.Database
}

func (conn *Connection) Environment() *Environment {
	return conn.env
}

// Cursor allocates a statement on the connection.
func (conn *Connection) Cursor() (*Cursor, error) {
	env := conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if conn.db == 0 {
		return nil, ErrClosedConnection
	}
	cur, err := conn.newCursor()
	if err != nil {
		return nil, err
	}
	return wrapCursor(cur, conn), nil
}

// Execute runs query on a new cursor. A query producing rows returns the
// open cursor and STATEMENT_SELECT; any other statement returns
// STATEMENT_DDL or STATEMENT_DML and no cursor.
func (conn *Connection) Execute(query string, args ...interface{}) (*Cursor, int, error) {
	env := conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if conn.db == 0 {
		return nil, 0, ErrClosedConnection
	}

	cur, err := conn.newCursor()
	if err != nil {
		return nil, 0, err
	}
	ret, err := cur.execute(query, args)
	if err != nil {
		cur.drop(true)
		return nil, 0, err
	}
	if cur.state != cursorOpen {
		return nil, ret, cur.drop(false)
	}
	return wrapCursor(cur, conn), ret, nil
}

// ExecuteFunc is Execute with the cursor scoped to fn: it is dropped when
// fn returns or panics. fn is not called for statements without rows.
func (conn *Connection) ExecuteFunc(fn func(*Cursor) error, query string, args ...interface{}) (ret int, err error) {
	cur, ret, err := conn.Execute(query, args...)
	if err != nil || cur == nil {
		return ret, err
	}
	defer func() {
		if derr := cur.dropIfAlive(); err == nil {
			err = derr
		}
	}()
	return ret, fn(cur)
}

// Transaction starts the ambient transaction. It spans conns, or every
// attached connection when none are given.
func (conn *Connection) Transaction(options string, conns ...*Connection) error {
	return conn.env.StartTransaction(options, conns...)
}

func (conn *Connection) TransactionFunc(options string, fn func() error, conns ...*Connection) error {
	return conn.env.TransactionFunc(options, fn, conns...)
}

func (conn *Connection) TransactionStarted() bool {
	return conn.env.TransactionStarted()
}

func (conn *Connection) Commit() error {
	return conn.env.Commit()
}

func (conn *Connection) Rollback() error {
	return conn.env.Rollback()
}

// ServerVersion reports the server's isc_info_firebird_version.
func (conn *Connection) ServerVersion() (FirebirdVersion, error) {
	env := conn.env
	env.mu.Lock()
	defer env.mu.Unlock()
	if conn.db == 0 {
		return FirebirdVersion{}, ErrClosedConnection
	}
	var sv isc.StatusVector
	buf := make([]byte, 256)
	env.drv.DatabaseInfo(&sv, &conn.db, []byte{isc_info_firebird_version, isc_info_end}, buf)
	if err := env.errorCheck(&sv); err != nil {
		return FirebirdVersion{}, err
	}
	return ParseFirebirdVersion(versionFromInfo(NewXPBReader(buf).InfoItems()[isc_info_firebird_version]))
}
