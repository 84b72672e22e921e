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
	"context"
	"database/sql"
	"database/sql/driver"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrIsolationLevel = errors.New("This isolation level is not supported.")

func namedValues(namedargs []driver.NamedValue) []interface{} {
	sort.SliceStable(namedargs, func(i, j int) bool {
		return namedargs[i].Ordinal < namedargs[j].Ordinal
	})
	args := make([]interface{}, len(namedargs))
	for i, nv := range namedargs {
		args[i] = nv.Value
	}
	return args
}

func (stmt *fbStmt) ExecContext(ctx context.Context, namedargs []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return stmt.exec(namedValues(namedargs))
}

func (stmt *fbStmt) QueryContext(ctx context.Context, namedargs []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return stmt.queryRows(namedValues(namedargs))
}

// tpbOptions maps database/sql isolation levels onto transaction options.
func tpbOptions(opts driver.TxOptions) (string, error) {
	var options string
	switch sql.IsolationLevel(opts.Isolation) {
	case sql.LevelDefault:
	case sql.LevelReadCommitted:
		options = "ISOLATION LEVEL READ COMMITTED RECORD_VERSION"
	case sql.LevelRepeatableRead, sql.LevelSnapshot:
		options = "ISOLATION LEVEL SNAPSHOT"
	case sql.LevelSerializable:
		options = "ISOLATION LEVEL SNAPSHOT TABLE STABILITY"
	default:
		return "", ErrIsolationLevel
	}
	if opts.ReadOnly {
		options = "READ ONLY " + options
	}
	return options, nil
}

func (fc *fbConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options, err := tpbOptions(opts)
	if err != nil {
		return nil, err
	}
	return fc.begin(options)
}

func (fc *fbConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fc.Prepare(query)
}

func (fc *fbConn) ExecContext(ctx context.Context, query string, namedargs []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stmt, err := newFbStmt(fc, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.exec(namedValues(namedargs))
}

func (fc *fbConn) QueryContext(ctx context.Context, query string, namedargs []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stmt, err := newFbStmt(fc, query)
	if err != nil {
		return nil, err
	}
	stmt.closeWithRows = true
	return stmt.queryRows(namedValues(namedargs))
}

// CheckNamedValue passes decimal.Decimal through so NUMERIC columns get
// the exact value instead of its string form.
func (fc *fbConn) CheckNamedValue(nv *driver.NamedValue) error {
	switch v := nv.Value.(type) {
	case decimal.Decimal:
		return nil
	case *decimal.Decimal:
		if v == nil {
			nv.Value = nil
		} else {
			nv.Value = *v
		}
		return nil
	case driver.Valuer:
		x, err := v.Value()
		if err != nil {
			return err
		}
		if d, ok := x.(decimal.Decimal); ok {
			nv.Value = d
			return nil
		}
	}
	return driver.ErrSkip
}

// ================== Implementation of the Connector interface ====================

type fbConnector struct {
	env    *Environment
	params DatabaseParams
}

// NewConnector returns a database/sql connector attaching to params with
// the driver of env. Use it with sql.OpenDB.
func NewConnector(env *Environment, params DatabaseParams) (driver.Connector, error) {
	if params.Database == "" {
		return nil, ErrDatabaseRequired
	}
	return &fbConnector{env: env, params: params}, nil
}

func (d *fbDriver) OpenConnector(dsn string) (driver.Connector, error) {
	params, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	env, err := DefaultEnvironment()
	if err != nil {
		return nil, err
	}
	return NewConnector(env, params)
}

func (c *fbConnector) Driver() driver.Driver {
	return &fbDriver{}
}

func (c *fbConnector) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := NewEnvironment(c.env.drv, WithLogger(c.env.logger), WithLocation(c.env.location))
	db, err := env.NewDatabase(c.params)
	if err != nil {
		return nil, err
	}
	conn, err := db.Connect()
	if err != nil {
		return nil, err
	}
	return newFbConn(conn), nil
}
