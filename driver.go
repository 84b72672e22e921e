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
)

type fbDriver struct{}

// Open attaches through the native client library. Every connection gets
// its own Environment so that database/sql can pool them independently.
func (d *fbDriver) Open(dsn string) (driver.Conn, error) {
	c, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return c.Connect(context.Background())
}

func init() {
	sql.Register("fb", &fbDriver{})
}

type fbConn struct {
	conn *Connection
	tx   *fbTx
}

func newFbConn(conn *Connection) *fbConn {
	return &fbConn{conn: conn}
}

func (fc *fbConn) Prepare(query string) (driver.Stmt, error) {
	return newFbStmt(fc, query)
}

func (fc *fbConn) Close() error {
	return fc.conn.Close()
}

func (fc *fbConn) Begin() (driver.Tx, error) {
	return fc.begin("")
}

func (fc *fbConn) begin(options string) (driver.Tx, error) {
	if err := fc.conn.Transaction(options, fc.conn); err != nil {
		return nil, err
	}
	fc.tx = &fbTx{fc: fc}
	return fc.tx, nil
}

// autocommit commits work done outside an explicit transaction.
func (fc *fbConn) autocommit() error {
	if fc.tx != nil {
		return nil
	}
	return fc.conn.Commit()
}

// abandon rolls back what a failed statement left outside a transaction.
func (fc *fbConn) abandon(err error) error {
	if fc.tx == nil && fc.conn.TransactionStarted() {
		if rerr := fc.conn.Rollback(); rerr != nil {
			fc.conn.env.logger.Warn().Err(rerr).Msg("rollback after failed statement")
		}
	}
	return err
}

type fbTx struct {
	fc *fbConn
}

func (tx *fbTx) Commit() error {
	tx.fc.tx = nil
	return tx.fc.conn.Commit()
}

func (tx *fbTx) Rollback() error {
	tx.fc.tx = nil
	return tx.fc.conn.Rollback()
}
