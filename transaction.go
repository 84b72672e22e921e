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
	"github.com/fbgo/fb/isc"
	"github.com/pkg/errors"
)

// StartTransaction starts the ambient transaction on conns, or on every
// attached connection when none are given. An empty options string uses
// the default TPB {version1, write, concurrency, nowait}.
func (env *Environment) StartTransaction(options string, conns ...*Connection) error {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.startTransaction(options, conns)
}

func (env *Environment) startTransaction(options string, conns []*Connection) (err error) {
	if env.trans != 0 {
		return ErrTransactionStarted
	}

	tpb := defaultTPB()
	if options != "" {
		if tpb, err = ParseTPB(options); err != nil {
			return err
		}
	}

	if len(conns) > len(env.conns) {
		return ErrTooManyDatabases
	}
	targets := env.conns
	if len(conns) > 0 {
		targets = make([]*connection, 0, len(conns))
		for _, conn := range conns {
			if conn == nil || conn.connection == nil || conn.db == 0 {
				return ErrClosedConnection
			}
			targets = append(targets, conn.connection)
		}
	}

	tebs := make([]isc.TEB, len(targets))
	for i, c := range targets {
		tebs[i] = isc.TEB{DB: &c.db, TPB: tpb}
	}

	var sv isc.StatusVector
	env.drv.StartMultiple(&sv, &env.trans, tebs)
	if err = env.errorCheck(&sv); err != nil {
		env.trans = 0
		return err
	}
	env.logger.Debug().Int("databases", len(tebs)).Hex("tpb", tpb).Msg("transaction started")
	return nil
}

func (env *Environment) TransactionStarted() bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.trans != 0
}

// Commit closes the open cursors of every connection and commits the
// ambient transaction, if any.
func (env *Environment) Commit() error {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.commit()
}

func (env *Environment) Rollback() error {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.rollback()
}

func (env *Environment) commit() error {
	if err := env.closeCursors(); err != nil {
		return err
	}
	if env.trans != 0 {
		var sv isc.StatusVector
		env.drv.CommitTransaction(&sv, &env.trans)
		if err := env.errorCheck(&sv); err != nil {
			return err
		}
		env.trans = 0
	}
	return nil
}

func (env *Environment) rollback() error {
	if err := env.closeCursors(); err != nil {
		return err
	}
	if env.trans != 0 {
		var sv isc.StatusVector
		env.drv.RollbackTransaction(&sv, &env.trans)
		if err := env.errorCheck(&sv); err != nil {
			return err
		}
		env.trans = 0
	}
	return nil
}

func (env *Environment) closeCursors() error {
	for _, c := range env.conns {
		for _, cur := range c.cursors {
			if cur.state == cursorOpen {
				if err := cur.close(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// TransactionFunc runs fn inside a transaction started with options. The
// transaction is committed when fn returns nil and rolled back otherwise.
func (env *Environment) TransactionFunc(options string, fn func() error, conns ...*Connection) (err error) {
	if err = env.StartTransaction(options, conns...); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if rerr := env.Rollback(); rerr != nil {
				env.logger.Warn().Err(rerr).Msg("rollback after panic")
			}
			panic(r)
		}
	}()
	if err = fn(); err != nil {
		if rerr := env.Rollback(); rerr != nil {
			return errors.WithMessagef(err, "rollback failed: %v", rerr)
		}
		return err
	}
	return env.Commit()
}
