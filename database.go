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
	"fmt"
	"runtime"

	"github.com/fbgo/fb/isc"
)

// DatabaseParams names a database and the credentials used to reach it.
// Database may carry a "host:" or "host/port:" prefix for remote servers.
type DatabaseParams struct {
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
	Role     string `yaml:"role"`
	PageSize int    `yaml:"page_size"`
	TimeZone string `yaml:"timezone"`
}

func (p DatabaseParams) withDefaults() DatabaseParams {
	if p.Username == "" {
		p.Username = DEFAULT_USERNAME
	}
	if p.Password == "" {
		p.Password = DEFAULT_PASSWORD
	}
	if p.Charset == "" {
		p.Charset = DEFAULT_CHARSET
	}
	if p.PageSize == 0 {
		p.PageSize = DEFAULT_PAGE_SIZE
	}
	return p
}

// dpb is the database parameter buffer for attaching with p.
func (p DatabaseParams) dpb() []byte {
	w := NewXPBWriterFromTag(isc_dpb_version1).
		PutShortString(isc_dpb_user_name, p.Username).
		PutShortString(isc_dpb_password, p.Password).
		PutShortString(isc_dpb_lc_ctype, p.Charset)
	if p.Role != "" {
		w.PutShortString(isc_dpb_sql_role_name, p.Role)
	}
	return w.Bytes()
}

func (p DatabaseParams) createSQL() string {
	return fmt.Sprintf("CREATE DATABASE '%s' USER '%s' PASSWORD '%s' PAGE_SIZE = %d DEFAULT CHARACTER SET %s;",
		p.Database, p.Username, p.Password, p.PageSize, p.Charset)
}

// Database is a handle for connecting to, creating and dropping one
// database.
type Database struct {
	env    *Environment
	params DatabaseParams
}

func (env *Environment) NewDatabase(params DatabaseParams) (*Database, error) {
	if params.Database == "" {
		return nil, ErrDatabaseRequired
	}
	return &Database{env: env, params: params.withDefaults()}, nil
}

// NewDatabase binds params to the default environment.
func NewDatabase(params DatabaseParams) (*Database, error) {
	env, err := DefaultEnvironment()
	if err != nil {
		return nil, err
	}
	return env.NewDatabase(params)
}

func (d *Database) Params() DatabaseParams {
	return d.params
}

func (d *Database) Connect() (*Connection, error) {
	env := d.env
	env.mu.Lock()
	defer env.mu.Unlock()
	return d.connect()
}

func (d *Database) connect() (*Connection, error) {
	env := d.env
	var sv isc.StatusVector
	var db isc.DBHandle
	env.drv.AttachDatabase(&sv, d.params.Database, &db, d.params.dpb())
	if err := env.errorCheck(&sv); err != nil {
		return nil, err
	}
	env.logger.Debug().Str("database", d.params.Database).Msg("attached")
	return env.newConnection(db, d.params)
}

// ConnectFunc connects, passes the connection to fn and closes it when
// fn returns.
func (d *Database) ConnectFunc(fn func(*Connection) error) (err error) {
	conn, err := d.Connect()
	if err != nil {
		return err
	}
	return withConnection(conn, fn)
}

func withConnection(conn *Connection, fn func(*Connection) error) (err error) {
	defer func() {
		if cerr := conn.Close(); err == nil && cerr != ErrClosedConnection {
			err = cerr
		}
	}()
	return fn(conn)
}

// Create creates the database and detaches from it.
func (d *Database) Create() (*Database, error) {
	env := d.env
	env.mu.Lock()
	defer env.mu.Unlock()
	db, err := d.create()
	if err != nil {
		return nil, err
	}
	var sv isc.StatusVector
	env.drv.DetachDatabase(&sv, &db)
	if err := env.errorCheck(&sv); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateFunc creates the database and passes fn a connection to it.
func (d *Database) CreateFunc(fn func(*Connection) error) error {
	env := d.env
	env.mu.Lock()
	db, err := d.create()
	var conn *Connection
	if err == nil {
		conn, err = env.newConnection(db, d.params)
	}
	env.mu.Unlock()
	if err != nil {
		return err
	}
	return withConnection(conn, fn)
}

func (d *Database) create() (isc.DBHandle, error) {
	env := d.env
	var sv isc.StatusVector
	var db isc.DBHandle
	var tr isc.TrHandle
	env.drv.DSQLExecuteImmediate(&sv, &db, &tr, d.params.createSQL(), SQL_DIALECT_V6)
	if err := env.errorCheck(&sv); err != nil {
		return 0, err
	}
	env.logger.Info().Str("database", d.params.Database).Int("page_size", d.params.PageSize).Msg("created")
	return db, nil
}

// Drop attaches to the database and drops it.
func (d *Database) Drop() error {
	env := d.env
	env.mu.Lock()
	defer env.mu.Unlock()
	conn, err := d.connect()
	if err != nil {
		return err
	}
	var sv isc.StatusVector
	env.drv.DropDatabase(&sv, &conn.db)
	if err := env.errorCheck(&sv); err != nil {
		conn.disconnect(true)
		runtime.SetFinalizer(conn, nil)
		return err
	}
	conn.db = 0
	env.unregister(conn.connection)
	runtime.SetFinalizer(conn, nil)
	env.logger.Info().Str("database", d.params.Database).Msg("dropped")
	return nil
}

// Connect attaches to the database described by params using the
// default environment.
func Connect(params DatabaseParams) (*Connection, error) {
	d, err := NewDatabase(params)
	if err != nil {
		return nil, err
	}
	return d.Connect()
}

func Create(params DatabaseParams) (*Database, error) {
	d, err := NewDatabase(params)
	if err != nil {
		return nil, err
	}
	return d.Create()
}

func Drop(params DatabaseParams) error {
	d, err := NewDatabase(params)
	if err != nil {
		return err
	}
	return d.Drop()
}
