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
	"sync"
	"time"

	"github.com/fbgo/fb/fbclient"
	"github.com/fbgo/fb/isc"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Environment holds what the client library treats as process wide: the
// ambient transaction and the connections taking part in it. All entry
// points serialize on one mutex.
type Environment struct {
	mu       sync.Mutex
	drv      isc.Driver
	trans    isc.TrHandle
	conns    []*connection // most recent first
	logger   zerolog.Logger
	location *time.Location
}

type EnvironmentOption func(*Environment)

func WithLogger(logger zerolog.Logger) EnvironmentOption {
	return func(env *Environment) {
		env.logger = logger
	}
}

// WithLocation sets the zone DATE, TIME and TIMESTAMP values are read in
// when the database parameters name none.
func WithLocation(loc *time.Location) EnvironmentOption {
	return func(env *Environment) {
		env.location = loc
	}
}

func NewEnvironment(drv isc.Driver, opts ...EnvironmentOption) *Environment {
	env := &Environment{
		drv:      drv,
		logger:   NewLogger(nil),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

var (
	defaultEnv     *Environment
	defaultEnvErr  error
	defaultEnvOnce sync.Once
)

// DefaultEnvironment loads the native client library on first use. See
// fbclient.Load for how the library is located.
func DefaultEnvironment() (*Environment, error) {
	defaultEnvOnce.Do(func() {
		drv, err := fbclient.Load("")
		if err != nil {
			defaultEnvErr = err
			return
		}
		defaultEnv = NewEnvironment(drv)
	})
	return defaultEnv, defaultEnvErr
}

func (env *Environment) Driver() isc.Driver {
	return env.drv
}

func (env *Environment) Logger() zerolog.Logger {
	return env.logger
}

func (env *Environment) errorCheck(sv *isc.StatusVector) error {
	return errorCheck(env.drv, sv)
}

// warnCheck is errorCheck for cleanup paths: the error is logged, never
// returned.
func (env *Environment) warnCheck(sv *isc.StatusVector) {
	if code := env.drv.SQLCode(sv); code != 0 {
		e := newFbError(env.drv, code, sv)
		env.logger.Warn().Int("sqlcode", code).Ints("gds", e.GDSCodes).Msgf("%s(%d)", e.Message, code)
	}
}

// check picks errorCheck or warnCheck.
func (env *Environment) check(sv *isc.StatusVector, warn bool) error {
	if warn {
		env.warnCheck(sv)
		return nil
	}
	return env.errorCheck(sv)
}

func (env *Environment) register(c *connection) {
	env.conns = slices.Insert(env.conns, 0, c)
}

func (env *Environment) unregister(c *connection) {
	if i := slices.Index(env.conns, c); i >= 0 {
		env.conns = slices.Delete(env.conns, i, i+1)
	}
}

// Connections returns the number of attached connections.
func (env *Environment) Connections() int {
	env.mu.Lock()
	defer env.mu.Unlock()
	return len(env.conns)
}

func (env *Environment) codec(c *connection) *codec {
	return &codec{
		drv:    env.drv,
		db:     &c.db,
		tr:     &env.trans,
		cs:     c.cs,
		loc:    c.loc,
		logger: env.logger,
	}
}
