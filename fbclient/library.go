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

// Package fbclient binds the isc_* entry points of the Firebird client
// library (libfbclient, fbclient.dll) without cgo.
package fbclient

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

// LibraryEnv names the environment variable overriding the library path.
const LibraryEnv = "FIREBIRD_CLIENT_LIBRARY"

func libraryNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"fbclient.dll", "gds32.dll"}
	case "darwin":
		return []string{
			"libfbclient.dylib",
			"/Library/Frameworks/Firebird.framework/Libraries/libfbclient.dylib",
			"/Library/Frameworks/Firebird.framework/Firebird",
		}
	default:
		return []string{"libfbclient.so.2", "libfbclient.so", "libgds.so.0"}
	}
}

// candidates lists where the library is looked for: the explicit path,
// then LibraryEnv, then next to the executable, then the loader search
// path.
func candidates(path string) []string {
	if path != "" {
		return []string{path}
	}
	if env := os.Getenv(LibraryEnv); env != "" {
		return []string{env}
	}
	names := libraryNames()
	var paths []string
	if dir, err := osext.ExecutableFolder(); err == nil {
		for _, name := range names {
			if !filepath.IsAbs(name) {
				paths = append(paths, filepath.Join(dir, name))
			}
		}
	}
	return append(paths, names...)
}

// Load opens the client library and resolves the entry points the core
// uses. An empty path searches the usual locations.
func Load(path string) (*Client, error) {
	var lastErr error
	for _, candidate := range candidates(path) {
		if filepath.IsAbs(candidate) {
			if _, err := os.Stat(candidate); err != nil {
				lastErr = err
				continue
			}
		}
		lib, err := openLibrary(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		c := &Client{lib: lib, path: candidate}
		if err := c.register(); err != nil {
			return nil, errors.Wrapf(err, "load %s", candidate)
		}
		return c, nil
	}
	return nil, errors.Wrapf(lastErr, "firebird client library not found (set %s)", LibraryEnv)
}

func (c *Client) register() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
		}
	}()

	purego.RegisterLibFunc(&c.attachDatabase, c.lib, "isc_attach_database")
	purego.RegisterLibFunc(&c.detachDatabase, c.lib, "isc_detach_database")
	purego.RegisterLibFunc(&c.dropDatabase, c.lib, "isc_drop_database")
	purego.RegisterLibFunc(&c.databaseInfo, c.lib, "isc_database_info")

	purego.RegisterLibFunc(&c.startMultiple, c.lib, "isc_start_multiple")
	purego.RegisterLibFunc(&c.commitTransaction, c.lib, "isc_commit_transaction")
	purego.RegisterLibFunc(&c.rollbackTransaction, c.lib, "isc_rollback_transaction")

	purego.RegisterLibFunc(&c.dsqlAllocateStatement, c.lib, "isc_dsql_allocate_statement")
	purego.RegisterLibFunc(&c.dsqlPrepare, c.lib, "isc_dsql_prepare")
	purego.RegisterLibFunc(&c.dsqlSQLInfo, c.lib, "isc_dsql_sql_info")
	purego.RegisterLibFunc(&c.dsqlDescribe, c.lib, "isc_dsql_describe")
	purego.RegisterLibFunc(&c.dsqlDescribeBind, c.lib, "isc_dsql_describe_bind")
	purego.RegisterLibFunc(&c.dsqlExecute2, c.lib, "isc_dsql_execute2")
	purego.RegisterLibFunc(&c.dsqlExecuteImmediate, c.lib, "isc_dsql_execute_immediate")
	purego.RegisterLibFunc(&c.dsqlFetch, c.lib, "isc_dsql_fetch")
	purego.RegisterLibFunc(&c.dsqlFreeStatement, c.lib, "isc_dsql_free_statement")

	purego.RegisterLibFunc(&c.createBlob2, c.lib, "isc_create_blob2")
	purego.RegisterLibFunc(&c.openBlob2, c.lib, "isc_open_blob2")
	purego.RegisterLibFunc(&c.putSegment, c.lib, "isc_put_segment")
	purego.RegisterLibFunc(&c.getSegment, c.lib, "isc_get_segment")
	purego.RegisterLibFunc(&c.closeBlob, c.lib, "isc_close_blob")
	purego.RegisterLibFunc(&c.blobInfo, c.lib, "isc_blob_info")

	purego.RegisterLibFunc(&c.sqlcode, c.lib, "isc_sqlcode")
	purego.RegisterLibFunc(&c.sqlInterprete, c.lib, "isc_sql_interprete")
	purego.RegisterLibFunc(&c.interprete, c.lib, "isc_interprete")
	return nil
}
