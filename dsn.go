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
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrDsnPageSize = errors.New("page_size must be a positive integer")

// parseDSN reads user:password@host:port/path?charset=UTF8&role=R into
// DatabaseParams. The host part becomes the "host/port:" prefix the
// client library expects for remote databases; without it the path is
// local.
func parseDSN(dsns string) (DatabaseParams, error) {
	var params DatabaseParams

	if !strings.HasPrefix(dsns, "firebird://") {
		dsns = "firebird://" + dsns
	}
	u, err := url.Parse(dsns)
	if err != nil {
		return params, errors.Wrap(err, "parse dsn")
	}
	if u.User != nil {
		params.Username = u.User.Username()
		params.Password, _ = u.User.Password()
	}

	dbName := u.Path
	if len(dbName) > 1 && !strings.ContainsRune(dbName[1:], '/') {
		dbName = dbName[1:]
	}
	//Windows Path
	if len(dbName) > 2 && strings.ContainsRune(dbName[2:], ':') {
		dbName = dbName[1:]
	}
	if dbName == "" || dbName == "/" {
		return params, ErrDatabaseRequired
	}

	switch host, port := u.Hostname(), u.Port(); {
	case host != "" && port != "":
		dbName = host + "/" + port + ":" + dbName
	case host != "":
		dbName = host + ":" + dbName
	}
	params.Database = dbName

	m := u.Query()
	params.Charset = m.Get("charset")
	params.Role = m.Get("role")
	params.TimeZone = m.Get("timezone")
	if v := m.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return params, errors.Wrap(ErrDsnPageSize, v)
		}
		params.PageSize = n
	}
	return params, nil
}
