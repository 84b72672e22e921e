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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullScan(t *testing.T) {
	var n Null[int64]
	require.NoError(t, n.Scan(int64(42)))
	v, ok := n.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid())
	value, err := n.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	assert.Error(t, n.Scan("42"))

	var s Null[string]
	require.NoError(t, s.Scan([]byte("abc")))
	value, err = s.Value()
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	var d Null[decimal.Decimal]
	require.NoError(t, d.Scan(123.45))
	got, _ := d.Get()
	assert.True(t, decimal.RequireFromString("123.45").Equal(got))

	var ts Null[time.Time]
	now := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, ts.Scan(now))
	value, err = ts.Value()
	require.NoError(t, err)
	assert.Equal(t, now, value)

	var u Null[uint8]
	assert.Error(t, u.Scan(int64(1)))
}

func TestNullThroughDriver(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.Exec("CREATE TABLE t (i INTEGER, s VARCHAR(10))")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO t VALUES (?, ?)", NewNull(int64(1)), Null[string]{})
	require.NoError(t, err)

	var i Null[int64]
	var s Null[string]
	require.NoError(t, db.QueryRow("SELECT i, s FROM t").Scan(&i, &s))
	assert.True(t, i.Valid())
	assert.False(t, s.Valid())
}
