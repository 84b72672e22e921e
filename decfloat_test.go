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
	"encoding/hex"
	"testing"

	"github.com/fbgo/fb/isc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDPDToInt(t *testing.T) {
	tests := map[uint16]int64{
		0x000: 0,
		0x001: 1,
		0x0a5: 125,
		0x009: 9,
		0x05f: 99,
		0x0ff: 999,
	}
	for dpd, want := range tests {
		assert.Equal(t, want, dpdToInt(dpd), "%#x", dpd)
	}
}

func TestDecodeDecFloat(t *testing.T) {
	tests := []struct {
		hex  string
		f    decFormat
		want string
	}{
		{"2238000000000001", decimal64Format, "1"},
		{"a238000000000001", decimal64Format, "-1"},
		{"22340000000000a5", decimal64Format, "12.5"},
		{"2238000000000000", decimal64Format, "0"},
		{"22080000000000000000000000000001", decimal128Format, "1"},
		{"a2080000000000000000000000000001", decimal128Format, "-1"},
	}
	for _, tt := range tests {
		d, err := decodeDecFloat(mustHex(t, tt.hex), tt.f)
		require.NoError(t, err, tt.hex)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(d), "%s: got %s", tt.hex, d)
	}

	_, err := decodeDecFloat(mustHex(t, "7800000000000000"), decimal64Format)
	assert.Equal(t, ErrDecFloatNotFinite, err)
	_, err = decodeDecFloat(mustHex(t, "7c000000000000000000000000000000"), decimal128Format)
	assert.Equal(t, ErrDecFloatNotFinite, err)
}

func TestInt128RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	for _, s := range []string{"0", "1.25", "-1.25", "170141183460469231731687303715884105.727"} {
		d := decimal.RequireFromString(s)
		encodeInt128(buf, d, -3)
		got := decodeInt128(buf, -3)
		assert.True(t, d.Equal(got), "%s: got %s", s, got)
	}

	encodeInt128(buf, decimal.NewFromInt(-1), 0)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, buf)
}

func TestCodecDecFloatSlots(t *testing.T) {
	c := plainCodec()

	da := newTestSQLDA(
		xvar(isc.SQL_TYPE_DEC16, 8, true),
		xvar(isc.SQL_TYPE_INT128, 16, true),
	)
	da.Vars[1].SQLScale = -2
	require.NoError(t, c.encodeParams(da, []interface{}{decimal.RequireFromString("3.75"), 1234}))

	dec := da.Vars[0]
	assert.Equal(t, isc.SQL_TYPE_VARYING, dec.Type(), "DECFLOAT is bound as text")
	assert.True(t, dec.Nullable())
	assert.Equal(t, int16(4), dec.SQLLen)
	assert.Equal(t, "3.75", string(da.Buffer[dec.DataOffset+2:dec.DataOffset+6]))

	i128 := da.Vars[1]
	assert.Zero(t, i128.DataOffset%16)
	got, err := c.decodeValue(&i128, da.Buffer)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.34").Equal(got.(decimal.Decimal)))

	out := newTestSQLDA(xvar(isc.SQL_TYPE_DEC16, 8, false))
	layoutSQLDA(out)
	copy(out.Buffer[out.Vars[0].DataOffset:], bigEndian(mustHex(t, "22340000000000a5")))
	row, err := c.decodeRow(out)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(row[0].(decimal.Decimal)))
}
