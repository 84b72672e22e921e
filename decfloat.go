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
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// IEEE 754 decimal interchange formats with densely packed significands,
// as DECFLOAT(16) and DECFLOAT(34) columns carry them.
type decFormat struct {
	size   int  // bytes
	ecBits uint // exponent continuation bits
	bias   int32
}

var (
	decimal64Format  = decFormat{size: 8, ecBits: 8, bias: 398}
	decimal128Format = decFormat{size: 16, ecBits: 12, bias: 6176}
)

var ErrDecFloatNotFinite = errors.New("DECFLOAT NaN and Infinity have no decimal.Decimal form")

// dpdToInt decodes one 10 bit declet into 0..999.
func dpdToInt(d uint16) int64 {
	bit := func(n uint) uint16 { return d >> n & 1 }
	var h, t, o uint16
	switch {
	case bit(3) == 0:
		h, t, o = d>>7&7, d>>4&7, d&7
	case d&0x0e == 0x08:
		h, t, o = d>>7&7, d>>4&7, 8+bit(0)
	case d&0x0e == 0x0a:
		h, t, o = d>>7&7, 8+bit(4), d>>4&6|bit(0)
	case d&0x0e == 0x0c:
		h, t, o = 8+bit(7), d>>4&7, d>>7&6|bit(0)
	case d&0x6e == 0x0e:
		h, t, o = 8+bit(7), 8+bit(4), d>>7&6|bit(0)
	case d&0x6e == 0x2e:
		h, t, o = 8+bit(7), d>>7&6|bit(4), 8+bit(0)
	case d&0x6e == 0x4e:
		h, t, o = d>>7&7, 8+bit(4), 8+bit(0)
	default:
		h, t, o = 8+bit(7), 8+bit(4), 8+bit(0)
	}
	return int64(h)*100 + int64(t)*10 + int64(o)
}

// bigEndian returns the slot bytes most significant first.
func bigEndian(b []byte) []byte {
	out := make([]byte, len(b))
	if native.Uint16([]byte{1, 0}) == 1 {
		for i := range b {
			out[len(b)-1-i] = b[i]
		}
	} else {
		copy(out, b)
	}
	return out
}

// decodeDecFloat reads a big endian decimal64 or decimal128.
func decodeDecFloat(b []byte, f decFormat) (decimal.Decimal, error) {
	v := new(big.Int).SetBytes(b)
	total := uint(f.size * 8)
	coeffBits := total - 6 - f.ecBits
	negative := b[0]&0x80 != 0

	comb := uint(b[0]>>2) & 0x1f
	var expHigh uint
	var msd int64
	switch {
	case comb == 0x1e, comb == 0x1f:
		return decimal.Zero, ErrDecFloatNotFinite
	case comb&0x18 != 0x18:
		expHigh, msd = comb>>3, int64(comb&7)
	default:
		expHigh, msd = comb>>1&3, 8+int64(comb&1)
	}

	mask := new(big.Int).Lsh(big.NewInt(1), f.ecBits)
	mask.Sub(mask, big.NewInt(1))
	cont := new(big.Int).Rsh(v, coeffBits)
	cont.And(cont, mask)
	exponent := int32(expHigh<<f.ecBits|uint(cont.Uint64())) - f.bias

	coeff := big.NewInt(msd)
	thousand := big.NewInt(1000)
	declet := new(big.Int)
	for i := int(coeffBits/10) - 1; i >= 0; i-- {
		declet.Rsh(v, uint(i*10))
		coeff.Mul(coeff, thousand)
		coeff.Add(coeff, big.NewInt(dpdToInt(uint16(declet.Uint64()&0x3ff))))
	}
	if negative {
		coeff.Neg(coeff)
	}
	return decimal.NewFromBigInt(coeff, exponent), nil
}

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// decodeInt128 reads a native two's complement INT128 slot.
func decodeInt128(b []byte, scale int16) decimal.Decimal {
	be := bigEndian(b)
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		v.Sub(v, two128)
	}
	return decimal.NewFromBigInt(v, int32(scale))
}

// encodeInt128 writes d, rescaled to the column scale, as a native INT128.
func encodeInt128(buf []byte, d decimal.Decimal, scale int16) {
	v := new(big.Int).Set(d.Shift(int32(-scale)).Round(0).Coefficient())
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	be := make([]byte, 16)
	v.FillBytes(be)
	copy(buf, bigEndian(be))
}
