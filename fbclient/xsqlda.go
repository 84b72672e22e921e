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

package fbclient

import (
	"runtime"
	"unsafe"

	"github.com/fbgo/fb/isc"
)

const (
	nameLength     = 32
	xsqldaHeader   = 24
	xsqlvarSize    = 160
	xsqldaIDLength = 8
)

// cXSQLVar has the memory layout of XSQLVAR in ibase.h.
type cXSQLVar struct {
	sqltype         int16
	sqlscale        int16
	sqlsubtype      int16
	sqllen          int16
	sqldata         uintptr
	sqlind          uintptr
	sqlnameLength   int16
	sqlname         [nameLength]byte
	relnameLength   int16
	relname         [nameLength]byte
	ownnameLength   int16
	ownname         [nameLength]byte
	aliasnameLength int16
	aliasname       [nameLength]byte
}

type cXSQLDA struct {
	version int16
	sqldaid [xsqldaIDLength]byte
	sqldabc int32
	sqln    int16
	sqld    int16
}

// cTEB has the layout of ISC_TEB.
type cTEB struct {
	db     uintptr
	tpbLen int
	tpb    uintptr
}

// descriptor is the C copy of an isc.SQLDA for the duration of one call.
// Data and indicator pointers refer into the pinned da.Buffer.
type descriptor struct {
	words  []uint64
	da     *isc.SQLDA
	pinner runtime.Pinner
}

func newDescriptor(da *isc.SQLDA) *descriptor {
	if da == nil {
		return nil
	}
	n := len(da.Vars)
	if n == 0 {
		n = 1
	}
	d := &descriptor{
		words: make([]uint64, (xsqldaHeader+xsqlvarSize*n+7)/8),
		da:    da,
	}
	d.pinner.Pin(&d.words[0])
	var base uintptr
	if len(da.Buffer) > 0 {
		d.pinner.Pin(&da.Buffer[0])
		base = uintptr(unsafe.Pointer(&da.Buffer[0]))
	}

	hdr := d.header()
	hdr.version = da.Version
	hdr.sqln = da.Sqln
	hdr.sqld = da.Sqld
	vars := d.vars()
	for i := range da.Vars {
		x := &da.Vars[i]
		cx := &vars[i]
		cx.sqltype = x.SQLType
		cx.sqlscale = x.SQLScale
		cx.sqlsubtype = x.SQLSubtype
		cx.sqllen = x.SQLLen
		if x.DataOffset >= 0 && base != 0 {
			cx.sqldata = base + uintptr(x.DataOffset)
		}
		if x.IndOffset >= 0 && base != 0 {
			cx.sqlind = base + uintptr(x.IndOffset)
		}
	}
	return d
}

func (d *descriptor) header() *cXSQLDA {
	return (*cXSQLDA)(unsafe.Pointer(&d.words[0]))
}

func (d *descriptor) vars() []cXSQLVar {
	p := unsafe.Add(unsafe.Pointer(&d.words[0]), xsqldaHeader)
	return unsafe.Slice((*cXSQLVar)(p), len(d.da.Vars))
}

func (d *descriptor) ptr() unsafe.Pointer {
	if d == nil {
		return nil
	}
	return unsafe.Pointer(&d.words[0])
}

// describe copies what a prepare or describe filled in back to the
// isc.SQLDA.
func (d *descriptor) describe() {
	if d == nil {
		return
	}
	d.da.Sqld = d.header().sqld
	vars := d.vars()
	for i := range d.da.Vars {
		cx := &vars[i]
		x := &d.da.Vars[i]
		x.SQLType = cx.sqltype
		x.SQLScale = cx.sqlscale
		x.SQLSubtype = cx.sqlsubtype
		x.SQLLen = cx.sqllen
		x.SQLName = cname(cx.sqlname[:], cx.sqlnameLength)
		x.RelName = cname(cx.relname[:], cx.relnameLength)
		x.OwnName = cname(cx.ownname[:], cx.ownnameLength)
		x.AliasName = cname(cx.aliasname[:], cx.aliasnameLength)
	}
}

func (d *descriptor) release() {
	if d != nil {
		d.pinner.Unpin()
	}
}

func cname(b []byte, n int16) string {
	if int(n) < len(b) && n >= 0 {
		b = b[:n]
	}
	return string(b)
}
