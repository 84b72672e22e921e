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
	"bytes"
	"io"
	"strings"

	"github.com/fbgo/fb/isc"
	"modernc.org/mathutil"
)

var blobInfoItems = []byte{
	isc_info_blob_max_segment,
	isc_info_blob_num_segments,
	isc_info_blob_total_length,
}

func (c *codec) closeBlob(blob *isc.BlobHandle) {
	var sv isc.StatusVector
	c.drv.CloseBlob(&sv, blob)
	if code := c.drv.SQLCode(&sv); code != 0 {
		c.logger.Warn().Int("sqlcode", code).Msg(newFbError(c.drv, code, &sv).Message)
	}
}

func (c *codec) blobReader(x *isc.XSQLVar, v interface{}) (io.Reader, error) {
	switch b := v.(type) {
	case []byte:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	case string:
		if x.SQLSubtype == BLOB_SUB_TYPE_TEXT {
			encoded, err := c.cs.encode(b)
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(encoded), nil
		}
		return strings.NewReader(b), nil
	}
	text, err := c.encodeText(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(text), nil
}

// writeBlob creates a blob in the ambient transaction and streams v into
// it in BLOB_SEGMENT_SIZE segments.
func (c *codec) writeBlob(x *isc.XSQLVar, v interface{}) (id isc.BlobID, err error) {
	r, err := c.blobReader(x, v)
	if err != nil {
		return
	}

	var sv isc.StatusVector
	var blob isc.BlobHandle
	c.drv.CreateBlob2(&sv, c.db, c.tr, &blob, &id)
	if err = errorCheck(c.drv, &sv); err != nil {
		return
	}

	seg := make([]byte, BLOB_SEGMENT_SIZE)
	for {
		n, rerr := io.ReadFull(r, seg)
		if n > 0 {
			c.drv.PutSegment(&sv, &blob, seg[:n])
			if err = errorCheck(c.drv, &sv); err != nil {
				c.closeBlob(&blob)
				return
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			c.closeBlob(&blob)
			return id, rerr
		}
	}

	c.drv.CloseBlob(&sv, &blob)
	err = errorCheck(c.drv, &sv)
	return
}

// readBlob sizes the result from blob_info and then reads segments until
// total_length bytes arrived, whatever segment size the server used.
func (c *codec) readBlob(id *isc.BlobID) ([]byte, error) {
	var sv isc.StatusVector
	var blob isc.BlobHandle
	c.drv.OpenBlob2(&sv, c.db, c.tr, &blob, id)
	if err := errorCheck(c.drv, &sv); err != nil {
		return nil, err
	}

	info := make([]byte, 32)
	c.drv.BlobInfo(&sv, &blob, blobInfoItems, info)
	if err := errorCheck(c.drv, &sv); err != nil {
		c.closeBlob(&blob)
		return nil, err
	}
	items := NewXPBReader(info).InfoItems()
	maxSegment := int(vax_integer(items[isc_info_blob_max_segment]))
	numSegments := int(vax_integer(items[isc_info_blob_num_segments]))
	totalLength := int(vax_integer(items[isc_info_blob_total_length]))

	data := make([]byte, 0, totalLength)
	seg := make([]byte, mathutil.Min(mathutil.Max(maxSegment, 1), 0xffff))
	empty := 0
	for len(data) < totalLength {
		sv.Clear()
		n := c.drv.GetSegment(&sv, &blob, seg)
		data = append(data, seg[:n]...)

		code := sv.GDSCode()
		if code == isc.GDS_SEGSTR_EOF {
			break
		}
		if code != isc.GDS_SEGMENT {
			if err := errorCheck(c.drv, &sv); err != nil {
				c.closeBlob(&blob)
				return nil, err
			}
		}
		if n == 0 {
			if empty++; empty > numSegments {
				break
			}
		}
	}

	c.drv.CloseBlob(&sv, &blob)
	if err := errorCheck(c.drv, &sv); err != nil {
		return nil, err
	}
	return data, nil
}
