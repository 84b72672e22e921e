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

package isc

const (
	SQLDA_VERSION1       = 1
	STATUS_VECTOR_LENGTH = 20

	DSQL_close = 1
	DSQL_drop  = 2

	SQLCODE_NOMORE = 100
)

// sqltype values; the low bit flags a nullable column
const (
	SQL_TYPE_TEXT      = 452
	SQL_TYPE_VARYING   = 448
	SQL_TYPE_SHORT     = 500
	SQL_TYPE_LONG      = 496
	SQL_TYPE_FLOAT     = 482
	SQL_TYPE_DOUBLE    = 480
	SQL_TYPE_D_FLOAT   = 530
	SQL_TYPE_TIMESTAMP = 510
	SQL_TYPE_BLOB      = 520
	SQL_TYPE_ARRAY     = 540
	SQL_TYPE_QUAD      = 550
	SQL_TYPE_TIME      = 560
	SQL_TYPE_DATE      = 570
	SQL_TYPE_INT64     = 580
	SQL_TYPE_INT128    = 32752
	SQL_TYPE_DEC16     = 32760
	SQL_TYPE_DEC34     = 32762
	SQL_TYPE_BOOLEAN   = 32764
	SQL_TYPE_NULL      = 32766
)

// status vector clumplet kinds
const (
	ARG_END       = 0
	ARG_GDS       = 1
	ARG_STRING    = 2
	ARG_CSTRING   = 3
	ARG_NUMBER    = 4
	ARG_INTERPRET = 5
	ARG_WARNING   = 18
	ARG_SQL_STATE = 19
)

const (
	GDS_SEGMENT      = 335544366
	GDS_SEGSTR_EOF   = 335544367
	GDS_IO_ERROR     = 335544344
	GDS_NOT_NULL     = 335544347
	GDS_DSQL_ERROR   = 335544569
	GDS_RELATION_ERR = 335544580
)
