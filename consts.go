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

const (
	ISC_TIME_SECONDS_PRECISION = 10000

	SQL_DIALECT_V5      = 1
	SQL_DIALECT_V6      = 3
	SQL_DIALECT_CURRENT = SQL_DIALECT_V6

	SQLDA_COLSINIT     = 10
	MAX_TABLE_NAME_LEN = 31
	BLOB_SEGMENT_SIZE  = 4096

	// values returned by Execute
	STATEMENT_SELECT = -1
	STATEMENT_DML    = 0
	STATEMENT_DDL    = 1

	DEFAULT_USERNAME  = "sysdba"
	DEFAULT_PASSWORD  = "masterkey"
	DEFAULT_CHARSET   = "NONE"
	DEFAULT_PAGE_SIZE = 1024

	FLT_MIN = 1.17549435082228750796873653722224568e-38
	FLT_MAX = 3.40282346638528859811704183484516925440e+38
)

const (
	isc_info_end       = 1
	isc_info_truncated = 2

	isc_info_db_sql_dialect   = 62
	isc_info_firebird_version = 103

	isc_info_sql_stmt_type = 21

	isc_info_blob_num_segments = 4
	isc_info_blob_max_segment  = 5
	isc_info_blob_total_length = 6
	isc_info_blob_type         = 7
)

const (
	isc_info_sql_stmt_select         = 1
	isc_info_sql_stmt_insert         = 2
	isc_info_sql_stmt_update         = 3
	isc_info_sql_stmt_delete         = 4
	isc_info_sql_stmt_ddl            = 5
	isc_info_sql_stmt_get_segment    = 6
	isc_info_sql_stmt_put_segment    = 7
	isc_info_sql_stmt_exec_procedure = 8
	isc_info_sql_stmt_start_trans    = 9
	isc_info_sql_stmt_commit         = 10
	isc_info_sql_stmt_rollback       = 11
	isc_info_sql_stmt_select_for_upd = 12
	isc_info_sql_stmt_set_generator  = 13
	isc_info_sql_stmt_savepoint      = 14
)

const (
	isc_tpb_version1       = 1
	isc_tpb_consistency    = 1
	isc_tpb_concurrency    = 2
	isc_tpb_shared         = 3
	isc_tpb_protected      = 4
	isc_tpb_wait           = 6
	isc_tpb_nowait         = 7
	isc_tpb_read           = 8
	isc_tpb_write          = 9
	isc_tpb_lock_read      = 10
	isc_tpb_lock_write     = 11
	isc_tpb_read_committed = 15
	isc_tpb_rec_version    = 17
	isc_tpb_no_rec_version = 18
)

const (
	isc_dpb_version1      = 1
	isc_dpb_user_name     = 28
	isc_dpb_password      = 29
	isc_dpb_lc_ctype      = 48
	isc_dpb_sql_role_name = 60
)

// subtype of BLOB columns holding text
const BLOB_SUB_TYPE_TEXT = 1

// character set id of binary CHAR/VARCHAR columns
const CHARSET_OCTETS = 1
