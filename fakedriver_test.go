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
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fbgo/fb/isc"
	"github.com/rs/zerolog"
)

// fakeServer is an in-memory isc.Driver understanding just enough SQL to
// drive the core: CREATE/DROP TABLE, INSERT ... VALUES (?...), SELECT
// cols FROM t [WHERE c = ?], DELETE FROM t and the transaction
// statements.
const (
	gdsBadDBHandle    = 335544324
	gdsBadStmtHandle  = 335544485
	gdsBadTransHandle = 335544332
	gdsArithExcept    = 335544321
	gdsCursorClosed   = 335544577
	gdsLogin          = 335544472
	gdsDSQLTable      = 335544351
)

var fakeSQLCodes = map[int]int{
	isc.GDS_NOT_NULL:     -625,
	isc.GDS_DSQL_ERROR:   -104,
	isc.GDS_RELATION_ERR: -204,
	isc.GDS_IO_ERROR:     -902,
	gdsArithExcept:       -802,
	gdsCursorClosed:      -501,
	gdsLogin:             -902,
	gdsDSQLTable:         -607,
}

type fakeColumn struct {
	name     string
	sqltype  int
	scale    int16
	subtype  int16
	length   int16
	nullable bool
}

func (c fakeColumn) xsqlvar(table string) isc.XSQLVar {
	t := c.sqltype
	if c.nullable {
		t |= 1
	}
	return isc.XSQLVar{
		SQLType:    int16(t),
		SQLScale:   c.scale,
		SQLSubtype: c.subtype,
		SQLLen:     c.length,
		DataOffset: -1,
		IndOffset:  -1,
		SQLName:    c.name,
		RelName:    table,
		OwnName:    "SYSDBA",
		AliasName:  c.name,
	}
}

type fakeTable struct {
	name string
	cols []fakeColumn
	rows [][][]byte // nil cell is NULL
}

func (t *fakeTable) column(name string) (int, bool) {
	for i, c := range t.cols {
		if strings.EqualFold(c.name, name) {
			return i, true
		}
	}
	return 0, false
}

func (t *fakeTable) clone() *fakeTable {
	n := *t
	n.rows = append([][][]byte(nil), t.rows...)
	return &n
}

type fakeDB struct {
	path     string
	dialect  int
	version  string
	password string
	tables   map[string]*fakeTable
}

type fakeTx struct {
	dbs      []*fakeDB
	tpb      []byte
	snapshot map[*fakeDB]map[string]*fakeTable
}

type fakeStmt struct {
	db        *fakeDB
	kind      int
	table     *fakeTable
	outCols   []int // column indexes, -1 is the constant 1
	inCols    []int
	where     int
	rows      [][][]byte
	open      bool
	pos       int
	constName string
}

type fakeBlob struct {
	id       isc.BlobID
	segments [][]byte
	seg      int
	off      int
	writing  bool
}

type fakeServer struct {
	mu       sync.Mutex
	next     uint32
	dbs      map[string]*fakeDB
	attached map[isc.DBHandle]*fakeDB
	trans    map[isc.TrHandle]*fakeTx
	stmts    map[isc.StmtHandle]*fakeStmt
	blobs    map[isc.BlobID][][]byte
	open     map[isc.BlobHandle]*fakeBlob

	// resegment, when set, makes stored blobs come back in segments of
	// this size instead of the ones written.
	resegment int
	failOn    map[string]int
	calls     []string
	lastDPB   []byte
	lastTPB   []byte
	lastSQL   string
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		dbs:      make(map[string]*fakeDB),
		attached: make(map[isc.DBHandle]*fakeDB),
		trans:    make(map[isc.TrHandle]*fakeTx),
		stmts:    make(map[isc.StmtHandle]*fakeStmt),
		blobs:    make(map[isc.BlobID][][]byte),
		open:     make(map[isc.BlobHandle]*fakeBlob),
		failOn:   make(map[string]int),
	}
}

// addDatabase creates path with the given dialect; dialect 0 makes the
// server omit isc_info_db_SQL_dialect.
func (f *fakeServer) addDatabase(path string, dialect int) *fakeDB {
	db := &fakeDB{path: path, dialect: dialect, version: "LI-V3.0.10.33601 Firebird 3.0", tables: make(map[string]*fakeTable)}
	f.dbs[path] = db
	return db
}

func (f *fakeServer) handle() uint32 {
	f.next++
	return f.next
}

func (f *fakeServer) called(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

// enter records the call and reports an injected failure.
func (f *fakeServer) enter(sv *isc.StatusVector, name string) bool {
	sv.Clear()
	f.calls = append(f.calls, name)
	if code, ok := f.failOn[name]; ok {
		delete(f.failOn, name)
		sv.Set(code)
		return false
	}
	sv.Set(0)
	return true
}

func newTestEnv(t *testing.T) (*Environment, *fakeServer) {
	t.Helper()
	f := newFakeServer()
	env := NewEnvironment(f, WithLogger(zerolog.Nop()), WithLocation(time.UTC))
	return env, f
}

func (f *fakeServer) AttachDatabase(sv *isc.StatusVector, path string, db *isc.DBHandle, dpb []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "attach") {
		return
	}
	f.lastDPB = append([]byte(nil), dpb...)
	d, ok := f.dbs[path]
	if !ok {
		sv.Set(isc.GDS_IO_ERROR)
		return
	}
	if d.password != "" && !bytes.Contains(dpb, []byte(d.password)) {
		sv.Set(gdsLogin)
		return
	}
	*db = isc.DBHandle(f.handle())
	f.attached[*db] = d
}

func (f *fakeServer) DetachDatabase(sv *isc.StatusVector, db *isc.DBHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "detach") {
		return
	}
	if _, ok := f.attached[*db]; !ok {
		sv.Set(gdsBadDBHandle)
		return
	}
	delete(f.attached, *db)
	*db = 0
}

func (f *fakeServer) DropDatabase(sv *isc.StatusVector, db *isc.DBHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "drop_database") {
		return
	}
	d, ok := f.attached[*db]
	if !ok {
		sv.Set(gdsBadDBHandle)
		return
	}
	delete(f.attached, *db)
	delete(f.dbs, d.path)
	*db = 0
}

func int32_to_bytes(i32 int32) []byte {
	return []byte{
		byte(i32 & 0xFF),
		byte(i32 >> 8 & 0xFF),
		byte(i32 >> 16 & 0xFF),
		byte(i32 >> 24 & 0xFF),
	}
}

func infoItem(tag byte, value []byte) []byte {
	return append([]byte{tag, byte(len(value)), byte(len(value) >> 8)}, value...)
}

func (f *fakeServer) DatabaseInfo(sv *isc.StatusVector, db *isc.DBHandle, items []byte, buf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "database_info") {
		return
	}
	d, ok := f.attached[*db]
	if !ok {
		sv.Set(gdsBadDBHandle)
		return
	}
	var out []byte
	for _, item := range items {
		switch item {
		case isc_info_db_sql_dialect:
			if d.dialect != 0 {
				out = append(out, infoItem(item, []byte{byte(d.dialect)})...)
			}
		case isc_info_firebird_version:
			v := append([]byte{1, byte(len(d.version))}, d.version...)
			out = append(out, infoItem(item, v)...)
		}
	}
	out = append(out, isc_info_end)
	copy(buf, out)
}

func (f *fakeServer) StartMultiple(sv *isc.StatusVector, tr *isc.TrHandle, tebs []isc.TEB) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "start") {
		return
	}
	tx := &fakeTx{snapshot: make(map[*fakeDB]map[string]*fakeTable)}
	for _, teb := range tebs {
		d, ok := f.attached[*teb.DB]
		if !ok {
			sv.Set(gdsBadDBHandle)
			return
		}
		tx.dbs = append(tx.dbs, d)
		tx.tpb = append([]byte(nil), teb.TPB...)
		snap := make(map[string]*fakeTable)
		for name, t := range d.tables {
			snap[name] = t.clone()
		}
		tx.snapshot[d] = snap
	}
	f.lastTPB = tx.tpb
	*tr = isc.TrHandle(f.handle())
	f.trans[*tr] = tx
}

func (f *fakeServer) endTransaction(sv *isc.StatusVector, tr *isc.TrHandle, name string, restore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, name) {
		return
	}
	tx, ok := f.trans[*tr]
	if !ok {
		sv.Set(gdsBadTransHandle)
		return
	}
	if restore {
		for d, snap := range tx.snapshot {
			d.tables = snap
		}
	}
	for _, s := range f.stmts {
		s.open = false
	}
	delete(f.trans, *tr)
	*tr = 0
}

func (f *fakeServer) CommitTransaction(sv *isc.StatusVector, tr *isc.TrHandle) {
	f.endTransaction(sv, tr, "commit", false)
}

func (f *fakeServer) RollbackTransaction(sv *isc.StatusVector, tr *isc.TrHandle) {
	f.endTransaction(sv, tr, "rollback", true)
}

func (f *fakeServer) DSQLAllocateStatement(sv *isc.StatusVector, db *isc.DBHandle, stmt *isc.StmtHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "allocate") {
		return
	}
	d, ok := f.attached[*db]
	if !ok {
		sv.Set(gdsBadDBHandle)
		return
	}
	*stmt = isc.StmtHandle(f.handle())
	f.stmts[*stmt] = &fakeStmt{db: d, where: -1}
}

var (
	reCreateTable = regexp.MustCompile(`(?is)^\s*create\s+table\s+(\w+)\s*\((.*)\)\s*;?\s*$`)
	reDropTable   = regexp.MustCompile(`(?i)^\s*drop\s+table\s+(\w+)\s*;?\s*$`)
	reInsert      = regexp.MustCompile(`(?is)^\s*insert\s+into\s+(\w+)\s*(?:\(([^)]*)\))?\s*values\s*\((.*)\)\s*;?\s*$`)
	reSelect      = regexp.MustCompile(`(?is)^\s*select\s+(.+?)\s+from\s+(\S+?)(?:\s+where\s+(\w+)\s*=\s*\?)?\s*;?\s*$`)
	reDelete      = regexp.MustCompile(`(?i)^\s*delete\s+from\s+(\w+)\s*;?\s*$`)
	reCommit      = regexp.MustCompile(`(?i)^\s*commit(\s+work)?\s*;?\s*$`)
	reRollback    = regexp.MustCompile(`(?i)^\s*rollback(\s+work)?\s*;?\s*$`)
	reSetTrans    = regexp.MustCompile(`(?i)^\s*set\s+transaction\b`)
	reColumn      = regexp.MustCompile(`(?is)^(\w+)\s+(.+?)(\s+not\s+null)?$`)
	reType        = regexp.MustCompile(`(?is)^(double\s+precision|\w+)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?(.*)$`)
	reCreateDB    = regexp.MustCompile(`(?is)^CREATE DATABASE '([^']*)' USER '([^']*)' PASSWORD '([^']*)' PAGE_SIZE = (\d+) DEFAULT CHARACTER SET (\w+);$`)
)

// splitTop splits s on commas outside parentheses.
func splitTop(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func parseColumnType(name, def string, nullable bool) (fakeColumn, bool) {
	m := reType.FindStringSubmatch(strings.TrimSpace(def))
	if m == nil {
		return fakeColumn{}, false
	}
	col := fakeColumn{name: strings.ToUpper(name), nullable: nullable}
	n, _ := strconv.Atoi(m[2])
	scale, _ := strconv.Atoi(m[3])
	rest := strings.ToUpper(m[4])
	switch strings.ToUpper(strings.Join(strings.Fields(m[1]), " ")) {
	case "INTEGER", "INT":
		col.sqltype, col.length = isc.SQL_TYPE_LONG, 4
	case "SMALLINT":
		col.sqltype, col.length = isc.SQL_TYPE_SHORT, 2
	case "BIGINT":
		col.sqltype, col.length = isc.SQL_TYPE_INT64, 8
	case "NUMERIC", "DECIMAL":
		switch {
		case n <= 4:
			col.sqltype, col.length = isc.SQL_TYPE_SHORT, 2
		case n <= 9:
			col.sqltype, col.length = isc.SQL_TYPE_LONG, 4
		default:
			col.sqltype, col.length = isc.SQL_TYPE_INT64, 8
		}
		col.scale = int16(-scale)
	case "VARCHAR":
		col.sqltype, col.length = isc.SQL_TYPE_VARYING, int16(n)
	case "CHAR":
		col.sqltype, col.length = isc.SQL_TYPE_TEXT, int16(n)
	case "FLOAT":
		col.sqltype, col.length = isc.SQL_TYPE_FLOAT, 4
	case "DOUBLE PRECISION":
		col.sqltype, col.length = isc.SQL_TYPE_DOUBLE, 8
	case "TIMESTAMP":
		col.sqltype, col.length = isc.SQL_TYPE_TIMESTAMP, 8
	case "DATE":
		col.sqltype, col.length = isc.SQL_TYPE_DATE, 4
	case "TIME":
		col.sqltype, col.length = isc.SQL_TYPE_TIME, 4
	case "BOOLEAN":
		col.sqltype, col.length = isc.SQL_TYPE_BOOLEAN, 1
	case "BLOB":
		col.sqltype, col.length = isc.SQL_TYPE_BLOB, 8
		if strings.Contains(rest, "SUB_TYPE 1") || strings.Contains(rest, "SUB_TYPE TEXT") {
			col.subtype = BLOB_SUB_TYPE_TEXT
		}
		return col, true
	case "ARRAY":
		col.sqltype, col.length = isc.SQL_TYPE_ARRAY, 8
	default:
		return fakeColumn{}, false
	}
	if strings.Contains(rest, "CHARACTER SET OCTETS") {
		col.subtype = CHARSET_OCTETS
	}
	return col, true
}

func (f *fakeServer) DSQLPrepare(sv *isc.StatusVector, tr *isc.TrHandle, stmt *isc.StmtHandle, sql string, dialect int, out *isc.SQLDA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "prepare") {
		return
	}
	f.lastSQL = sql
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	if _, ok := f.trans[*tr]; !ok {
		sv.Set(gdsBadTransHandle)
		return
	}
	*s = fakeStmt{db: s.db, where: -1}

	switch {
	case reCreateTable.MatchString(sql), reDropTable.MatchString(sql):
		s.kind = isc_info_sql_stmt_ddl
	case reCommit.MatchString(sql):
		s.kind = isc_info_sql_stmt_commit
	case reRollback.MatchString(sql):
		s.kind = isc_info_sql_stmt_rollback
	case reSetTrans.MatchString(sql):
		s.kind = isc_info_sql_stmt_start_trans
	case reDelete.MatchString(sql):
		m := reDelete.FindStringSubmatch(sql)
		if s.table = s.db.tables[strings.ToUpper(m[1])]; s.table == nil {
			sv.Set(isc.GDS_DSQL_ERROR, isc.GDS_RELATION_ERR)
			return
		}
		s.kind = isc_info_sql_stmt_delete
	case reInsert.MatchString(sql):
		m := reInsert.FindStringSubmatch(sql)
		if s.table = s.db.tables[strings.ToUpper(m[1])]; s.table == nil {
			sv.Set(isc.GDS_DSQL_ERROR, isc.GDS_RELATION_ERR)
			return
		}
		s.kind = isc_info_sql_stmt_insert
		if m[2] == "" {
			for i := range s.table.cols {
				s.inCols = append(s.inCols, i)
			}
		} else {
			for _, name := range splitTop(m[2]) {
				i, ok := s.table.column(name)
				if !ok {
					sv.Set(isc.GDS_DSQL_ERROR)
					return
				}
				s.inCols = append(s.inCols, i)
			}
		}
		values := splitTop(m[3])
		if len(values) != len(s.inCols) {
			sv.Set(isc.GDS_DSQL_ERROR)
			return
		}
		for _, v := range values {
			if v != "?" {
				sv.Set(isc.GDS_DSQL_ERROR)
				return
			}
		}
	case reSelect.MatchString(sql):
		m := reSelect.FindStringSubmatch(sql)
		s.kind = isc_info_sql_stmt_select
		if strings.EqualFold(m[2], "rdb$database") {
			s.outCols = []int{-1}
			s.constName = "CONSTANT"
			break
		}
		if s.table = s.db.tables[strings.ToUpper(m[2])]; s.table == nil {
			sv.Set(isc.GDS_DSQL_ERROR, isc.GDS_RELATION_ERR)
			return
		}
		if strings.TrimSpace(m[1]) == "*" {
			for i := range s.table.cols {
				s.outCols = append(s.outCols, i)
			}
		} else {
			for _, name := range splitTop(m[1]) {
				i, ok := s.table.column(name)
				if !ok {
					sv.Set(isc.GDS_DSQL_ERROR)
					return
				}
				s.outCols = append(s.outCols, i)
			}
		}
		if m[3] != "" {
			i, ok := s.table.column(m[3])
			if !ok {
				sv.Set(isc.GDS_DSQL_ERROR)
				return
			}
			s.where = i
			s.inCols = []int{i}
		}
	default:
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}

	if out != nil {
		f.describe(s, out, s.outCols)
	}
	f.stmts[*stmt] = s
}

func (f *fakeServer) describe(s *fakeStmt, da *isc.SQLDA, cols []int) {
	da.Sqld = int16(len(cols))
	for i, c := range cols {
		if i >= int(da.Sqln) {
			break
		}
		if c < 0 {
			da.Vars[i] = isc.XSQLVar{SQLType: isc.SQL_TYPE_LONG, SQLLen: 4, DataOffset: -1, IndOffset: -1, SQLName: s.constName, AliasName: s.constName}
			continue
		}
		da.Vars[i] = s.table.cols[c].xsqlvar(s.table.name)
	}
}

func (f *fakeServer) DSQLSQLInfo(sv *isc.StatusVector, stmt *isc.StmtHandle, items []byte, buf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "sql_info") {
		return
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	var out []byte
	for _, item := range items {
		if item == isc_info_sql_stmt_type {
			out = append(out, infoItem(item, int32_to_bytes(int32(s.kind)))...)
		}
	}
	copy(buf, append(out, isc_info_end))
}

func (f *fakeServer) DSQLDescribe(sv *isc.StatusVector, stmt *isc.StmtHandle, out *isc.SQLDA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "describe") {
		return
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	f.describe(s, out, s.outCols)
}

func (f *fakeServer) DSQLDescribeBind(sv *isc.StatusVector, stmt *isc.StmtHandle, in *isc.SQLDA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "describe_bind") {
		return
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	f.describe(s, in, s.inCols)
}

// cell reads parameter i of in into the stored form of col: CHAR padded
// to its length, VARYING without the length prefix, anything else as the
// raw slot.
func (f *fakeServer) cell(sv *isc.StatusVector, in *isc.SQLDA, i int, col fakeColumn) ([]byte, bool) {
	x := in.Vars[i]
	if x.DataOffset < 0 || (x.Nullable() && x.IndOffset >= 0 && get_int16(in.Buffer, x.IndOffset) < 0) {
		if !col.nullable {
			sv.Set(isc.GDS_NOT_NULL)
			return nil, false
		}
		return nil, true
	}
	buf := in.Buffer[x.DataOffset:]
	switch x.Type() {
	case isc.SQL_TYPE_TEXT:
		if x.SQLLen > col.length {
			sv.Set(gdsArithExcept)
			return nil, false
		}
		v := bytes.Repeat([]byte{' '}, int(col.length))
		copy(v, buf[:x.SQLLen])
		return v, true
	case isc.SQL_TYPE_VARYING:
		l := get_int16(buf, 0)
		if l > col.length {
			sv.Set(gdsArithExcept)
			return nil, false
		}
		return append([]byte(nil), buf[2:2+l]...), true
	}
	return append([]byte(nil), buf[:col.length]...), true
}

func (f *fakeServer) DSQLExecute2(sv *isc.StatusVector, tr *isc.TrHandle, stmt *isc.StmtHandle, in *isc.SQLDA, out *isc.SQLDA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "execute") {
		return
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	if _, ok := f.trans[*tr]; !ok {
		sv.Set(gdsBadTransHandle)
		return
	}
	if len(s.inCols) > 0 && (in == nil || int(in.Sqld) != len(s.inCols)) {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}

	switch s.kind {
	case isc_info_sql_stmt_ddl:
		f.ddl(sv, s)
	case isc_info_sql_stmt_insert:
		row := make([][]byte, len(s.table.cols))
		filled := make([]bool, len(s.table.cols))
		for i, c := range s.inCols {
			v, ok := f.cell(sv, in, i, s.table.cols[c])
			if !ok {
				return
			}
			row[c], filled[c] = v, true
		}
		for c, col := range s.table.cols {
			if !filled[c] && !col.nullable {
				sv.Set(isc.GDS_NOT_NULL)
				return
			}
		}
		s.table.rows = append(s.table.rows, row)
	case isc_info_sql_stmt_delete:
		s.table.rows = nil
	case isc_info_sql_stmt_select:
		s.rows = nil
		if s.table == nil {
			one := make([]byte, 4)
			native.PutUint32(one, 1)
			s.rows = [][][]byte{{one}}
		} else {
			var key []byte
			if s.where >= 0 {
				var ok bool
				if key, ok = f.cell(sv, in, 0, s.table.cols[s.where]); !ok {
					return
				}
			}
			for _, row := range s.table.rows {
				if s.where >= 0 && (row[s.where] == nil || !bytes.Equal(row[s.where], key)) {
					continue
				}
				s.rows = append(s.rows, row)
			}
		}
		s.open = true
		s.pos = 0
	default:
		sv.Set(isc.GDS_DSQL_ERROR)
	}
}

func (f *fakeServer) ddl(sv *isc.StatusVector, s *fakeStmt) {
	sql := f.lastSQL
	if m := reDropTable.FindStringSubmatch(sql); m != nil {
		name := strings.ToUpper(m[1])
		if _, ok := s.db.tables[name]; !ok {
			sv.Set(isc.GDS_DSQL_ERROR, isc.GDS_RELATION_ERR)
			return
		}
		delete(s.db.tables, name)
		return
	}
	m := reCreateTable.FindStringSubmatch(sql)
	name := strings.ToUpper(m[1])
	if _, ok := s.db.tables[name]; ok {
		sv.Set(gdsDSQLTable)
		return
	}
	t := &fakeTable{name: name}
	for _, def := range splitTop(m[2]) {
		cm := reColumn.FindStringSubmatch(def)
		if cm == nil {
			sv.Set(isc.GDS_DSQL_ERROR)
			return
		}
		col, ok := parseColumnType(cm[1], cm[2], cm[3] == "")
		if !ok {
			sv.Set(isc.GDS_DSQL_ERROR)
			return
		}
		t.cols = append(t.cols, col)
	}
	s.db.tables[name] = t
}

func (f *fakeServer) DSQLExecuteImmediate(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, sql string, dialect int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "execute_immediate") {
		return
	}
	f.lastSQL = sql
	m := reCreateDB.FindStringSubmatch(sql)
	if m == nil {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}
	if _, ok := f.dbs[m[1]]; ok {
		sv.Set(isc.GDS_IO_ERROR)
		return
	}
	d := f.addDatabase(m[1], dialect)
	*db = isc.DBHandle(f.handle())
	f.attached[*db] = d
}

func (f *fakeServer) DSQLFetch(sv *isc.StatusVector, stmt *isc.StmtHandle, out *isc.SQLDA) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "fetch") {
		return -1
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return -1
	}
	if !s.open {
		sv.Set(gdsCursorClosed)
		return -1
	}
	if s.pos >= len(s.rows) {
		return isc.SQLCODE_NOMORE
	}
	row := s.rows[s.pos]
	s.pos++
	for i, c := range s.outCols {
		x := out.Vars[i]
		var v []byte
		if c < 0 {
			v = row[0]
		} else {
			v = row[c]
		}
		if x.IndOffset >= 0 {
			if v == nil {
				put_int16(out.Buffer, x.IndOffset, -1)
				continue
			}
			put_int16(out.Buffer, x.IndOffset, 0)
		}
		if x.Type() == isc.SQL_TYPE_VARYING {
			put_int16(out.Buffer, x.DataOffset, int16(len(v)))
			copy(out.Buffer[x.DataOffset+2:], v)
		} else {
			copy(out.Buffer[x.DataOffset:], v)
		}
	}
	return 0
}

func (f *fakeServer) DSQLFreeStatement(sv *isc.StatusVector, stmt *isc.StmtHandle, option int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := "close"
	if option == isc.DSQL_drop {
		name = "drop"
	}
	if !f.enter(sv, name) {
		return
	}
	s, ok := f.stmts[*stmt]
	if !ok {
		sv.Set(gdsBadStmtHandle)
		return
	}
	if option == isc.DSQL_close {
		if !s.open {
			sv.Set(gdsCursorClosed)
			return
		}
		s.open = false
		return
	}
	delete(f.stmts, *stmt)
	*stmt = 0
}

func (f *fakeServer) CreateBlob2(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "create_blob") {
		return
	}
	if _, ok := f.trans[*tr]; !ok {
		sv.Set(gdsBadTransHandle)
		return
	}
	h := f.handle()
	native.PutUint64(id[:], uint64(h))
	*blob = isc.BlobHandle(h)
	f.open[*blob] = &fakeBlob{id: *id, writing: true}
}

func (f *fakeServer) OpenBlob2(sv *isc.StatusVector, db *isc.DBHandle, tr *isc.TrHandle, blob *isc.BlobHandle, id *isc.BlobID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "open_blob") {
		return
	}
	segments, ok := f.blobs[*id]
	if !ok {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}
	*blob = isc.BlobHandle(f.handle())
	f.open[*blob] = &fakeBlob{id: *id, segments: segments}
}

func (f *fakeServer) PutSegment(sv *isc.StatusVector, blob *isc.BlobHandle, seg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "put_segment") {
		return
	}
	b, ok := f.open[*blob]
	if !ok || !b.writing {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}
	b.segments = append(b.segments, append([]byte(nil), seg...))
}

func (f *fakeServer) GetSegment(sv *isc.StatusVector, blob *isc.BlobHandle, buf []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "get_segment") {
		return 0
	}
	b, ok := f.open[*blob]
	if !ok || b.writing {
		sv.Set(isc.GDS_DSQL_ERROR)
		return 0
	}
	if b.seg >= len(b.segments) {
		sv.Set(isc.GDS_SEGSTR_EOF)
		return 0
	}
	seg := b.segments[b.seg][b.off:]
	n := copy(buf, seg)
	if n < len(seg) {
		b.off += n
		sv.Set(isc.GDS_SEGMENT)
		return n
	}
	b.seg++
	b.off = 0
	return n
}

func (f *fakeServer) CloseBlob(sv *isc.StatusVector, blob *isc.BlobHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "close_blob") {
		return
	}
	b, ok := f.open[*blob]
	if !ok {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}
	if b.writing {
		segments := b.segments
		if f.resegment > 0 {
			data := bytes.Join(segments, nil)
			segments = nil
			for len(data) > 0 {
				n := f.resegment
				if n > len(data) {
					n = len(data)
				}
				segments = append(segments, data[:n])
				data = data[n:]
			}
		}
		f.blobs[b.id] = segments
	}
	delete(f.open, *blob)
	*blob = 0
}

func (f *fakeServer) BlobInfo(sv *isc.StatusVector, blob *isc.BlobHandle, items []byte, buf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(sv, "blob_info") {
		return
	}
	b, ok := f.open[*blob]
	if !ok {
		sv.Set(isc.GDS_DSQL_ERROR)
		return
	}
	maxSeg, total := 0, 0
	for _, seg := range b.segments {
		if len(seg) > maxSeg {
			maxSeg = len(seg)
		}
		total += len(seg)
	}
	var out []byte
	for _, item := range items {
		switch item {
		case isc_info_blob_max_segment:
			out = append(out, infoItem(item, int32_to_bytes(int32(maxSeg)))...)
		case isc_info_blob_num_segments:
			out = append(out, infoItem(item, int32_to_bytes(int32(len(b.segments))))...)
		case isc_info_blob_total_length:
			out = append(out, infoItem(item, int32_to_bytes(int32(total)))...)
		}
	}
	copy(buf, append(out, isc_info_end))
}

func (f *fakeServer) SQLCode(sv *isc.StatusVector) int {
	code := sv.GDSCode()
	if code == 0 {
		return 0
	}
	if sqlcode, ok := fakeSQLCodes[code]; ok {
		return sqlcode
	}
	return -901
}

func (f *fakeServer) SQLInterprete(sqlcode int) string {
	return fmt.Sprintf("sqlcode %d", sqlcode)
}

func (f *fakeServer) Interprete(sv *isc.StatusVector) []string {
	var lines []string
	for _, code := range sv.GDSCodes() {
		lines = append(lines, fmt.Sprintf("gds %d", code))
	}
	return lines
}
