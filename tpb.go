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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// TPB byte positions that options overwrite instead of appending.
const (
	tpbSlotReadWrite = 1
	tpbSlotIsolation = 2
	tpbSlotLock      = 3

	tpbReserving = -1
	tpbWildcard  = "*"
	tpbTableEnd  = "FOR"
	tpbListDelim = ", \t\n\r\f"
)

type tpbOption struct {
	option1  string
	option2  string
	value    int
	position int
	sub      []tpbOption
}

var rcomOpts = []tpbOption{
	{"NO", "RECORD_VERSION", isc_tpb_no_rec_version, 0, nil},
	{"RECORD_VERSION", "", isc_tpb_rec_version, 0, nil},
	{tpbWildcard, "", isc_tpb_no_rec_version, 0, nil},
}

var readOpts = []tpbOption{
	{"WRITE", "", isc_tpb_write, tpbSlotReadWrite, nil},
	{"ONLY", "", isc_tpb_read, tpbSlotReadWrite, nil},
	{"COMMITTED", "", isc_tpb_read_committed, tpbSlotIsolation, rcomOpts},
	{tpbWildcard, "", isc_tpb_read, tpbSlotReadWrite, nil},
}

var snapOpts = []tpbOption{
	{"TABLE", "STABILITY", isc_tpb_consistency, tpbSlotIsolation, nil},
	{tpbWildcard, "", isc_tpb_concurrency, tpbSlotIsolation, nil},
}

var isolOpts = []tpbOption{
	{"SNAPSHOT", "", 0, 0, snapOpts},
	{"READ", "COMMITTED", isc_tpb_read_committed, tpbSlotIsolation, rcomOpts},
}

var transOpts = []tpbOption{
	{"READ", "", 0, 0, readOpts},
	{"WAIT", "", isc_tpb_wait, tpbSlotLock, nil},
	{"NO", "WAIT", isc_tpb_nowait, tpbSlotLock, nil},
	{"ISOLATION", "LEVEL", 0, 0, isolOpts},
	{"SNAPSHOT", "", 0, 0, snapOpts},
	{"RESERVING", "", tpbReserving, 0, nil},
}

func defaultTPB() []byte {
	return []byte{isc_tpb_version1, isc_tpb_write, isc_tpb_concurrency, isc_tpb_nowait}
}

type tpbParser struct {
	tokens []string
	pos    int
	seen   [4]bool // seen[0] is RESERVING
	tpb    *XPBWriter
}

// ParseTPB compiles a transaction option string such as
// "READ COMMITTED NO WAIT RESERVING T1 FOR SHARED READ" into a TPB.
// Keywords are case insensitive, table names are kept as written.
func ParseTPB(options string) ([]byte, error) {
	p := &tpbParser{
		tokens: strings.Fields(options),
		tpb:    NewXPBWriterFromBytes(defaultTPB()),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.tpb.Bytes(), nil
}

func (p *tpbParser) peek(i int) string {
	if p.pos+i < len(p.tokens) {
		return p.tokens[p.pos+i]
	}
	return ""
}

func (p *tpbParser) next() string {
	tok := p.peek(0)
	if tok != "" {
		p.pos++
	}
	return tok
}

func (p *tpbParser) more() bool {
	return p.pos < len(p.tokens)
}

// match returns the first entry of table matching the next tokens and the
// number of tokens it consumes. A wildcard consumes nothing.
func (p *tpbParser) match(table []tpbOption) (*tpbOption, int) {
	tok1, tok2 := p.peek(0), p.peek(1)
	for i := range table {
		opt := &table[i]
		if opt.option1 == tpbWildcard {
			return opt, 0
		}
		if tok1 == "" || !strings.EqualFold(tok1, opt.option1) {
			continue
		}
		if opt.option2 == "" {
			return opt, 1
		}
		if tok2 != "" && strings.EqualFold(tok2, opt.option2) {
			return opt, 2
		}
	}
	return nil, 0
}

func (p *tpbParser) parse() error {
	table := transOpts
	if !p.more() {
		table = nil
	}
	for table != nil {
		opt, n := p.match(table)
		if opt == nil {
			return ErrIllegalTransactionOption
		}
		p.pos += n

		switch {
		case opt.value > 0 && opt.position > 0:
			if p.seen[opt.position] {
				return ErrDuplicateTransactionOption
			}
			p.tpb.SetByte(opt.position, byte(opt.value))
			p.seen[opt.position] = true
		case opt.value > 0:
			p.tpb.PutTag(byte(opt.value))
		case opt.value == tpbReserving:
			if p.seen[0] {
				return ErrDuplicateTransactionOption
			}
			if err := p.reserving(); err != nil {
				return err
			}
			p.seen[0] = true
		}

		table = opt.sub
		if table == nil && p.more() {
			table = transOpts
		}
	}
	return nil
}

func isListDelim(r rune) bool {
	return strings.ContainsRune(tpbListDelim, r)
}

// reserving parses the clauses following RESERVING:
//
//	<table>[, <table>...] FOR {SHARED|PROTECTED} {READ|WRITE} [, <clause>...]
func (p *tpbParser) reserving() error {
	if !p.more() || strings.EqualFold(p.peek(0), tpbTableEnd) {
		return ErrReservingTableList
	}
	pending := p.next()

	for {
		list := []string{pending}
		for {
			if !p.more() {
				return ErrIllegalTransactionOption
			}
			tok := p.next()
			if strings.EqualFold(tok, tpbTableEnd) {
				break
			}
			list = append(list, tok)
		}
		names := strings.FieldsFunc(strings.Join(list, " "), isListDelim)
		for _, name := range names {
			if len(name) > MAX_TABLE_NAME_LEN {
				return ErrIllegalTableName
			}
		}

		var sp byte
		switch strings.ToUpper(p.next()) {
		case "SHARED":
			sp = isc_tpb_shared
		case "PROTECTED":
			sp = isc_tpb_protected
		default:
			return ErrReservingMode
		}

		tok := p.next()
		cont := 0
		rest := ""
		if strings.HasSuffix(tok, ",") {
			cont = 1
			tok = strings.TrimSuffix(tok, ",")
		} else if i := strings.IndexFunc(tok, isListDelim); i >= 0 {
			cont = 2
			tok, rest = tok[:i], tok[i+1:]
		}

		var rw byte
		switch strings.ToUpper(tok) {
		case "READ":
			rw = isc_tpb_lock_read
		case "WRITE":
			rw = isc_tpb_lock_write
		default:
			return ErrReservingMode
		}

		for _, name := range names {
			p.tpb.PutShortString(rw, name).PutTag(sp)
		}

		switch cont {
		case 1:
			if !p.more() {
				return ErrUnexpectedEnd
			}
			pending = p.next()
		case 2:
			pending = rest
		default:
			tok := p.peek(0)
			switch {
			case tok == "":
				return nil
			case tok == ",":
				p.pos++
				if !p.more() {
					return ErrUnexpectedEnd
				}
				pending = p.next()
			case strings.HasPrefix(tok, ","):
				p.pos++
				pending = tok[1:]
			default:
				// back to the top level option table
				return nil
			}
		}
	}
}

var errIrreversibleTPB = errors.New("TPB can not be expressed as an option string")

// FormatTPB renders a TPB produced by ParseTPB back into a canonical
// option string. ParseTPB(FormatTPB(tpb)) yields tpb again.
func FormatTPB(tpb []byte) (string, error) {
	if len(tpb) < 4 || tpb[0] != isc_tpb_version1 {
		return "", errIrreversibleTPB
	}
	var words []string

	switch tpb[tpbSlotReadWrite] {
	case isc_tpb_write:
		words = append(words, "READ WRITE")
	case isc_tpb_read:
		words = append(words, "READ ONLY")
	default:
		return "", errIrreversibleTPB
	}

	rest := tpb[4:]
	switch tpb[tpbSlotIsolation] {
	case isc_tpb_concurrency:
		words = append(words, "ISOLATION LEVEL SNAPSHOT")
	case isc_tpb_consistency:
		words = append(words, "ISOLATION LEVEL SNAPSHOT TABLE STABILITY")
	case isc_tpb_read_committed:
		if len(rest) == 0 {
			return "", errIrreversibleTPB
		}
		switch rest[0] {
		case isc_tpb_rec_version:
			words = append(words, "ISOLATION LEVEL READ COMMITTED RECORD_VERSION")
		case isc_tpb_no_rec_version:
			words = append(words, "ISOLATION LEVEL READ COMMITTED NO RECORD_VERSION")
		default:
			return "", errIrreversibleTPB
		}
		rest = rest[1:]
	default:
		return "", errIrreversibleTPB
	}

	switch tpb[tpbSlotLock] {
	case isc_tpb_wait:
		words = append(words, "WAIT")
	case isc_tpb_nowait:
		words = append(words, "NO WAIT")
	default:
		return "", errIrreversibleTPB
	}

	var clauses []string
	for len(rest) > 0 {
		if len(rest) < 3 {
			return "", errIrreversibleTPB
		}
		n := int(rest[1])
		if n == 0 || n > MAX_TABLE_NAME_LEN || len(rest) < n+3 {
			return "", errIrreversibleTPB
		}
		name := string(rest[2 : 2+n])
		if strings.ContainsAny(name, tpbListDelim) {
			return "", errIrreversibleTPB
		}

		var rw, sp string
		switch rest[0] {
		case isc_tpb_lock_read:
			rw = "READ"
		case isc_tpb_lock_write:
			rw = "WRITE"
		default:
			return "", errIrreversibleTPB
		}
		switch rest[2+n] {
		case isc_tpb_shared:
			sp = "SHARED"
		case isc_tpb_protected:
			sp = "PROTECTED"
		default:
			return "", errIrreversibleTPB
		}
		clauses = append(clauses, fmt.Sprintf("%s FOR %s %s", name, sp, rw))
		rest = rest[3+n:]
	}
	if len(clauses) > 0 {
		words = append(words, "RESERVING "+strings.Join(clauses, ", "))
	}
	return strings.Join(words, " "), nil
}
