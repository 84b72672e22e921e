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

// fbsql runs SQL statements against a Firebird database inside one
// transaction and prints the rows of each query.
//
//	fbsql -config fbsql.yaml "SELECT * FROM rdb$database"
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fbgo/fb"
	"github.com/fbgo/fb/fbclient"
	"github.com/shopspring/decimal"
)

func main() {
	configPath := flag.String("config", "fbsql.yaml", "YAML configuration file")
	tpb := flag.String("tpb", "", "transaction options, overrides the config file")
	library := flag.String("library", "", "path of the fbclient library")
	flag.Parse()

	if err := run(*configPath, *tpb, *library, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fbsql:", err)
		os.Exit(1)
	}
}

func run(configPath, tpb, library string, statements []string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if tpb != "" {
		cfg.Transaction = tpb
	}

	drv, err := fbclient.Load(library)
	if err != nil {
		return err
	}
	logger := fb.NewLogger(&cfg.Log)
	env := fb.NewEnvironment(drv, fb.WithLogger(logger))

	db, err := env.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	return db.ConnectFunc(func(conn *fb.Connection) error {
		return conn.TransactionFunc(cfg.Transaction, func() error {
			for _, stmt := range statements {
				logger.Debug().Str("statement", stmt).Msg("execute")
				_, err := conn.ExecuteFunc(func(cur *fb.Cursor) error {
					_, err := printRows(out, cur.Description(), cur.Fetch)
					return err
				}, stmt)
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// printRows writes a header and every row from next until it returns nil.
func printRows(w io.Writer, cols []fb.Column, next func() ([]interface{}, error)) (int, error) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Alias
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))

	n := 0
	for {
		row, err := next()
		if err != nil {
			return n, err
		}
		if row == nil {
			break
		}
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
		n++
	}
	return n, tw.Flush()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("%x", x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05.0000")
	case decimal.Decimal:
		return x.String()
	}
	return fmt.Sprint(v)
}
