package fb

import (
	"context"
	"database/sql/driver"
)

// This file implements the optional pinger interface for the database/sql package
func (fc *fbConn) Ping(ctx context.Context) error {
	if fc == nil || fc.conn.Closed() {
		return driver.ErrBadConn
	}
	rows, err := fc.QueryContext(ctx, "select 1 from rdb$database", nil)
	if err != nil {
		return driver.ErrBadConn
	}
	return rows.Close()
}
