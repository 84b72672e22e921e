package fb

import (
	"testing"

	"github.com/fbgo/fb/isc"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFbErrorCodes(t *testing.T) {
	env, f := newTestEnv(t)
	conn := openTestConnection(t, env, f)

	setupQueries := []string{
		`CREATE TABLE parent (
			id INTEGER NOT NULL,
			name VARCHAR(5)
		)`,
	}
	for _, q := range setupQueries {
		_, _, err := conn.Execute(q)
		require.NoError(t, err, q)
	}

	tests := []struct {
		name        string
		query       string
		args        []interface{}
		wantSQLCode int
		wantGdsCode int
	}{
		{
			name:        "Not Null Violation",
			query:       "INSERT INTO parent (name) VALUES (?)",
			args:        []interface{}{"x"},
			wantSQLCode: -625,
			wantGdsCode: isc.GDS_NOT_NULL,
		},
		{
			name:        "Unknown Table",
			query:       "SELECT id FROM missing",
			wantSQLCode: -104,
			wantGdsCode: isc.GDS_RELATION_ERR,
		},
		{
			name:        "String Truncation",
			query:       "INSERT INTO parent (id, name) VALUES (?, ?)",
			args:        []interface{}{1, "too long"},
			wantSQLCode: -802,
			wantGdsCode: gdsArithExcept,
		},
		{
			name:        "Duplicate Table",
			query:       "CREATE TABLE parent (id INTEGER)",
			wantSQLCode: -607,
			wantGdsCode: gdsDSQLTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := conn.Execute(tt.query, tt.args...)
			require.Error(t, err)

			var fbErr *FbError
			require.True(t, errors.As(err, &fbErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantSQLCode, fbErr.ErrorCode())
			assert.True(t, fbErr.HasGDSCode(tt.wantGdsCode), "%d not in %v", tt.wantGdsCode, fbErr.GDSCodes)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	f := newFakeServer()
	var sv isc.StatusVector
	assert.NoError(t, errorCheck(f, &sv))

	sv.Set(isc.GDS_DSQL_ERROR, isc.GDS_RELATION_ERR)
	err := errorCheck(f, &sv)
	require.Error(t, err)
	assert.Equal(t, "sqlcode -104\ngds 335544569\ngds 335544580\n", err.Error())
	assert.False(t, err.(*FbError).HasGDSCode(isc.GDS_NOT_NULL))
}

func TestWrappedSentinels(t *testing.T) {
	err := errParameterCount(2, 3)
	assert.True(t, errors.Is(err, ErrParameterCount))
	assert.Contains(t, err.Error(), "statement requires 2 items; 3 given")

	err = errUnsupportedType(isc.SQL_TYPE_ARRAY)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	err = errArgumentType(struct{}{}, &isc.XSQLVar{SQLName: "ID"})
	assert.True(t, errors.Is(err, ErrArgumentType))
	assert.Contains(t, err.Error(), "ID")
}
