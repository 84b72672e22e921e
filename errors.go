package fb

import (
	"strings"

	"github.com/fbgo/fb/isc"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// FbError is returned when the client library reports a non-zero SQLCODE.
type FbError struct {
	SQLCode  int
	GDSCodes []int
	Message  string
}

func (e *FbError) Error() string  { return e.Message }
func (e *FbError) ErrorCode() int { return e.SQLCode }

func (e *FbError) HasGDSCode(code int) bool {
	return slices.Contains(e.GDSCodes, code)
}

var (
	ErrClosedConnection      = errors.New("closed db connection")
	ErrDroppedCursor         = errors.New("dropped db cursor")
	ErrClosedCursor          = errors.New("closed db cursor")
	ErrCursorNotOpen         = errors.New("The cursor has not been open. Use execute(query)")
	ErrParameterCount        = errors.New("parameter count mismatch")
	ErrParametersRequired    = errors.New("Input parameters must be specified")
	ErrArgumentType          = errors.New("wrong argument type")
	ErrNotNullable           = errors.New("specified column is not permitted to be null")
	ErrShortOverflow         = errors.New("short integer overflow")
	ErrLongOverflow          = errors.New("long integer overflow")
	ErrFloatOverflow         = errors.New("float overflow")
	ErrArrayUnsupported      = errors.New("ARRAY not supported (yet)")
	ErrUnsupportedType       = errors.New("unsupported datatype")
	ErrTransactionStarted    = errors.New("The transaction has been already started")
	ErrTooManyDatabases      = errors.New("Too many databases specified for the transaction")
	ErrUseTransactionMethods = errors.New("use Connection.Transaction()/Commit()/Rollback()")
	ErrDatabaseRequired      = errors.New("Database must be specified.")
)

// TPB parse errors
var (
	ErrIllegalTransactionOption   = errors.New("Illegal transaction option was specified")
	ErrDuplicateTransactionOption = errors.New("Duplicate transaction option was specified")
	ErrReservingTableList         = errors.New("RESERVING needs table name list")
	ErrReservingMode              = errors.New("RESERVING needs {SHARED|PROTECTED} {READ|WRITE}")
	ErrUnexpectedEnd              = errors.New("Unexpected end of command")
	ErrIllegalTableName           = errors.New("Illegal table name was specified")
)

func errParameterCount(want, given int) error {
	return errors.Wrapf(ErrParameterCount, "statement requires %d items; %d given", want, given)
}

func errUnsupportedType(sqltype int) error {
	return errors.Wrapf(ErrUnsupportedType, "Specified table includes unsupported datatype (%d)", sqltype)
}

func errArgumentType(v interface{}, x *isc.XSQLVar) error {
	return errors.Wrapf(ErrArgumentType, "%T can not be bound to %s", v, x.SQLName)
}

func newFbError(drv isc.Driver, sqlcode int, sv *isc.StatusVector) *FbError {
	codes := sv.GDSCodes()
	var b strings.Builder
	b.WriteString(drv.SQLInterprete(sqlcode))
	b.WriteString("\n")
	for _, line := range drv.Interprete(sv) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return &FbError{SQLCode: sqlcode, GDSCodes: codes, Message: b.String()}
}

// errorCheck turns a status vector holding an error into *FbError.
func errorCheck(drv isc.Driver, sv *isc.StatusVector) error {
	if code := drv.SQLCode(sv); code != 0 {
		return newFbError(drv, code, sv)
	}
	return nil
}
