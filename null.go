package fb

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Null scans a nullable column decoded by this driver.
type Null[T any] struct {
	value     T
	isDefined bool
}

func NewNull[T any](v T) Null[T] {
	return Null[T]{value: v, isDefined: true}
}

func (n Null[T]) Get() (T, bool) {
	return n.value, n.isDefined
}

func (n Null[T]) Valid() bool {
	return n.isDefined
}

func (n *Null[T]) Scan(from interface{}) error {
	if from == nil {
		var zero T
		n.value = zero
		n.isDefined = false
		return nil
	}

	var value T
	switch destination := any(&value).(type) {
	case *int64:
		switch s := from.(type) {
		case int64:
			*destination = s
		case int32:
			*destination = int64(s)
		default:
			return fmt.Errorf("unsupported type %T for int64", from)
		}
	case *string:
		switch s := from.(type) {
		case []byte:
			*destination = string(s)
		case string:
			*destination = s
		default:
			return fmt.Errorf("unsupported type %T for string", from)
		}
	case *[]byte:
		switch s := from.(type) {
		case []byte:
			*destination = append([]byte(nil), s...)
		case string:
			*destination = []byte(s)
		default:
			return fmt.Errorf("unsupported type %T for []byte", from)
		}
	case *float64:
		switch s := from.(type) {
		case float64:
			*destination = s
		case float32:
			*destination = float64(s)
		case int64:
			*destination = float64(s)
		default:
			return fmt.Errorf("unsupported type %T for float64", from)
		}
	case *decimal.Decimal:
		switch s := from.(type) {
		case decimal.Decimal:
			*destination = s
		case float64:
			*destination = decimal.NewFromFloat(s)
		case int64:
			*destination = decimal.NewFromInt(s)
		case string:
			d, err := decimal.NewFromString(s)
			if err != nil {
				return err
			}
			*destination = d
		default:
			return fmt.Errorf("unsupported type %T for decimal.Decimal", from)
		}
	case *bool:
		switch s := from.(type) {
		case bool:
			*destination = s
		default:
			return fmt.Errorf("unsupported type %T for bool", from)
		}
	case *time.Time:
		switch s := from.(type) {
		case time.Time:
			*destination = s
		default:
			return fmt.Errorf("unsupported type %T for time.Time", from)
		}
	default:
		return fmt.Errorf("unsupported generic type %T", from)
	}

	n.value = value
	n.isDefined = true

	return nil
}

func (n Null[T]) Value() (driver.Value, error) {
	if !n.isDefined {
		return nil, nil
	}

	switch v := any(n.value).(type) {
	case int64, string, []byte, float64, bool, time.Time:
		return v, nil
	case decimal.Decimal:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported type %T", n.value)
}
