package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList is a slice kept in a single jsonb column.
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]T(l))
}

func (l *JSONList[T]) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*l = nil

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("cannot scan %T into a json list", src)
	}

	return json.Unmarshal(raw, (*[]T)(l))
}
