/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package directory

import (
	"bytes"
	"encoding/json"
)

// Row is a projected employee record. It is encoded as a JSON object with keys in column order.
type Row struct {
	keys   []string
	values []interface{}
}

// Project builds a Row from the employee that contains only the given columns, in the given order.
// Unknown columns are skipped.
func Project(e *Employee, columns []string) Row {
	row := Row{keys: make([]string, 0, len(columns)), values: make([]interface{}, 0, len(columns))}
	for _, col := range columns {
		getValue, ok := columnValues[col]
		if !ok {
			continue
		}
		row.keys = append(row.keys, col)
		row.values = append(row.values, getValue(e))
	}
	return row
}

// Keys returns column names of the row.
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the value of the column.
func (r Row) Get(column string) (interface{}, bool) {
	for i, k := range r.keys {
		if k == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyData, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyData)
		buf.WriteByte(':')
		valData, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(valData)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
