package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonbValue marshals a Go value into a JSONB column value.
func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// jsonbScan unmarshals a JSONB column value into dst.
// NULL columns leave dst at its zero value.
func jsonbScan(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}

	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, dst)
}

// Value implements driver.Valuer
func (l NamedMaterialList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *NamedMaterialList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (l KitComponentList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *KitComponentList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (l BOMComponentList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *BOMComponentList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (l JobMaterialList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *JobMaterialList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (l RequestItemList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *RequestItemList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) { return jsonbValue(l) }

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Value implements driver.Valuer
func (m QuantityMap) Value() (driver.Value, error) { return jsonbValue(m) }

// Scan implements sql.Scanner
func (m *QuantityMap) Scan(src interface{}) error { return jsonbScan(src, m) }
