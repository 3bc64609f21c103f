package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a vote counter. Whatever the wire or storage representation
// (number, numeric text, NULL) it always holds an integer >= 0.
type Count int

func NewCount(v int) Count {
	if v < 0 {
		return 0
	}
	return Count(v)
}

func (c Count) Int() int {
	return int(c)
}

// CoerceCount converts a loosely typed counter value into a Count.
func CoerceCount(v any) (Count, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case Count:
		return NewCount(int(n)), nil
	case int:
		return NewCount(n), nil
	case int32:
		return NewCount(int(n)), nil
	case int64:
		return NewCount(int(n)), nil
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case []byte:
		return parseCount(string(n))
	case string:
		return parseCount(n)
	default:
		return 0, fmt.Errorf("unsupported counter type %T", v)
	}
}

func parseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return NewCount(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q", s)
	}
	return fromFloat(f)
}

func fromFloat(f float64) (Count, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid counter %v", f)
	}
	return NewCount(int(math.Floor(f))), nil
}

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	var v any
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v = s
	} else {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("invalid counter %s", b)
		}
		v = f
	}
	n, err := CoerceCount(v)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// Scan implements sql.Scanner.
func (c *Count) Scan(src any) error {
	n, err := CoerceCount(src)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// Value implements driver.Valuer.
func (c Count) Value() (driver.Value, error) {
	return int64(NewCount(int(c))), nil
}
