package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts a scanned column value to int. sqlite returns int64, MySQL
// aggregates may come back as []byte or decimal strings. Unparseable values are 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case uint8:
		return int(v)
	case float64:
		return int(v)
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	default:
		return parseInt(fmt.Sprint(v))
	}
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// DECIMAL results such as "3.0000"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ToString converts a scanned column value to string. NULL becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// ToStringPtr converts val to a string pointer, mapping nil (SQL NULL) to nil.
func ToStringPtr(val any) *string {
	if val == nil {
		return nil
	}
	s := ToString(val)
	return &s
}

// ToIntPtr converts val to an int pointer, mapping nil (SQL NULL) to nil.
func ToIntPtr(val any) *int {
	if val == nil {
		return nil
	}
	i := ToInt(val)
	return &i
}
