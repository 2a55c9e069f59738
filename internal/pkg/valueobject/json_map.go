package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrScanValueNotBytes is returned when the driver hands over an unsupported type.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a free-form JSON object stored in a JSONB column.
// @swaggertype object
type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = JSONMap(v)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrScanValueNotBytes
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}

	*j = out
	return nil
}

// Set stores value under key.
func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

// GetString returns "" when the key is missing or not a string.
func (j JSONMap) GetString(key string) string {
	v, _ := j[key].(string)
	return v
}

// GetInt64 accepts int64, float64 (decoded JSON) and numeric strings.
func (j JSONMap) GetInt64(key string) int64 {
	switch v := j[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
