// Package timex provides a time.Time wrapper serialized as RFC3339 text
// The same representation is used for JSON payloads and database columns
// Package timex 提供以 RFC3339 文本序列化的 time.Time 包装类型
// JSON 负载与数据库列使用同一种表示
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const layout = time.RFC3339

type Time time.Time

// Now returns the current time truncated to second precision
// RFC3339 text carries no sub-second digits, so round-trips stay lossless
// Now 返回截断到秒的当前时间
// RFC3339 文本不携带亚秒位，这样可保证序列化往返无损
func Now() Time {
	return Time(time.Now().UTC().Truncate(time.Second))
}

// Time returns the underlying time.Time
// Time 返回底层的 time.Time
func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) String() string {
	return time.Time(t).Format(layout)
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// MarshalJSON outputs the time as an RFC3339 JSON string
// MarshalJSON 将时间输出为 RFC3339 JSON 字符串
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(layout) + `"`), nil
}

// UnmarshalJSON parses an RFC3339 JSON string
// UnmarshalJSON 解析 RFC3339 JSON 字符串
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time(time.Time{})
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timex: invalid time %q", s)
	}
	parsed, err := time.Parse(layout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value stores the time as an RFC3339 TEXT column
// Value 将时间存储为 RFC3339 TEXT 列
func (t Time) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return time.Time(t).Format(layout), nil
}

// Scan reads RFC3339 text or a native time value from the database
// Scan 从数据库读取 RFC3339 文本或原生时间值
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
		return nil
	case time.Time:
		*t = Time(value)
		return nil
	case string:
		parsed, err := time.Parse(layout, value)
		if err != nil {
			return err
		}
		*t = Time(parsed)
		return nil
	case []byte:
		parsed, err := time.Parse(layout, string(value))
		if err != nil {
			return err
		}
		*t = Time(parsed)
		return nil
	default:
		return fmt.Errorf("timex: cannot scan %T into Time", v)
	}
}
