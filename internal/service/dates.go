package service

import (
	"strings"
	"time"
)

// DateLayout 为接口中日期字段的统一格式。
const DateLayout = "2006-01-02"

// WeekLength 为一份周餐单覆盖的天数（含首尾）。
const WeekLength = 7

// ParseDate 解析 YYYY-MM-DD 格式的日期，结果为 UTC 零点。
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalidInput("date %q must use YYYY-MM-DD", raw)
	}
	return parsed, nil
}

// FormatDate 将日期格式化为 YYYY-MM-DD。
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekEnd 返回以 start 开始的一周最后一天。
func weekEnd(start time.Time) time.Time {
	return normalizeToDate(start).AddDate(0, 0, WeekLength-1)
}
