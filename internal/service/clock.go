package service

import "time"

// Clock 可注入的时间源，测试中用固定时间替换
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// formatTime 统一输出 RFC3339（UTC）
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
