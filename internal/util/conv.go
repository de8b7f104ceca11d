package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseNullableFloat 解析可能缺失的数值字段。
// 原始数据里 "--"、"-"、空串都表示缺失，NaN 同样按缺失处理。
func ParseNullableFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Float64Ptr 返回值的指针，用于可空数值列。
func Float64Ptr(v float64) *float64 {
	return &v
}

// ParseFloatOrZero 解析数值字段，失败时返回 0。
func ParseFloatOrZero(s string) float64 {
	v := ParseNullableFloat(s)
	if v == nil {
		return 0
	}
	return *v
}

// ParseIntOrZero 解析整数字段，失败时返回 0。
func ParseIntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseEpoch 解析秒级时间戳，容忍小数形式。
func ParseEpoch(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
