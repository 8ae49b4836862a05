package validator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// 原始值的类型收窄
// 输入可能来自 CLI（全部为字符串）或 JSON（json.Number / float64），
// 这里统一为字符串、int64、float64、time.Time 四种规范类型

func asString(raw any) (string, Reason, bool) {
	switch v := raw.(type) {
	case nil:
		return "", reasonEmpty, false
	case string:
		return v, Reason{}, true
	case *string:
		if v == nil {
			return "", reasonEmpty, false
		}
		return *v, Reason{}, true
	default:
		return "", wrongType(raw), false
	}
}

func asInt(raw any) (int64, Reason, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, reasonEmpty, false
	case int:
		return int64(v), Reason{}, true
	case int8:
		return int64(v), Reason{}, true
	case int16:
		return int64(v), Reason{}, true
	case int32:
		return int64(v), Reason{}, true
	case int64:
		return v, Reason{}, true
	case uint8:
		return int64(v), Reason{}, true
	case uint16:
		return int64(v), Reason{}, true
	case uint32:
		return int64(v), Reason{}, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, NewReason(CodeOutOfRange, "", "exceeds the integer range"), false
		}
		return int64(v), Reason{}, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, NewReason(CodeOutOfRange, "", "exceeds the integer range"), false
		}
		return int64(v), Reason{}, true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	default:
		return 0, wrongType(raw), false
	}
}

func floatToInt(f float64) (int64, Reason, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, NewReason(CodeWrongType, "", "must be a whole number"), false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, NewReason(CodeOutOfRange, "", "exceeds the integer range"), false
	}
	return int64(f), Reason{}, true
}

func parseInt(s string) (int64, Reason, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, reasonEmpty, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewReason(CodePatternMismatch, "", "must be a whole number"), false
	}
	return n, Reason{}, true
}

func asFloat(raw any) (float64, Reason, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, reasonEmpty, false
	case float64:
		return v, Reason{}, true
	case float32:
		return float64(v), Reason{}, true
	case int:
		return float64(v), Reason{}, true
	case int32:
		return float64(v), Reason{}, true
	case int64:
		return float64(v), Reason{}, true
	case json.Number:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return 0, wrongType(raw), false
	}
}

func parseFloat(s string) (float64, Reason, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, reasonEmpty, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, NewReason(CodePatternMismatch, "", "must be a number"), false
	}
	return f, Reason{}, true
}

// asTime 字符串按常见日期格式宽松解析（cast.ToTimeE）
func asTime(raw any) (time.Time, Reason, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, reasonEmpty, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, reasonEmpty, false
		}
		return v, Reason{}, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, reasonEmpty, false
		}
		return *v, Reason{}, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, reasonEmpty, false
		}
		t, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, NewReason(CodePatternMismatch, "", "must be a date such as 2006-01-02"), false
		}
		return t, Reason{}, true
	default:
		return time.Time{}, wrongType(raw), false
	}
}
