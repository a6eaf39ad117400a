package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellMissing CellKind = iota // 空值/缺失
	CellText
	CellNumber
	CellDate
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	case CellBool:
		return "bool"
	default:
		return "missing"
	}
}

// Cell 单元格值（文本/数值/日期/布尔/缺失）
type Cell struct {
	kind CellKind
	text string
	num  float64
	date time.Time
	b    bool
}

// Missing 缺失值
func Missing() Cell { return Cell{} }

// Text 文本值
func Text(s string) Cell { return Cell{kind: CellText, text: s} }

// Number 数值；NaN 视为缺失
func Number(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{}
	}
	return Cell{kind: CellNumber, num: v}
}

// Date 日期值
func Date(t time.Time) Cell { return Cell{kind: CellDate, date: t} }

// Bool 布尔值
func Bool(v bool) Cell { return Cell{kind: CellBool, b: v} }

// Kind 值类型
func (c Cell) Kind() CellKind { return c.kind }

// IsMissing 是否缺失
func (c Cell) IsMissing() bool { return c.kind == CellMissing }

// Float 数值（非数值类型返回 false）
func (c Cell) Float() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// Time 日期值
func (c Cell) Time() (time.Time, bool) {
	if c.kind != CellDate {
		return time.Time{}, false
	}
	return c.date, true
}

// String 展示用字符串
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case CellDate:
		if c.date.Hour() == 0 && c.date.Minute() == 0 && c.date.Second() == 0 {
			return c.date.Format("2006-01-02")
		}
		return c.date.Format("2006-01-02 15:04:05")
	case CellBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// Key 比较用键：用于等值/成员过滤与分组；缺失值返回空串
func (c Cell) Key() string {
	if c.kind == CellText {
		return strings.TrimSpace(c.text)
	}
	return c.String()
}

// Equal 按 Key 比较（缺失值与任何值都不相等）
func (c Cell) Equal(o Cell) bool {
	if c.IsMissing() || o.IsMissing() {
		return false
	}
	return c.Key() == o.Key()
}

// Less 排序：数值 < 日期 < 布尔 < 文本，同类按值比较，缺失值排最后
func (c Cell) Less(o Cell) bool {
	if c.kind != o.kind {
		return kindRank(c.kind) < kindRank(o.kind)
	}
	switch c.kind {
	case CellNumber:
		return c.num < o.num
	case CellDate:
		return c.date.Before(o.date)
	case CellBool:
		return !c.b && o.b
	case CellText:
		return c.text < o.text
	}
	return false
}

func kindRank(k CellKind) int {
	switch k {
	case CellNumber:
		return 0
	case CellDate:
		return 1
	case CellBool:
		return 2
	case CellText:
		return 3
	default:
		return 4
	}
}

// ToNumber 数值转换：无法解析的值返回缺失
func (c Cell) ToNumber() Cell {
	switch c.kind {
	case CellNumber:
		return c
	case CellBool:
		if c.b {
			return Number(1)
		}
		return Number(0)
	case CellText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return Missing()
		}
		return Number(v)
	default:
		return Missing()
	}
}

// MarshalJSON 缺失值输出 null
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumber:
		if math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	case CellText, CellDate:
		return json.Marshal(c.String())
	case CellBool:
		return json.Marshal(c.b)
	default:
		return []byte("null"), nil
	}
}

// ParseCell 从外部输入（查询参数等）解析单元格：能解析为数值则为数值，否则为文本
func ParseCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return Number(v)
	}
	return Text(s)
}
