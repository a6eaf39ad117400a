package model

import (
	"math"
	"sort"
	"strings"
)

// AggFunc 聚合方式
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggCount AggFunc = "count"
)

// ParseAggFunc 解析聚合方式，默认求和
func ParseAggFunc(s string) (AggFunc, bool) {
	switch AggFunc(strings.ToLower(strings.TrimSpace(s))) {
	case AggSum, "":
		return AggSum, true
	case AggMean, "avg", "average":
		return AggMean, true
	case AggCount:
		return AggCount, true
	}
	return "", false
}

// Filter 按行谓词过滤（保持行顺序）
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	if f == nil {
		return NewFrame()
	}
	idx := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// FilterIn 按维度成员过滤：列不存在或 values 为空时原样返回；缺失值行不保留
func (f *Frame) FilterIn(name Field, values ...Cell) *Frame {
	if !f.Has(name) || len(values) == 0 {
		return f
	}
	keys := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		keys[v.Key()] = struct{}{}
	}
	col := f.data[name]
	return f.Filter(func(i int) bool {
		if col[i].IsMissing() {
			return false
		}
		_, ok := keys[col[i].Key()]
		return ok
	})
}

// FilterEq 等值过滤
func (f *Frame) FilterEq(name Field, value Cell) *Frame {
	return f.FilterIn(name, value)
}

// Select 仅保留指定列（不存在的列忽略）
func (f *Frame) Select(names ...Field) *Frame {
	b := NewFrameBuilder(f.Len())
	for _, name := range names {
		if f.Has(name) {
			b.Add(name, f.data[name])
		}
	}
	return b.Build()
}

// CoerceNumeric 将指定列转为数值，无法解析的单元格变为缺失；不存在的列忽略
func (f *Frame) CoerceNumeric(names ...Field) *Frame {
	out := f
	for _, name := range names {
		if !f.Has(name) {
			continue
		}
		src := f.data[name]
		col := make([]Cell, len(src))
		for i, c := range src {
			col[i] = c.ToNumber()
		}
		out = out.withColumn(name, col)
	}
	if out == nil {
		return NewFrame()
	}
	return out
}

// Sum 数值列求和（跳过非数值）；列不存在返回 0
func (f *Frame) Sum(name Field) float64 {
	sum, _ := reduce(f.Column(name), nil)
	return sum
}

// Mean 数值列均值；无可用数值返回 false
func (f *Frame) Mean(name Field) (float64, bool) {
	sum, n := reduce(f.Column(name), nil)
	if n == 0 {
		return math.NaN(), false
	}
	return sum / float64(n), true
}

// Count 非缺失单元格数量
func (f *Frame) Count(name Field) int {
	n := 0
	for _, c := range f.Column(name) {
		if !c.IsMissing() {
			n++
		}
	}
	return n
}

// Aggregate 对整列聚合
func (f *Frame) Aggregate(name Field, agg AggFunc) (float64, bool) {
	switch agg {
	case AggMean:
		return f.Mean(name)
	case AggCount:
		return float64(f.Count(name)), f.Has(name)
	default:
		return f.Sum(name), f.Has(name)
	}
}

func reduce(col []Cell, idx []int) (sum float64, n int) {
	if idx == nil {
		for _, c := range col {
			if v, ok := c.Float(); ok {
				sum += v
				n++
			}
		}
		return sum, n
	}
	for _, i := range idx {
		if v, ok := col[i].Float(); ok {
			sum += v
			n++
		}
	}
	return sum, n
}

// Distinct 列的去重值（跳过缺失，排序）
func (f *Frame) Distinct(name Field) []Cell {
	seen := make(map[string]struct{})
	var out []Cell
	for _, c := range f.Column(name) {
		if c.IsMissing() {
			continue
		}
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Group 分组聚合结果
type Group struct {
	Keys  []Cell  `json:"keys"`
	Value float64 `json:"value"`
	Count int     `json:"count"` // 参与聚合的数值个数
	Valid bool    `json:"valid"` // 均值无可用数值时为 false
}

// GroupBy 按维度分组聚合：任一分组键缺失的行被丢弃，结果按键排序
func (f *Frame) GroupBy(keys []Field, value Field, agg AggFunc) []Group {
	if len(keys) == 0 || !f.HasAll(keys...) {
		return []Group{}
	}

	type bucket struct {
		keys []Cell
		rows []int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for i := 0; i < f.Len(); i++ {
		kc := make([]Cell, len(keys))
		parts := make([]string, len(keys))
		skip := false
		for j, k := range keys {
			c := f.data[k][i]
			if c.IsMissing() {
				skip = true
				break
			}
			kc[j] = c
			parts[j] = c.Key()
		}
		if skip {
			continue
		}
		id := strings.Join(parts, "\x1f")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{keys: kc}
			buckets[id] = b
			order = append(order, id)
		}
		b.rows = append(b.rows, i)
	}

	col := f.Column(value)
	out := make([]Group, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		g := Group{Keys: b.keys, Valid: true}
		switch agg {
		case AggCount:
			for _, r := range b.rows {
				if r < len(col) && !col[r].IsMissing() {
					g.Count++
				}
			}
			g.Value = float64(g.Count)
		case AggMean:
			if col != nil {
				g.Value, g.Count = reduce(col, b.rows)
			}
			if g.Count == 0 {
				g.Value, g.Valid = math.NaN(), false
			} else {
				g.Value /= float64(g.Count)
			}
		default:
			if col != nil {
				g.Value, g.Count = reduce(col, b.rows)
			}
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		for k := range keys {
			a, b := out[i].Keys[k], out[j].Keys[k]
			if a.Less(b) {
				return true
			}
			if b.Less(a) {
				return false
			}
		}
		return false
	})
	return out
}

// Concat 按行拼接（列取并集，按首次出现顺序）；缺列的帧在该列补缺失值，不丢行
func Concat(frames ...*Frame) *Frame {
	total := 0
	var columns []Field
	seen := make(map[Field]struct{})
	for _, fr := range frames {
		if fr == nil {
			continue
		}
		total += fr.rows
		for _, name := range fr.columns {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}

	out := &Frame{
		columns: columns,
		data:    make(map[Field][]Cell, len(columns)),
		rows:    total,
	}
	for _, name := range columns {
		col := make([]Cell, 0, total)
		for _, fr := range frames {
			if fr == nil {
				continue
			}
			if src, ok := fr.data[name]; ok {
				col = append(col, src...)
				continue
			}
			for i := 0; i < fr.rows; i++ {
				col = append(col, Missing())
			}
		}
		out.data[name] = col
	}
	return out
}
