package model

// Frame 列式表格（统一口径帧 / 领域帧）
//
// Frame 创建后不可变：所有操作都返回新的 Frame。列数据切片可能在多个 Frame 之间共享，
// 任何代码都不得写入 Column 返回的切片。
type Frame struct {
	columns []Field
	data    map[Field][]Cell
	rows    int
}

// NewFrame 创建空帧（0 行 0 列）
func NewFrame() *Frame {
	return &Frame{data: make(map[Field][]Cell)}
}

// FrameBuilder 按列构建 Frame
type FrameBuilder struct {
	rows    int
	columns []Field
	data    map[Field][]Cell
}

// NewFrameBuilder 创建构建器，所有列必须有 rows 个单元格
func NewFrameBuilder(rows int) *FrameBuilder {
	return &FrameBuilder{rows: rows, data: make(map[Field][]Cell)}
}

// Add 追加一列；同名列只保留第一次添加，返回是否添加成功
func (b *FrameBuilder) Add(name Field, cells []Cell) bool {
	if _, ok := b.data[name]; ok {
		return false
	}
	col := make([]Cell, b.rows)
	copy(col, cells)
	b.columns = append(b.columns, name)
	b.data[name] = col
	return true
}

// Has 构建中是否已有该列
func (b *FrameBuilder) Has(name Field) bool {
	_, ok := b.data[name]
	return ok
}

// Len 已添加列数
func (b *FrameBuilder) Len() int {
	return len(b.columns)
}

// Build 生成 Frame
func (b *FrameBuilder) Build() *Frame {
	f := &Frame{
		columns: append([]Field(nil), b.columns...),
		data:    make(map[Field][]Cell, len(b.data)),
		rows:    b.rows,
	}
	for k, v := range b.data {
		f.data[k] = v
	}
	return f
}

// Columns 列名（按列顺序）
func (f *Frame) Columns() []Field {
	if f == nil {
		return nil
	}
	return append([]Field(nil), f.columns...)
}

// Has 列是否存在
func (f *Frame) Has(name Field) bool {
	if f == nil {
		return false
	}
	_, ok := f.data[name]
	return ok
}

// HasAny 是否包含任意一个字段
func (f *Frame) HasAny(fields FieldSet) bool {
	for name := range fields {
		if f.Has(name) {
			return true
		}
	}
	return false
}

// HasAll 是否包含全部字段
func (f *Frame) HasAll(fields ...Field) bool {
	for _, name := range fields {
		if !f.Has(name) {
			return false
		}
	}
	return true
}

// Len 行数
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Empty 无行或无列
func (f *Frame) Empty() bool {
	return f.Len() == 0 || len(f.columns) == 0
}

// Column 列数据（只读）；列不存在返回 nil
func (f *Frame) Column(name Field) []Cell {
	if f == nil {
		return nil
	}
	return f.data[name]
}

// At 读取单元格；列不存在或越界返回缺失
func (f *Frame) At(name Field, row int) Cell {
	col := f.Column(name)
	if row < 0 || row >= len(col) {
		return Missing()
	}
	return col[row]
}

// Row 读取一行
func (f *Frame) Row(i int) map[Field]Cell {
	out := make(map[Field]Cell, len(f.Columns()))
	for _, name := range f.Columns() {
		out[name] = f.At(name, i)
	}
	return out
}

// Records 转为行记录（用于 JSON 输出）
func (f *Frame) Records() []map[Field]Cell {
	out := make([]map[Field]Cell, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		out = append(out, f.Row(i))
	}
	return out
}

// WithConstant 返回追加（或替换）一列常量值后的新帧
func (f *Frame) WithConstant(name Field, value Cell) *Frame {
	col := make([]Cell, f.Len())
	for i := range col {
		col[i] = value
	}
	return f.withColumn(name, col)
}

func (f *Frame) withColumn(name Field, col []Cell) *Frame {
	if f == nil {
		f = NewFrame()
	}
	out := &Frame{
		columns: append([]Field(nil), f.columns...),
		data:    make(map[Field][]Cell, len(f.data)+1),
		rows:    f.rows,
	}
	for k, v := range f.data {
		out.data[k] = v
	}
	if _, ok := out.data[name]; !ok {
		out.columns = append(out.columns, name)
	}
	out.data[name] = col
	return out
}

// take 按行号选取，生成新帧
func (f *Frame) take(idx []int) *Frame {
	out := &Frame{
		columns: append([]Field(nil), f.columns...),
		data:    make(map[Field][]Cell, len(f.data)),
		rows:    len(idx),
	}
	for _, name := range f.columns {
		src := f.data[name]
		col := make([]Cell, len(idx))
		for i, r := range idx {
			col[i] = src[r]
		}
		out.data[name] = col
	}
	return out
}
