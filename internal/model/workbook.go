package model

// Workbook 单个工作簿的加载结果：sheet 名 -> 统一口径帧（保持 sheet 枚举顺序）
//
// 没有任何 sheet 的 Workbook 表示"数据源不可用"。
type Workbook struct {
	Label  string // 文件标识（文件名或上传文件名）
	Source string // 逻辑角色（operational / financial），由调用方设置

	names  []string
	frames map[string]*Frame
}

// NewWorkbook 创建空工作簿结果
func NewWorkbook(label string) *Workbook {
	return &Workbook{
		Label:  label,
		frames: make(map[string]*Frame),
	}
}

// Put 写入 sheet 帧；重复 sheet 名保留第一次写入
func (w *Workbook) Put(sheet string, frame *Frame) {
	if frame == nil {
		return
	}
	if _, ok := w.frames[sheet]; ok {
		return
	}
	w.names = append(w.names, sheet)
	w.frames[sheet] = frame
}

// Get 获取 sheet 帧
func (w *Workbook) Get(sheet string) (*Frame, bool) {
	if w == nil {
		return nil, false
	}
	f, ok := w.frames[sheet]
	return f, ok
}

// SheetNames sheet 名（枚举顺序）
func (w *Workbook) SheetNames() []string {
	if w == nil {
		return nil
	}
	return append([]string(nil), w.names...)
}

// Frames 帧列表（枚举顺序）
func (w *Workbook) Frames() []*Frame {
	if w == nil {
		return nil
	}
	out := make([]*Frame, 0, len(w.names))
	for _, n := range w.names {
		out = append(out, w.frames[n])
	}
	return out
}

// Len sheet 数量
func (w *Workbook) Len() int {
	if w == nil {
		return 0
	}
	return len(w.names)
}

// Empty 是否无可用 sheet
func (w *Workbook) Empty() bool {
	return w.Len() == 0
}

// WithSource 返回设置了逻辑角色的副本（帧共享，不复制数据）
func (w *Workbook) WithSource(source string) *Workbook {
	if w == nil {
		out := NewWorkbook("")
		out.Source = source
		return out
	}
	out := &Workbook{
		Label:  w.Label,
		Source: source,
		names:  append([]string(nil), w.names...),
		frames: make(map[string]*Frame, len(w.frames)),
	}
	for k, v := range w.frames {
		out.frames[k] = v
	}
	return out
}
