package exporter

// ProgressStage 导出阶段
type ProgressStage string

const (
	StagePrepare ProgressStage = "prepare"
	StageSheet   ProgressStage = "sheet"
	StageDone    ProgressStage = "done"
)

// ProgressEvent 导出进度事件；Sheet/Rows 只在 StageSheet 时有值
type ProgressEvent struct {
	Percent int
	Stage   ProgressStage
	Sheet   string
	Rows    int
	Done    int
	Total   int
}

// Label 面向终端的进度描述
func (e ProgressEvent) Label() string {
	switch e.Stage {
	case StagePrepare:
		return "准备导出"
	case StageSheet:
		return "已写入 " + e.Sheet
	default:
		return "导出完成"
	}
}

// progressTracker 按已写入的工作表数换算百分比
type progressTracker struct {
	fn    func(ProgressEvent)
	done  int
	total int
}

func newProgress(fn func(ProgressEvent), total int) *progressTracker {
	return &progressTracker{fn: fn, total: total}
}

func (p *progressTracker) start() {
	p.emit(ProgressEvent{Stage: StagePrepare})
}

func (p *progressTracker) sheetWritten(sheet string, rows int) {
	p.done++
	p.emit(ProgressEvent{Stage: StageSheet, Sheet: sheet, Rows: rows})
}

func (p *progressTracker) finish() {
	p.done = p.total
	p.emit(ProgressEvent{Stage: StageDone})
}

func (p *progressTracker) emit(e ProgressEvent) {
	if p.fn == nil {
		return
	}
	e.Done, e.Total = p.done, p.total
	switch {
	case e.Stage == StageDone:
		e.Percent = 100
	case p.total > 0:
		e.Percent = min(p.done*100/p.total, 100)
	}
	p.fn(e)
}
