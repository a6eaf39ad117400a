package v1

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tfckpi/internal/model"
)

const uploadPrefix = "upload:"

var (
	errUnknownToken = errors.New("上传令牌不存在或已过期")
	errBadPath      = errors.New("不允许的数据源路径")
)

// loaded 一次请求加载的两个数据源
type loaded struct {
	workbooks map[string]*model.Workbook
	reports   map[string]*model.LoadReport
}

func (l loaded) workbook(role string) *model.Workbook {
	if wb := l.workbooks[role]; wb != nil {
		return wb
	}
	return model.NewWorkbook("")
}

// sourceSet 解析查询参数 ops / fin：
// 空值使用默认工作簿，"none" 表示不使用，"upload:<token>" 引用上传内容，其余视为文件名或相对路径
func (h *Handler) sourceSet(c *gin.Context) (model.SourceSet, error) {
	ops, err := h.selection(c.Query("ops"), h.defaults.Operational)
	if err != nil {
		return model.SourceSet{}, fmt.Errorf("ops: %w", err)
	}
	fin, err := h.selection(c.Query("fin"), h.defaults.Financial)
	if err != nil {
		return model.SourceSet{}, fmt.Errorf("fin: %w", err)
	}
	return model.SourceSet{Operational: ops, Financial: fin}, nil
}

func (h *Handler) selection(raw string, fallback model.Source) (model.Source, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return fallback, nil
	case strings.EqualFold(raw, "none"):
		return model.Source{}, nil
	case strings.HasPrefix(raw, uploadPrefix):
		u, ok := h.uploads.get(strings.TrimPrefix(raw, uploadPrefix))
		if !ok {
			return model.Source{}, errUnknownToken
		}
		return model.BytesSource(u.name, u.data), nil
	}
	if !filepath.IsLocal(raw) {
		return model.Source{}, errBadPath
	}
	return model.PathSource(raw), nil
}

// loadSources 加载两个数据源并记录审计
func (h *Handler) loadSources(set model.SourceSet) loaded {
	out := loaded{
		workbooks: make(map[string]*model.Workbook, 2),
		reports:   make(map[string]*model.LoadReport, 2),
	}
	for role, src := range set.ByRole() {
		wb, report := h.load(src)
		out.workbooks[role] = wb.WithSource(role)
		out.reports[role] = report
		h.audit(role, report)
	}
	return out
}

func (h *Handler) audit(role string, report *model.LoadReport) {
	if h.store == nil || report == nil || report.Label == "" {
		return
	}
	if _, err := h.store.RecordLoad(role, report); err != nil {
		log.Printf("记录加载审计失败 (%s): %v", role, err)
	}
}

// requestSources 解析并加载请求的数据源；失败时已写出错误响应
func (h *Handler) requestSources(c *gin.Context) (loaded, bool) {
	set, err := h.sourceSet(c)
	if err != nil {
		code := CodeBadRequest
		if errors.Is(err, errUnknownToken) {
			code = CodeUnknownToken
		}
		errorResponse(c, code, err.Error())
		return loaded{}, false
	}
	return h.loadSources(set), true
}

// SourceInfo 单个数据源的识别结果
type SourceInfo struct {
	Role   string             `json:"role"`
	Label  string             `json:"label"`
	Report *model.LoadReport  `json:"report"`
	Sheets []SheetFieldsEntry `json:"sheets"`
}

// SheetFieldsEntry sheet 及其统一口径字段
type SheetFieldsEntry struct {
	Name   string        `json:"name"`
	Rows   int           `json:"rows"`
	Fields []model.Field `json:"fields"`
}

// GetSources 各数据源识别出的 sheet 与字段
// GET /api/sources?ops=&fin=
func (h *Handler) GetSources(c *gin.Context) {
	l, ok := h.requestSources(c)
	if !ok {
		return
	}

	out := make([]SourceInfo, 0, 2)
	for _, role := range []string{model.RoleOperational, model.RoleFinancial} {
		wb := l.workbook(role)
		info := SourceInfo{Role: role, Label: wb.Label, Report: l.reports[role], Sheets: []SheetFieldsEntry{}}
		for _, name := range wb.SheetNames() {
			frame, _ := wb.Get(name)
			fields := make([]model.Field, 0)
			for _, col := range frame.Columns() {
				if col.IsCanonical() {
					fields = append(fields, col)
				}
			}
			info.Sheets = append(info.Sheets, SheetFieldsEntry{Name: name, Rows: frame.Len(), Fields: fields})
		}
		out = append(out, info)
	}
	success(c, out)
}

// Upload 上传工作簿，返回令牌（ops/fin 参数使用 upload:<token> 引用）
// POST /api/uploads
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, CodeBadRequest, "未找到上传文件")
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		errorResponse(c, CodeTooLarge, fmt.Sprintf("文件超过大小限制 (%d 字节)", h.maxBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		errorResponse(c, CodeInternal, "读取上传文件失败")
		return
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxBytes > 0 {
		r = io.LimitReader(f, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		errorResponse(c, CodeInternal, "读取上传文件失败")
		return
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		errorResponse(c, CodeTooLarge, fmt.Sprintf("文件超过大小限制 (%d 字节)", h.maxBytes))
		return
	}
	if len(data) == 0 {
		errorResponse(c, CodeBadRequest, "上传文件为空")
		return
	}

	name := filepath.Base(fh.Filename)
	token, expiresAt := h.uploads.put(name, data, h.ttl)
	log.Printf("收到上传 %s (%d 字节)", name, len(data))
	success(c, gin.H{
		"token":     token,
		"ref":       uploadPrefix + token,
		"name":      name,
		"size":      len(data),
		"expiresAt": expiresAt,
	})
}

// DeleteUpload 删除上传内容
// DELETE /api/uploads/:token
func (h *Handler) DeleteUpload(c *gin.Context) {
	if !h.uploads.delete(c.Param("token")) {
		errorResponse(c, CodeUnknownToken, errUnknownToken.Error())
		return
	}
	success(c, nil)
}
