package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"tfckpi/internal/model"
	"tfckpi/internal/service/cache"
	"tfckpi/internal/service/excel"
	"tfckpi/internal/store"
)

// SourceStatus 单个默认数据源的状态
type SourceStatus struct {
	Role         string `json:"role"`
	Configured   string `json:"configured"`   // 配置的文件名
	Loaded       bool   `json:"loaded"`       // 是否加载成功
	ResolvedBy   string `json:"resolvedBy"`   // upload / path / data_dir
	Sheets       int    `json:"sheets"`       // sheet 总数
	MappedSheets int    `json:"mappedSheets"` // 产出帧的 sheet 数
	Error        string `json:"error,omitempty"`
}

// StatusResponse 系统状态响应
type StatusResponse struct {
	Sources []SourceStatus `json:"sources"`
	Uploads int            `json:"uploads"`         // 未过期的上传数
	Cache   *cache.Stats   `json:"cache,omitempty"` // 未启用缓存时为空
	DataDir string         `json:"dataDir"`
}

// GetStatus 获取系统状态（默认数据源的加载情况）
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	l := h.loadSources(h.defaults)

	resp := StatusResponse{
		Sources: make([]SourceStatus, 0, 2),
		Uploads: h.uploads.len(),
		DataDir: h.dataDir,
	}
	for _, role := range []string{model.RoleOperational, model.RoleFinancial} {
		src := h.defaults.ByRole()[role]
		st := SourceStatus{Role: role, Configured: src.Label()}
		if r := l.reports[role]; r != nil {
			st.Loaded = r.Available
			st.ResolvedBy = r.ResolvedBy
			st.Sheets = len(r.Sheets)
			st.MappedSheets = r.MappedSheets()
			st.Error = r.Error
		}
		resp.Sources = append(resp.Sources, st)
	}
	if h.stats != nil {
		s := h.stats()
		resp.Cache = &s
	}
	success(c, resp)
}

// ListCandidates 可选工作簿（当前目录与数据目录）
// GET /api/candidates
func (h *Handler) ListCandidates(c *gin.Context) {
	dirs := []string{"."}
	if h.dataDir != "" {
		dirs = append(dirs, h.dataDir)
	}
	success(c, excel.ListCandidates(dirs...))
}

// ListLoads 最近的加载审计
// GET /api/loads?limit=50
func (h *Handler) ListLoads(c *gin.Context) {
	if h.store == nil {
		success(c, []store.LoadLog{})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.store.RecentLoads(limit)
	if err != nil {
		errorResponse(c, CodeInternal, "查询加载记录失败: "+err.Error())
		return
	}
	success(c, logs)
}

// GetLoad 单次加载审计（含 sheet 明细）
// GET /api/loads/:id
func (h *Handler) GetLoad(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, CodeBadRequest, fmt.Sprintf("无效的记录 ID: %s", c.Param("id")))
		return
	}
	if h.store == nil {
		errorResponse(c, CodeInternal, "未启用加载审计")
		return
	}
	l, err := h.store.GetLoad(id)
	if err != nil {
		errorResponse(c, CodeBadRequest, err.Error())
		return
	}
	success(c, l)
}
