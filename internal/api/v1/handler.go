package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tfckpi/internal/model"
	"tfckpi/internal/service/cache"
	"tfckpi/internal/store"
)

// 业务错误码
const (
	CodeBadRequest   = 4000
	CodeUnknownPage  = 4001
	CodeMissingField = 4002
	CodeUnknownRole  = 4003
	CodeUnknownToken = 4004
	CodeTooLarge     = 4013
	CodeInternal     = 5000
)

// Options 处理器选项
type Options struct {
	DataDir        string
	Defaults       model.SourceSet // 未指定数据源时使用的默认工作簿
	UploadTTL      time.Duration
	MaxUploadBytes int64
	Stats          func() cache.Stats // 可选：缓存统计
}

// Handler V1 API 处理器
type Handler struct {
	load     cache.LoadFunc
	store    *store.Store
	uploads  *uploadStore
	dataDir  string
	defaults model.SourceSet
	ttl      time.Duration
	maxBytes int64
	stats    func() cache.Stats
}

// NewHandler 创建 V1 API 处理器；st 为 nil 时不记录加载审计
func NewHandler(load cache.LoadFunc, st *store.Store, opts Options) *Handler {
	ttl := opts.UploadTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Handler{
		load:     load,
		store:    st,
		uploads:  newUploadStore(),
		dataDir:  opts.DataDir,
		defaults: opts.Defaults,
		ttl:      ttl,
		maxBytes: opts.MaxUploadBytes,
		stats:    opts.Stats,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/candidates", h.ListCandidates)

	// 上传
	router.POST("/uploads", h.Upload)
	router.DELETE("/uploads/:token", h.DeleteUpload)

	// 数据源识别结果
	router.GET("/sources", h.GetSources)

	// 页面与领域帧
	router.GET("/pages", h.ListPages)
	router.GET("/pages/:page/metrics", h.GetMetrics)
	router.GET("/domains/:page/:role", h.GetDomain)
	router.GET("/domains/:page/:role/aggregate", h.Aggregate)
	router.GET("/domains/:page/:role/export", h.ExportDomain)
	router.GET("/scorecard/:page", h.GetScorecard)
	router.GET("/finance/summary", h.GetFinanceSummary)

	// 加载审计
	router.GET("/loads", h.ListLoads)
	router.GET("/loads/:id", h.GetLoad)
}

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}
