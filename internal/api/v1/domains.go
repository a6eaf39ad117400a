package v1

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tfckpi/internal/exporter"
	"tfckpi/internal/model"
	"tfckpi/internal/reconcile"
	"tfckpi/internal/service/scorecard"
)

// pageRequest 页面请求上下文：页面定义 + 领域帧 + 各角色的维度筛选
type pageRequest struct {
	page       reconcile.PageSpec
	frames     reconcile.Frames
	selections map[string]scorecard.Selection
}

// filtered 按该角色的筛选条件过滤后的领域帧
func (r pageRequest) filtered(role string) *model.Frame {
	frame, _ := r.frames.ByRole(role)
	return r.selections[role].Apply(frame)
}

func (h *Handler) pageRequest(c *gin.Context, name string) (pageRequest, bool) {
	page, ok := reconcile.LookupPage(name)
	if !ok {
		errorResponse(c, CodeUnknownPage, fmt.Sprintf("未知页面: %s", name))
		return pageRequest{}, false
	}
	l, ok := h.requestSources(c)
	if !ok {
		return pageRequest{}, false
	}
	frames := reconcile.ReconcilePage(page, l.workbook(model.RoleOperational), l.workbook(model.RoleFinancial))
	q := c.Request.URL.Query()
	return pageRequest{
		page:   page,
		frames: frames,
		selections: map[string]scorecard.Selection{
			model.RoleOperational: parseSelection(q, frames.Operational),
			model.RoleFinancial:   parseSelection(q, frames.Financial),
		},
	}, true
}

// parseRole 角色参数，接受 ops/fin 缩写
func parseRole(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ops", model.RoleOperational:
		return model.RoleOperational, true
	case "fin", model.RoleFinancial:
		return model.RoleFinancial, true
	}
	return "", false
}

// parseSelection 维度筛选：?week=1,2&supplier=S1
//
// defaults=1 时先套用该帧自己的默认周窗口，显式参数覆盖默认值。
func parseSelection(q url.Values, frame *model.Frame) scorecard.Selection {
	sel := scorecard.Selection{}
	if b, _ := strconv.ParseBool(q.Get("defaults")); b {
		sel = scorecard.DefaultSelection(frame)
	}
	for _, field := range model.DimensionFields {
		raw, ok := q[string(field)]
		if !ok {
			continue
		}
		values := make([]model.Cell, 0)
		for _, item := range raw {
			for _, part := range strings.Split(item, ",") {
				if cell := model.ParseCell(part); !cell.IsMissing() {
					values = append(values, cell)
				}
			}
		}
		sel[field] = values
	}
	return sel
}

func parseFields(raw string) ([]model.Field, error) {
	var out []model.Field
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, ok := model.ParseField(part)
		if !ok {
			return nil, fmt.Errorf("未知字段: %s", part)
		}
		out = append(out, f)
	}
	return out, nil
}

// PageInfo 页面描述
type PageInfo struct {
	Page        reconcile.Page `json:"page"`
	Title       string         `json:"title"`
	Operational []model.Field  `json:"operational"`
	Financial   []model.Field  `json:"financial"`
	Filters     []model.Field  `json:"filters"`
	Scorecard   bool           `json:"scorecard"`
}

// ListPages 页面列表
// GET /api/pages
func (h *Handler) ListPages(c *gin.Context) {
	pages := reconcile.Pages()
	out := make([]PageInfo, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageInfo{
			Page:        p.Page,
			Title:       p.Title,
			Operational: p.Operational.Wanted.Sorted(),
			Financial:   p.Financial.Wanted.Sorted(),
			Filters:     p.Filters,
			Scorecard:   p.Scorecard != nil,
		})
	}
	success(c, out)
}

// GetDomain 页面领域帧（按维度筛选后的行）
// GET /api/domains/:page/:role
func (h *Handler) GetDomain(c *gin.Context) {
	role, ok := parseRole(c.Param("role"))
	if !ok {
		errorResponse(c, CodeUnknownRole, fmt.Sprintf("未知数据源角色: %s", c.Param("role")))
		return
	}
	req, ok := h.pageRequest(c, c.Param("page"))
	if !ok {
		return
	}

	frame := req.filtered(role)
	total := frame.Len()
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 0 && limit < total {
		frame = frame.Filter(func(i int) bool { return i < limit })
	}

	success(c, gin.H{
		"page":    req.page.Page,
		"role":    role,
		"columns": frame.Columns(),
		"rows":    frame.Records(),
		"total":   total,
		"filters": filterOptions(req),
	})
}

// filterOptions 页面各维度的可选值（来自两个领域帧）
func filterOptions(req pageRequest) map[model.Field][]model.Cell {
	out := make(map[model.Field][]model.Cell)
	fields := append([]model.Field{model.FieldRound, model.FieldWeek}, req.page.Filters...)
	for _, f := range fields {
		if values := scorecard.Distinct(f, req.frames.Operational, req.frames.Financial); len(values) > 0 {
			out[f] = values
		}
	}
	return out
}

// Aggregate 领域帧聚合
// GET /api/domains/:page/:role/aggregate?by=week&field=revenue&agg=sum
func (h *Handler) Aggregate(c *gin.Context) {
	role, ok := parseRole(c.Param("role"))
	if !ok {
		errorResponse(c, CodeUnknownRole, fmt.Sprintf("未知数据源角色: %s", c.Param("role")))
		return
	}
	field, ok := model.ParseField(c.Query("field"))
	if !ok {
		errorResponse(c, CodeBadRequest, fmt.Sprintf("未知字段: %s", c.Query("field")))
		return
	}
	agg, ok := model.ParseAggFunc(c.Query("agg"))
	if !ok {
		errorResponse(c, CodeBadRequest, fmt.Sprintf("不支持的聚合方式: %s", c.Query("agg")))
		return
	}
	by, err := parseFields(c.Query("by"))
	if err != nil {
		errorResponse(c, CodeBadRequest, err.Error())
		return
	}

	req, ok := h.pageRequest(c, c.Param("page"))
	if !ok {
		return
	}
	frame := req.filtered(role)
	for _, f := range append([]model.Field{field}, by...) {
		if !frame.Has(f) {
			errorResponse(c, CodeMissingField, fmt.Sprintf("领域帧缺少字段: %s", f))
			return
		}
	}

	if len(by) == 0 {
		var value *float64
		if v, ok := frame.Aggregate(field, agg); ok {
			value = &v
		}
		success(c, gin.H{"field": field, "agg": agg, "value": value})
		return
	}

	groups := frame.GroupBy(by, field, agg)
	rows := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		row := gin.H{"keys": g.Keys, "count": g.Count, "value": nil}
		if g.Valid {
			row["value"] = g.Value
		}
		rows = append(rows, row)
	}
	success(c, gin.H{"by": by, "field": field, "agg": agg, "groups": rows})
}

// GetScorecard 运营与财务在共享维度上的并排聚合
// GET /api/scorecard/:page?by=&ops_field=&ops_agg=&fin_field=&fin_agg=
func (h *Handler) GetScorecard(c *gin.Context) {
	page, ok := reconcile.LookupPage(c.Param("page"))
	if !ok {
		errorResponse(c, CodeUnknownPage, fmt.Sprintf("未知页面: %s", c.Param("page")))
		return
	}
	pairing, err := parsePairing(c, page.Scorecard)
	if err != nil {
		errorResponse(c, CodeBadRequest, err.Error())
		return
	}

	req, ok := h.pageRequest(c, c.Param("page"))
	if !ok {
		return
	}
	sc, err := scorecard.Build(req.filtered(model.RoleOperational), req.filtered(model.RoleFinancial), pairing)
	if err != nil {
		if errors.Is(err, scorecard.ErrMissingField) {
			errorResponse(c, CodeMissingField, err.Error())
			return
		}
		errorResponse(c, CodeInternal, err.Error())
		return
	}
	success(c, sc)
}

// parsePairing 查询参数覆盖页面默认的记分卡组合
func parsePairing(c *gin.Context, def *reconcile.Pairing) (reconcile.Pairing, error) {
	var p reconcile.Pairing
	if def != nil {
		p = *def
	}

	fields := []struct {
		param string
		dst   *model.Field
	}{
		{"by", &p.By},
		{"ops_field", &p.OpsField},
		{"fin_field", &p.FinField},
	}
	for _, f := range fields {
		raw := c.Query(f.param)
		if raw == "" {
			continue
		}
		v, ok := model.ParseField(raw)
		if !ok {
			return p, fmt.Errorf("未知字段: %s", raw)
		}
		*f.dst = v
	}

	aggs := []struct {
		param string
		dst   *model.AggFunc
	}{
		{"ops_agg", &p.OpsAgg},
		{"fin_agg", &p.FinAgg},
	}
	for _, a := range aggs {
		raw := c.Query(a.param)
		if raw == "" {
			if *a.dst == "" {
				*a.dst = model.AggSum
			}
			continue
		}
		v, ok := model.ParseAggFunc(raw)
		if !ok {
			return p, fmt.Errorf("不支持的聚合方式: %s", raw)
		}
		*a.dst = v
	}

	if p.By == "" || p.OpsField == "" || p.FinField == "" {
		return p, errors.New("需要指定 by、ops_field 与 fin_field")
	}
	return p, nil
}

// GetMetrics 页面 KPI 卡片
// GET /api/pages/:page/metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	req, ok := h.pageRequest(c, c.Param("page"))
	if !ok {
		return
	}
	frames := reconcile.Frames{
		Operational: req.filtered(model.RoleOperational),
		Financial:   req.filtered(model.RoleFinancial),
	}
	success(c, gin.H{
		"page":    req.page.Page,
		"metrics": scorecard.Metrics(req.page.Page, frames),
	})
}

// GetFinanceSummary 财务汇总、贡献排名与趋势
// GET /api/finance/summary?by=customer&metric=revenue&n=10&trend=operating_profit
func (h *Handler) GetFinanceSummary(c *gin.Context) {
	req, ok := h.pageRequest(c, string(reconcile.PageFinance))
	if !ok {
		return
	}
	fin := req.filtered(model.RoleFinancial)

	out := gin.H{"summary": scorecard.Summarize(fin)}

	metric := model.FieldRevenue
	if raw := c.Query("metric"); raw != "" {
		f, ok := model.ParseField(raw)
		if !ok {
			errorResponse(c, CodeBadRequest, fmt.Sprintf("未知字段: %s", raw))
			return
		}
		metric = f
	}
	if raw := c.Query("by"); raw != "" {
		by, ok := model.ParseField(raw)
		if !ok {
			errorResponse(c, CodeBadRequest, fmt.Sprintf("未知字段: %s", raw))
			return
		}
		n, _ := strconv.Atoi(c.DefaultQuery("n", "10"))
		out["top"] = scorecard.TopContributors(fin, by, metric, n)
	}

	trendField := model.FieldOperatingProfit
	if raw := c.Query("trend"); raw != "" {
		f, ok := model.ParseField(raw)
		if !ok {
			errorResponse(c, CodeBadRequest, fmt.Sprintf("未知字段: %s", raw))
			return
		}
		trendField = f
	}
	out["trend"] = scorecard.Trend(fin, trendField, model.AggSum)
	success(c, out)
}

// ExportDomain 导出筛选后的领域帧
// GET /api/domains/:page/:role/export
func (h *Handler) ExportDomain(c *gin.Context) {
	role, ok := parseRole(c.Param("role"))
	if !ok {
		errorResponse(c, CodeUnknownRole, fmt.Sprintf("未知数据源角色: %s", c.Param("role")))
		return
	}
	req, ok := h.pageRequest(c, c.Param("page"))
	if !ok {
		return
	}

	includeTags, _ := strconv.ParseBool(c.DefaultQuery("tags", "true"))
	file, err := exporter.Export([]exporter.Sheet{
		{Name: fmt.Sprintf("%s-%s", req.page.Page, role), Frame: req.filtered(role)},
	}, exporter.Options{IncludeTags: includeTags})
	if err != nil {
		errorResponse(c, CodeInternal, "导出失败: "+err.Error())
		return
	}
	defer file.Close()

	filename := exporter.FileName(fmt.Sprintf("%s_%s", req.page.Page, role), time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		log.Printf("写入导出文件失败: %v", err)
	}
}
