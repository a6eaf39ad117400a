package scorecard

import (
	"errors"
	"fmt"
	"sort"

	"tfckpi/internal/model"
	"tfckpi/internal/reconcile"
)

// ErrMissingField 记分卡需要的列在领域帧中不存在
var ErrMissingField = errors.New("field not present in domain frame")

// Row 记分卡一行：同一维度取值上运营与财务的聚合值
type Row struct {
	Key model.Cell `json:"key"`
	Ops float64    `json:"ops"`
	Fin float64    `json:"fin"`
}

// Scorecard 两个领域帧在共享维度上的并排聚合
type Scorecard struct {
	By       model.Field   `json:"by"`
	OpsField model.Field   `json:"opsField"`
	OpsAgg   model.AggFunc `json:"opsAgg"`
	FinField model.Field   `json:"finField"`
	FinAgg   model.AggFunc `json:"finAgg"`
	Rows     []Row         `json:"rows"`
}

// Build 分别聚合后按维度取值对齐，只保留两边都有有效值的键
//
// 两个帧之间不做行级关联。
func Build(ops, fin *model.Frame, p reconcile.Pairing) (*Scorecard, error) {
	for _, need := range []struct {
		frame *model.Frame
		field model.Field
		role  string
	}{
		{ops, p.By, model.RoleOperational},
		{ops, p.OpsField, model.RoleOperational},
		{fin, p.By, model.RoleFinancial},
		{fin, p.FinField, model.RoleFinancial},
	} {
		if !need.frame.Has(need.field) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMissingField, need.field, need.role)
		}
	}

	left := index(ops.GroupBy([]model.Field{p.By}, p.OpsField, p.OpsAgg))
	right := index(fin.GroupBy([]model.Field{p.By}, p.FinField, p.FinAgg))

	sc := &Scorecard{
		By:       p.By,
		OpsField: p.OpsField, OpsAgg: p.OpsAgg,
		FinField: p.FinField, FinAgg: p.FinAgg,
		Rows: []Row{},
	}
	for key, l := range left {
		r, ok := right[key]
		if !ok {
			continue
		}
		sc.Rows = append(sc.Rows, Row{Key: l.Keys[0], Ops: l.Value, Fin: r.Value})
	}
	sort.Slice(sc.Rows, func(i, j int) bool { return sc.Rows[i].Key.Less(sc.Rows[j].Key) })
	return sc, nil
}

// index 去掉无效聚合值（均值无数据），按维度键索引
func index(groups []model.Group) map[string]model.Group {
	out := make(map[string]model.Group, len(groups))
	for _, g := range groups {
		if !g.Valid {
			continue
		}
		out[g.Keys[0].Key()] = g
	}
	return out
}
