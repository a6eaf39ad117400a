package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tfckpi/internal/model"
)

var (
	// ErrEmptyAlias 别名规范化后为空
	ErrEmptyAlias = errors.New("alias normalizes to empty token")
	// ErrUnknownField 别名表中出现了非统一口径字段
	ErrUnknownField = errors.New("alias table references non-canonical field")
)

// AliasCollision 同一规范化别名被多个字段声明
type AliasCollision struct {
	Token  string
	Fields []model.Field
}

// AliasCollisionError 别名表存在冲突
type AliasCollisionError struct {
	Collisions []AliasCollision
}

func (e *AliasCollisionError) Error() string {
	parts := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		names := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			names[i] = string(f)
		}
		parts = append(parts, fmt.Sprintf("%q claimed by %s", c.Token, strings.Join(names, ", ")))
	}
	return "alias collision: " + strings.Join(parts, "; ")
}

// Registry 别名精确查找表（规范化别名 -> 统一口径字段）
type Registry struct {
	exact   map[string]model.Field
	aliases map[model.Field][]string
}

// BuildRegistry 反转别名表并校验：冲突、空别名、未知字段都会返回错误
func BuildRegistry(table map[model.Field][]string) (*Registry, error) {
	r := &Registry{
		exact:   make(map[string]model.Field),
		aliases: make(map[model.Field][]string, len(table)),
	}

	fields := make([]model.Field, 0, len(table))
	for f := range table {
		if !f.IsCanonical() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	claims := make(map[string][]model.Field)
	var tokens []string
	for _, f := range fields {
		for _, alias := range table[f] {
			token := Normalize(alias)
			if token == "" {
				return nil, fmt.Errorf("%w: %q under %s", ErrEmptyAlias, alias, f)
			}
			if _, seen := claims[token]; !seen {
				tokens = append(tokens, token)
			}
			if !containsField(claims[token], f) {
				claims[token] = append(claims[token], f)
			}
			r.aliases[f] = append(r.aliases[f], alias)
		}
	}

	var collisions []AliasCollision
	for _, token := range tokens {
		owners := claims[token]
		if len(owners) > 1 {
			collisions = append(collisions, AliasCollision{Token: token, Fields: owners})
			continue
		}
		r.exact[token] = owners[0]
	}
	if len(collisions) > 0 {
		sort.Slice(collisions, func(i, j int) bool { return collisions[i].Token < collisions[j].Token })
		return nil, &AliasCollisionError{Collisions: collisions}
	}

	return r, nil
}

// MustBuildRegistry 同 BuildRegistry，出错时 panic（用于进程启动时构建）
func MustBuildRegistry(table map[model.Field][]string) *Registry {
	r, err := BuildRegistry(table)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = MustBuildRegistry(DefaultAliases)

// DefaultRegistry 内置别名表
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup 精确查找规范化后的 token
func (r *Registry) Lookup(token string) (model.Field, bool) {
	f, ok := r.exact[token]
	return f, ok
}

// Aliases 字段的原始别名写法
func (r *Registry) Aliases(f model.Field) []string {
	return append([]string(nil), r.aliases[f]...)
}

// Len 精确 token 数量
func (r *Registry) Len() int {
	return len(r.exact)
}

func containsField(fields []model.Field, f model.Field) bool {
	for _, it := range fields {
		if it == f {
			return true
		}
	}
	return false
}
