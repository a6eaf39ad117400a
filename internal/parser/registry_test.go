package parser

import (
	"errors"
	"testing"

	"tfckpi/internal/model"
)

func TestDefaultRegistry_AllAliasesResolve(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	for field, aliases := range DefaultAliases {
		for _, alias := range aliases {
			got, ok := r.Lookup(Normalize(alias))
			if !ok || got != field {
				t.Fatalf("alias %q: got=%q ok=%v want=%q", alias, got, ok, field)
			}
		}
	}
	if len(DefaultAliases) != len(model.CanonicalFields) {
		t.Fatalf("alias table covers %d fields, want %d", len(DefaultAliases), len(model.CanonicalFields))
	}
}

func TestBuildRegistry_Collision(t *testing.T) {
	t.Parallel()

	table := map[model.Field][]string{
		model.FieldRevenue: {"revenue", "Sales"},
		model.FieldPrice:   {"price", "sales"},
		model.FieldROIPct:  {"roi", "ROI %"},
	}

	_, err := BuildRegistry(table)
	var collisionErr *AliasCollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("expected AliasCollisionError, got %v", err)
	}
	if len(collisionErr.Collisions) != 1 {
		t.Fatalf("collisions: got=%+v", collisionErr.Collisions)
	}
	c := collisionErr.Collisions[0]
	if c.Token != "sales" || len(c.Fields) != 2 || c.Fields[0] != model.FieldPrice || c.Fields[1] != model.FieldRevenue {
		t.Fatalf("collision: got=%+v", c)
	}

	// 多次构建结果一致
	_, err2 := BuildRegistry(table)
	if err2 == nil || err2.Error() != err.Error() {
		t.Fatalf("non-deterministic error: %v vs %v", err, err2)
	}
}

func TestBuildRegistry_InvalidTable(t *testing.T) {
	t.Parallel()

	if _, err := BuildRegistry(map[model.Field][]string{model.FieldRevenue: {"%%"}}); !errors.Is(err, ErrEmptyAlias) {
		t.Fatalf("expected ErrEmptyAlias, got %v", err)
	}
	if _, err := BuildRegistry(map[model.Field][]string{"margin": {"margin"}}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestMustBuildRegistry_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on colliding table")
		}
	}()
	MustBuildRegistry(map[model.Field][]string{
		model.FieldPlant:     {"site"},
		model.FieldWarehouse: {"Site"},
	})
}
