package cache

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tfckpi/internal/model"
)

func countingLoader(calls *int32) LoadFunc {
	return func(src model.Source) (*model.Workbook, *model.LoadReport) {
		atomic.AddInt32(calls, 1)
		time.Sleep(10 * time.Millisecond)
		return model.NewWorkbook(src.Label()), &model.LoadReport{Label: src.Label()}
	}
}

func TestCache_HitsBySourceIdentity(t *testing.T) {
	t.Parallel()

	var calls int32
	c := New(countingLoader(&calls), "", 0)

	a := model.BytesSource("a.xlsx", []byte("same"))
	b := model.BytesSource("renamed.xlsx", []byte("same"))
	wb1, _ := c.Load(a)
	wb2, _ := c.Load(b)
	if wb1 != wb2 {
		t.Fatalf("same bytes should share the cached workbook")
	}
	c.Load(model.BytesSource("a.xlsx", []byte("different")))

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("loads: got=%d want=2", got)
	}
	st := c.Stats()
	if st.Entries != 2 || st.Hits != 1 || st.Misses != 2 {
		t.Fatalf("stats: %+v", st)
	}
}

func TestCache_ConcurrentLoadsCollapse(t *testing.T) {
	t.Parallel()

	var calls int32
	c := New(countingLoader(&calls), "", 0)
	src := model.BytesSource("x.xlsx", []byte("payload"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Load(src)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("loads: got=%d want=1", got)
	}
}

func TestCache_PathKeyTracksModification(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "ops.xlsx")
	if err := os.WriteFile(p, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := New(func(model.Source) (*model.Workbook, *model.LoadReport) { return model.NewWorkbook(""), nil }, dir, 0)
	k1 := c.Key(model.PathSource(p))
	if err := os.WriteFile(p, []byte("version two"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	k2 := c.Key(model.PathSource(p))
	if k1 == k2 {
		t.Fatalf("key should change when the file changes: %s", k1)
	}

	// data 目录兜底与直接路径指向同一文件时键一致
	if got := c.Key(model.PathSource("ops.xlsx")); got != k2 {
		t.Fatalf("data dir key: got=%s want=%s", got, k2)
	}
	if got := c.Key(model.Source{}); got != "absent" {
		t.Fatalf("absent key: got=%s", got)
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	t.Parallel()

	var calls int32
	c := New(countingLoader(&calls), "", 2)
	for _, s := range []string{"a", "b", "c"} {
		c.Load(model.BytesSource(s, []byte(s)))
	}
	if st := c.Stats(); st.Entries != 2 {
		t.Fatalf("entries: got=%d want=2", st.Entries)
	}
	c.Load(model.BytesSource("a", []byte("a")))
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Fatalf("evicted entry should reload: calls=%d", got)
	}

	c.Invalidate()
	if st := c.Stats(); st.Entries != 0 {
		t.Fatalf("invalidate: %+v", st)
	}
}
