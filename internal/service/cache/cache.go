package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"tfckpi/internal/model"
)

// LoadFunc 原始加载函数（通常是 excel.Loader.LoadWithReport）
type LoadFunc func(src model.Source) (*model.Workbook, *model.LoadReport)

type entry struct {
	workbook *model.Workbook
	report   *model.LoadReport
}

// Stats 缓存统计
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache 数据源读穿缓存：以数据源身份（上传内容哈希，或文件路径+大小+修改时间）为键
//
// 同一数据源的并发加载只执行一次。缓存的 Workbook 与 LoadReport 为只读共享对象。
type Cache struct {
	load       LoadFunc
	dataDir    string
	maxEntries int

	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	hits    int64
	misses  int64

	group singleflight.Group
}

// New 创建缓存；maxEntries <= 0 表示不限制
func New(load LoadFunc, dataDir string, maxEntries int) *Cache {
	return &Cache{
		load:       load,
		dataDir:    dataDir,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
	}
}

// Load 读取数据源（命中缓存时直接返回）
func (c *Cache) Load(src model.Source) (*model.Workbook, *model.LoadReport) {
	key := c.Key(src)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return e.workbook, e.report
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return e, nil
		}

		wb, report := c.load(src)
		e = entry{workbook: wb, report: report}
		c.put(key, e)
		return e, nil
	})
	e := v.(entry)
	return e.workbook, e.report
}

func (c *Cache) put(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.misses++
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = e
	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Key 数据源身份
func (c *Cache) Key(src model.Source) string {
	if src.IsUpload() {
		sum := sha256.Sum256(src.Data)
		return "bytes:" + hex.EncodeToString(sum[:])
	}
	p := strings.TrimSpace(src.Path)
	if p == "" {
		return "absent"
	}
	candidates := []string{p}
	if c.dataDir != "" {
		candidates = append(candidates, filepath.Join(c.dataDir, p))
	}
	for _, cand := range candidates {
		info, err := os.Stat(cand)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(cand)
		if err != nil {
			abs = cand
		}
		return fmt.Sprintf("path:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano())
	}
	return "missing:" + p
}

// Invalidate 清空缓存
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

// Stats 缓存统计
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
