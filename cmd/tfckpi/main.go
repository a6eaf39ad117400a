package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tfckpi/internal/api/v1"
	"tfckpi/internal/config"
	"tfckpi/internal/model"
	"tfckpi/internal/server"
	"tfckpi/internal/service/cache"
	"tfckpi/internal/service/excel"
	"tfckpi/internal/store"
	"tfckpi/internal/util"
)

var (
	port      = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode   = flag.Bool("dev", false, "开发模式")
	dataDir   = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	noBrowser = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  TFC KPI - 运营与财务指标看板")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
		dir = config.ResolveDataDir(cfg)
	} else {
		fmt.Printf("数据目录: %s\n", dir)
	}

	// 加载审计库（失败时不记录审计，服务照常运行）
	st, err := store.New(filepath.Join(dir, "tfckpi.db"))
	if err != nil {
		log.Printf("初始化审计库失败: %v", err)
	} else {
		defer func() { _ = st.Close() }()
	}

	// 数据源加载（可选读穿缓存）
	loader := excel.NewLoader(dir)
	load := cache.LoadFunc(loader.LoadWithReport)
	var stats func() cache.Stats
	if cfg.Cache.Enabled {
		c := cache.New(loader.LoadWithReport, dir, cfg.Cache.MaxEntries)
		load = c.Load
		stats = c.Stats
	}

	handler := v1.NewHandler(load, st, v1.Options{
		DataDir: dir,
		Defaults: model.SourceSet{
			Operational: model.PathSource(cfg.Sources.Operational),
			Financial:   model.PathSource(cfg.Sources.Financial),
		},
		UploadTTL:      cfg.Upload.TTL(),
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Stats:          stats,
	})

	srv := server.NewServer(handler, st, cfg.Server.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if !cfg.Server.DevMode && !*noBrowser {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}
