package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/minikel/valido-pwa/internal/api"
	"github.com/minikel/valido-pwa/internal/auditlog"
	"github.com/minikel/valido-pwa/internal/config"
	"github.com/minikel/valido-pwa/internal/importer"
	"github.com/minikel/valido-pwa/internal/metrics"
	"github.com/minikel/valido-pwa/internal/recorder"
	"github.com/minikel/valido-pwa/internal/server"
	"github.com/minikel/valido-pwa/internal/store"
	"github.com/minikel/valido-pwa/internal/util"
)

var (
	port    = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Valido - 订单扫描验证服务")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 确保数据目录存在
	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("创建数据目录失败: %v", err)
	}
	fmt.Printf("数据目录: %s\n", resolvedDataDir)

	// 初始化 SQLite Store
	dbPath := filepath.Join(resolvedDataDir, "valido.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer st.Close()

	// 组装各组件
	reg := metrics.NewRegistry()
	audit := auditlog.New(config.ResolveDataPath(resolvedDataDir, cfg.Audit.LogPath))
	rec := recorder.New(st, audit, reg)

	sourcePath := config.ResolveDataPath(resolvedDataDir, cfg.Sync.SourcePath)
	syncJob := importer.NewSyncJob(st, reg, sourcePath, cfg.Sync.SheetName)

	// 目录同步：启动时先跑一次，之后按间隔触发
	scheduler := importer.NewScheduler(syncJob, time.Duration(cfg.Sync.IntervalSeconds)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	// 创建服务器
	handler := api.NewHandler(st, rec, syncJob)
	srv := server.NewServer(handler, reg, cfg.Server.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}
