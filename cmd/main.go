package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/kuuhaku-00/go-scamalytics/internal/config"
	"github.com/kuuhaku-00/go-scamalytics/internal/database"
	"github.com/kuuhaku-00/go-scamalytics/internal/exporter"
	"github.com/kuuhaku-00/go-scamalytics/internal/loader"
	"github.com/kuuhaku-00/go-scamalytics/internal/query"
	"github.com/kuuhaku-00/go-scamalytics/internal/runner"
	"github.com/kuuhaku-00/go-scamalytics/internal/util"
)

func main() {
	var (
		configPath string
		inputPath  string
		outputPath string
		uaPath     string
		threads    int
	)

	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.StringVar(&inputPath, "input", "", "IP列表文件，每行一个IP")
	flag.StringVar(&inputPath, "i", "", "input的简写")
	flag.StringVar(&outputPath, "output", "", "输出CSV路径，留空时写入results目录")
	flag.StringVar(&outputPath, "o", "", "output的简写")
	flag.StringVar(&uaPath, "useragents", "", "User-Agent列表文件，每行一个UA（可选）")
	flag.StringVar(&uaPath, "u", "", "useragents的简写")
	flag.IntVar(&threads, "threads", 0, "并发worker数量（默认10）")
	flag.IntVar(&threads, "t", 0, "threads的简写")
	flag.Parse()

	// 1. 读取配置，配置文件缺失时自动生成默认配置并继续
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 命令行参数优先于配置文件
	if inputPath == "" {
		inputPath = cfg.Input.IPFile
	}
	if uaPath == "" {
		uaPath = cfg.Input.UserAgentFile
	}
	if threads <= 0 {
		threads = cfg.Query.Threads
	}

	if inputPath == "" {
		log.Fatalf("必须通过 -i 或配置文件指定IP列表文件")
	}

	// 2. 读取IP列表，文件读不到是启动期致命错误，不发任何请求
	ips, err := loader.ReadLines(inputPath)
	if err != nil {
		log.Fatalf("读取IP列表失败: %v", err)
	}
	fmt.Printf("[*] 共加载IP: %d 个\n", len(ips))

	// 3. 校验只做提示，非法行照样提交查询，保证每行输入都有一行输出
	invalid, private := 0, 0
	for _, ip := range ips {
		if !util.IsValidIP(ip) {
			invalid++
		} else if !util.IsPublicIP(ip) {
			private++
		}
	}
	if invalid > 0 {
		fmt.Printf("[!] 发现 %d 行不是合法IP，将按原样查询\n", invalid)
	}
	if private > 0 {
		fmt.Printf("[!] 发现 %d 个内网IP，scamalytics基本不会有数据\n", private)
	}

	// 4. 读取UA列表（可选），失败时退回内置UA
	var userAgents []string
	if uaPath != "" {
		userAgents, err = loader.ReadLines(uaPath)
		if err != nil {
			fmt.Printf("[!] 读取UA列表失败（%v），使用内置UA\n", err)
			userAgents = nil
		} else {
			fmt.Printf("[*] 共加载User-Agent: %d 个\n", len(userAgents))
		}
	}

	// 5. 并发查询
	checker := query.NewChecker(
		cfg.Scamalytics.BaseURL,
		userAgents,
		time.Duration(cfg.Scamalytics.TimeoutSeconds)*time.Second,
	)

	fmt.Printf("[*] 开始查询，并发数: %d\n", threads)
	bar := pb.StartNew(len(ips))
	results := runner.Run(checker, ips, threads, func() {
		bar.Increment()
	})
	bar.Finish()

	// 6. 汇总入库（内存库，仅作本次批处理的中转）
	taskID := util.GenerateTaskID()
	tableName := util.GenerateTableName(taskID)
	db, err := database.InitDB(tableName)
	if err != nil {
		log.Fatalf("结果库初始化失败: %v", err)
	}
	defer db.Close()

	if err := database.SaveResults(db, tableName, results); err != nil {
		log.Fatalf("结果保存失败: %v", err)
	}

	total, err := database.CountRows(db, tableName)
	if err != nil {
		log.Printf("[!] 查询结果数量失败: %v", err)
		total = len(results)
	}
	failed, err := database.CountErrors(db, tableName)
	if err != nil {
		log.Printf("[!] 查询失败数量失败: %v", err)
	}

	// 7. 导出CSV报告
	if outputPath == "" {
		outputPath = filepath.Join(cfg.Output.BaseDir, util.GenerateCSVFileName(taskID, "scamalytics"))
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("创建输出目录失败: %v", err)
		}
	}
	if err := exporter.ExportTableToCSV(db, tableName, outputPath); err != nil {
		log.Fatalf("导出csv失败: %v", err)
	}

	fmt.Printf("[✔] 共写入 %d 条记录（其中失败 %d 条）到: %s\n", total, failed, outputPath)
}
