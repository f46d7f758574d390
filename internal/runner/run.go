package runner

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kuuhaku-00/go-scamalytics/internal/model"
)

// DefaultThreads 默认并发worker数量
const DefaultThreads = 10

// Checker 单IP查询接口，实现里不能往上抛错误，失败要折叠进结果
type Checker interface {
	CheckIP(ip string) model.LookupResult
}

// Run 用固定大小的worker池并发查询所有IP。结果收集不保证顺序，但数量
// 一定等于输入数量（重复IP也各查各的，不去重）。单个IP的任何失败只影响
// 自己那一条，不会中断整批。onDone非nil时每完成一个IP调用一次，给上层
// 展示进度用
func Run(checker Checker, ips []string, threads int, onDone func()) []model.LookupResult {
	if threads <= 0 {
		threads = DefaultThreads
	}

	results := make([]model.LookupResult, 0, len(ips))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(threads)

	for _, ip := range ips {
		ip := ip
		g.Go(func() error {
			res := checkOne(checker, ip)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			if onDone != nil {
				onDone()
			}
			return nil
		})
	}

	// worker函数永远返回nil，错误都已经折叠进结果里了
	_ = g.Wait()

	return results
}

// checkOne 最外层兜底：实现不该panic，真panic了也转成exception错误结果
func checkOne(checker Checker, ip string) (res model.LookupResult) {
	defer func() {
		if r := recover(); r != nil {
			res = model.LookupResult{IP: ip, Error: fmt.Sprintf("exception: %v", r)}
		}
	}()
	return checker.CheckIP(ip)
}
