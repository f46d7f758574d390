package query

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/kuuhaku-00/go-scamalytics/internal/model"
)

const (
	// DefaultBaseURL scamalytics查询入口，每个IP对应 /ip/{ip} 页面
	DefaultBaseURL = "https://scamalytics.com"

	defaultTimeout = 15 * time.Second

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// defaultUserAgents 内置UA表，用户没提供UA文件时从这里随机取
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.3",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1.1 Safari/605.1.1",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Checker 负责单个IP的页面抓取和解析，内部共用一个带超时的HTTP客户端
type Checker struct {
	baseURL    string
	userAgents []string
	client     *http.Client
}

// NewChecker 创建Checker，参数给零值时使用默认入口/内置UA/15秒超时
func NewChecker(baseURL string, userAgents []string, timeout time.Duration) *Checker {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Checker{
		baseURL:    baseURL,
		userAgents: userAgents,
		client:     &http.Client{Timeout: timeout},
	}
}

// CheckIP 查询单个IP并解析页面，任何失败都折叠成带Error字段的结果，不往上抛
func (c *Checker) CheckIP(ip string) model.LookupResult {
	pageText, err := c.fetchPage(ip)
	if err != nil {
		return model.LookupResult{IP: ip, Error: fmt.Sprintf("http_error: %v", err)}
	}
	return ExtractResult(pageText, ip)
}

func (c *Checker) fetchPage(ip string) (string, error) {
	reqURL := c.baseURL + "/ip/" + ip

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", c.chooseUserAgent())
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s for %s", resp.Status, reqURL)
	}

	return string(body), nil
}

func (c *Checker) chooseUserAgent() string {
	return c.userAgents[rand.Intn(len(c.userAgents))]
}
