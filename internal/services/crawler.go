package services

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// CrawlerService 项目主页摘要抓取服务
// 登记项目时抓一次主页，提取正文片段作为项目摘要
type CrawlerService struct {
	client    *http.Client
	sanitizer *bluemonday.Policy
}

// NewCrawlerService 创建抓取服务实例
func NewCrawlerService() *CrawlerService {
	return &CrawlerService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		sanitizer: bluemonday.StrictPolicy(), // 摘要只保留纯文本
	}
}

// 全局单例
var crawlerService *CrawlerService

// GetCrawlerService 获取 Crawler 服务单例
func GetCrawlerService() *CrawlerService {
	if crawlerService == nil {
		crawlerService = NewCrawlerService()
	}
	return crawlerService
}

// FetchSummary 抓取项目主页并提取摘要，最长 maxLen 个字符
func (s *CrawlerService) FetchSummary(url string, maxLen int) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP 状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	// 提取正文，再清洗成纯文本
	article, err := readability.FromReader(strings.NewReader(string(body)), nil)
	if err != nil {
		return "", fmt.Errorf("解析正文失败: %w", err)
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(article.Content))
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxLen {
		text = string(runes[:maxLen]) + "..."
	}
	return text, nil
}
