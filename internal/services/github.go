package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// GithubPR GitHub PR 列表/详情接口的响应结构
// 列表接口不含 diff 指标，四个计数字段只有详情接口会返回
type GithubPR struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"` // open, closed
	Draft  bool   `json:"draft"`
	URL    string `json:"html_url"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	MergedAt  *time.Time `json:"merged_at"`
	ClosedAt  *time.Time `json:"closed_at"`

	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	ChangedFiles int `json:"changed_files"`
	Commits      int `json:"commits"`
}

// GithubClient GitHub REST API 客户端
// 显式构造并注入凭证，不用全局单例，方便测试时替换 BaseURL
type GithubClient struct {
	BaseURL string
	Token   string
	client  *http.Client
}

// NewGithubClient 创建 GitHub 客户端，token 可为空（匿名调用限流更严）
func NewGithubClient(token string) *GithubClient {
	return &GithubClient{
		BaseURL: "https://api.github.com",
		Token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second, // 超时即失败，由下一轮同步重试
		},
	}
}

// get 发送请求并解析 JSON 响应
func (c *GithubClient) get(url string, out interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("请求 GitHub 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub 返回状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// ListPullRequests 分页拉取仓库的全部 PR（state=all）
func (c *GithubClient) ListPullRequests(owner, repo string) ([]GithubPR, error) {
	const perPage = 100
	all := make([]GithubPR, 0)

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=all&per_page=%d&page=%s",
			c.BaseURL, owner, repo, perPage, strconv.Itoa(page))

		var prs []GithubPR
		if err := c.get(url, &prs); err != nil {
			return nil, err
		}
		all = append(all, prs...)

		// 不足一页说明已到末尾
		if len(prs) < perPage {
			break
		}
	}
	return all, nil
}

// GetPullRequest 拉取单个 PR 详情，补全 diff 指标
func (c *GithubClient) GetPullRequest(owner, repo string, number int) (*GithubPR, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.BaseURL, owner, repo, number)

	var pr GithubPR
	if err := c.get(url, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}
