package services

import (
	"fmt"
	"net/http"
	"time"

	"codefest/internal/models"

	"github.com/mmcdole/gofeed"
)

// CommitActivity 项目最近一次提交动态
type CommitActivity struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// ActivityService 通过 GitHub 公开的 commits.atom 拉取项目提交动态
type ActivityService struct {
	parser *gofeed.Parser
}

// NewActivityService 创建动态服务实例
func NewActivityService() *ActivityService {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &ActivityService{parser: parser}
}

// 全局单例
var activityService *ActivityService

// GetActivityService 获取动态服务单例
func GetActivityService() *ActivityService {
	if activityService == nil {
		activityService = NewActivityService()
	}
	return activityService
}

// FetchCommitActivity 拉取项目最近的提交动态，最多 limit 条
func (s *ActivityService) FetchCommitActivity(project *models.Project, limit int) ([]CommitActivity, error) {
	feedURL := fmt.Sprintf("https://github.com/%s/%s/commits.atom", project.Owner, project.Repo)

	feed, err := s.parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("解析提交动态失败: %w", err)
	}

	activities := make([]CommitActivity, 0, limit)
	for _, item := range feed.Items {
		if len(activities) >= limit {
			break
		}

		publishedAt := time.Now()
		if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		} else if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		activities = append(activities, CommitActivity{
			Title:       item.Title,
			Link:        item.Link,
			Author:      author,
			PublishedAt: publishedAt,
		})
	}

	return activities, nil
}
