package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"codefest/internal/db"
	"codefest/internal/models"

	"gorm.io/gorm"
)

// SyncResult 单个项目一次同步的结果汇总
type SyncResult struct {
	ProjectID uint   `json:"project_id"`
	Project   string `json:"project"`
	Synced    int    `json:"synced"`  // 创建或更新的 PR 数
	Skipped   int    `json:"skipped"` // 作者未注册被跳过的 PR 数
	Errors    int    `json:"errors"`  // 单条处理失败数
	Error     string `json:"error,omitempty"` // 整个项目同步失败的原因
}

// SyncService 从 GitHub 拉取 PR 并对账到本地记录
type SyncService struct {
	client *GithubClient
}

// NewSyncService 创建同步服务，client 由调用方构造注入
func NewSyncService(client *GithubClient) *SyncService {
	return &SyncService{client: client}
}

// 全局单例
var syncService *SyncService

// GetSyncService 获取同步服务单例，凭证来自 GITHUB_TOKEN
func GetSyncService() *SyncService {
	if syncService == nil {
		syncService = NewSyncService(NewGithubClient(os.Getenv("GITHUB_TOKEN")))
	}
	return syncService
}

// deriveStatus 推导 PR 状态：有合并时间即 merged，open 的草稿为 draft，否则取原始 state
func deriveStatus(pr *GithubPR) string {
	if pr.MergedAt != nil {
		return models.PRStatusMerged
	}
	if pr.Draft && pr.State == "open" {
		return models.PRStatusDraft
	}
	switch pr.State {
	case "open":
		return models.PRStatusOpen
	case "closed":
		return models.PRStatusClosed
	default:
		return models.PRStatusDraft
	}
}

// SyncProject 同步单个项目的全部 PR
// 拉列表失败则整个项目失败；单条 PR 失败只计数，不中断后续处理
func (s *SyncService) SyncProject(project *models.Project) (*SyncResult, error) {
	result := &SyncResult{ProjectID: project.ID, Project: project.FullName()}

	prs, err := s.client.ListPullRequests(project.Owner, project.Repo)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("拉取 %s 的 PR 列表失败: %w", project.FullName(), err)
	}

	// 本轮涉及的用户，处理完统一重算
	affected := make(map[uint]bool)

	for i := range prs {
		userID, synced, err := s.syncOne(project, &prs[i])
		if err != nil {
			log.Printf("同步 PR %s#%d 失败: %v", project.FullName(), prs[i].Number, err)
			result.Errors++
			continue
		}
		if !synced {
			result.Skipped++
			continue
		}
		result.Synced++
		affected[userID] = true
	}

	// 逐个重算受影响用户的统计和徽章
	for userID := range affected {
		if err := RecalculateUserStats(userID); err != nil {
			log.Printf("重算用户 %d 统计失败: %v", userID, err)
			continue
		}
		if _, err := EvaluateBadges(userID); err != nil {
			log.Printf("评估用户 %d 徽章失败: %v", userID, err)
		}
	}

	// 项目聚合统计 + 同步时间戳
	if err := s.updateProjectStats(project); err != nil {
		log.Printf("更新项目 %s 统计失败: %v", project.FullName(), err)
	}

	// 全局重排一次名次
	if err := RecalculateLeaderboard(); err != nil {
		log.Printf("重算排行榜失败: %v", err)
	}

	return result, nil
}

// syncOne 对账单条 PR，返回作者 ID 和是否入库
// 作者未在活动中注册时跳过，不算错误
func (s *SyncService) syncOne(project *models.Project, remote *GithubPR) (uint, bool, error) {
	// 1. 按 GitHub login 匹配本地用户
	var author models.User
	if err := db.DB.Where("username = ?", remote.User.Login).First(&author).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	// 2. 列表接口没有 diff 指标，再拉一次详情；失败则退回列表数据（指标为 0）
	detail, err := s.client.GetPullRequest(project.Owner, project.Repo, remote.Number)
	if err != nil {
		log.Printf("拉取 PR %s#%d 详情失败，退回列表数据: %v", project.FullName(), remote.Number, err)
		detail = remote
	}

	// 3. 按 (github_pr_id, project_id) 对账，决定创建还是更新
	var pr models.PullRequest
	err = db.DB.Where("github_pr_id = ? AND project_id = ?", remote.ID, project.ID).First(&pr).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return 0, false, err
	}
	isNew := err == gorm.ErrRecordNotFound

	pr.GithubPRID = remote.ID
	pr.ProjectID = project.ID
	pr.UserID = author.ID
	pr.Number = remote.Number
	pr.Title = remote.Title
	pr.URL = remote.URL
	pr.Status = deriveStatus(detail)
	pr.Additions = detail.Additions
	pr.Deletions = detail.Deletions
	pr.ChangedFiles = detail.ChangedFiles
	pr.Commits = detail.Commits
	pr.GithubCreatedAt = detail.CreatedAt
	pr.GithubUpdatedAt = detail.UpdatedAt
	pr.MergedAt = detail.MergedAt
	pr.ClosedAt = detail.ClosedAt

	// 4. 重算积分后落库
	pr.Points = CalculatePoints(&pr)
	now := time.Now()
	pr.PointsCalculatedAt = &now

	if isNew {
		if err := db.DB.Create(&pr).Error; err != nil {
			return 0, false, err
		}
	} else {
		if err := db.DB.Save(&pr).Error; err != nil {
			return 0, false, err
		}
	}

	return author.ID, true, nil
}

// updateProjectStats 重算项目聚合统计并盖同步时间戳
func (s *SyncService) updateProjectStats(project *models.Project) error {
	var total, merged, contributors int64
	db.DB.Model(&models.PullRequest{}).Where("project_id = ?", project.ID).Count(&total)
	db.DB.Model(&models.PullRequest{}).Where("project_id = ? AND status = ?", project.ID, models.PRStatusMerged).Count(&merged)
	db.DB.Model(&models.PullRequest{}).Where("project_id = ?", project.ID).
		Distinct("user_id").Count(&contributors)

	now := time.Now()
	return db.DB.Model(project).Updates(map[string]interface{}{
		"total_prs":    int(total),
		"merged_prs":   int(merged),
		"contributors": int(contributors),
		"last_sync_at": &now,
	}).Error
}

// SyncAllProjects 同步所有可同步项目，单个项目失败不影响其余项目
func (s *SyncService) SyncAllProjects() []SyncResult {
	var projects []models.Project
	db.DB.Where("is_active = ? AND is_approved = ? AND sync_enabled = ?", true, true, true).Find(&projects)

	results := make([]SyncResult, 0, len(projects))
	for i := range projects {
		result, err := s.SyncProject(&projects[i])
		if err != nil {
			log.Printf("同步项目 %s 失败: %v", projects[i].FullName(), err)
		}
		results = append(results, *result)
	}
	return results
}

// StartScheduledSync 启动定时同步任务，默认每 30 分钟一轮
// 周期内没跑完下一轮照常触发，没有互斥保护；单进程部署下接受这个窗口
func (s *SyncService) StartScheduledSync() {
	interval := 30 * time.Minute
	if v := os.Getenv("SYNC_INTERVAL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		// 启动时立即执行一次
		log.Println("开始首次项目同步...")
		s.SyncAllProjects()
		log.Println("首次项目同步完成")

		// 然后按定时器执行
		for range ticker.C {
			log.Println("开始定时项目同步...")
			s.SyncAllProjects()
			log.Println("定时项目同步完成")
		}
	}()
}
