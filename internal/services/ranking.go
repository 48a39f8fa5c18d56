package services

import (
	"log"
	"sync"
	"time"

	"codefest/internal/db"
	"codefest/internal/models"
)

// RankingService 异步重算用户统计并维护排行榜名次
type RankingService struct {
	queue   chan uint // 待重算的用户 ID 队列
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	rankingService *RankingService
	once           sync.Once
)

// GetRankingService 获取单例排名服务
func GetRankingService() *RankingService {
	once.Do(func() {
		rankingService = &RankingService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		// 启动后台 worker
		go rankingService.worker()
	})
	return rankingService
}

// ScheduleUpdate 将用户加入重算队列（异步）
// 使用去重机制避免短时间内重复计算同一用户
func (s *RankingService) ScheduleUpdate(userID uint) {
	s.mu.Lock()
	if s.pending[userID] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[userID] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- userID:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, userID)
		s.mu.Unlock()
		log.Printf("统计重算队列已满，跳过用户 %d", userID)
	}
}

// worker 后台处理队列中的重算请求，每批结束后统一重排名次
func (s *RankingService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case userID := <-s.queue:
			batch = append(batch, userID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

// processBatch 批量重算用户统计，最后全量重排名次
func (s *RankingService) processBatch(userIDs []uint) {
	for _, userID := range userIDs {
		if err := RecalculateUserStats(userID); err != nil {
			log.Printf("重算用户 %d 统计失败: %v", userID, err)
		}
		if _, err := EvaluateBadges(userID); err != nil {
			log.Printf("评估用户 %d 徽章失败: %v", userID, err)
		}

		s.mu.Lock()
		delete(s.pending, userID)
		s.mu.Unlock()
	}

	if err := RecalculateLeaderboard(); err != nil {
		log.Printf("重算排行榜失败: %v", err)
	}
}

// AssignRanks 按积分降序给活跃用户赋 1..N 的密集名次
// 平分时按 ID 升序（即插入顺序）决定先后
func AssignRanks(users []models.User) {
	for i := range users {
		users[i].Rank = i + 1
	}
}

// RecalculateLeaderboard 全量重排名次并写回
// 停用用户不参与排名，保留最后一次的名次
func RecalculateLeaderboard() error {
	var users []models.User
	if err := db.DB.Where("is_active = ?", true).
		Order("points DESC, id ASC").
		Find(&users).Error; err != nil {
		return err
	}

	AssignRanks(users)

	for i := range users {
		if err := db.DB.Model(&models.User{}).
			Where("id = ?", users[i].ID).
			UpdateColumn("rank", users[i].Rank).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecalculateAllStats 全量重算：每个 PR 的积分、每个用户的统计和徽章、名次
// 管理员手动触发，数据订正时使用
func RecalculateAllStats() error {
	var prs []models.PullRequest
	if err := db.DB.Find(&prs).Error; err != nil {
		return err
	}
	for i := range prs {
		if err := RecalculatePRPoints(&prs[i]); err != nil {
			log.Printf("重算 PR %d 积分失败: %v", prs[i].ID, err)
		}
	}

	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		if err := RecalculateUserStats(users[i].ID); err != nil {
			log.Printf("重算用户 %d 统计失败: %v", users[i].ID, err)
			continue
		}
		if _, err := EvaluateBadges(users[i].ID); err != nil {
			log.Printf("评估用户 %d 徽章失败: %v", users[i].ID, err)
		}
	}

	return RecalculateLeaderboard()
}
