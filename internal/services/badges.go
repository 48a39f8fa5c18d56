package services

import (
	"log"
	"time"

	"codefest/internal/db"
	"codefest/internal/models"

	"gorm.io/gorm"
)

// Qualifies 判断用户当前统计是否满足徽章条件
// recentPRs 为最近 Threshold 天内创建的 PR 数，只对 streak 类型有意义
func Qualifies(badge *models.Badge, user *models.User, recentPRs int) bool {
	switch badge.CriteriaType {
	case models.CriteriaPRCount:
		return user.TotalPRs >= badge.Threshold
	case models.CriteriaMergedPRs:
		return user.MergedPRs >= badge.Threshold
	case models.CriteriaPoints:
		return user.Points >= badge.Threshold
	case models.CriteriaStreak:
		// 简化版冲刺：最近 N 天内 N 个 PR，不检查连续天数
		return recentPRs >= badge.Threshold
	default:
		// special 等类型不自动授予
		return false
	}
}

// EvaluateBadges 对用户评估所有可自动授予的徽章，返回新授予的徽章
// 可重复调用：已持有的徽章不会重复授予，奖励积分也不会重复累计
func EvaluateBadges(userID uint) ([]models.Badge, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var badges []models.Badge
	if err := db.DB.Where("is_active = ? AND auto_award = ?", true, true).Find(&badges).Error; err != nil {
		return nil, err
	}

	// 已持有的徽章集合
	var held []models.UserBadge
	db.DB.Where("user_id = ?", userID).Find(&held)
	heldSet := make(map[uint]bool, len(held))
	for _, ub := range held {
		heldSet[ub.BadgeID] = true
	}

	awarded := make([]models.Badge, 0)
	for i := range badges {
		badge := &badges[i]
		if heldSet[badge.ID] {
			continue
		}

		recentPRs := 0
		if badge.CriteriaType == models.CriteriaStreak && badge.Threshold > 0 {
			recentPRs = countRecentPRs(userID, badge.Threshold)
		}

		if !Qualifies(badge, &user, recentPRs) {
			continue
		}

		if err := awardBadge(&user, badge, nil); err != nil {
			log.Printf("授予徽章 %s 给用户 %d 失败: %v", badge.Name, userID, err)
			continue
		}
		awarded = append(awarded, *badge)

		// 奖励积分可能让用户满足 points 类徽章，刷新内存中的统计
		db.DB.First(&user, userID)
	}

	return awarded, nil
}

// GrantBadge 手动授予徽章（含 special 类型），重复授予返回错误
func GrantBadge(userID, badgeID uint, actorID uint) (*models.Badge, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	var badge models.Badge
	if err := db.DB.First(&badge, badgeID).Error; err != nil {
		return nil, err
	}

	var count int64
	db.DB.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", userID, badgeID).Count(&count)
	if count > 0 {
		return nil, gorm.ErrDuplicatedKey
	}

	if err := awardBadge(&user, &badge, &actorID); err != nil {
		return nil, err
	}
	return &badge, nil
}

// awardBadge 授予流程：关联记录 + 奖励积分流水 + 重算统计 + 徽章授予计数
// (user_id, badge_id) 唯一索引兜底并发下的重复授予
func awardBadge(user *models.User, badge *models.Badge, actorID *uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		ub := models.UserBadge{
			UserID:      user.ID,
			BadgeID:     badge.ID,
			AwardedByID: actorID,
			AwardedAt:   time.Now(),
		}
		if err := tx.Create(&ub).Error; err != nil {
			return err
		}

		if badge.PointsReward != 0 {
			entry := models.PointLog{
				UserID:  user.ID,
				Amount:  badge.PointsReward,
				Action:  ActionBadgeAwarded + ": " + badge.Name,
				ActorID: actorID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).
				Where("id = ?", user.ID).
				UpdateColumn("bonus_points", gorm.Expr("bonus_points + ?", badge.PointsReward)).
				Error; err != nil {
				return err
			}
		}

		// 徽章侧授予统计
		now := time.Now()
		return tx.Model(badge).Updates(map[string]interface{}{
			"times_awarded":   gorm.Expr("times_awarded + 1"),
			"last_awarded_at": &now,
		}).Error
	})
	if err != nil {
		return err
	}

	if err := RecalculateUserStats(user.ID); err != nil {
		return err
	}

	// 邮件通知异步发送，失败不影响授予
	GetMailService().SendBadgeEmail(user.Email, user.Username, badge.Name, badge.Icon, badge.PointsReward)
	return nil
}

// GetUserBadges 查询用户持有的徽章列表
func GetUserBadges(userID uint) []models.Badge {
	var records []models.UserBadge
	db.DB.Preload("Badge").Where("user_id = ?", userID).Order("awarded_at ASC").Find(&records)

	badges := make([]models.Badge, 0, len(records))
	for _, ub := range records {
		badges = append(badges, ub.Badge)
	}
	return badges
}

// countRecentPRs 统计最近 days 天内创建的 PR 数（按 GitHub 创建时间）
func countRecentPRs(userID uint, days int) int {
	since := time.Now().AddDate(0, 0, -days)
	var count int64
	db.DB.Model(&models.PullRequest{}).
		Where("user_id = ? AND github_created_at >= ?", userID, since).
		Count(&count)
	return int(count)
}
