package services

import (
	"time"

	"codefest/internal/db"
	"codefest/internal/models"

	"gorm.io/gorm"
)

// 积分动作常量
const (
	ActionBadgeAwarded = "获得徽章"
	ActionAdminAdjust  = "管理员调整"
)

// PR 积分规则常量，修改前先确认排行榜兼容性
const (
	PointsMerged = 10
	PointsOpen   = 5
	PointsClosed = 2
	PointsDraft  = 0

	SizeBonusSmall      = 3 // 变更行数 > 100
	SizeBonusLarge      = 5 // 变更行数 > 500，与上一项叠加
	FileCountBonus      = 2 // 变更文件数 > 5
	ValidationBonus     = 5 // 审核通过
	SizeBonusThreshold  = 100
	LargeBonusThreshold = 500
	FileCountThreshold  = 5
)

// CalculatePoints 根据 PR 状态、diff 指标和审核结论计算积分
// 纯函数，不落库；调用方负责写回 Points 和 PointsCalculatedAt
func CalculatePoints(pr *models.PullRequest) int {
	points := 0

	switch pr.Status {
	case models.PRStatusMerged:
		points = PointsMerged
	case models.PRStatusOpen:
		points = PointsOpen
	case models.PRStatusClosed:
		points = PointsClosed
	default:
		points = PointsDraft
	}

	// 规模加成，两档独立叠加
	changes := pr.Additions + pr.Deletions
	if changes > SizeBonusThreshold {
		points += SizeBonusSmall
	}
	if changes > LargeBonusThreshold {
		points += SizeBonusLarge
	}

	if pr.ChangedFiles > FileCountThreshold {
		points += FileCountBonus
	}

	if pr.IsValidated && pr.ValidationStatus == models.ValidationApproved {
		points += ValidationBonus
	}

	if points < 0 {
		points = 0
	}
	return points
}

// RecalculatePRPoints 重算单个 PR 的积分并写回
func RecalculatePRPoints(pr *models.PullRequest) error {
	pr.Points = CalculatePoints(pr)
	now := time.Now()
	pr.PointsCalculatedAt = &now
	return db.DB.Model(pr).Updates(map[string]interface{}{
		"points":               pr.Points,
		"points_calculated_at": pr.PointsCalculatedAt,
	}).Error
}

// RecalculateUserStats 重算用户统计：PR 数、合并数、总积分
// 总积分 = max(0, 所有 PR 积分之和) + BonusPoints
func RecalculateUserStats(userID uint) error {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return err
	}

	var totalPRs, mergedPRs int64
	db.DB.Model(&models.PullRequest{}).Where("user_id = ?", userID).Count(&totalPRs)
	db.DB.Model(&models.PullRequest{}).Where("user_id = ? AND status = ?", userID, models.PRStatusMerged).Count(&mergedPRs)

	var prPoints int64
	db.DB.Model(&models.PullRequest{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").Scan(&prPoints)
	if prPoints < 0 {
		prPoints = 0
	}

	return db.DB.Model(&user).Updates(map[string]interface{}{
		"total_prs":  int(totalPRs),
		"merged_prs": int(mergedPRs),
		"points":     int(prPoints) + user.BonusPoints,
	}).Error
}

// AddBonusPoints 使用事务调整奖励积分并记录流水
// 传入用户ID、积分变动值（正数增加，负数扣除）、动作描述和操作人
func AddBonusPoints(userID uint, amount int, action string, actorID *uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 创建积分流水
		entry := models.PointLog{
			UserID:  userID,
			Amount:  amount,
			Action:  action,
			ActorID: actorID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 2. 更新用户奖励积分余额
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("bonus_points", gorm.Expr("bonus_points + ?", amount)).
			Error; err != nil {
			return err
		}

		return nil
	})
}

// AdjustPoints 管理员调整积分：写流水、更新余额、重算总积分
func AdjustPoints(userID uint, amount int, reason string, actorID uint) error {
	action := ActionAdminAdjust
	if reason != "" {
		action = ActionAdminAdjust + ": " + reason
	}
	if err := AddBonusPoints(userID, amount, action, &actorID); err != nil {
		return err
	}
	return RecalculateUserStats(userID)
}
