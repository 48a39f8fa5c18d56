package models

import (
	"time"
)

// 徽章条件类型
const (
	CriteriaPRCount   = "pr_count"
	CriteriaMergedPRs = "merged_prs"
	CriteriaPoints    = "points"
	CriteriaStreak    = "streak"
	CriteriaSpecial   = "special" // 只能手动授予
)

// 稀有度
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

type Badge struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description  string `gorm:"size:200" json:"description"`
	Icon         string `gorm:"size:50" json:"icon"` // emoji
	Rarity       string `gorm:"size:20;default:'common'" json:"rarity"`
	CriteriaType string `gorm:"size:20;not null" json:"criteria_type"` // pr_count, merged_prs, points, streak, special
	Threshold    int    `gorm:"default:0" json:"threshold"`
	PointsReward int    `gorm:"default:0" json:"points_reward"` // 授予时计入 BonusPoints

	IsActive  bool `gorm:"default:true" json:"is_active"`
	AutoAward bool `gorm:"default:true" json:"auto_award"` // special 徽章为 false

	// 授予统计
	TimesAwarded  int        `gorm:"default:0" json:"times_awarded"`
	LastAwardedAt *time.Time `json:"last_awarded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserBadge 用户与徽章的授予关系，只增不删
type UserBadge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BadgeID     uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge       Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"badge"`
	AwardedByID *uint     `gorm:"index" json:"awarded_by_id"` // 手动授予时记录操作人
	AwardedAt   time.Time `json:"awarded_at"`
}
