package models

import (
	"time"
)

// 用户角色
const (
	RoleContributor = "contributor"
	RoleMentor      = "mentor"
	RoleAdmin       = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GithubID int64  `gorm:"uniqueIndex;not null" json:"github_id"` // GitHub 账号 ID
	Username string `gorm:"uniqueIndex;not null" json:"username"`  // GitHub login
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // Hash，OAuth 用户为随机密码
	Name     string `gorm:"size:100" json:"name"`
	Avatar   string `json:"avatar"`
	Bio      string `gorm:"size:200" json:"bio"`
	Role     string `gorm:"size:20;default:'contributor';not null" json:"role"` // contributor, mentor, admin

	// 统计字段，由 RecalculateUserStats 维护
	TotalPRs    int `gorm:"default:0" json:"total_prs"`
	MergedPRs   int `gorm:"default:0" json:"merged_prs"`
	Points      int `gorm:"default:0" json:"points"`       // 总积分 = max(0, PR 积分之和) + BonusPoints
	BonusPoints int `gorm:"default:0" json:"bonus_points"` // 徽章奖励 + 管理员调整，只通过 PointLog 变动
	Rank        int `gorm:"default:0" json:"rank"`         // 排行榜名次，0 表示未上榜

	IsActive bool `gorm:"default:true" json:"is_active"` // 停用代替删除

	// ID 卡
	CardGeneration int     `gorm:"default:0" json:"card_generation"` // 每次重新签发 +1
	CardKey        *string `gorm:"uniqueIndex" json:"-"`             // 卡片校验密钥，未签发时为空

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，查询时填充
	Badges []Badge `gorm:"-" json:"badges,omitempty"`
}
