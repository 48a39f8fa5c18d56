package models

import (
	"time"
)

// 项目难度
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Project 活动中登记的 GitHub 仓库
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Owner       string `gorm:"size:100;not null;uniqueIndex:idx_owner_repo" json:"owner"`
	Repo        string `gorm:"size:100;not null;uniqueIndex:idx_owner_repo" json:"repo"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"` // Markdown，展示时渲染
	Homepage    string `json:"homepage"`                     // 项目主页，可为空
	Summary     string `gorm:"type:text" json:"summary"`     // 主页摘要，登记时抓取

	MentorID *uint `gorm:"index" json:"mentor_id"`
	Mentor   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"mentor,omitempty"`

	Difficulty string `gorm:"size:20;default:'medium'" json:"difficulty"` // easy, medium, hard
	Tags       string `gorm:"size:200" json:"tags"`                       // 逗号分隔
	TechStack  string `gorm:"size:200" json:"tech_stack"`                 // 逗号分隔

	// 聚合统计，由 SyncService 维护
	TotalPRs     int `gorm:"default:0" json:"total_prs"`
	MergedPRs    int `gorm:"default:0" json:"merged_prs"`
	Contributors int `gorm:"default:0" json:"contributors"` // 去重后的贡献者数

	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsApproved  bool       `gorm:"default:false" json:"is_approved"` // 管理员审核后才参与同步
	SyncEnabled bool       `gorm:"default:true" json:"sync_enabled"`
	LastSyncAt  *time.Time `json:"last_sync_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Syncable 判断项目是否参与定时同步
func (p *Project) Syncable() bool {
	return p.IsActive && p.IsApproved && p.SyncEnabled
}

// FullName owner/repo 形式的仓库名
func (p *Project) FullName() string {
	return p.Owner + "/" + p.Repo
}
