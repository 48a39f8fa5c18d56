package models

import (
	"time"
)

// PR 状态
const (
	PRStatusOpen   = "open"
	PRStatusClosed = "closed"
	PRStatusMerged = "merged"
	PRStatusDraft  = "draft"
)

// 审核结论
const (
	ValidationApproved     = "approved"
	ValidationRejected     = "rejected"
	ValidationNeedsChanges = "needs_changes"
)

// PullRequest 一条外部 PR 记录，(GithubPRID, ProjectID) 唯一
type PullRequest struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	GithubPRID int64   `gorm:"not null;uniqueIndex:idx_pr_project" json:"github_pr_id"` // GitHub 全局 PR ID
	ProjectID  uint    `gorm:"not null;index;uniqueIndex:idx_pr_project" json:"project_id"`
	Project    Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"project"`
	UserID     uint    `gorm:"not null;index" json:"user_id"`
	User       User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Number int    `gorm:"not null" json:"number"` // 仓库内编号
	Title  string `gorm:"not null" json:"title"`
	URL    string `json:"url"`
	Status string `gorm:"size:20;not null;index" json:"status"` // open, closed, merged, draft

	// 审核子记录
	IsValidated      bool       `gorm:"default:false" json:"is_validated"`
	ValidatedByID    *uint      `gorm:"index" json:"validated_by_id"`
	ValidatedBy      *User      `gorm:"foreignKey:ValidatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"validated_by,omitempty"`
	ValidatedAt      *time.Time `json:"validated_at"`
	ValidationStatus string     `gorm:"size:20" json:"validation_status"` // approved, rejected, needs_changes
	ValidationNotes  string     `gorm:"type:text" json:"validation_notes"`

	// Diff 指标，来自 PR 详情接口
	Additions    int `gorm:"default:0" json:"additions"`
	Deletions    int `gorm:"default:0" json:"deletions"`
	ChangedFiles int `gorm:"default:0" json:"changed_files"`
	Commits      int `gorm:"default:0" json:"commits"`

	Points             int        `gorm:"default:0" json:"points"` // CalculatePoints 的结果
	PointsCalculatedAt *time.Time `json:"points_calculated_at"`

	// GitHub 侧时间戳
	GithubCreatedAt *time.Time `json:"github_created_at"`
	GithubUpdatedAt *time.Time `json:"github_updated_at"`
	MergedAt        *time.Time `json:"merged_at"`
	ClosedAt        *time.Time `json:"closed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
