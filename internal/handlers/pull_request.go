package handlers

import (
	"net/http"
	"time"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"

	"github.com/gin-gonic/gin"
)

type PullRequestHandler struct{}

func NewPullRequestHandler() *PullRequestHandler {
	return &PullRequestHandler{}
}

// ListByProject - 项目下的 PR 列表 /api/projects/:id/prs
func (h *PullRequestHandler) ListByProject(c *gin.Context) {
	var project models.Project
	if err := db.DB.First(&project, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	query := db.DB.Preload("User").Where("project_id = ?", project.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var prs []models.PullRequest
	query.Order("github_created_at DESC").Limit(200).Find(&prs)

	c.JSON(http.StatusOK, gin.H{"pull_requests": prs})
}

type submitPRRequest struct {
	ProjectID  uint   `json:"project_id" binding:"required"`
	GithubPRID int64  `json:"github_pr_id" binding:"required"`
	Number     int    `json:"number" binding:"required"`
	Title      string `json:"title" binding:"required"`
	URL        string `json:"url" binding:"required"`
}

// Submit - 手动补录一条自己的 PR，等下轮同步补全指标
func (h *PullRequestHandler) Submit(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}

	var req submitPRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整: "+err.Error())
		return
	}

	var project models.Project
	if err := db.DB.First(&project, req.ProjectID).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	now := time.Now()
	pr := models.PullRequest{
		GithubPRID:      req.GithubPRID,
		ProjectID:       project.ID,
		UserID:          user.ID,
		Number:          req.Number,
		Title:           req.Title,
		URL:             req.URL,
		Status:          models.PRStatusOpen,
		GithubCreatedAt: &now,
	}
	pr.Points = services.CalculatePoints(&pr)
	pr.PointsCalculatedAt = &now

	if err := db.DB.Create(&pr).Error; err != nil {
		JSONError(c, http.StatusConflict, "该 PR 已录入")
		return
	}

	// 统计和徽章走异步队列
	services.GetRankingService().ScheduleUpdate(user.ID)

	c.JSON(http.StatusCreated, pr)
}

type validateRequest struct {
	Status string `json:"status" binding:"required"` // approved, rejected, needs_changes
	Notes  string `json:"notes"`
}

// Validate - 导师/管理员审核 PR /api/prs/:id/validate
// 审核会改变积分，随后重算作者统计、徽章和名次
func (h *PullRequestHandler) Validate(c *gin.Context) {
	validator := currentUser(c)

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	switch req.Status {
	case models.ValidationApproved, models.ValidationRejected, models.ValidationNeedsChanges:
	default:
		JSONError(c, http.StatusBadRequest, "无效的审核结论")
		return
	}

	var pr models.PullRequest
	if err := db.DB.First(&pr, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "PR 不存在")
		return
	}

	now := time.Now()
	pr.IsValidated = true
	pr.ValidatedByID = &validator.ID
	pr.ValidatedAt = &now
	pr.ValidationStatus = req.Status
	pr.ValidationNotes = req.Notes

	// 审核结论参与积分计算，先重算再落库
	pr.Points = services.CalculatePoints(&pr)
	pr.PointsCalculatedAt = &now

	if err := db.DB.Save(&pr).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "保存审核结果失败")
		return
	}

	// 作者统计、徽章、名次走异步队列
	services.GetRankingService().ScheduleUpdate(pr.UserID)

	c.JSON(http.StatusOK, pr)
}
