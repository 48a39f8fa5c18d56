package handlers

import (
	"log"
	"net/http"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"
	"codefest/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	syncService *services.SyncService
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{
		syncService: services.GetSyncService(),
	}
}

// List - 项目列表 /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	query := db.DB.Preload("Mentor").Where("is_active = ?", true)

	// 普通访问只看已审核项目，管理员可以带 all=1 看全部
	user := currentUser(c)
	if c.Query("all") != "1" || user == nil || user.Role != models.RoleAdmin {
		query = query.Where("is_approved = ?", true)
	}

	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var projects []models.Project
	query.Order("merged_prs DESC, total_prs DESC").Limit(200).Find(&projects)

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Detail - 项目详情 /api/projects/:id
func (h *ProjectHandler) Detail(c *gin.Context) {
	var project models.Project
	if err := db.DB.Preload("Mentor").First(&project, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":          project,
		"description_html": utils.RenderMarkdown(project.Description),
		"tags":             utils.SplitTags(project.Tags),
		"tech_stack":       utils.SplitTags(project.TechStack),
	})
}

// Activity - 项目最近提交动态 /api/projects/:id/activity
func (h *ProjectHandler) Activity(c *gin.Context) {
	var project models.Project
	if err := db.DB.First(&project, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	activities, err := services.GetActivityService().FetchCommitActivity(&project, 10)
	if err != nil {
		// 外部源失败时降级为空列表，不报 5xx
		log.Printf("拉取项目 %s 提交动态失败: %v", project.FullName(), err)
		c.JSON(http.StatusOK, gin.H{"activities": []services.CommitActivity{}, "degraded": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

type projectRequest struct {
	Owner       string `json:"owner" binding:"required"`
	Repo        string `json:"repo" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
	MentorID    *uint  `json:"mentor_id"`
	Difficulty  string `json:"difficulty"`
	Tags        string `json:"tags"`
	TechStack   string `json:"tech_stack"`
}

// Create - 登记项目（管理员）
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整: "+err.Error())
		return
	}

	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}

	if req.MentorID != nil {
		var mentor models.User
		if err := db.DB.First(&mentor, *req.MentorID).Error; err != nil {
			JSONError(c, http.StatusNotFound, "导师不存在")
			return
		}
	}

	project := models.Project{
		Owner:       req.Owner,
		Repo:        req.Repo,
		Name:        req.Name,
		Description: req.Description,
		Homepage:    req.Homepage,
		MentorID:    req.MentorID,
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
		TechStack:   req.TechStack,
		IsActive:    true,
		IsApproved:  false,
		SyncEnabled: true,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		JSONError(c, http.StatusConflict, "该仓库已登记")
		return
	}

	// 异步抓取主页摘要，失败不影响登记
	if project.Homepage != "" {
		go func(id uint, url string) {
			summary, err := services.GetCrawlerService().FetchSummary(url, 300)
			if err != nil {
				log.Printf("抓取项目主页摘要失败: %v", err)
				return
			}
			db.DB.Model(&models.Project{}).Where("id = ?", id).Update("summary", summary)
		}(project.ID, project.Homepage)
	}

	c.JSON(http.StatusCreated, project)
}

// Update - 更新项目信息（管理员）
func (h *ProjectHandler) Update(c *gin.Context) {
	var project models.Project
	if err := db.DB.First(&project, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Homepage    *string `json:"homepage"`
		MentorID    *uint   `json:"mentor_id"`
		Difficulty  *string `json:"difficulty"`
		Tags        *string `json:"tags"`
		TechStack   *string `json:"tech_stack"`
		IsActive    *bool   `json:"is_active"`
		IsApproved  *bool   `json:"is_approved"`
		SyncEnabled *bool   `json:"sync_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不合法")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Homepage != nil {
		updates["homepage"] = *req.Homepage
	}
	if req.MentorID != nil {
		updates["mentor_id"] = *req.MentorID
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.TechStack != nil {
		updates["tech_stack"] = *req.TechStack
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsApproved != nil {
		updates["is_approved"] = *req.IsApproved
	}
	if req.SyncEnabled != nil {
		updates["sync_enabled"] = *req.SyncEnabled
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "更新失败")
			return
		}
	}

	c.JSON(http.StatusOK, project)
}

// Sync - 手动触发单个项目同步（管理员）
func (h *ProjectHandler) Sync(c *gin.Context) {
	var project models.Project
	if err := db.DB.First(&project, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "项目不存在")
		return
	}

	if !project.Syncable() {
		JSONError(c, http.StatusBadRequest, "项目未审核或已停用，无法同步")
		return
	}

	result, err := h.syncService.SyncProject(&project)
	if err != nil {
		// 列表拉取失败，带上错误信息降级返回
		c.JSON(http.StatusBadGateway, gin.H{"result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// SyncAll - 手动触发全量同步（管理员）
func (h *ProjectHandler) SyncAll(c *gin.Context) {
	results := h.syncService.SyncAllProjects()
	c.JSON(http.StatusOK, gin.H{"results": results})
}
