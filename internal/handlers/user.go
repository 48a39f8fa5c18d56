package handlers

import (
	"net/http"
	"time"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"
	"codefest/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile - 用户主页 /api/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	user.Badges = services.GetUserBadges(user.ID)

	// 最近的 PR
	var prs []models.PullRequest
	db.DB.Preload("Project").
		Where("user_id = ?", user.ID).
		Order("github_created_at DESC").
		Limit(50).
		Find(&prs)

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"bio_html":      utils.RenderMarkdown(user.Bio),
		"pull_requests": prs,
	})
}

// Me - 当前登录用户
func (h *UserHandler) Me(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}
	user.Badges = services.GetUserBadges(user.ID)
	c.JSON(http.StatusOK, user)
}

// PointLogs - 当前用户的奖励积分流水
func (h *UserHandler) PointLogs(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}

	var logs []models.PointLog
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&logs)

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// Leaderboard - 排行榜，带 60 秒缓存
func (h *UserHandler) Leaderboard(c *gin.Context) {
	const cacheKey = "leaderboard"

	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var users []models.User
	db.DB.Where("is_active = ? AND rank > 0", true).
		Order("rank ASC").
		Limit(100).
		Find(&users)

	entries := make([]gin.H, 0, len(users))
	for i := range users {
		entries = append(entries, gin.H{
			"rank":       users[i].Rank,
			"user_id":    users[i].ID,
			"username":   users[i].Username,
			"avatar":     users[i].Avatar,
			"points":     users[i].Points,
			"total_prs":  users[i].TotalPRs,
			"merged_prs": users[i].MergedPRs,
		})
	}

	payload := gin.H{"leaderboard": entries, "generated_at": time.Now()}
	utils.GetCache().Set(cacheKey, payload, 60*time.Second)

	c.JSON(http.StatusOK, payload)
}

type settingsRequest struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateSettings - 更新个人设置
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" && req.Name != user.Name {
		updates["name"] = req.Name
	}
	if req.Bio != user.Bio {
		updates["bio"] = req.Bio
	}

	// 如果要修改密码
	if req.OldPassword != "" && req.NewPassword != "" {
		if !utils.CheckPasswordHash(req.OldPassword, user.Password) {
			JSONError(c, http.StatusBadRequest, "原密码错误")
			return
		}
		if len(req.NewPassword) < 6 {
			JSONError(c, http.StatusBadRequest, "新密码至少6位")
			return
		}

		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			JSONError(c, http.StatusInternalServerError, "系统错误")
			return
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := db.DB.Model(user).Updates(updates).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "更新失败")
			return
		}
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar - 上传头像，印在个人主页和 ID 卡上
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		JSONError(c, http.StatusBadRequest, "未选择文件")
		return
	}
	defer file.Close()

	result, err := services.UploadAvatar(file, header)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "上传失败: "+err.Error())
		return
	}

	if err := db.DB.Model(user).Update("avatar", result.URL).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "保存头像失败")
		return
	}

	c.JSON(http.StatusOK, result)
}
