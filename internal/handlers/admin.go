package handlers

import (
	"net/http"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// RecalculateStats - 全量重算积分、统计、徽章和名次
func (h *AdminHandler) RecalculateStats(c *gin.Context) {
	if err := services.RecalculateAllStats(); err != nil {
		JSONError(c, http.StatusInternalServerError, "重算失败: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "重算完成"})
}

// RecalculateLeaderboard - 只重排名次
func (h *AdminHandler) RecalculateLeaderboard(c *gin.Context) {
	if err := services.RecalculateLeaderboard(); err != nil {
		JSONError(c, http.StatusInternalServerError, "重排失败: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "重排完成"})
}

type adjustPointsRequest struct {
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustPoints - 调整用户奖励积分，每次调整都有流水 /api/admin/users/:id/points
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	actor := currentUser(c)

	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	if err := services.AdjustPoints(user.ID, req.Amount, req.Reason, actor.ID); err != nil {
		JSONError(c, http.StatusInternalServerError, "调整失败: "+err.Error())
		return
	}

	// 积分变化可能触发 points 类徽章和名次变化
	if _, err := services.EvaluateBadges(user.ID); err != nil {
		JSONError(c, http.StatusInternalServerError, "徽章评估失败: "+err.Error())
		return
	}
	if err := services.RecalculateLeaderboard(); err != nil {
		JSONError(c, http.StatusInternalServerError, "重排失败: "+err.Error())
		return
	}

	db.DB.First(&user, user.ID)
	c.JSON(http.StatusOK, user)
}

type grantBadgeRequest struct {
	BadgeID uint `json:"badge_id" binding:"required"`
}

// GrantBadge - 手动授予徽章（含 special 类型） /api/admin/users/:id/badges
func (h *AdminHandler) GrantBadge(c *gin.Context) {
	actor := currentUser(c)

	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	var req grantBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	badge, err := services.GrantBadge(user.ID, req.BadgeID, actor.ID)
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			JSONError(c, http.StatusConflict, "用户已持有该徽章")
			return
		}
		if err == gorm.ErrRecordNotFound {
			JSONError(c, http.StatusNotFound, "徽章不存在")
			return
		}
		JSONError(c, http.StatusInternalServerError, "授予失败: "+err.Error())
		return
	}

	if err := services.RecalculateLeaderboard(); err != nil {
		JSONError(c, http.StatusInternalServerError, "重排失败: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"badge": badge})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole - 设置用户角色
func (h *AdminHandler) SetRole(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	switch req.Role {
	case models.RoleContributor, models.RoleMentor, models.RoleAdmin:
	default:
		JSONError(c, http.StatusBadRequest, "无效的角色")
		return
	}

	if err := db.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "更新失败")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetActive - 停用/恢复用户，停用代替删除
func (h *AdminHandler) SetActive(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	if err := db.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "更新失败")
		return
	}

	// 停用用户退出排名，其余人名次顺延；恢复时重新入榜
	if err := services.RecalculateLeaderboard(); err != nil {
		JSONError(c, http.StatusInternalServerError, "重排失败: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListBadges - 徽章管理列表（含授予统计）
func (h *AdminHandler) ListBadges(c *gin.Context) {
	var badges []models.Badge
	db.DB.Order("id ASC").Find(&badges)
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
