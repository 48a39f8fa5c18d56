package handlers

import (
	"net/http"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"
	"codefest/internal/utils"

	"github.com/gin-gonic/gin"
)

// CardHandler 参会 ID 卡的签发与校验
// 卡片本身由前端绘制，这里只负责数据和校验密钥
type CardHandler struct{}

func NewCardHandler() *CardHandler {
	return &CardHandler{}
}

// Issue - 签发（或重新签发）当前用户的 ID 卡
// 每次签发代数 +1 并轮换校验密钥，旧卡随即失效
func (h *CardHandler) Issue(c *gin.Context) {
	user := requireCurrentUser(c)
	if user == nil {
		return
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "生成校验密钥失败")
		return
	}

	if err := db.DB.Model(user).Updates(map[string]interface{}{
		"card_generation": user.CardGeneration + 1,
		"card_key":        key,
	}).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "签发失败")
		return
	}

	user.Badges = services.GetUserBadges(user.ID)

	c.JSON(http.StatusOK, gin.H{
		"card": gin.H{
			"username":   user.Username,
			"name":       user.Name,
			"avatar":     user.Avatar,
			"role":       user.Role,
			"points":     user.Points,
			"rank":       user.Rank,
			"badges":     user.Badges,
			"generation": user.CardGeneration + 1,
		},
		"card_key":   key,
		"verify_url": "/api/cards/verify/" + key,
	})
}

// Verify - 公开校验接口，扫卡上的链接落到这里
func (h *CardHandler) Verify(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		JSONError(c, http.StatusBadRequest, "缺少校验密钥")
		return
	}

	var user models.User
	if err := db.DB.Where("card_key = ?", key).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": "卡片无效或已作废"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "账号已停用"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"username":   user.Username,
		"name":       user.Name,
		"role":       user.Role,
		"generation": user.CardGeneration,
	})
}
