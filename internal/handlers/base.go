package handlers

import (
	"net/http"

	"codefest/internal/middleware"
	"codefest/internal/models"

	"github.com/gin-gonic/gin"
)

// JSONError 统一的错误响应
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// currentUser 从 gin 上下文取出 LoadUser 放入的当前用户
func currentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// requireCurrentUser 取当前用户，未登录时直接写 401
func requireCurrentUser(c *gin.Context) *models.User {
	user := currentUser(c)
	if user == nil {
		JSONError(c, http.StatusUnauthorized, "请先登录")
	}
	return user
}
