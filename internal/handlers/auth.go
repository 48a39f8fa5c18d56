package handlers

import (
	"net/http"
	"strings"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/services"
	"codefest/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService    *services.MailService
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService:    services.GetMailService(),
		captchaService: services.NewCaptchaService(),
	}
}

// Captcha 下发一道算术验证码，答案存在 session 里
func (h *AuthHandler) Captcha(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"captcha": question})
}

// createUser 创建新用户的通用函数
func (h *AuthHandler) createUser(githubID int64, username, email, password, name, avatar string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		GithubID: githubID,
		Username: username,
		Email:    email,
		Password: hash,
		Name:     name,
		Avatar:   avatar,
		Role:     models.RoleContributor,
		IsActive: true,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	GithubID int64  `json:"github_id" binding:"required"`
	Captcha  string `json:"captcha" binding:"required"`
}

// Register 密码注册，需要提供 GitHub 账号 ID 以便同步 PR
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整: "+err.Error())
		return
	}

	// Validate Captcha
	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(req.Captcha) != expectedAnswer {
		JSONError(c, http.StatusBadRequest, "验证码错误")
		return
	}
	// Clear captcha after use
	session.Delete("captcha_answer")
	session.Save()

	if len(req.Password) < 6 {
		JSONError(c, http.StatusBadRequest, "密码至少6位")
		return
	}
	if strings.ContainsAny(req.Username, " /\\") {
		JSONError(c, http.StatusBadRequest, "用户名不能包含空格或斜杠")
		return
	}

	user, err := h.createUser(req.GithubID, req.Username, req.Email, req.Password, "", "")
	if err != nil {
		// 唯一索引冲突：GithubID / 用户名 / 邮箱已占用
		JSONError(c, http.StatusConflict, "用户名、邮箱或 GitHub 账号已注册")
		return
	}

	h.mailService.SendWelcomeEmail(user.Email, user.Username)

	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "参数不完整")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		JSONError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		JSONError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	if !user.IsActive {
		JSONError(c, http.StatusForbidden, "账号已停用，无法登录")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, user)
}

// Logout 退出登录
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}
