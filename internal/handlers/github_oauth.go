package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"codefest/internal/db"
	"codefest/internal/models"
	"codefest/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var githubOauthConfig *oauth2.Config

// InitGithubOAuth 初始化 GitHub OAuth 配置
func InitGithubOAuth() {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	githubOauthConfig = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		RedirectURL:  siteURL + "/auth/github/callback",
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}
}

// GithubUserInfo GitHub 用户信息结构
type GithubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// GithubLogin 发起 GitHub OAuth 登录
func (h *AuthHandler) GithubLogin(c *gin.Context) {
	state, err := utils.GenerateRandomKey(32)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "生成状态令牌失败")
		return
	}

	// 将 state 存储到 session 中,用于验证回调
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := githubOauthConfig.AuthCodeURL(state)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GithubCallback 处理 GitHub OAuth 回调
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	// 验证 state 参数
	if savedState == nil || c.Query("state") != savedState.(string) {
		JSONError(c, http.StatusBadRequest, "无效的状态参数")
		return
	}

	// 清除 state
	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		JSONError(c, http.StatusBadRequest, "未获取到授权码")
		return
	}

	// 交换 token
	token, err := githubOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "获取访问令牌失败")
		return
	}

	// 获取用户信息
	userInfo, err := h.getGithubUserInfo(token.AccessToken)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "获取用户信息失败")
		return
	}

	// 查找用户(通过 GithubID)
	var user models.User
	err = db.DB.Where("github_id = ?", userInfo.ID).First(&user).Error

	if err != nil {
		// 新用户,自动注册；没有公开邮箱时用 noreply 地址兜底
		email := userInfo.Email
		if email == "" {
			email = fmt.Sprintf("%d+%s@users.noreply.github.com", userInfo.ID, userInfo.Login)
		}

		// 随机初始密码，用户可在设置中改成真实密码
		password, err := utils.GenerateRandomKey(24)
		if err != nil {
			JSONError(c, http.StatusInternalServerError, "创建用户失败")
			return
		}

		newUser, err := h.createUser(userInfo.ID, userInfo.Login, email, password, userInfo.Name, userInfo.AvatarURL)
		if err != nil {
			JSONError(c, http.StatusConflict, "创建用户失败，用户名或邮箱已被占用")
			return
		}
		if userInfo.Bio != "" {
			newUser.Bio = userInfo.Bio
			db.DB.Save(newUser)
		}

		h.mailService.SendWelcomeEmail(newUser.Email, newUser.Username)
		user = *newUser
	} else {
		// 老用户，刷新头像和姓名
		if userInfo.AvatarURL != "" && userInfo.AvatarURL != user.Avatar {
			user.Avatar = userInfo.AvatarURL
			db.DB.Save(&user)
		}

		if !user.IsActive {
			JSONError(c, http.StatusForbidden, "账号已停用，无法登录")
			return
		}
	}

	// 登录
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// getGithubUserInfo 获取 GitHub 用户信息
func (h *AuthHandler) getGithubUserInfo(accessToken string) (*GithubUserInfo, error) {
	req, err := http.NewRequest("GET", "https://api.github.com/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取用户信息失败: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var userInfo GithubUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
