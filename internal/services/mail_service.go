package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

var mailService *MailService

// GetMailService 获取邮件服务单例
func GetMailService() *MailService {
	if mailService == nil {
		mailService = NewMailService()
	}
	return mailService
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("⚠️ MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: CodeFest 组委会 <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("❌ Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("✅ Email sent to %v: %s", to, subject)
		}
	}()
}

// 邮件模板直接内置，避免依赖运行目录下的模板文件
var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: sans-serif; max-width: 560px;">
  <h2>欢迎加入 CodeFest 🎉</h2>
  <p>Hi {{.Username}}，你已成功报名本届编程活动。</p>
  <p>去认领一个项目，提交你的第一个 PR，赢取积分和徽章吧！</p>
</div>`))

var badgeTmpl = template.Must(template.New("badge").Parse(`
<div style="font-family: sans-serif; max-width: 560px;">
  <h2>{{.Icon}} 新徽章入账</h2>
  <p>Hi {{.Username}}，你获得了徽章「{{.BadgeName}}」！</p>
  {{if .Reward}}<p>奖励积分 +{{.Reward}}，已计入你的总分。</p>{{end}}
</div>`))

func (s *MailService) render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// SendWelcomeEmail 报名成功欢迎邮件
func (s *MailService) SendWelcomeEmail(email, username string) {
	body, err := s.render(welcomeTmpl, map[string]string{"Username": username})
	if err != nil {
		log.Printf("Error rendering welcome email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "欢迎加入 CodeFest", body)
}

// SendBadgeEmail 徽章授予通知邮件
func (s *MailService) SendBadgeEmail(email, username, badgeName, icon string, reward int) {
	body, err := s.render(badgeTmpl, map[string]interface{}{
		"Username":  username,
		"BadgeName": badgeName,
		"Icon":      icon,
		"Reward":    reward,
	})
	if err != nil {
		log.Printf("Error rendering badge email: %v", err)
		return
	}
	s.sendAsync([]string{email}, icon+" [新徽章] "+badgeName, body)
}
