package mail

import (
	"TrendPulse/internal/api/config"
	"fmt"
	log "log/slog"
	"net/smtp"
	"strings"
)

// SendHTML 通过配置的 SMTP 服务发送一封 HTML 邮件
func SendHTML(to string, subject string, htmlBody string) error {
	cfg := config.Cfg.SMTP

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	var msg strings.Builder
	msg.WriteString("From: " + cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// BuildAlertHTML 渲染告警通知邮件正文
func BuildAlertHTML(title string, message string, metrics map[string]string) string {
	var rows strings.Builder
	for label, value := range metrics {
		rows.WriteString(fmt.Sprintf(
			`<div style="background:#fff;padding:15px;border-radius:8px;margin-bottom:10px;">
				<div style="font-size:12px;color:#6b7280;">%s</div>
				<div style="font-size:24px;font-weight:bold;color:#1f2937;">%s</div>
			</div>`, label, value))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;">
    <div style="max-width:600px;margin:0 auto;padding:20px;">
      <div style="background:linear-gradient(135deg,#667eea 0%%,#764ba2 100%%);color:white;padding:30px;border-radius:10px 10px 0 0;">
        <h1 style="margin:0;">%s</h1>
      </div>
      <div style="background:#f9fafb;padding:30px;border-radius:0 0 10px 10px;">
        <p>%s</p>
        %s
      </div>
      <div style="text-align:center;margin-top:30px;color:#6b7280;font-size:12px;">
        TrendPulse · automated trend alert
      </div>
    </div>
  </body>
</html>`, title, message, rows.String())
}
