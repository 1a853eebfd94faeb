package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/models"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier mails new inquiries to the site operator.
type EmailNotifier struct {
	cfg  config.EmailConfig
	send sendFunc
}

// NewEmailNotifier returns nil when SMTP host or recipient is not configured.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	if cfg.Host == "" || cfg.NotifyTo == "" {
		return nil
	}
	n := &EmailNotifier{cfg: cfg}
	if cfg.UseTLS {
		n.send = n.sendMailTLS
	} else {
		n.send = smtp.SendMail
	}
	return n
}

var inquiryTemplate = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>New {{.Inquiry.InquiryType}} inquiry ({{.Inquiry.Urgency}} urgency)</h2>
        <p><strong>{{.Inquiry.Subject}}</strong></p>
        <div style="background-color: #f4f4f4; padding: 16px; border-radius: 5px; white-space: pre-wrap;">{{.Inquiry.Message}}</div>
        <table style="margin-top: 20px;">
            <tr><td>Name</td><td>{{.Inquiry.FirstName}} {{.Inquiry.LastName}}</td></tr>
            <tr><td>Email</td><td>{{.Inquiry.Email}}</td></tr>
            <tr><td>Phone</td><td>{{.Inquiry.Phone}}</td></tr>
            <tr><td>Preferred contact</td><td>{{.Inquiry.PreferredContact}}, {{.Inquiry.FollowUpPreference}} ({{.Inquiry.Timezone}})</td></tr>
            {{- if .Inquiry.CompanyName}}
            <tr><td>Company</td><td>{{.Inquiry.CompanyName}}{{if .Inquiry.JobTitle}} / {{.Inquiry.JobTitle}}{{end}}</td></tr>
            {{- end}}
            {{- if .Inquiry.Website}}
            <tr><td>Website</td><td>{{.Inquiry.Website}}</td></tr>
            {{- end}}
            {{- if .Inquiry.Budget}}
            <tr><td>Budget</td><td>{{.Inquiry.Budget}}</td></tr>
            {{- end}}
            {{- if .Inquiry.Timeline}}
            <tr><td>Timeline</td><td>{{.Inquiry.Timeline}}</td></tr>
            {{- end}}
        </table>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">
            Inquiry {{.Inquiry.ID}} received {{.Received}} from {{.Inquiry.IPAddress}}.<br>
            This message was sent automatically by {{.SiteName}}.
        </p>
    </div>
</body>
</html>
`))

// InquirySubmitted sends one notification mail for inq.
func (n *EmailNotifier) InquirySubmitted(ctx context.Context, inq *models.Inquiry) error {
	var body bytes.Buffer
	err := inquiryTemplate.Execute(&body, struct {
		Inquiry  *models.Inquiry
		Received string
		SiteName string
	}{inq, inq.CreatedAt.UTC().Format(time.RFC1123), n.cfg.SiteName})
	if err != nil {
		return fmt.Errorf("render inquiry mail: %w", err)
	}

	subject := fmt.Sprintf("[%s] New inquiry: %s", n.cfg.SiteName, headerSafe(inq.Subject))
	return n.sendEmail(ctx, n.cfg.NotifyTo, subject, body.String(), inq.Email)
}

// headerSafe strips CR/LF so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func (n *EmailNotifier) sendEmail(ctx context.Context, to, subject, body, replyTo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// 인증 계정과 발신자가 같아야 하는 서버가 있어 envelope sender는 인증 계정 사용
	from := n.cfg.User
	if from == "" {
		from = n.cfg.From
	}
	displayFrom := from
	if n.cfg.From != "" {
		displayFrom = fmt.Sprintf("%s <%s>", n.cfg.SiteName, n.cfg.From)
	}

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	headers := [][2]string{
		{"From", displayFrom},
		{"To", to},
		{"Reply-To", headerSafe(replyTo)},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
		{"Content-Transfer-Encoding", "8bit"},
	}
	var msg strings.Builder
	for _, h := range headers {
		if h[1] == "" {
			continue
		}
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprint(n.cfg.Port))
	return n.send(addr, auth, from, []string{to}, []byte(msg.String()))
}

// sendMailTLS connects in plain TCP and upgrades with STARTTLS.
func (n *EmailNotifier) sendMailTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid smtp address: %w", err)
	}
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}
