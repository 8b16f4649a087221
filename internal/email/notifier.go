package email

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"pricing-report/internal/config"
	"pricing-report/internal/logger"
)

// filenameSeparators matches the characters replaced with underscores when
// the subject becomes an attachment filename.
var filenameSeparators = regexp.MustCompile(`[() /]`)

// Notifier composes the report email and sends it through the Client.
// It satisfies core.Notifier.
type Notifier struct {
	client *Client
	cfg    config.EmailConfig
	log    *logger.Logger
}

func NewNotifier(client *Client, cfg config.EmailConfig, log *logger.Logger) *Notifier {
	return &Notifier{client: client, cfg: cfg, log: log}
}

// Send emails the workbook to the configured recipients. The attachment is
// named after the subject with separators replaced by underscores.
func (n *Notifier) Send(ctx context.Context, subject, periodLabel string, attachment []byte) error {
	msg := Message{
		From:           n.cfg.Sender,
		To:             splitAddresses(n.cfg.Recipient),
		Cc:             splitAddresses(n.cfg.CC),
		ReplyTo:        n.cfg.ReplyTo,
		Subject:        subject,
		HTML:           n.body(periodLabel),
		AttachmentName: AttachmentName(subject),
		Attachment:     attachment,
	}

	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return err
	}
	n.log.Infow("email sent", "message_id", id, "to", msg.To, "subject", subject)
	return nil
}

// AttachmentName sanitizes the subject into an xlsx filename.
func AttachmentName(subject string) string {
	return filenameSeparators.ReplaceAllString(subject+".xlsx", "_")
}

// splitAddresses splits a comma separated address list, dropping empties.
func splitAddresses(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// body wraps the four text lines in the fixed 600px table layout.
func (n *Notifier) body(periodLabel string) string {
	lines := []string{
		"Hi,",
		fmt.Sprintf("Please find attached the PO vs SO Pricing Report for %s.", periodLabel),
		"Kind regards,",
		n.cfg.CompanyName,
	}

	var b strings.Builder
	b.WriteString(`<div style="background:#F0F0F0;color:#515166;padding:10px 0px;font-family:Arial,Helvetica,sans-serif;font-size:12px;">`)
	b.WriteString(`<table style="background-color:transparent;width:600px;margin:0px auto;background:white;border:1px solid #e1e1e1;"><tbody><tr>`)
	b.WriteString(`<td style="padding:15px 20px 10px 20px;">`)
	b.WriteString(fmt.Sprintf(`<p>%s</p><br/><p>%s</p><br/>`, html.EscapeString(lines[0]), html.EscapeString(lines[1])))
	b.WriteString(fmt.Sprintf(`<p style="padding-top:20px;">%s</p><p>%s</p>`, html.EscapeString(lines[2]), html.EscapeString(lines[3])))
	b.WriteString(`</td></tr></tbody></table></div>`)
	return b.String()
}
