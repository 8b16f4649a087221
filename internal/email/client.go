// Package email delivers the rendered report through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Client wraps the Resend API client. It is disabled when no API key is
// configured, in which case Send reports an error the caller may log.
type Client struct {
	client  *resend.Client
	enabled bool
}

func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return &Client{enabled: false}
	}
	return &Client{client: resend.NewClient(apiKey), enabled: true}
}

// IsEnabled reports whether the client holds a usable API key.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Message is one outbound email with a single binary attachment.
type Message struct {
	From           string
	To             []string
	Cc             []string
	ReplyTo        string
	Subject        string
	HTML           string
	AttachmentName string
	Attachment     []byte
}

// Send dispatches the message and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("email client is disabled")
	}

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if len(msg.Cc) > 0 {
		params.Cc = msg.Cc
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}
	if len(msg.Attachment) > 0 {
		params.Attachments = []*resend.Attachment{{
			Filename: msg.AttachmentName,
			Content:  msg.Attachment,
		}}
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}
