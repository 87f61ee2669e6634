package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"usersvc/internal/mailer"
)

// Sender delivers a prepared message through the mail relay.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// InviteConfig fixes everything about the invite except the file contents.
type InviteConfig struct {
	FromAddress    string
	FromName       string
	Recipients     []string
	Subject        string
	TemplatePath   string
	AttachmentPath string
}

// InviteService sends the documentation review invite.
type InviteService struct {
	sender Sender
	cfg    InviteConfig
}

// NewInviteService creates a new InviteService.
func NewInviteService(sender Sender, cfg InviteConfig) *InviteService {
	return &InviteService{
		sender: sender,
		cfg:    cfg,
	}
}

// SendInvite reads the template and attachment from disk and hands the
// message to the relay. Files are read on every call.
func (s *InviteService) SendInvite(ctx context.Context) error {
	body, err := os.ReadFile(s.cfg.TemplatePath)
	if err != nil {
		return &AssetError{Path: s.cfg.TemplatePath, Err: err}
	}
	attachment, err := os.ReadFile(s.cfg.AttachmentPath)
	if err != nil {
		return &AssetError{Path: s.cfg.AttachmentPath, Err: err}
	}
	if len(s.cfg.Recipients) == 0 {
		return &DependencyError{Op: "send invite", Err: errors.New("no recipients configured")}
	}

	msg := mailer.Message{
		FromAddress: s.cfg.FromAddress,
		FromName:    s.cfg.FromName,
		To:          s.cfg.Recipients,
		Subject:     s.cfg.Subject,
		HTMLBody:    string(body),
		Attachment: mailer.Attachment{
			Filename: filepath.Base(s.cfg.AttachmentPath),
			Content:  attachment,
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return &DependencyError{Op: "send invite", Err: err}
	}
	return nil
}
