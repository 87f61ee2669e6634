package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/config"
	"usersvc/internal/database"
	"usersvc/internal/models"
)

// recordingPublisher captures events published by the wired app.
type recordingPublisher struct {
	events []models.UserEvent
}

func (p *recordingPublisher) PublishUserEvent(event models.UserEvent) error {
	p.events = append(p.events, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort: ":0",
		Store:   config.StoreCredentials{Driver: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		SMTP:    config.SMTPConfig{Host: "127.0.0.1", Port: 1, SenderEmail: "sender@example.com", SenderName: "Unified API Team"},
		Invite: config.InviteConfig{
			Recipients:     []string{"reviewer@example.com"},
			Subject:        "Invitation to Review Unified API Documentation",
			TemplatePath:   "templates/email_template.html",
			AttachmentPath: "resources/invite_attachment.png",
		},
	}
}

func TestNewApp_Wiring(t *testing.T) {
	cfg := testConfig()
	db, err := database.Open(context.Background(), cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	publisher := &recordingPublisher{}
	app := newApp(db, cfg, publisher, zerolog.New(io.Discard))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := json.Marshal(map[string]interface{}{
		"username": "alice", "email": "alice@example.com", "gender": "female", "project_id": 1,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.UserCreated, publisher.events[0].Type)
}

func TestNewApp_InviteRelayUnreachable(t *testing.T) {
	cfg := testConfig()
	db, err := database.Open(context.Background(), cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	app := newApp(db, cfg, nil, zerolog.New(io.Discard))

	// The bundled assets are readable; the relay on port 1 is not.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/send_invite", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
