package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRenderOTP(t *testing.T) {
	t.Parallel()

	body, err := renderOTP("042917", 10)
	require.NoError(t, err)
	assert.Contains(t, body, ">042917<")
	assert.Contains(t, body, "valid for 10 minutes")
}

func TestRenderBooking_EscapesInput(t *testing.T) {
	t.Parallel()

	body, err := renderBooking(Booking{UserName: "<b>Ravi</b>", HostelName: "Sunshine Hostel", Price: 6500})
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;b&gt;Ravi&lt;/b&gt;")
	assert.Contains(t, body, "6500")
	assert.NotContains(t, body, "Location:")
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg := buildMessage(`"HostelWala Support" <noreply@hostel.com>`, "a@x.com", otpSubject, "<p>hi</p>")
	head, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, head, "To: a@x.com")
	assert.Contains(t, head, "Subject: "+otpSubject)
	assert.Contains(t, head, "Content-Type: text/html; charset=utf-8")
	assert.Equal(t, "<p>hi</p>", body)
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "noreply@hostel.com", parseAddress(`HostelWala <noreply@hostel.com>`))
	assert.Equal(t, "noreply@hostel.com", parseAddress(" noreply@hostel.com "))
}

func TestNewSMTPSender_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSMTPSender(Config{Username: "bot@hostel.com"})
	assert.Equal(t, "bot@hostel.com", parseAddress(s.cfg.From))
	assert.Equal(t, 10, s.cfg.OTPMinutes)
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	s := &LogSender{Logger: zap.New(core)}
	require.NoError(t, s.SendOTP(context.Background(), "a@x.com", "123456"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "123456", entries[0].ContextMap()["otp"])
}

func TestSessionDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(sessionTimeout), sessionDeadline(context.Background(), now),
		"a context without deadline still bounds the session")

	ctx, cancel := context.WithDeadline(context.Background(), now.Add(5*time.Second))
	defer cancel()
	assert.Equal(t, now.Add(5*time.Second), sessionDeadline(ctx, now))
}
