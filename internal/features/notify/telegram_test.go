package notify

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func botResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestTelegramSendText(t *testing.T) {
	var sent map[string]string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			return botResponse(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"fdf","username":"fdf_bot"}}`), nil
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			require.NoError(t, r.ParseForm())
			sent = map[string]string{
				"chat_id":    r.PostForm.Get("chat_id"),
				"text":       r.PostForm.Get("text"),
				"parse_mode": r.PostForm.Get("parse_mode"),
			}
			return botResponse(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`), nil
		}
		return botResponse(`{"ok":false,"error_code":404,"description":"Not Found"}`), nil
	})}

	bot, err := tgbotapi.NewBotAPIWithClient("TOKEN", tgbotapi.APIEndpoint, client)
	require.NoError(t, err)

	tg := NewTelegram(bot, 42)
	msg := BuildMessage("mz", sampleRecord(), nil)
	require.NoError(t, tg.Send(context.Background(), msg))

	assert.Equal(t, "42", sent["chat_id"])
	assert.Equal(t, "HTML", sent["parse_mode"])
	assert.Equal(t, FormatHTML(msg), sent["text"])
}

func TestTelegramSendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tg := NewTelegram(nil, 42)
	assert.Error(t, tg.Send(ctx, Message{}))
}
