package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBarkURL = "https://api.day.app"

// Bark pushes to a device through a Bark server with a single GET:
// <base>/<key>/<title>/<body>?icon=...&isArchive=1&sound=...
type Bark struct {
	BaseURL    string
	Key        string
	Sound      string
	Icon       string
	Archive    bool
	HTTPClient *http.Client
}

func (b *Bark) Name() string { return "bark" }

// URL builds the request URL for msg. Title and body are separate path
// segments, each percent-encoded.
func (b *Bark) URL(msg Message) string {
	base := strings.TrimRight(b.BaseURL, "/")
	if base == "" {
		base = DefaultBarkURL
	}

	var u strings.Builder
	u.WriteString(base)
	u.WriteString("/" + url.PathEscape(b.Key))
	u.WriteString("/" + url.PathEscape(msg.Title))
	u.WriteString("/" + url.PathEscape(msg.Body))

	query := url.Values{}
	if b.Archive {
		query.Set("isArchive", "1")
	}
	if b.Sound != "" {
		query.Set("sound", b.Sound)
	}
	if b.Icon != "" {
		query.Set("icon", b.Icon)
	}
	if len(query) > 0 {
		u.WriteString("?" + query.Encode())
	}
	return u.String()
}

func (b *Bark) Send(ctx context.Context, msg Message) error {
	if b.Key == "" {
		return fmt.Errorf("bark key is empty")
	}
	client := b.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL(msg), nil)
	if err != nil {
		return fmt.Errorf("failed to create bark request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("bark request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bark returned status %d", resp.StatusCode)
	}
	return nil
}
