// Package telegram posts catalog announcements through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebook/internal/recipe"
)

// ErrMisconfigured is returned when the bot token or chat id is missing.
var ErrMisconfigured = errors.New("telegram notifier misconfigured")

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends messages to a Telegram chat via the bot API.
type Notifier struct {
	botToken string
	chatID   string
	appURL   string
	apiBase  string
	client   *http.Client
}

// NewNotifier creates a Notifier. appURL, when set, is the mini app link
// that recipe ids are appended to.
func NewNotifier(botToken, chatID, appURL string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		appURL:   strings.TrimRight(appURL, "/"),
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithAPIBase points the notifier at another Bot API host.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// PublishDailyPick announces the recipe of the day.
func (n *Notifier) PublishDailyPick(ctx context.Context, r recipe.Recipe) error {
	return n.send(ctx, DailyMessage(r, n.appURL))
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return ErrMisconfigured
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("telegram error: %s: decode response: %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || !body.OK {
		if body.Description != "" {
			return fmt.Errorf("telegram error: %s: %s", resp.Status, body.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status)
	}
	return nil
}

// DailyMessage renders the daily announcement as Telegram HTML.
func DailyMessage(r recipe.Recipe, appURL string) string {
	var b strings.Builder
	b.WriteString("⭐ <b>Рецепт дня</b>\n\n")
	b.WriteString("<b>" + escapeHTML(r.Title) + "</b>\n")
	if r.Description != "" {
		b.WriteString(escapeHTML(r.Description) + "\n")
	}

	var facts []string
	if r.Cuisine != "" {
		facts = append(facts, "🌍 "+escapeHTML(r.Cuisine))
	}
	if r.Difficulty != "" {
		facts = append(facts, escapeHTML(r.Difficulty))
	}
	if r.CookingTime != "" {
		facts = append(facts, "⏱️ "+escapeHTML(r.CookingTime))
	}
	if len(facts) > 0 {
		b.WriteString("\n" + strings.Join(facts, " · ") + "\n")
	}

	if appURL != "" {
		link := appURL + "/recipe/" + url.PathEscape(r.ID)
		b.WriteString("\n<a href=\"" + escapeHTML(link) + "\">Открыть рецепт</a>")
	}
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
