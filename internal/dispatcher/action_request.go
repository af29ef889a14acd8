package dispatcher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"go-heatguard/internal/logging"
)

// Every outbound call is bounded; a stuck platform call must never
// starve the worker loop.
const requestTimeout = 2 * time.Second

// Client executes moderation actions against the Discord REST API over
// the fasthttp pool. All methods are one-shot: no retries, errors are
// surfaced to the executor which logs and swallows them.
type Client struct {
	pool        *HTTPPool
	rateLimiter *RateLimitMonitor
	baseURL     string
	token       string
}

func NewClient(pool *HTTPPool, rateLimiter *RateLimitMonitor, baseURL, token string) *Client {
	return &Client{
		pool:        pool,
		rateLimiter: rateLimiter,
		baseURL:     baseURL,
		token:       token,
	}
}

func (c *Client) do(method, route string, url string, guildID uint64, reason string, body []byte) (int, []byte, error) {
	if !c.rateLimiter.CanExecute(route, guildID) {
		return 0, nil, fmt.Errorf("rate limited: %s", route)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bot "+c.token)
	if reason != "" {
		req.Header.Set("X-Audit-Log-Reason", reason)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.SetBody(body)
	}

	client := c.pool.GetClient()
	if err := client.DoTimeout(req, resp, requestTimeout); err != nil {
		return 0, nil, err
	}

	c.rateLimiter.UpdateFromResponse(resp, route, guildID)

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return status, nil, fmt.Errorf("%s %s: status %d", method, route, status)
	}

	out := append([]byte(nil), resp.Body()...)
	return status, out, nil
}

// Timeout applies a timed communication restriction (Discord's native
// mute) until the given instant.
func (c *Client) Timeout(guildID, userID uint64, until time.Time, reason string) error {
	url := fmt.Sprintf("%s/guilds/%d/members/%d", c.baseURL, guildID, userID)
	body, _ := json.Marshal(map[string]string{
		"communication_disabled_until": until.UTC().Format(time.RFC3339),
	})

	_, _, err := c.do("PATCH", "timeout", url, guildID, reason, body)
	return err
}

func (c *Client) Kick(guildID, userID uint64, reason string) error {
	url := fmt.Sprintf("%s/guilds/%d/members/%d", c.baseURL, guildID, userID)

	_, _, err := c.do("DELETE", "kick", url, guildID, reason, nil)
	return err
}

func (c *Client) Ban(guildID, userID uint64, reason string) error {
	url := fmt.Sprintf("%s/guilds/%d/bans/%d", c.baseURL, guildID, userID)
	body, _ := json.Marshal(map[string]int{"delete_message_seconds": 0})

	_, _, err := c.do("PUT", "ban", url, guildID, reason, body)
	return err
}

// RemoveAllRoles strips the member to zero roles. Full deny-list, not
// partial: panic remediation does not pick and choose.
func (c *Client) RemoveAllRoles(guildID, userID uint64, reason string) error {
	url := fmt.Sprintf("%s/guilds/%d/members/%d", c.baseURL, guildID, userID)
	body, _ := json.Marshal(map[string][]string{"roles": {}})

	_, _, err := c.do("PATCH", "role_strip", url, guildID, reason, body)
	return err
}

type channelMessage struct {
	ID     string `json:"id"`
	Author struct {
		ID string `json:"id"`
	} `json:"author"`
}

// PurgeUserMessages bulk-deletes the user's messages among the most
// recent in the channel. Best effort; callers fire-and-forget.
func (c *Client) PurgeUserMessages(guildID, channelID, userID uint64, limit int) error {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	listURL := fmt.Sprintf("%s/channels/%d/messages?limit=%d", c.baseURL, channelID, limit)
	_, raw, err := c.do("GET", "messages_list", listURL, guildID, "", nil)
	if err != nil {
		return err
	}

	var msgs []channelMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return fmt.Errorf("decode channel messages: %w", err)
	}

	target := fmt.Sprintf("%d", userID)
	var ids []string
	for _, m := range msgs {
		if m.Author.ID == target {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return nil
	case 1:
		// Bulk-delete requires at least two messages.
		delURL := fmt.Sprintf("%s/channels/%d/messages/%s", c.baseURL, channelID, ids[0])
		_, _, err := c.do("DELETE", "message_delete", delURL, guildID, "", nil)
		return err
	}

	bulkURL := fmt.Sprintf("%s/channels/%d/messages/bulk-delete", c.baseURL, channelID)
	body, _ := json.Marshal(map[string][]string{"messages": ids})
	if _, _, err := c.do("POST", "bulk_delete", bulkURL, guildID, "", body); err != nil {
		logging.Debug("bulk delete fell through for channel %d: %v", channelID, err)
		return err
	}
	return nil
}
