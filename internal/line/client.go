package line

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const (
	// DefaultAPIBase serves the messaging endpoints.
	DefaultAPIBase = "https://api.line.me"

	// DefaultDataAPIBase serves message content.
	DefaultDataAPIBase = "https://api-data.line.me"

	// MaxReplyMessages is the most messages one reply may carry.
	MaxReplyMessages = 5

	// MaxTextRunes is the longest text message LINE accepts.
	MaxTextRunes = 5000

	// MaxContentBytes caps downloaded message content.
	MaxContentBytes = 20 << 20
)

// Client calls the LINE Messaging API with a channel access token.
type Client struct {
	token    string
	apiBase  string
	dataBase string
	http     *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithAPIBase overrides the messaging API base URL.
func WithAPIBase(u string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(u, "/") }
}

// WithDataAPIBase overrides the content API base URL.
func WithDataAPIBase(u string) Option {
	return func(c *Client) { c.dataBase = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// NewClient creates a client for the given channel access token. It fails
// when a base URL is not absolute.
func NewClient(token string, opts ...Option) (*Client, error) {
	c := &Client{
		token:    token,
		apiBase:  DefaultAPIBase,
		dataBase: DefaultDataAPIBase,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := c.messaging(context.Background()); err != nil {
		return nil, err
	}
	if _, err := c.blob(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// The SDK clients carry their context as state, so every call builds its own.

func (c *Client) messaging(ctx context.Context) (*messaging_api.MessagingApiAPI, error) {
	api, err := messaging_api.NewMessagingApiAPI(c.token,
		messaging_api.WithEndpoint(c.apiBase),
		messaging_api.WithHTTPClient(c.http))
	if err != nil {
		return nil, fmt.Errorf("invalid LINE API base %q: %w", c.apiBase, err)
	}
	return api.WithContext(ctx), nil
}

func (c *Client) blob(ctx context.Context) (*messaging_api.MessagingApiBlobAPI, error) {
	api, err := messaging_api.NewMessagingApiBlobAPI(c.token,
		messaging_api.WithBlobEndpoint(c.dataBase),
		messaging_api.WithBlobHTTPClient(c.http))
	if err != nil {
		return nil, fmt.Errorf("invalid LINE data API base %q: %w", c.dataBase, err)
	}
	return api.WithContext(ctx), nil
}

// Content downloads the binary content of a message, such as an image.
func (c *Client) Content(ctx context.Context, messageID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message id is required")
	}
	api, err := c.blob(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := api.GetMessageContent(messageID)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download content: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if len(data) > MaxContentBytes {
		return nil, fmt.Errorf("content exceeds %d bytes", MaxContentBytes)
	}
	return data, nil
}

// Reply answers an event with one or more text messages. Each text is split
// to fit MaxTextRunes; chunks beyond MaxReplyMessages are dropped. Empty
// texts are skipped and a reply with nothing left is an error.
func (c *Client) Reply(ctx context.Context, replyToken string, texts ...string) error {
	if replyToken == "" {
		return fmt.Errorf("reply token is required")
	}

	var msgs []messaging_api.MessageInterface
	for _, text := range texts {
		for _, chunk := range SplitText(text, MaxTextRunes) {
			if len(msgs) == MaxReplyMessages {
				break
			}
			msgs = append(msgs, messaging_api.TextMessage{Text: chunk})
		}
	}
	if len(msgs) == 0 {
		return fmt.Errorf("reply has no text")
	}

	api, err := c.messaging(ctx)
	if err != nil {
		return err
	}
	if _, err := api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	}); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// SplitText cuts text into chunks of at most limit runes, preferring line
// boundaries. A single line longer than limit is cut mid-line. Blank text
// yields no chunks.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if s := strings.TrimRight(cur.String(), "\n"); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		n = 0
	}

	for line := range strings.Lines(text) {
		lineRunes := utf8.RuneCountInString(line)
		if n+lineRunes > limit {
			flush()
		}
		for lineRunes > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			lineRunes -= limit
		}
		cur.WriteString(line)
		n += lineRunes
	}
	flush()
	return chunks
}
