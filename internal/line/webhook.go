package line

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Line-Signature"

// Event types handled by the bot.
const (
	EventMessage = "message"
	EventFollow  = "follow"
)

// Message types handled by the bot.
const (
	MessageText  = "text"
	MessageImage = "image"
)

// ErrInvalidSignature means the webhook body was not signed with the channel
// secret.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// Webhook is the body LINE posts to the webhook URL, reduced to what the bot
// reads.
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one webhook event.
type Event struct {
	Type           string   `json:"type"`
	Mode           string   `json:"mode,omitempty"`
	Timestamp      int64    `json:"timestamp"`
	ReplyToken     string   `json:"replyToken,omitempty"`
	WebhookEventID string   `json:"webhookEventId,omitempty"`
	Source         Source   `json:"source"`
	Message        *Message `json:"message,omitempty"`
}

// Source identifies who sent an event.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Message is the message carried by a message event.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ParseRequest authenticates and decodes a webhook request. An empty secret
// never verifies. A bad signature yields ErrInvalidSignature.
func ParseRequest(secret string, r *http.Request) (*Webhook, error) {
	if secret == "" {
		return nil, ErrInvalidSignature
	}
	cb, err := webhook.ParseRequest(secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}
	return fromCallback(cb), nil
}

// ParseWebhook decodes a webhook body that has already been authenticated.
func ParseWebhook(body []byte) (*Webhook, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}
	return fromCallback(&cb), nil
}

// VerifySignature reports whether signature matches body. An empty secret
// or signature never verifies.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return webhook.ValidateSignature(secret, signature, body)
}

func fromCallback(cb *webhook.CallbackRequest) *Webhook {
	wh := &Webhook{Destination: cb.Destination}
	for _, e := range cb.Events {
		wh.Events = append(wh.Events, fromEvent(e))
	}
	return wh
}

func fromEvent(e webhook.EventInterface) Event {
	switch e := e.(type) {
	case webhook.MessageEvent:
		return Event{
			Type:           EventMessage,
			Mode:           string(e.Mode),
			Timestamp:      e.Timestamp,
			ReplyToken:     e.ReplyToken,
			WebhookEventID: e.WebhookEventId,
			Source:         fromSource(e.Source),
			Message:        fromMessage(e.Message),
		}
	case webhook.FollowEvent:
		return Event{
			Type:           EventFollow,
			Mode:           string(e.Mode),
			Timestamp:      e.Timestamp,
			ReplyToken:     e.ReplyToken,
			WebhookEventID: e.WebhookEventId,
			Source:         fromSource(e.Source),
		}
	case nil:
		return Event{}
	default:
		// no reply token is kept, so the bot ignores it
		return Event{Type: e.GetType()}
	}
}

func fromSource(s webhook.SourceInterface) Source {
	switch s := s.(type) {
	case webhook.UserSource:
		return Source{Type: "user", UserID: s.UserId}
	case webhook.GroupSource:
		return Source{Type: "group", GroupID: s.GroupId, UserID: s.UserId}
	case webhook.RoomSource:
		return Source{Type: "room", RoomID: s.RoomId, UserID: s.UserId}
	case nil:
		return Source{}
	default:
		return Source{Type: s.GetType()}
	}
}

func fromMessage(m webhook.MessageContentInterface) *Message {
	switch m := m.(type) {
	case webhook.TextMessageContent:
		return &Message{ID: m.Id, Type: MessageText, Text: m.Text}
	case webhook.ImageMessageContent:
		return &Message{ID: m.Id, Type: MessageImage}
	case nil:
		return nil
	default:
		return &Message{Type: m.GetType()}
	}
}
