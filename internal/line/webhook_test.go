package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWebhook = `{
  "destination": "U0000",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1760659200000,
      "replyToken": "rt-image",
      "webhookEventId": "01H",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U1"},
      "message": {"id": "100", "type": "image", "contentProvider": {"type": "line"}}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1760659200001,
      "replyToken": "rt-text",
      "webhookEventId": "01J",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "group", "groupId": "G1", "userId": "U2"},
      "message": {"id": "101", "type": "text", "text": "SET HW=50000", "quoteToken": "q"}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1,
      "replyToken": "rt-follow",
      "webhookEventId": "01K",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U3"},
      "follow": {"isUnblocked": false}
    }
  ]
}`

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestParseWebhook(t *testing.T) {
	wh, err := ParseWebhook([]byte(sampleWebhook))
	require.NoError(t, err)
	assert.Equal(t, "U0000", wh.Destination)
	require.Len(t, wh.Events, 3)

	img := wh.Events[0]
	assert.Equal(t, EventMessage, img.Type)
	assert.Equal(t, "rt-image", img.ReplyToken)
	assert.Equal(t, "01H", img.WebhookEventID)
	assert.Equal(t, Source{Type: "user", UserID: "U1"}, img.Source)
	require.NotNil(t, img.Message)
	assert.Equal(t, MessageImage, img.Message.Type)
	assert.Equal(t, "100", img.Message.ID)

	txt := wh.Events[1]
	assert.Equal(t, "G1", txt.Source.GroupID)
	assert.Equal(t, "U2", txt.Source.UserID)
	require.NotNil(t, txt.Message)
	assert.Equal(t, MessageText, txt.Message.Type)
	assert.Equal(t, "SET HW=50000", txt.Message.Text)

	follow := wh.Events[2]
	assert.Equal(t, EventFollow, follow.Type)
	assert.Equal(t, "rt-follow", follow.ReplyToken)
	assert.Nil(t, follow.Message)

	_, err = ParseWebhook([]byte("{"))
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(sampleWebhook)
	sig := sign("secret", body)

	assert.True(t, VerifySignature("secret", body, sig))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("secret", append(body, ' '), sig))
	assert.False(t, VerifySignature("secret", body, "not base64!"))
	assert.False(t, VerifySignature("secret", body, ""))
	assert.False(t, VerifySignature("", body, sig))
}

func TestParseRequest(t *testing.T) {
	request := func(body, signature string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		r.Header.Set(SignatureHeader, signature)
		return r
	}

	wh, err := ParseRequest("secret", request(sampleWebhook, sign("secret", []byte(sampleWebhook))))
	require.NoError(t, err)
	assert.Len(t, wh.Events, 3)

	_, err = ParseRequest("secret", request(sampleWebhook, sign("other", []byte(sampleWebhook))))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = ParseRequest("", request(sampleWebhook, sign("", []byte(sampleWebhook))))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = ParseRequest("secret", request("{", sign("secret", []byte("{"))))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidSignature))
}
