package payment

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// TestNotificationID is the id the gateway sends when checking that the
// endpoint is reachable. It never refers to a real charge.
const TestNotificationID = "123456"

type Topic string

const (
	TopicPayment       Topic = "payment"
	TopicMerchantOrder Topic = "merchant_order"
)

func (t Topic) Supported() bool {
	return t == TopicPayment || t == TopicMerchantOrder
}

// Notification is what a webhook delivery claims, before any lookup.
type Notification struct {
	Topic     Topic
	ID        string
	RequestID string
	Signature string
}

func (n Notification) IsTest() bool {
	return n.ID == TestNotificationID
}

type notificationBody struct {
	Type   string          `json:"type"`
	Topic  string          `json:"topic"`
	Action string          `json:"action"`
	ID     json.RawMessage `json:"id"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// ParseNotification extracts topic and id. Query parameters win over the
// body; ids are tried as query data.id, query id, body data.id, body id.
// A body that is not JSON is treated as empty.
func ParseNotification(query url.Values, body []byte) Notification {
	var b notificationBody
	if len(bytes.TrimSpace(body)) > 0 {
		_ = json.Unmarshal(body, &b)
	}

	n := Notification{
		Topic: Topic(firstNonEmpty(
			query.Get("topic"),
			query.Get("type"),
			b.Topic,
			b.Type,
			topicFromAction(b.Action),
		)),
		ID: firstNonEmpty(
			query.Get("data.id"),
			query.Get("id"),
			rawID(b.Data.ID),
			rawID(b.ID),
		),
	}
	return n
}

// rawID accepts both "123" and 123.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

// topicFromAction maps "payment.updated" to "payment".
func topicFromAction(action string) string {
	if i := strings.IndexByte(action, '.'); i > 0 {
		return action[:i]
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
