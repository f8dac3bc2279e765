package main

import (
	"encoding/json"
	"errors"
)

// Notification holds the user-visible fields of a push message.
type Notification struct {
	Title string
	Body  string
	Icon  string
	Badge string
	Tag   string
	URL   string
}

var errMissingTitle = errors.New("notification title is required")

// pushPayload builds the JSON payload sent to the browser.
// It uses the Declarative Web Push format (RFC 8030) so that Safari 18.4+
// can display the notification natively without waking the service worker.
// Other browsers ignore the "web_push" key; the service worker unwraps
// payload.notification to extract the fields.
func pushPayload(n Notification) ([]byte, error) {
	if n.Title == "" {
		return nil, errMissingTitle
	}
	notification := map[string]any{
		"title": n.Title,
	}
	if n.Body != "" {
		notification["body"] = n.Body
	}
	if n.Icon != "" {
		notification["icon"] = n.Icon
	}
	if n.Badge != "" {
		notification["badge"] = n.Badge
	}
	if n.Tag != "" {
		notification["tag"] = n.Tag
	}
	if n.URL != "" {
		notification["navigate"] = n.URL
		notification["data"] = map[string]any{"url": n.URL}
	}
	payload := map[string]any{
		"web_push":     8030,
		"notification": notification,
	}
	return json.Marshal(payload)
}
