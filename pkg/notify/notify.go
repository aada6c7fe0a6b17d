// Package notify delivers wave notifications through ntfy.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wavewatch/wavewatch/pkg/whttp"
)

const (
	DefaultServer  = "https://ntfy.sh"
	DefaultTimeout = 10 * time.Second
)

// ErrNotification is returned when a push could not be delivered.
var ErrNotification = errors.New("notification failed")

// Priority levels understood by ntfy.
type Priority string

const (
	PriorityMin     Priority = "min"
	PriorityLow     Priority = "low"
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityUrgent  Priority = "urgent"
)

// ParsePriority validates a configured priority name.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityMin, PriorityLow, PriorityDefault, PriorityHigh, PriorityUrgent:
		return p, nil
	case "":
		return PriorityDefault, nil
	default:
		return "", fmt.Errorf("unknown priority %q (use min, low, default, high or urgent)", s)
	}
}

// Message is a single push notification.
type Message struct {
	Topic    string
	Title    string
	Priority Priority
	Tags     string
	ClickURL string
	Body     string
}

// Notifier sends a message somewhere a human will see it.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Ntfy publishes messages to an ntfy server.
type Ntfy struct {
	Server  string
	Client  *http.Client
	Timeout time.Duration
}

func NewNtfy(server string) *Ntfy {
	if server == "" {
		server = DefaultServer
	}
	return &Ntfy{Server: server, Client: &http.Client{}, Timeout: DefaultTimeout}
}

func (n *Ntfy) Send(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("%w: no topic configured", ErrNotification)
	}

	headers := []whttp.WHTTPHeader{{Name: "Content-Type", Value: "text/plain; charset=utf-8"}}
	if msg.Title != "" {
		headers = append(headers, whttp.WHTTPHeader{Name: "Title", Value: msg.Title})
	}
	if msg.Priority != "" {
		headers = append(headers, whttp.WHTTPHeader{Name: "Priority", Value: string(msg.Priority)})
	}
	if msg.Tags != "" {
		headers = append(headers, whttp.WHTTPHeader{Name: "Tags", Value: msg.Tags})
	}
	if msg.ClickURL != "" {
		headers = append(headers, whttp.WHTTPHeader{Name: "Click", Value: msg.ClickURL})
	}

	url := strings.TrimRight(n.Server, "/") + "/" + msg.Topic
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method:  http.MethodPost,
		URL:     url,
		Body:    msg.Body,
		Headers: headers,
		Timeout: n.Timeout,
	}, n.Client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}
	if !res.OK() {
		return fmt.Errorf("%w: got status code %d: %s", ErrNotification, res.StatusCode, strings.TrimSpace(res.BodyString))
	}
	return nil
}
