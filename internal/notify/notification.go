// Package notify holds the transient toast messages shown to the user and
// the hub that pushes them, together with session changes, over websocket.
package notify

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DisplayTTL is how long the page keeps a toast on screen.
const DisplayTTL = 4 * time.Second

type Notification struct {
	Kind    Kind   `json:"type"`
	Message string `json:"message"`
	TTLMs   int64  `json:"ttlMs"`
}

func New(kind Kind, message string) Notification {
	return Notification{Kind: kind, Message: message, TTLMs: DisplayTTL.Milliseconds()}
}

func Success(message string) Notification { return New(KindSuccess, message) }
func Error(message string) Notification   { return New(KindError, message) }
func Info(message string) Notification    { return New(KindInfo, message) }

// Notifier delivers a notification to every open page of a user.
type Notifier interface {
	Notify(userID string, n Notification)
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Notification) {}
