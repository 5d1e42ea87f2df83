package notify

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient toast shown to the customer.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	switch n.Level {
	case LevelError:
		log.Warnf("🔔 %s", n.Message)
	default:
		log.Infof("🔔 %s", n.Message)
	}
}

// Queue buffers notifications until a view drains them into toasts.
// Every notification is also forwarded to next, when set.
type Queue struct {
	next Notifier

	mu      sync.Mutex
	pending []Notification
}

func NewQueue(next Notifier) *Queue {
	return &Queue{next: next}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()

	if q.next != nil {
		q.next.Notify(n)
	}
}

// Drain returns and forgets the pending notifications, oldest first.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	return out
}

func Success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg}
}

func Error(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}
