package wizard

import (
	"sync"
	"time"
)

// Event types published to the session's event stream
const (
	EventState    = "wizard.state"
	EventProgress = "wizard.progress"
)

// DefaultProgressInterval is how long each progress message stays up
const DefaultProgressInterval = 5 * time.Second

var (
	createMessages = []string{"Uploading...", "Still working...", "Almost there...", "Hold tight..."}
	updateMessages = []string{"Updating...", "Still working...", "Almost there...", "Hold tight..."}
)

// Progress is published while a long call is pending
type Progress struct {
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Done    bool   `json:"done"`
}

// Notifier delivers events to the browser tabs of a session
type Notifier interface {
	Publish(sessionID, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}

// trackProgress publishes the first message now and the next one every interval.
// The returned func stops the rotation and publishes a final done event.
func trackProgress(n Notifier, interval time.Duration, sessionID, action string, messages []string) func() {
	n.Publish(sessionID, EventProgress, Progress{Action: action, Message: messages[0]})

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 1; ; i++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				n.Publish(sessionID, EventProgress, Progress{Action: action, Message: messages[i%len(messages)]})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			n.Publish(sessionID, EventProgress, Progress{Action: action, Done: true})
		})
	}
}
