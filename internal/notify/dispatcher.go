package notify

import "github.com/arefin88/vidora/backend/internal/models"

// Dispatcher fans a stored notification out to every live connection of its
// recipient.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch pushes the notification to each live connection of its recipient.
// Pushes are best-effort: a slow connection sheds its oldest queued push
// rather than blocking the others, a connection closed mid-dispatch is
// skipped, and no failure here touches the stored record -- offline clients
// pick it up on their next pull.
func (d *Dispatcher) Dispatch(notification *models.Notification) {
	msg := PushMessage{Type: "notification", Data: notification}
	for _, conn := range d.registry.ActiveConnections(notification.RecipientID) {
		conn.enqueue(msg)
	}
}
