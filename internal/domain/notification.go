package domain

import (
	"fmt"
	"strings"
)

// Notification is the rendered payload handed to the push gateway.
type Notification struct {
	Title     string
	Message   string
	URL       string
	Timestamp int64
}

// GatewayError reports a delivery the gateway accepted over HTTP but rejected
// at the application level (response status field != 1). It is never worth
// retrying within a cycle; the post stays unseen and comes back next cycle.
type GatewayError struct {
	Status   int
	Messages []string
}

func (e *GatewayError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("gateway rejected notification (status %d): %s",
			e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("gateway rejected notification (status %d)", e.Status)
}
