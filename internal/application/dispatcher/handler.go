package dispatcher

import (
	"context"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// subscription pairs a handler with the name it was registered under.
type subscription struct {
	name    string
	handler Handler
}
