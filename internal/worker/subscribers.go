package worker

import (
	"fmt"

	"go.uber.org/zap"
)

// Subscriber attaches its event handlers to the dispatcher it was built with.
type Subscriber interface {
	RegisterHandlers()
}

// StartSubscribers registers every subscriber's event handlers.
func StartSubscribers(logger *zap.Logger, subscribers ...Subscriber) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.RegisterHandlers()
		logger.Debug("event subscriber registered", zap.String("subscriber", fmt.Sprintf("%T", s)))
	}
}
