package adapter

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/bus-reservation/pkg/application"
	"github.com/mateusmacedo/bus-reservation/pkg/domain"
)

const (
	metadataEventName = "event_name"
	metadataRequestID = "request_id"
)

// WatermillEventBus publica cada evento no publisher configurado (gochannel, redis stream
// ou kafka) e em seguida executa os manipuladores locais na mesma goroutine.
type WatermillEventBus[E domain.Event[D], D any] struct {
	publisher message.Publisher
	topic     string
	handlers  map[string][]application.EventHandler[E, D]
	mu        sync.RWMutex
	logger    application.AppLogger
}

// NewWatermillEventBus cria o barramento. Um topic vazio usa o nome do evento como tópico.
func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, topic string, logger application.AppLogger) *WatermillEventBus[E, D] {
	return &WatermillEventBus[E, D]{
		publisher: publisher,
		topic:     topic,
		handlers:  make(map[string][]application.EventHandler[E, D]),
		logger:    logger,
	}
}

func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataEventName, eventName)
	if requestID, ok := application.RequestID(ctx); ok {
		msg.Metadata.Set(metadataRequestID, requestID)
	}
	msg.SetContext(ctx)

	if err := bus.publisher.Publish(bus.topicFor(eventName), msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	bus.mu.RLock()
	handlers := bus.handlers[eventName]
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
				"event_name": eventName,
			})
			return err
		}
	}

	application.LogDebug(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
		"handlers":   len(handlers),
	})
	return nil
}

func (bus *WatermillEventBus[E, D]) topicFor(eventName string) string {
	if bus.topic != "" {
		return bus.topic
	}
	return eventName
}
