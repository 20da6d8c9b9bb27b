package pubfront

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const revalidateTopic = "cms.revalidate"

// revalidator carries RevalidateEvents from the webhook to the purge handler
// over an in-process watermill pub/sub.
type revalidator struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	log    *zap.Logger
}

func newRevalidator(log *zap.Logger, handle func(ctx context.Context, ev RevalidateEvent) error) (*revalidator, error) {
	wlog := NewWatermillLogger(log)
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, wlog)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, wlog)
	if err != nil {
		return nil, fmt.Errorf("pubfront: revalidation router: %w", err)
	}
	router.AddMiddleware(
		dropAfterRetries(log),
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          wlog,
		}.Middleware,
		middleware.Recoverer,
	)
	router.AddNoPublisherHandler("purge_response_cache", revalidateTopic, pubsub, func(msg *message.Message) error {
		var ev RevalidateEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			log.Warn("dropping malformed revalidate event", zap.String("message_uuid", msg.UUID), zap.Error(err))
			return nil
		}
		return handle(msg.Context(), ev)
	})

	return &revalidator{pubsub: pubsub, router: router, log: log}, nil
}

// dropAfterRetries acks a message whose handler still fails, so the
// in-memory subscriber does not redeliver it forever.
func dropAfterRetries(log *zap.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil {
				log.Error("revalidate event failed", zap.String("message_uuid", msg.UUID), zap.Error(err))
				return nil, nil
			}
			return msgs, nil
		}
	}
}

// Run starts the router and blocks until it is subscribed or ctx is done.
func (r *revalidator) Run(ctx context.Context) {
	go func() {
		if err := r.router.Run(ctx); err != nil {
			r.log.Error("revalidation router stopped", zap.Error(err))
		}
	}()
	select {
	case <-r.router.Running():
	case <-ctx.Done():
	}
}

// Publish queues ev for the purge handler.
func (r *revalidator) Publish(ev RevalidateEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if ev.RequestID != "" {
		msg.Metadata.Set("request_id", ev.RequestID)
	}
	return r.pubsub.Publish(revalidateTopic, msg)
}

func (r *revalidator) Close() error {
	var result *multierror.Error
	if err := r.router.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := r.pubsub.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
