// Package observe provides an optional Redis Pub/Sub fan-out of engine
// lifecycle events, for external monitors that want to watch a run without
// being wired into the process running it.
package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope is the JSON message published for every event.
type Envelope struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	EventType string         `json:"event_type"`
	Fields    map[string]any `json:"fields"`
}

// RedisObserver publishes engine lifecycle events to a Redis Pub/Sub
// channel. It implements pkg/msm.EventLogger, so it attaches directly via
// Engine.SetLogger; it is an optional attachment, never a requirement of
// the core engine.
type RedisObserver struct {
	rdb     *redis.Client
	channel string
}

// NewRedisObserver returns a RedisObserver that publishes to channel over
// the connection described by opts.
func NewRedisObserver(opts *redis.Options, channel string) (*RedisObserver, error) {
	if channel == "" {
		return nil, fmt.Errorf("observe: channel cannot be empty")
	}
	return &RedisObserver{
		rdb:     redis.NewClient(opts),
		channel: channel,
	}, nil
}

// Close closes the underlying Redis connection.
func (o *RedisObserver) Close() error {
	return o.rdb.Close()
}

// Ping verifies Redis connectivity.
func (o *RedisObserver) Ping(ctx context.Context) error {
	return o.rdb.Ping(ctx).Err()
}

// Event implements msm.EventLogger: it marshals an Envelope and publishes
// it to the observer's channel. Publish errors are swallowed after being
// attempted once — a disconnected observer must never fail a run it is
// only watching.
func (o *RedisObserver) Event(eventType string, fields map[string]any) {
	envelope := Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		EventType: eventType,
		Fields:    fields,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = o.rdb.Publish(ctx, o.channel, payload).Err()
}

// Subscription delivers decoded Envelopes received on a channel. Callers
// must call Close when done; context cancellation also stops delivery.
type Subscription struct {
	events chan *Envelope
	errors chan error
	cancel context.CancelFunc
}

// Events returns the channel of successfully decoded envelopes.
func (s *Subscription) Events() <-chan *Envelope { return s.events }

// Errors returns the channel of decode errors encountered while draining
// the underlying Redis Pub/Sub channel.
func (s *Subscription) Errors() <-chan error { return s.errors }

// Close stops the subscription's background goroutine.
func (s *Subscription) Close() { s.cancel() }

// Subscribe opens a subscription to the observer's channel, delivering
// each published event as a decoded Envelope. Events are buffered (size
// 16); a slow consumer may miss events under Redis Pub/Sub's at-most-once
// delivery.
func (o *RedisObserver) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := o.rdb.Subscribe(ctx, o.channel)

	events := make(chan *Envelope, 16)
	errs := make(chan error, 16)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(events)
		defer close(errs)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var envelope Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
					select {
					case errs <- fmt.Errorf("observe: decode event: %w", err):
					case <-subCtx.Done():
					}
					continue
				}

				select {
				case events <- &envelope:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{events: events, errors: errs, cancel: cancel}, nil
}
