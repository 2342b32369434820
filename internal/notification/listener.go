package notification

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Listener subscribes to every relay channel and demultiplexes incoming
// messages into cache invalidations and notification dispatches. Each
// server process owns its own subscription per channel, so the bus fans
// every event out to every process; each process then delivers only to its
// locally connected sessions.
type Listener struct {
	client     *pubsub.Client
	cache      *Cache
	dispatcher *Dispatcher
	registry   *Registry
	instanceID string
}

// busMessage funnels every subscription into the single handling loop.
type busMessage struct {
	channel string
	data    []byte
	ack     func()
}

func NewListener(ctx context.Context, projectID, credentialsFile string, cache *Cache, dispatcher *Dispatcher, registry *Registry) (*Listener, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "relay"
	}
	instanceID := fmt.Sprintf("%s-%s", sanitizeSubID(hostname), uuid.New().String()[:8])

	return &Listener{
		client:     client,
		cache:      cache,
		dispatcher: dispatcher,
		registry:   registry,
		instanceID: instanceID,
	}, nil
}

// Start subscribes to all channels and runs the receive loop until ctx is
// cancelled. Per-subscription receivers feed one handling goroutine, so
// cache mutation and dispatch stay single-threaded. Errors are logged; a
// sustained bus outage disables the relay without affecting the rest of
// the application.
func (l *Listener) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting notification relay listener, instance: %s", l.instanceID)

	messages := make(chan busMessage, 64)

	started := 0
	for _, channel := range Channels() {
		sub, err := l.ensureSubscription(ctx, channel)
		if err != nil {
			log.Printf("[PubSub] Skipping channel %s: %v", channel, err)
			continue
		}

		go func(channel string, sub *pubsub.Subscription) {
			err := sub.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
				select {
				case messages <- busMessage{channel: channel, data: msg.Data, ack: msg.Ack}:
				case <-ctx.Done():
					msg.Nack()
				}
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("[PubSub] Receive on channel %s stopped: %v", channel, err)
			}
		}(channel, sub)
		started++
	}

	if started == 0 {
		log.Printf("[PubSub] No subscriptions available, relay disabled")
		return
	}
	log.Printf("[PubSub] Listening on %d channels", started)

	for {
		select {
		case msg := <-messages:
			l.handleMessage(ctx, msg.channel, msg.data)
			msg.ack()
		case <-ctx.Done():
			return
		}
	}
}

// handleMessage decodes one bus message and routes it. Malformed payloads
// are logged and dropped; the loop never dies on bad input.
func (l *Listener) handleMessage(ctx context.Context, channel string, data []byte) {
	ev, err := DecodeMessage(channel, data)
	if err != nil {
		log.Printf("[PubSub] Dropping message on %s: %v", channel, err)
		return
	}

	switch ev := ev.(type) {
	case *NotificationEvent:
		l.dispatcher.Dispatch(ctx, ev)
	case *TokenRemovedEvent:
		l.cache.Apply(ev)
		// The token is gone; close any session still riding on it.
		l.registry.CloseAll(ev.UserID, ev.TokenID)
	default:
		l.cache.Apply(ev)
	}
}

// ensureSubscription creates the channel topic and this instance's
// subscription if they do not exist yet.
func (l *Listener) ensureSubscription(ctx context.Context, channel string) (*pubsub.Subscription, error) {
	topic := l.client.Topic(channel)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic: %w", err)
	}
	if !exists {
		if topic, err = l.client.CreateTopic(ctx, channel); err != nil {
			return nil, fmt.Errorf("failed to create topic: %w", err)
		}
	}

	subName := fmt.Sprintf("%s-%s", channel, l.instanceID)
	sub := l.client.Subscription(subName)
	exists, err = sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if !exists {
		sub, err = l.client.CreateSubscription(ctx, subName, pubsub.SubscriptionConfig{
			Topic:            topic,
			AckDeadline:      10 * time.Second,
			ExpirationPolicy: 24 * time.Hour,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
		log.Printf("[PubSub] Created subscription: %s", subName)
	}

	return sub, nil
}

// Close releases the Pub/Sub client.
func (l *Listener) Close() error {
	return l.client.Close()
}

func sanitizeSubID(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}
