package notification

import (
	"context"
	"errors"
	"log"
	"sync"

	authdomain "habitlink-backend/internal/auth/domain"
	"habitlink-backend/pkg/fcm"
)

// PushSender delivers one push notification; *fcm.Client is the production
// implementation.
type PushSender interface {
	Send(ctx context.Context, token, title, body, deeplink string) error
}

// PushTokenRemover discards a push token the gateway reports as dead.
type PushTokenRemover interface {
	ClearPushToken(tokenID string) error
}

// Dispatcher fans one notification event out to the recipient's devices:
// live sessions get the frame, otherwise mobile devices with a push token
// and the right preferences get a push. Exactly one delivery attempt per
// (event, device): local send, push, or skip; never both.
type Dispatcher struct {
	cache    *Cache
	registry *Registry
	store    Store
	push     PushSender       // nil when push is disabled
	tokens   PushTokenRemover // nil when dead-token cleanup is unavailable

	// pushes tracks in-flight push goroutines; tests wait on it.
	pushes sync.WaitGroup
}

func NewDispatcher(cache *Cache, registry *Registry, store Store, push PushSender, tokens PushTokenRemover) *Dispatcher {
	return &Dispatcher{
		cache:    cache,
		registry: registry,
		store:    store,
		push:     push,
		tokens:   tokens,
	}
}

// Dispatch delivers ev to every device of its recipient. Failures are
// local: a dead session is unregistered and its siblings still receive the
// frame, a failed push is logged and dropped. Never returns an error; the
// bus listener must keep running regardless.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *NotificationEvent) {
	snap, err := d.cache.GetOrLoad(ev.Recipient, d.store)
	if err != nil {
		log.Printf("[Dispatch] Failed to load recipient %s: %v", ev.Recipient, err)
		return
	}
	if snap == nil {
		log.Printf("[Dispatch] Unknown recipient %s, dropping %s event", ev.Recipient, ev.Kind.Channel())
		return
	}

	frame := Frame{Type: ev.Kind.Channel(), Data: ev.Data}
	for _, token := range snap.Tokens {
		refs := d.registry.Lookup(ev.Recipient, token.ID)
		if len(refs) > 0 {
			for _, ref := range refs {
				if err := ref.Sender.Send(frame); err != nil {
					log.Printf("[Dispatch] Send to session %s failed, unregistering: %v", ref.ID, err)
					d.registry.Unregister(ev.Recipient, token.ID, ref.ID)
				}
			}
			continue
		}

		if !d.pushEligible(&snap.User, &token, ev) {
			continue
		}

		pushToken := *token.PushToken
		tokenID := token.ID
		d.pushes.Add(1)
		go func() {
			defer d.pushes.Done()
			if err := d.push.Send(context.Background(), pushToken, ev.Title, ev.Body, ev.URL); err != nil {
				log.Printf("[Dispatch] Push to token %s failed: %v", tokenID, err)
				if errors.Is(err, fcm.ErrUnregistered) && d.tokens != nil {
					if err := d.tokens.ClearPushToken(tokenID); err != nil {
						log.Printf("[Dispatch] Failed to clear dead push token %s: %v", tokenID, err)
					}
				}
			}
		}()
	}
}

// pushEligible applies the fallback predicate: push is configured, master
// switch on, kind preference on, mobile device without a browser, push
// token present, and the event carries both a title and a body.
func (d *Dispatcher) pushEligible(user *authdomain.User, token *authdomain.DeviceToken, ev *NotificationEvent) bool {
	if d.push == nil {
		return false
	}
	if !user.NotificationsEnabled || !ev.Kind.PreferenceEnabled(user) {
		return false
	}
	if token.IsMobile == nil || !*token.IsMobile || token.Browser != nil {
		return false
	}
	if token.PushToken == nil || *token.PushToken == "" {
		return false
	}
	return ev.Title != "" && ev.Body != ""
}
