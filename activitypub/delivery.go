package activitypub

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/util"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	deliveryBatchSize   = 50
	deliveryMaxAttempts = 10
)

// backoffMinutes is the retry schedule; attempts past its end reuse the
// last slot.
var backoffMinutes = []int{1, 5, 15, 60, 240, 1440}

// QueueDeliverer queues activities for asynchronous delivery. It satisfies
// the delivery contract of the federation core: Send returns once every
// inbox is queued, nothing more.
type QueueDeliverer struct {
	db Database
}

func NewQueueDeliverer(db Database) *QueueDeliverer {
	return &QueueDeliverer{db: db}
}

func (q *QueueDeliverer) Send(activityJSON string, inboxes []string) error {
	now := time.Now()
	for _, inbox := range inboxes {
		item := &domain.DeliveryQueueItem{
			Id:           uuid.New(),
			InboxURI:     inbox,
			ActivityJSON: activityJSON,
			Attempts:     0,
			NextRetryAt:  now,
			CreatedAt:    now,
		}
		if err := q.db.EnqueueDelivery(item); err != nil {
			return fmt.Errorf("failed to queue delivery to %s: %w", inbox, err)
		}
	}
	return nil
}

// DeliveryWorker drains the delivery queue in the background, signing each
// request with the sending actor's key and pacing per remote host.
type DeliveryWorker struct {
	db     Database
	client HTTPClient

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewDeliveryWorker(db Database, client HTTPClient) *DeliveryWorker {
	if client == nil {
		client = NewDefaultHTTPClient(30 * time.Second)
	}
	return &DeliveryWorker{
		db:       db,
		client:   client,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *DeliveryWorker) Start(ctx context.Context) {
	log.Println("DeliveryWorker: starting")
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("DeliveryWorker: stopping")
				return
			case <-ticker.C:
				w.processQueue(ctx)
			}
		}
	}()
}

func (w *DeliveryWorker) processQueue(ctx context.Context) {
	err, items := w.db.ReadPendingDeliveries(deliveryBatchSize)
	if err != nil {
		log.Printf("DeliveryWorker: Failed to read queue: %v", err)
		return
	}
	if items == nil || len(*items) == 0 {
		return
	}

	log.Printf("DeliveryWorker: Processing %d pending deliveries", len(*items))

	for _, item := range *items {
		if ctx.Err() != nil {
			return
		}
		if err := w.deliver(ctx, &item); err != nil {
			item.Attempts++
			backoff := backoffMinutes[min(item.Attempts-1, len(backoffMinutes)-1)]
			item.NextRetryAt = time.Now().Add(time.Duration(backoff) * time.Minute)

			if item.Attempts >= deliveryMaxAttempts {
				log.Printf("DeliveryWorker: Giving up on delivery to %s after %d attempts", item.InboxURI, item.Attempts)
				w.db.DeleteDelivery(item.Id)
			} else {
				log.Printf("DeliveryWorker: Delivery to %s failed (attempt %d), retry in %dm: %v",
					item.InboxURI, item.Attempts, backoff, err)
				w.db.UpdateDeliveryAttempt(item.Id, item.Attempts, item.NextRetryAt)
			}
		} else {
			w.db.DeleteDelivery(item.Id)
		}
	}
}

// deliver signs and posts a single queued activity to its inbox.
func (w *DeliveryWorker) deliver(ctx context.Context, item *domain.DeliveryQueueItem) error {
	var activity map[string]any
	if err := json.Unmarshal([]byte(item.ActivityJSON), &activity); err != nil {
		return fmt.Errorf("failed to parse activity JSON: %w", err)
	}

	actorURI, ok := activity["actor"].(string)
	if !ok {
		return fmt.Errorf("activity missing actor field")
	}

	err, sender := w.db.ReadPersonByActorURI(actorURI)
	if err != nil {
		return fmt.Errorf("failed to load sending actor %s: %w", actorURI, err)
	}
	if sender.PrivateKeyPem == "" {
		return fmt.Errorf("actor %s has no signing key", actorURI)
	}

	privateKey, err := ParsePrivateKey(sender.PrivateKeyPem)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	if err := w.waitForHost(ctx, item.InboxURI); err != nil {
		return err
	}

	body := []byte(item.ActivityJSON)
	hash := sha256.Sum256(body)
	digest := "SHA-256=" + base64.StdEncoding.EncodeToString(hash[:])

	req, err := http.NewRequestWithContext(ctx, "POST", item.InboxURI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/activity+json")
	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", util.GetNameAndVersion())
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Digest", digest)

	keyID := sender.ActorURI + "#main-key"
	if err := SignRequest(req, privateKey, keyID); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote server returned status: %d", resp.StatusCode)
	}

	return nil
}

// waitForHost paces outbound requests per remote host.
func (w *DeliveryWorker) waitForHost(ctx context.Context, inboxURI string) error {
	parsed, err := url.Parse(inboxURI)
	if err != nil {
		return fmt.Errorf("invalid inbox URI: %w", err)
	}

	w.mu.Lock()
	limiter, ok := w.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(5), 10)
		w.limiters[parsed.Host] = limiter
	}
	w.mu.Unlock()

	return limiter.Wait(ctx)
}
