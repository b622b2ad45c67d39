package activitypub

import (
	"net/http"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// HTTPClient abstracts the HTTP client so tests can substitute a mock or
// an httptest server client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewDefaultHTTPClient returns the production HTTP client with the given
// timeout.
func NewDefaultHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// defaultHTTPClient is the default HTTP client for production use
var defaultHTTPClient HTTPClient = NewDefaultHTTPClient(10 * time.Second)

// Database is the storage contract this package consumes: the actor cache
// and the outbound delivery queue. *db.DB satisfies it.
type Database interface {
	ReadPersonByActorURI(uri string) (error, *domain.Person)
	CreatePerson(p *domain.Person) error
	UpdatePerson(p *domain.Person) error

	ReadCommunityByActorURI(uri string) (error, *domain.Community)
	CreateCommunity(c *domain.Community) error

	EnqueueDelivery(item *domain.DeliveryQueueItem) error
	ReadPendingDeliveries(limit int) (error, *[]domain.DeliveryQueueItem)
	UpdateDeliveryAttempt(id uuid.UUID, attempts int, nextRetry time.Time) error
	DeleteDelivery(id uuid.UUID) error
}
