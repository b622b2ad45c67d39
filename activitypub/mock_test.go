package activitypub

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// MockStore is an in-memory implementation of the Database interface,
// tracking mutating calls.
type MockStore struct {
	mu sync.Mutex

	Persons     map[string]*domain.Person
	Communities map[string]*domain.Community
	Queue       map[uuid.UUID]*domain.DeliveryQueueItem

	ForceError error

	CreatedPersons     int
	UpdatedPersons     int
	CreatedCommunities int
	AttemptUpdates     []int
	DeletedDeliveries  []uuid.UUID
}

var _ Database = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		Persons:     make(map[string]*domain.Person),
		Communities: make(map[string]*domain.Community),
		Queue:       make(map[uuid.UUID]*domain.DeliveryQueueItem),
	}
}

func (m *MockStore) ReadPersonByActorURI(uri string) (error, *domain.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	p, ok := m.Persons[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, p
}

func (m *MockStore) CreatePerson(p *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.CreatedPersons++
	m.Persons[p.ActorURI] = p
	return nil
}

func (m *MockStore) UpdatePerson(p *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.UpdatedPersons++
	m.Persons[p.ActorURI] = p
	return nil
}

func (m *MockStore) ReadCommunityByActorURI(uri string) (error, *domain.Community) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	c, ok := m.Communities[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, c
}

func (m *MockStore) CreateCommunity(c *domain.Community) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.CreatedCommunities++
	m.Communities[c.ActorURI] = c
	return nil
}

func (m *MockStore) EnqueueDelivery(item *domain.DeliveryQueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.Queue[item.Id] = item
	return nil
}

func (m *MockStore) ReadPendingDeliveries(limit int) (error, *[]domain.DeliveryQueueItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	var items []domain.DeliveryQueueItem
	now := time.Now()
	for _, item := range m.Queue {
		if len(items) >= limit {
			break
		}
		if !item.NextRetryAt.After(now) {
			items = append(items, *item)
		}
	}
	return nil, &items
}

func (m *MockStore) UpdateDeliveryAttempt(id uuid.UUID, attempts int, nextRetry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.AttemptUpdates = append(m.AttemptUpdates, attempts)
	if item, ok := m.Queue[id]; ok {
		item.Attempts = attempts
		item.NextRetryAt = nextRetry
	}
	return nil
}

func (m *MockStore) DeleteDelivery(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeletedDeliveries = append(m.DeletedDeliveries, id)
	delete(m.Queue, id)
	return nil
}

// MockHTTPClient serves canned responses by URL and records requests.
type MockHTTPClient struct {
	Responses map[string]string // URL -> JSON body
	Status    int
	Err       error
	Requests  []*http.Request
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	body, ok := m.Responses[req.URL.String()]
	status := m.Status
	if status == 0 {
		status = http.StatusOK
	}
	if !ok {
		status = http.StatusNotFound
		body = "not found"
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}, nil
}

func personActorJSON(uri, username string) string {
	return fmt.Sprintf(`{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id": %q,
		"type": "Person",
		"preferredUsername": %q,
		"inbox": %q,
		"endpoints": {"sharedInbox": "https://other.test/inbox"},
		"publicKey": {"id": %q, "owner": %q, "publicKeyPem": "-----BEGIN PUBLIC KEY-----\nfake\n-----END PUBLIC KEY-----"}
	}`, uri, username, uri+"/inbox", uri+"#main-key", uri)
}

func groupActorJSON(uri, name string) string {
	return fmt.Sprintf(`{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id": %q,
		"type": "Group",
		"preferredUsername": %q,
		"name": "The %s community",
		"inbox": %q,
		"endpoints": {"sharedInbox": "https://other.test/inbox"},
		"publicKey": {"id": %q, "owner": %q, "publicKeyPem": "-----BEGIN PUBLIC KEY-----\nfake\n-----END PUBLIC KEY-----"}
	}`, uri, name, name, uri+"/inbox", uri+"#main-key", uri)
}
