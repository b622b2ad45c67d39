package web

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDatabase is an in-memory Database implementation for handler tests.
type MockDatabase struct {
	PersonsByURI     map[string]*domain.Person
	LocalPersons     map[string]*domain.Person
	CommunitiesByURI map[string]*domain.Community
	LocalCommunities map[string]*domain.Community
	Ledger           map[string]*domain.LedgerEntry
	Queue            []*domain.DeliveryQueueItem
	ForceError       error
}

var _ Database = (*MockDatabase)(nil)

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		PersonsByURI:     make(map[string]*domain.Person),
		LocalPersons:     make(map[string]*domain.Person),
		CommunitiesByURI: make(map[string]*domain.Community),
		LocalCommunities: make(map[string]*domain.Community),
		Ledger:           make(map[string]*domain.LedgerEntry),
	}
}

func (m *MockDatabase) AddPerson(p *domain.Person) {
	m.PersonsByURI[p.ActorURI] = p
	if p.Local {
		m.LocalPersons[p.Username] = p
	}
}

func (m *MockDatabase) AddCommunity(c *domain.Community) {
	m.CommunitiesByURI[c.ActorURI] = c
	if c.Local {
		m.LocalCommunities[c.Name] = c
	}
}

func (m *MockDatabase) ReadPersonByActorURI(uri string) (error, *domain.Person) {
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if p, ok := m.PersonsByURI[uri]; ok {
		return nil, p
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) CreatePerson(p *domain.Person) error {
	m.AddPerson(p)
	return nil
}

func (m *MockDatabase) UpdatePerson(p *domain.Person) error {
	m.PersonsByURI[p.ActorURI] = p
	return nil
}

func (m *MockDatabase) ReadCommunityByActorURI(uri string) (error, *domain.Community) {
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if c, ok := m.CommunitiesByURI[uri]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) CreateCommunity(c *domain.Community) error {
	m.AddCommunity(c)
	return nil
}

func (m *MockDatabase) EnqueueDelivery(item *domain.DeliveryQueueItem) error {
	m.Queue = append(m.Queue, item)
	return nil
}

func (m *MockDatabase) ReadPendingDeliveries(limit int) (error, *[]domain.DeliveryQueueItem) {
	var items []domain.DeliveryQueueItem
	return nil, &items
}

func (m *MockDatabase) UpdateDeliveryAttempt(id uuid.UUID, attempts int, nextRetry time.Time) error {
	return nil
}

func (m *MockDatabase) DeleteDelivery(id uuid.UUID) error {
	return nil
}

func (m *MockDatabase) ReadLedgerEntry(apID string) (error, *domain.LedgerEntry) {
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if entry, ok := m.Ledger[apID]; ok {
		return nil, entry
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadLocalPersonByUsername(username string) (error, *domain.Person) {
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if p, ok := m.LocalPersons[username]; ok {
		return nil, p
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadLocalCommunityByName(name string) (error, *domain.Community) {
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if c, ok := m.LocalCommunities[name]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

// noFetchClient fails every request: handler tests provide all actors
// pre-cached and must never hit the network.
type noFetchClient struct{}

func (noFetchClient) Do(req *http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("unexpected fetch of %s", req.URL)
}

// MockReceiver records dispatched activities and returns a canned error.
type MockReceiver struct {
	Err        error
	Activities []*federation.Activity
	Actors     []*domain.Person
}

var _ Receiver = (*MockReceiver)(nil)

func (m *MockReceiver) Receive(act *federation.Activity, actor *domain.Person) error {
	m.Activities = append(m.Activities, act)
	m.Actors = append(m.Actors, actor)
	return m.Err
}

func testConfig() federation.Config {
	return federation.Config{Hostname: "burrow.test", Protocol: "https"}
}
