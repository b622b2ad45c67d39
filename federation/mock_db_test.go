package federation

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// MockDatabase is an in-memory mock implementation of the Database
// interface for testing. It stores data in maps and tracks mutating calls
// without requiring a real database.
type MockDatabase struct {
	mu sync.RWMutex

	// Storage maps
	LocalSite        *domain.LocalSite
	Instances        []domain.Instance
	Ledger           map[string]*domain.LedgerEntry
	PersonsByURI     map[string]*domain.Person
	CommunitiesByURI map[string]*domain.Community
	CommunitiesById  map[uuid.UUID]*domain.Community
	PostsByURI       map[string]*domain.Post
	MessagesByURI    map[string]*domain.PrivateMessage
	CommentsByURI    map[string]*domain.Comment
	Follows          map[string]*domain.Follow

	// Error injection for testing error handling
	ForceError error

	// Call tracking for testing
	RemoveCommunityCalls []*domain.ModRemoveCommunity
	RemovePostCalls      []*domain.ModRemovePost
	RemoveCommentCalls   []*domain.ModRemoveComment
	DeletedCommunities   []uuid.UUID
	DeletedPosts         []uuid.UUID
	DeletedComments      []uuid.UUID
	DeleteFollowCalls    int
}

var _ Database = (*MockDatabase)(nil)

// NewMockDatabase creates a new mock database with initialized maps
func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		Ledger:           make(map[string]*domain.LedgerEntry),
		PersonsByURI:     make(map[string]*domain.Person),
		CommunitiesByURI: make(map[string]*domain.Community),
		CommunitiesById:  make(map[uuid.UUID]*domain.Community),
		PostsByURI:       make(map[string]*domain.Post),
		CommentsByURI:    make(map[string]*domain.Comment),
		MessagesByURI:    make(map[string]*domain.PrivateMessage),
		Follows:          make(map[string]*domain.Follow),
	}
}

// AddPerson adds a person to the mock database
func (m *MockDatabase) AddPerson(p *domain.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersonsByURI[p.ActorURI] = p
}

// AddCommunity adds a community to the mock database
func (m *MockDatabase) AddCommunity(c *domain.Community) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommunitiesByURI[c.ActorURI] = c
	m.CommunitiesById[c.Id] = c
}

// AddPost adds a post to the mock database
func (m *MockDatabase) AddPost(p *domain.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsByURI[p.ObjectURI] = p
}

// AddComment adds a comment to the mock database
func (m *MockDatabase) AddComment(c *domain.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommentsByURI[c.ObjectURI] = c
}

// AddPrivateMessage adds a private message to the mock database
func (m *MockDatabase) AddPrivateMessage(pm *domain.PrivateMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesByURI[pm.ObjectURI] = pm
}

func followKey(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) string {
	return fmt.Sprintf("%s|%s|%s", followerId, followeeId, kind)
}

func (m *MockDatabase) ReadLocalSite() (error, *domain.LocalSite) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	if m.LocalSite == nil {
		return sql.ErrNoRows, nil
	}
	return nil, m.LocalSite
}

func (m *MockDatabase) ReadAllowlist() (error, *[]domain.Instance) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	var list []domain.Instance
	for _, inst := range m.Instances {
		if inst.Allowed {
			list = append(list, inst)
		}
	}
	return nil, &list
}

func (m *MockDatabase) ReadBlocklist() (error, *[]domain.Instance) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	var list []domain.Instance
	for _, inst := range m.Instances {
		if inst.Blocked {
			list = append(list, inst)
		}
	}
	return nil, &list
}

func (m *MockDatabase) CreateLedgerEntry(entry *domain.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	if _, exists := m.Ledger[entry.ApID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, entry.ApID)
	}
	m.Ledger[entry.ApID] = entry
	return nil
}

func (m *MockDatabase) ReadLedgerEntry(apID string) (error, *domain.LedgerEntry) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	entry, ok := m.Ledger[apID]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, entry
}

func (m *MockDatabase) ReadPersonByActorURI(uri string) (error, *domain.Person) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	p, ok := m.PersonsByURI[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, p
}

func (m *MockDatabase) ReadCommunityByActorURI(uri string) (error, *domain.Community) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	c, ok := m.CommunitiesByURI[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, c
}

func (m *MockDatabase) ReadCommunityById(id uuid.UUID) (error, *domain.Community) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	c, ok := m.CommunitiesById[id]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, c
}

func (m *MockDatabase) ReadPostByObjectURI(uri string) (error, *domain.Post) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	p, ok := m.PostsByURI[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, p
}

func (m *MockDatabase) ReadCommentByObjectURI(uri string) (error, *domain.Comment) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	c, ok := m.CommentsByURI[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, c
}

func (m *MockDatabase) ReadPrivateMessageByObjectURI(uri string) (error, *domain.PrivateMessage) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ForceError != nil {
		return m.ForceError, nil
	}
	pm, ok := m.MessagesByURI[uri]
	if !ok {
		return sql.ErrNoRows, nil
	}
	return nil, pm
}

func (m *MockDatabase) RemoveCommunity(form *domain.ModRemoveCommunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemoveCommunityCalls = append(m.RemoveCommunityCalls, form)
	if c, ok := m.CommunitiesById[form.CommunityId]; ok {
		c.Removed = form.Removed
	}
	return nil
}

func (m *MockDatabase) RemovePost(form *domain.ModRemovePost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemovePostCalls = append(m.RemovePostCalls, form)
	for _, p := range m.PostsByURI {
		if p.Id == form.PostId {
			p.Removed = form.Removed
		}
	}
	return nil
}

func (m *MockDatabase) RemoveComment(form *domain.ModRemoveComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemoveCommentCalls = append(m.RemoveCommentCalls, form)
	for _, c := range m.CommentsByURI {
		if c.Id == form.CommentId {
			c.Removed = form.Removed
		}
	}
	return nil
}

func (m *MockDatabase) UpdateCommunityDeleted(id uuid.UUID, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeletedCommunities = append(m.DeletedCommunities, id)
	if c, ok := m.CommunitiesById[id]; ok {
		c.Deleted = deleted
	}
	return nil
}

func (m *MockDatabase) UpdatePostDeleted(id uuid.UUID, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeletedPosts = append(m.DeletedPosts, id)
	for _, p := range m.PostsByURI {
		if p.Id == id {
			p.Deleted = deleted
		}
	}
	return nil
}

func (m *MockDatabase) UpdateCommentDeleted(id uuid.UUID, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeletedComments = append(m.DeletedComments, id)
	for _, c := range m.CommentsByURI {
		if c.Id == id {
			c.Deleted = deleted
		}
	}
	return nil
}

func (m *MockDatabase) CreateFollow(follow *domain.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.Follows[followKey(follow.FollowerId, follow.FolloweeId, follow.FolloweeKind)] = follow
	return nil
}

func (m *MockDatabase) DeleteFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeleteFollowCalls++
	delete(m.Follows, followKey(followerId, followeeId, kind))
	return nil
}

// GetFollow returns the stored follow relationship, if any
func (m *MockDatabase) GetFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) *domain.Follow {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Follows[followKey(followerId, followeeId, kind)]
}
