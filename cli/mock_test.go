package cli

import (
	"database/sql"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/google/uuid"
)

// MockDatabase is an in-memory Database implementation tracking mutating
// calls.
type MockDatabase struct {
	LocalPersons     map[string]*domain.Person
	PersonsByURI     map[string]*domain.Person
	CommunitiesByURI map[string]*domain.Community
	CommunitiesById  map[uuid.UUID]*domain.Community
	LocalCommunities map[string]*domain.Community
	PostsByURI       map[string]*domain.Post
	CommentsByURI    map[string]*domain.Comment
	FollowerInboxes  []string

	ForceError error

	RemovePostCalls      []*domain.ModRemovePost
	RemoveCommentCalls   []*domain.ModRemoveComment
	RemoveCommunityCalls []*domain.ModRemoveCommunity
	CreatedFollows       []*domain.Follow
	DeleteFollowCalls    int
	SavedSites           []*domain.LocalSite
	UpsertedInstances    []*domain.Instance
}

var _ Database = (*MockDatabase)(nil)

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		LocalPersons:     make(map[string]*domain.Person),
		PersonsByURI:     make(map[string]*domain.Person),
		CommunitiesByURI: make(map[string]*domain.Community),
		CommunitiesById:  make(map[uuid.UUID]*domain.Community),
		LocalCommunities: make(map[string]*domain.Community),
		PostsByURI:       make(map[string]*domain.Post),
		CommentsByURI:    make(map[string]*domain.Comment),
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
	m.CommunitiesById[c.Id] = c
	if c.Local {
		m.LocalCommunities[c.Name] = c
	}
}

func (m *MockDatabase) ReadLocalPersonByUsername(username string) (error, *domain.Person) {
	if p, ok := m.LocalPersons[username]; ok {
		return nil, p
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadPersonByActorURI(uri string) (error, *domain.Person) {
	if p, ok := m.PersonsByURI[uri]; ok {
		return nil, p
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadCommunityByActorURI(uri string) (error, *domain.Community) {
	if c, ok := m.CommunitiesByURI[uri]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadCommunityById(id uuid.UUID) (error, *domain.Community) {
	if c, ok := m.CommunitiesById[id]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadLocalCommunityByName(name string) (error, *domain.Community) {
	if c, ok := m.LocalCommunities[name]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadPostByObjectURI(uri string) (error, *domain.Post) {
	if p, ok := m.PostsByURI[uri]; ok {
		return nil, p
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) ReadCommentByObjectURI(uri string) (error, *domain.Comment) {
	if c, ok := m.CommentsByURI[uri]; ok {
		return nil, c
	}
	return sql.ErrNoRows, nil
}

func (m *MockDatabase) RemoveCommunity(form *domain.ModRemoveCommunity) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemoveCommunityCalls = append(m.RemoveCommunityCalls, form)
	return nil
}

func (m *MockDatabase) RemovePost(form *domain.ModRemovePost) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemovePostCalls = append(m.RemovePostCalls, form)
	return nil
}

func (m *MockDatabase) RemoveComment(form *domain.ModRemoveComment) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.RemoveCommentCalls = append(m.RemoveCommentCalls, form)
	return nil
}

func (m *MockDatabase) CreateFollow(follow *domain.Follow) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.CreatedFollows = append(m.CreatedFollows, follow)
	return nil
}

func (m *MockDatabase) DeleteFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.DeleteFollowCalls++
	return nil
}

func (m *MockDatabase) ReadFollowerInboxes(followeeId uuid.UUID, kind domain.FolloweeKind) (error, *[]string) {
	inboxes := m.FollowerInboxes
	return nil, &inboxes
}

func (m *MockDatabase) SaveLocalSite(site *domain.LocalSite) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.SavedSites = append(m.SavedSites, site)
	return nil
}

func (m *MockDatabase) ReadLocalSite() (error, *domain.LocalSite) {
	return nil, &domain.LocalSite{FederationEnabled: true}
}

func (m *MockDatabase) UpsertInstance(inst *domain.Instance) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.UpsertedInstances = append(m.UpsertedInstances, inst)
	return nil
}

// MockSender records delivery hand-offs.
type MockSender struct {
	Activities []*federation.Activity
	Inboxes    [][]string
	ForceError error
}

var _ Sender = (*MockSender)(nil)

func (m *MockSender) Send(act *federation.Activity, inboxes []string) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.Activities = append(m.Activities, act)
	m.Inboxes = append(m.Inboxes, inboxes)
	return nil
}

func newAdmin(username string) *domain.Person {
	uri := "https://burrow.test/u/" + username
	return &domain.Person{
		Id:            uuid.New(),
		Username:      username,
		Domain:        "burrow.test",
		ActorURI:      uri,
		InboxURI:      uri + "/inbox",
		Local:         true,
		Admin:         true,
		LastFetchedAt: time.Now(),
	}
}

func testConfig() federation.Config {
	return federation.Config{Hostname: "burrow.test", Protocol: "https"}
}
