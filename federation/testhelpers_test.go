package federation

import (
	"encoding/json"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/util"
	"github.com/google/uuid"
)

const (
	localHost  = "burrow.test"
	remoteHost = "other.test"
)

func testConfig() Config {
	return Config{Hostname: localHost, Protocol: "https"}
}

func testAppConfig() *util.AppConfig {
	conf := &util.AppConfig{}
	conf.Conf.SslDomain = localHost
	conf.Conf.Protocol = "https"
	return conf
}

// newRemotePerson builds a remote person on remoteHost
func newRemotePerson(username string) *domain.Person {
	uri := "https://" + remoteHost + "/u/" + username
	return &domain.Person{
		Id:            uuid.New(),
		Username:      username,
		Domain:        remoteHost,
		ActorURI:      uri,
		InboxURI:      uri + "/inbox",
		Local:         false,
		PublicKeyPem:  "irrelevant",
		LastFetchedAt: time.Now(),
	}
}

// newLocalPerson builds a local person on localHost
func newLocalPerson(username string) *domain.Person {
	uri := "https://" + localHost + "/u/" + username
	return &domain.Person{
		Id:            uuid.New(),
		Username:      username,
		Domain:        localHost,
		ActorURI:      uri,
		InboxURI:      uri + "/inbox",
		Local:         true,
		PublicKeyPem:  "irrelevant",
		LastFetchedAt: time.Now(),
	}
}

func newCommunity(name, host string, local bool) *domain.Community {
	uri := "https://" + host + "/c/" + name
	return &domain.Community{
		Id:        uuid.New(),
		Name:      name,
		Title:     name,
		Domain:    host,
		ActorURI:  uri,
		InboxURI:  uri + "/inbox",
		Local:     local,
		CreatedAt: time.Now(),
	}
}

func newPost(community *domain.Community, creator *domain.Person) *domain.Post {
	id := uuid.New()
	return &domain.Post{
		Id:          id,
		CommunityId: community.Id,
		CreatorId:   creator.Id,
		ObjectURI:   "https://" + community.Domain + "/post/" + id.String(),
		Title:       "a post",
		CreatedAt:   time.Now(),
	}
}

func newComment(post *domain.Post, creator *domain.Person) *domain.Comment {
	id := uuid.New()
	return &domain.Comment{
		Id:        id,
		PostId:    post.Id,
		CreatorId: creator.Id,
		ObjectURI: "https://" + remoteHost + "/comment/" + id.String(),
		Content:   "a comment",
		CreatedAt: time.Now(),
	}
}

func newActivityID(host, kind string) string {
	return "https://" + host + "/activities/" + kind + "/" + uuid.New().String()
}

// newDeleteActivity builds a self-delete of objectURI by actor
func newDeleteActivity(actor *domain.Person, objectURI string) *Activity {
	return &Activity{
		Context: json.RawMessage(activityContext),
		ID:      newActivityID(actor.Domain, "delete"),
		Type:    TypeDelete,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: objectURI},
		To:      []string{PublicAudience},
	}
}

// newRemoveActivity builds a moderator removal with the given summary
func newRemoveActivity(actor *domain.Person, objectURI, summary string) *Activity {
	act := newDeleteActivity(actor, objectURI)
	act.Summary = &summary
	return act
}

// newFollowActivity builds a Follow of followeeURI by actor
func newFollowActivity(actor *domain.Person, followeeURI string) *Activity {
	return &Activity{
		Context: json.RawMessage(activityContext),
		ID:      newActivityID(actor.Domain, "follow"),
		Type:    TypeFollow,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: followeeURI},
		To:      []string{followeeURI},
	}
}

// newUndoFollowActivity builds an Undo wrapping a Follow by the same actor
func newUndoFollowActivity(actor *domain.Person, followeeURI string) *Activity {
	inner := newFollowActivity(actor, followeeURI)
	inner.Context = nil
	return &Activity{
		Context: json.RawMessage(activityContext),
		ID:      newActivityID(actor.Domain, "undo"),
		Type:    TypeUndo,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: inner.ID, Nested: inner},
		To:      []string{followeeURI},
	}
}
