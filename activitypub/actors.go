package activitypub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/util"
	"github.com/google/uuid"
)

// actorCacheTTL is how long a cached remote actor stays fresh before the
// next lookup refetches it.
const actorCacheTTL = 24 * time.Hour

// ActorResponse represents the JSON structure of an ActivityPub actor,
// Person and Group alike.
type ActorResponse struct {
	Context           any    `json:"@context"`
	ID                string `json:"id"`
	Type              string `json:"type"`
	PreferredUsername string `json:"preferredUsername"`
	Name              string `json:"name"`
	Inbox             string `json:"inbox"`
	Outbox            string `json:"outbox"`
	Endpoints         struct {
		SharedInbox string `json:"sharedInbox"`
	} `json:"endpoints"`
	PublicKey struct {
		ID           string `json:"id"`
		Owner        string `json:"owner"`
		PublicKeyPem string `json:"publicKeyPem"`
	} `json:"publicKey"`
}

// GetOrFetchPerson returns a person actor from cache or fetches if not
// cached or stale. Production wrapper around GetOrFetchPersonWithDeps.
func GetOrFetchPerson(actorURI string, database Database) (*domain.Person, error) {
	return GetOrFetchPersonWithDeps(actorURI, defaultHTTPClient, database)
}

// GetOrFetchPersonWithDeps returns a person actor from cache or fetches if
// not cached or stale. This version accepts dependencies for testing.
func GetOrFetchPersonWithDeps(actorURI string, client HTTPClient, database Database) (*domain.Person, error) {
	err, cached := database.ReadPersonByActorURI(actorURI)
	if err == nil && cached != nil {
		if cached.Local || time.Since(cached.LastFetchedAt) < actorCacheTTL {
			return cached, nil
		}
	}
	return FetchRemotePersonWithDeps(actorURI, client, database)
}

// FetchRemotePersonWithDeps fetches a person actor from its home instance
// and stores it in the cache.
func FetchRemotePersonWithDeps(actorURI string, client HTTPClient, database Database) (*domain.Person, error) {
	actor, err := fetchActor(actorURI, client)
	if err != nil {
		return nil, err
	}
	if actor.Type != "Person" && actor.Type != "Service" {
		return nil, fmt.Errorf("actor %s is %s, not a person", actorURI, actor.Type)
	}

	domainName, err := extractDomain(actor.ID)
	if err != nil {
		return nil, err
	}

	person := &domain.Person{
		Username:       actor.PreferredUsername,
		Domain:         domainName,
		ActorURI:       actor.ID,
		InboxURI:       actor.Inbox,
		SharedInboxURI: actor.Endpoints.SharedInbox,
		Local:          false,
		PublicKeyPem:   actor.PublicKey.PublicKeyPem,
		LastFetchedAt:  time.Now(),
	}

	err, existing := database.ReadPersonByActorURI(actor.ID)
	if err == nil && existing != nil {
		person.Id = existing.Id
		if err := database.UpdatePerson(person); err != nil {
			return nil, fmt.Errorf("failed to update cached person: %w", err)
		}
	} else {
		person.Id = uuid.New()
		if err := database.CreatePerson(person); err != nil {
			return nil, fmt.Errorf("failed to cache person: %w", err)
		}
	}

	return person, nil
}

// GetOrFetchCommunity returns a community actor from cache or fetches if
// not cached. Production wrapper around GetOrFetchCommunityWithDeps.
func GetOrFetchCommunity(actorURI string, database Database) (*domain.Community, error) {
	return GetOrFetchCommunityWithDeps(actorURI, defaultHTTPClient, database)
}

// GetOrFetchCommunityWithDeps returns a community actor from cache or
// fetches a Group actor and stores it.
func GetOrFetchCommunityWithDeps(actorURI string, client HTTPClient, database Database) (*domain.Community, error) {
	err, cached := database.ReadCommunityByActorURI(actorURI)
	if err == nil && cached != nil {
		return cached, nil
	}

	actor, err := fetchActor(actorURI, client)
	if err != nil {
		return nil, err
	}
	if actor.Type != "Group" {
		return nil, fmt.Errorf("actor %s is %s, not a group", actorURI, actor.Type)
	}

	domainName, err := extractDomain(actor.ID)
	if err != nil {
		return nil, err
	}

	community := &domain.Community{
		Id:             uuid.New(),
		Name:           actor.PreferredUsername,
		Title:          actor.Name,
		Domain:         domainName,
		ActorURI:       actor.ID,
		InboxURI:       actor.Inbox,
		SharedInboxURI: actor.Endpoints.SharedInbox,
		Local:          false,
		CreatedAt:      time.Now(),
	}
	if err := database.CreateCommunity(community); err != nil {
		return nil, fmt.Errorf("failed to cache community: %w", err)
	}

	return community, nil
}

func fetchActor(actorURI string, client HTTPClient) (*ActorResponse, error) {
	req, err := http.NewRequest("GET", actorURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", util.GetNameAndVersion())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("actor fetch failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var actor ActorResponse
	if err := json.Unmarshal(body, &actor); err != nil {
		return nil, fmt.Errorf("failed to parse actor JSON: %w", err)
	}

	if actor.ID == "" || actor.Inbox == "" || actor.PublicKey.PublicKeyPem == "" {
		return nil, fmt.Errorf("actor missing required fields")
	}

	return &actor, nil
}

// extractDomain extracts the domain from an actor URI
// Example: "https://social.example/u/alice" -> "social.example"
func extractDomain(actorURI string) (string, error) {
	parsed, err := url.Parse(actorURI)
	if err != nil {
		return "", fmt.Errorf("invalid actor URI: %w", err)
	}
	return parsed.Host, nil
}
