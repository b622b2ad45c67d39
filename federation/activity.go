package federation

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Activity kinds handled by the dispatcher.
const (
	TypeDelete = "Delete"
	TypeFollow = "Follow"
	TypeUndo   = "Undo"
)

// PublicAudience is the well-known collection addressing everyone.
const PublicAudience = "https://www.w3.org/ns/activitystreams#Public"

// Activity is the wire envelope exchanged between instances. Summary wires
// the moderation reason: an absent summary means self-delete, a present
// summary (even the empty string) means moderator-remove.
type Activity struct {
	Context  json.RawMessage  `json:"@context,omitempty"`
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Actor    string           `json:"actor"`
	Object   IdOrNestedObject `json:"object"`
	To       []string         `json:"to,omitempty"`
	Cc       []string         `json:"cc,omitempty"`
	Audience string           `json:"audience,omitempty"`
	Summary  *string          `json:"summary,omitempty"`
}

// IdOrNestedObject is an activity object that is either a plain IRI or an
// embedded activity (Undo wraps the Follow it revokes).
type IdOrNestedObject struct {
	ID     string
	Nested *Activity
}

func (o *IdOrNestedObject) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		o.ID = id
		return nil
	}
	var nested Activity
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("object is neither IRI nor activity: %w", err)
	}
	o.Nested = &nested
	o.ID = nested.ID
	return nil
}

func (o IdOrNestedObject) MarshalJSON() ([]byte, error) {
	if o.Nested != nil {
		return json.Marshal(o.Nested)
	}
	return json.Marshal(o.ID)
}

// ObjectID returns the IRI of the object, nested or not.
func (o IdOrNestedObject) ObjectID() string {
	if o.Nested != nil {
		return o.Nested.ID
	}
	return o.ID
}

// ParseActivity decodes and validates an inbound activity payload. All
// structural requirements are enforced here, before any component sees the
// activity: required fields present, kind recognized, ids well-formed. A
// failure is reported as ErrMalformedActivity with detail.
func ParseActivity(body []byte) (*Activity, error) {
	var act Activity
	if err := json.Unmarshal(body, &act); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedActivity, err)
	}
	if err := validateActivity(&act, true); err != nil {
		return nil, err
	}
	return &act, nil
}

func validateActivity(act *Activity, outer bool) error {
	if act.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedActivity)
	}
	if !validIRI(act.ID) {
		return fmt.Errorf("%w: id %q is not an absolute IRI", ErrMalformedActivity, act.ID)
	}
	if act.Actor == "" {
		return fmt.Errorf("%w: missing actor", ErrMalformedActivity)
	}
	if !validIRI(act.Actor) {
		return fmt.Errorf("%w: actor %q is not an absolute IRI", ErrMalformedActivity, act.Actor)
	}
	switch act.Type {
	case TypeDelete, TypeFollow:
		if act.Object.ObjectID() == "" {
			return fmt.Errorf("%w: missing object", ErrMalformedActivity)
		}
	case TypeUndo:
		if act.Object.Nested == nil {
			return fmt.Errorf("%w: Undo requires an embedded activity object", ErrMalformedActivity)
		}
		if act.Object.Nested.Type != TypeFollow {
			return fmt.Errorf("%w: Undo of %q is not supported", ErrMalformedActivity, act.Object.Nested.Type)
		}
		if err := validateActivity(act.Object.Nested, false); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unrecognized activity type %q", ErrMalformedActivity, act.Type)
	}
	return nil
}

func validIRI(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// iriDomain extracts the host part of an IRI, without port.
func iriDomain(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid IRI %q", ErrMalformedActivity, raw)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: IRI %q has no host", ErrMalformedActivity, raw)
	}
	return u.Hostname(), nil
}
