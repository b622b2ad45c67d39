package federation

import (
	"database/sql"
	"fmt"
	"net/url"
)

// PolicySnapshot is the federation domain policy at one point in time,
// loaded per evaluation from the local site row plus the instance tables.
// Empty lists are normalized to nil, meaning unrestricted — never deny-all.
type PolicySnapshot struct {
	FederationEnabled bool
	Allowlist         []string
	Blocklist         []string
}

// LoadPolicy reads the current policy snapshot. A missing local site row
// leaves federation enabled, matching first-boot behavior.
func LoadPolicy(db Database) (*PolicySnapshot, error) {
	snap := &PolicySnapshot{FederationEnabled: true}

	err, site := db.ReadLocalSite()
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read local site: %w", err)
	}
	if site != nil {
		snap.FederationEnabled = site.FederationEnabled
	}

	err, allowed := db.ReadAllowlist()
	if err != nil {
		return nil, fmt.Errorf("failed to read allowlist: %w", err)
	}
	if allowed != nil {
		for _, inst := range *allowed {
			snap.Allowlist = append(snap.Allowlist, inst.Domain)
		}
	}

	err, blocked := db.ReadBlocklist()
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist: %w", err)
	}
	if blocked != nil {
		for _, inst := range *blocked {
			snap.Blocklist = append(snap.Blocklist, inst.Domain)
		}
	}

	return snap, nil
}

// CheckApubID decides whether an ActivityPub id is acceptable for sending
// or receiving, in permissive mode.
func CheckApubID(apubID string, snap *PolicySnapshot, cfg Config) error {
	return CheckApubIDStrict(apubID, false, snap, cfg)
}

// CheckApubIDStrict evaluates the domain policy against apubID. Strict mode
// is used when the subject is, or belongs to, a community: the allowlist
// must then contain the domain, with the local domain implicitly included.
//
// The block check always precedes the allow check and is independent of it.
func CheckApubIDStrict(apubID string, strict bool, snap *PolicySnapshot, cfg Config) error {
	u, err := url.Parse(apubID)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("%w: invalid IRI %q", ErrMalformedActivity, apubID)
	}
	domain := u.Hostname()

	// Local traffic bypasses all remote restrictions.
	if domain == cfg.Hostname {
		return nil
	}

	if !snap.FederationEnabled {
		return &DomainRejectedError{Domain: domain, Reason: "federation disabled"}
	}

	if u.Scheme != cfg.Protocol {
		return &DomainRejectedError{Domain: domain, Reason: "invalid scheme"}
	}

	if contains(snap.Blocklist, domain) {
		return &DomainRejectedError{Domain: domain, Reason: "domain blocked"}
	}

	if snap.Allowlist != nil {
		if strict {
			if !contains(snap.Allowlist, domain) && domain != cfg.Hostname {
				return &DomainRejectedError{Domain: domain, Reason: "forbidden by strict allowlist"}
			}
		} else if !contains(snap.Allowlist, domain) {
			return &DomainRejectedError{Domain: domain, Reason: "domain not in allowlist"}
		}
	}

	return nil
}

func contains(list []string, domain string) bool {
	for _, d := range list {
		if d == domain {
			return true
		}
	}
	return false
}
