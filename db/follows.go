package db

import (
	"database/sql"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

const (
	sqlUpsertFollow = `INSERT INTO follows(id, follower_id, followee_id, followee_kind, uri, pending, created_at)
                      VALUES (?, ?, ?, ?, ?, ?, ?)
                      ON CONFLICT(follower_id, followee_id, followee_kind)
                      DO UPDATE SET uri = excluded.uri, pending = excluded.pending`
	sqlDeleteFollow = `DELETE FROM follows WHERE follower_id = ? AND followee_id = ? AND followee_kind = ?`
	sqlSelectFollow = `SELECT id, follower_id, followee_id, followee_kind, uri, pending, created_at
                      FROM follows WHERE follower_id = ? AND followee_id = ? AND followee_kind = ?`
	sqlSelectFollowerInboxes = `SELECT DISTINCT COALESCE(NULLIF(p.shared_inbox_uri, ''), p.inbox_uri)
                      FROM follows f JOIN persons p ON p.id = f.follower_id
                      WHERE f.followee_id = ? AND f.followee_kind = ? AND f.pending = 0 AND p.local = 0`
)

// CreateFollow upserts on the (follower, followee, kind) key, so a repeated
// Follow refreshes the activity URI instead of failing.
func (db *DB) CreateFollow(follow *domain.Follow) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertFollow, follow.Id.String(),
			follow.FollowerId.String(), follow.FolloweeId.String(),
			string(follow.FolloweeKind), follow.URI,
			boolToInt(follow.Pending), follow.CreatedAt)
		return err
	})
}

// DeleteFollow removes the relationship if it exists. Deleting a missing
// relationship succeeds.
func (db *DB) DeleteFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlDeleteFollow, followerId.String(),
			followeeId.String(), string(kind))
		return err
	})
}

func (db *DB) ReadFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) (error, *domain.Follow) {
	row := db.db.QueryRow(sqlSelectFollow, followerId.String(),
		followeeId.String(), string(kind))
	var f domain.Follow
	var id, follower, followee, fkind string
	var pending int
	err := row.Scan(&id, &follower, &followee, &fkind, &f.URI, &pending, &f.CreatedAt)
	if err != nil {
		return err, nil
	}
	f.Id = mustParseUUID(id)
	f.FollowerId = mustParseUUID(follower)
	f.FolloweeId = mustParseUUID(followee)
	f.FolloweeKind = domain.FolloweeKind(fkind)
	f.Pending = pending != 0
	return nil, &f
}

// ReadFollowerInboxes returns the delivery inboxes of all remote accepted
// followers of the given followee, shared inbox preferred, deduplicated.
func (db *DB) ReadFollowerInboxes(followeeId uuid.UUID, kind domain.FolloweeKind) (error, *[]string) {
	rows, err := db.db.Query(sqlSelectFollowerInboxes, followeeId.String(), string(kind))
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var inboxes []string
	for rows.Next() {
		var inbox string
		if err := rows.Scan(&inbox); err != nil {
			return err, nil
		}
		inboxes = append(inboxes, inbox)
	}
	return rows.Err(), &inboxes
}
