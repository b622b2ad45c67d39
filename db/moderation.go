package db

import (
	"database/sql"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

const (
	sqlInsertModRemoveCommunity = `INSERT INTO mod_remove_community(id, mod_person_id, community_id, reason, removed, expires, created_at)
                                  VALUES (?, ?, ?, ?, ?, ?, ?)`
	sqlInsertModRemovePost = `INSERT INTO mod_remove_post(id, mod_person_id, post_id, reason, removed, created_at)
                             VALUES (?, ?, ?, ?, ?, ?)`
	sqlInsertModRemoveComment = `INSERT INTO mod_remove_comment(id, mod_person_id, comment_id, reason, removed, created_at)
                                VALUES (?, ?, ?, ?, ?, ?)`

	sqlUpdateCommunityRemoved = `UPDATE communities SET removed = ? WHERE id = ?`
	sqlUpdatePostRemoved      = `UPDATE posts SET removed = ? WHERE id = ?`
	sqlUpdateCommentRemoved   = `UPDATE comments SET removed = ? WHERE id = ?`

	sqlUpdateCommunityDeleted = `UPDATE communities SET deleted = ? WHERE id = ?`
	sqlUpdatePostDeleted      = `UPDATE posts SET deleted = ? WHERE id = ?`
	sqlUpdateCommentDeleted   = `UPDATE comments SET deleted = ? WHERE id = ?`
)

// RemoveCommunity flips the community's removed flag and writes the
// moderation log row in one transaction, so the audit trail can never
// disagree with the flag.
func (db *DB) RemoveCommunity(form *domain.ModRemoveCommunity) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlInsertModRemoveCommunity, form.Id.String(),
			form.ModPersonId.String(), form.CommunityId.String(), form.Reason,
			boolToInt(form.Removed), form.Expires, form.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(sqlUpdateCommunityRemoved, boolToInt(form.Removed),
			form.CommunityId.String())
		return err
	})
}

func (db *DB) RemovePost(form *domain.ModRemovePost) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlInsertModRemovePost, form.Id.String(),
			form.ModPersonId.String(), form.PostId.String(), form.Reason,
			boolToInt(form.Removed), form.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(sqlUpdatePostRemoved, boolToInt(form.Removed),
			form.PostId.String())
		return err
	})
}

func (db *DB) RemoveComment(form *domain.ModRemoveComment) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlInsertModRemoveComment, form.Id.String(),
			form.ModPersonId.String(), form.CommentId.String(), form.Reason,
			boolToInt(form.Removed), form.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(sqlUpdateCommentRemoved, boolToInt(form.Removed),
			form.CommentId.String())
		return err
	})
}

func (db *DB) UpdateCommunityDeleted(id uuid.UUID, deleted bool) error {
	return db.updateDeleted(sqlUpdateCommunityDeleted, id, deleted)
}

func (db *DB) UpdatePostDeleted(id uuid.UUID, deleted bool) error {
	return db.updateDeleted(sqlUpdatePostDeleted, id, deleted)
}

func (db *DB) UpdateCommentDeleted(id uuid.UUID, deleted bool) error {
	return db.updateDeleted(sqlUpdateCommentDeleted, id, deleted)
}

func (db *DB) updateDeleted(query string, id uuid.UUID, deleted bool) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(query, boolToInt(deleted), id.String())
		return err
	})
}
