package db

import (
	"database/sql"
	"log"
)

const (
	sqlCreateLocalSiteTable = `CREATE TABLE IF NOT EXISTS local_site (
		id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
		federation_enabled INTEGER NOT NULL DEFAULT 1
	)`

	sqlCreateInstancesTable = `CREATE TABLE IF NOT EXISTS instances (
		id TEXT NOT NULL PRIMARY KEY,
		domain TEXT UNIQUE NOT NULL,
		allowed INTEGER NOT NULL DEFAULT 0,
		blocked INTEGER NOT NULL DEFAULT 0
	)`

	sqlCreateInstancesIndices = `
		CREATE INDEX IF NOT EXISTS idx_instances_allowed ON instances(allowed);
		CREATE INDEX IF NOT EXISTS idx_instances_blocked ON instances(blocked);
	`

	sqlCreatePersonsTable = `CREATE TABLE IF NOT EXISTS persons (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL,
		domain TEXT NOT NULL,
		actor_uri TEXT UNIQUE NOT NULL,
		inbox_uri TEXT NOT NULL,
		shared_inbox_uri TEXT,
		local INTEGER NOT NULL DEFAULT 0,
		admin INTEGER NOT NULL DEFAULT 0,
		public_key_pem TEXT NOT NULL,
		private_key_pem TEXT,
		last_fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(username, domain)
	)`

	sqlCreatePersonsIndices = `
		CREATE INDEX IF NOT EXISTS idx_persons_actor_uri ON persons(actor_uri);
		CREATE INDEX IF NOT EXISTS idx_persons_domain ON persons(domain);
	`

	sqlCreateCommunitiesTable = `CREATE TABLE IF NOT EXISTS communities (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL,
		actor_uri TEXT UNIQUE NOT NULL,
		inbox_uri TEXT NOT NULL,
		shared_inbox_uri TEXT,
		local INTEGER NOT NULL DEFAULT 0,
		removed INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name, domain)
	)`

	sqlCreateCommunitiesIndices = `
		CREATE INDEX IF NOT EXISTS idx_communities_actor_uri ON communities(actor_uri);
		CREATE INDEX IF NOT EXISTS idx_communities_domain ON communities(domain);
	`

	sqlCreatePostsTable = `CREATE TABLE IF NOT EXISTS posts (
		id TEXT NOT NULL PRIMARY KEY,
		community_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		object_uri TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		body TEXT,
		removed INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreatePostsIndices = `
		CREATE INDEX IF NOT EXISTS idx_posts_object_uri ON posts(object_uri);
		CREATE INDEX IF NOT EXISTS idx_posts_community_id ON posts(community_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
	`

	sqlCreateCommentsTable = `CREATE TABLE IF NOT EXISTS comments (
		id TEXT NOT NULL PRIMARY KEY,
		post_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		object_uri TEXT UNIQUE NOT NULL,
		content TEXT NOT NULL,
		removed INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateCommentsIndices = `
		CREATE INDEX IF NOT EXISTS idx_comments_object_uri ON comments(object_uri);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`

	sqlCreatePrivateMessagesTable = `CREATE TABLE IF NOT EXISTS private_messages (
		id TEXT NOT NULL PRIMARY KEY,
		creator_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		object_uri TEXT UNIQUE NOT NULL,
		content TEXT NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreatePrivateMessagesIndices = `
		CREATE INDEX IF NOT EXISTS idx_private_messages_object_uri ON private_messages(object_uri);
	`

	sqlCreateFollowsTable = `CREATE TABLE IF NOT EXISTS follows (
		id TEXT NOT NULL PRIMARY KEY,
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		followee_kind TEXT NOT NULL,
		uri TEXT NOT NULL,
		pending INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(follower_id, followee_id, followee_kind)
	)`

	sqlCreateFollowsIndices = `
		CREATE INDEX IF NOT EXISTS idx_follows_follower_id ON follows(follower_id);
		CREATE INDEX IF NOT EXISTS idx_follows_followee_id ON follows(followee_id);
		CREATE INDEX IF NOT EXISTS idx_follows_uri ON follows(uri);
	`

	sqlCreateModRemoveCommunityTable = `CREATE TABLE IF NOT EXISTS mod_remove_community (
		id TEXT NOT NULL PRIMARY KEY,
		mod_person_id TEXT NOT NULL,
		community_id TEXT NOT NULL,
		reason TEXT,
		removed INTEGER NOT NULL DEFAULT 1,
		expires TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateModRemovePostTable = `CREATE TABLE IF NOT EXISTS mod_remove_post (
		id TEXT NOT NULL PRIMARY KEY,
		mod_person_id TEXT NOT NULL,
		post_id TEXT NOT NULL,
		reason TEXT,
		removed INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateModRemoveCommentTable = `CREATE TABLE IF NOT EXISTS mod_remove_comment (
		id TEXT NOT NULL PRIMARY KEY,
		mod_person_id TEXT NOT NULL,
		comment_id TEXT NOT NULL,
		reason TEXT,
		removed INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateModlogIndices = `
		CREATE INDEX IF NOT EXISTS idx_mod_remove_community_community_id ON mod_remove_community(community_id);
		CREATE INDEX IF NOT EXISTS idx_mod_remove_post_post_id ON mod_remove_post(post_id);
		CREATE INDEX IF NOT EXISTS idx_mod_remove_comment_comment_id ON mod_remove_comment(comment_id);
	`

	sqlCreateActivitiesTable = `CREATE TABLE IF NOT EXISTS activities (
		id TEXT NOT NULL PRIMARY KEY,
		ap_id TEXT UNIQUE NOT NULL,
		data TEXT NOT NULL,
		local INTEGER NOT NULL DEFAULT 0,
		sensitive INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateActivitiesIndices = `
		CREATE INDEX IF NOT EXISTS idx_activities_ap_id ON activities(ap_id);
		CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at DESC);
	`

	sqlCreateDeliveryQueueTable = `CREATE TABLE IF NOT EXISTS delivery_queue (
		id TEXT NOT NULL PRIMARY KEY,
		inbox_uri TEXT NOT NULL,
		activity_json TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateDeliveryQueueIndices = `
		CREATE INDEX IF NOT EXISTS idx_delivery_queue_next_retry ON delivery_queue(next_retry_at);
	`
)

// Migrate creates every table and index the server needs. All statements
// are idempotent so Migrate runs on every startup.
func (db *DB) Migrate() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		tables := []struct {
			name string
			stmt string
		}{
			{"local_site", sqlCreateLocalSiteTable},
			{"instances", sqlCreateInstancesTable},
			{"persons", sqlCreatePersonsTable},
			{"communities", sqlCreateCommunitiesTable},
			{"posts", sqlCreatePostsTable},
			{"comments", sqlCreateCommentsTable},
			{"private_messages", sqlCreatePrivateMessagesTable},
			{"follows", sqlCreateFollowsTable},
			{"mod_remove_community", sqlCreateModRemoveCommunityTable},
			{"mod_remove_post", sqlCreateModRemovePostTable},
			{"mod_remove_comment", sqlCreateModRemoveCommentTable},
			{"activities", sqlCreateActivitiesTable},
			{"delivery_queue", sqlCreateDeliveryQueueTable},
		}
		for _, t := range tables {
			if err := db.createTableIfNotExists(tx, t.stmt, t.name); err != nil {
				return err
			}
		}

		indices := []string{
			sqlCreateInstancesIndices,
			sqlCreatePersonsIndices,
			sqlCreateCommunitiesIndices,
			sqlCreatePostsIndices,
			sqlCreateCommentsIndices,
			sqlCreatePrivateMessagesIndices,
			sqlCreateFollowsIndices,
			sqlCreateModlogIndices,
			sqlCreateActivitiesIndices,
			sqlCreateDeliveryQueueIndices,
		}
		for _, stmt := range indices {
			if _, err := tx.Exec(stmt); err != nil {
				log.Printf("Warning: Failed to create indices: %v", err)
			}
		}

		// Make sure the singleton row exists so policy reads never miss.
		if _, err := tx.Exec(`INSERT OR IGNORE INTO local_site(id, federation_enabled) VALUES (1, 1)`); err != nil {
			return err
		}

		return nil
	})
}

func (db *DB) createTableIfNotExists(tx *sql.Tx, createSQL string, tableName string) error {
	_, err := tx.Exec(createSQL)
	if err != nil {
		log.Printf("Error creating table %s: %v", tableName, err)
		return err
	}
	return nil
}
