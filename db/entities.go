package db

import (
	"database/sql"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

const (
	sqlInsertPerson = `INSERT INTO persons(id, username, domain, actor_uri, inbox_uri, shared_inbox_uri, local, admin, public_key_pem, private_key_pem, last_fetched_at)
                      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sqlUpdatePerson = `UPDATE persons SET inbox_uri = ?, shared_inbox_uri = ?, public_key_pem = ?, last_fetched_at = ? WHERE actor_uri = ?`
	sqlSelectPerson = `SELECT id, username, domain, actor_uri, inbox_uri, COALESCE(shared_inbox_uri, ''), local, admin, public_key_pem, COALESCE(private_key_pem, ''), last_fetched_at
                      FROM persons`
	sqlSelectPersonByActorURI      = sqlSelectPerson + ` WHERE actor_uri = ?`
	sqlSelectPersonById            = sqlSelectPerson + ` WHERE id = ?`
	sqlSelectLocalPersonByUsername = sqlSelectPerson + ` WHERE username = ? AND local = 1`

	sqlInsertCommunity = `INSERT INTO communities(id, name, title, domain, actor_uri, inbox_uri, shared_inbox_uri, local, removed, deleted, created_at)
                         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sqlSelectCommunity = `SELECT id, name, title, domain, actor_uri, inbox_uri, COALESCE(shared_inbox_uri, ''), local, removed, deleted, created_at
                         FROM communities`
	sqlSelectCommunityByActorURI  = sqlSelectCommunity + ` WHERE actor_uri = ?`
	sqlSelectCommunityById        = sqlSelectCommunity + ` WHERE id = ?`
	sqlSelectLocalCommunityByName = sqlSelectCommunity + ` WHERE name = ? AND local = 1`

	sqlInsertPost = `INSERT INTO posts(id, community_id, creator_id, object_uri, title, body, removed, deleted, created_at)
                    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sqlSelectPostByObjectURI = `SELECT id, community_id, creator_id, object_uri, title, COALESCE(body, ''), removed, deleted, created_at
                               FROM posts WHERE object_uri = ?`

	sqlInsertComment = `INSERT INTO comments(id, post_id, creator_id, object_uri, content, removed, deleted, created_at)
                       VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	sqlSelectCommentByObjectURI = `SELECT id, post_id, creator_id, object_uri, content, removed, deleted, created_at
                                  FROM comments WHERE object_uri = ?`

	sqlInsertPrivateMessage = `INSERT INTO private_messages(id, creator_id, recipient_id, object_uri, content, deleted, created_at)
                              VALUES (?, ?, ?, ?, ?, ?, ?)`
	sqlSelectPrivateMessageByObjectURI = `SELECT id, creator_id, recipient_id, object_uri, content, deleted, created_at
                                         FROM private_messages WHERE object_uri = ?`
)

func (db *DB) CreatePerson(p *domain.Person) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertPerson, p.Id.String(), p.Username, p.Domain,
			p.ActorURI, p.InboxURI, p.SharedInboxURI, boolToInt(p.Local),
			boolToInt(p.Admin), p.PublicKeyPem, p.PrivateKeyPem, p.LastFetchedAt)
		return err
	})
}

// UpdatePerson refreshes the mutable fields of a cached remote person.
func (db *DB) UpdatePerson(p *domain.Person) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpdatePerson, p.InboxURI, p.SharedInboxURI,
			p.PublicKeyPem, p.LastFetchedAt, p.ActorURI)
		return err
	})
}

func (db *DB) ReadPersonByActorURI(uri string) (error, *domain.Person) {
	return db.readPerson(sqlSelectPersonByActorURI, uri)
}

func (db *DB) ReadPersonById(id uuid.UUID) (error, *domain.Person) {
	return db.readPerson(sqlSelectPersonById, id.String())
}

func (db *DB) ReadLocalPersonByUsername(username string) (error, *domain.Person) {
	return db.readPerson(sqlSelectLocalPersonByUsername, username)
}

func (db *DB) readPerson(query string, arg any) (error, *domain.Person) {
	row := db.db.QueryRow(query, arg)
	var p domain.Person
	var id string
	var local, admin int
	err := row.Scan(&id, &p.Username, &p.Domain, &p.ActorURI, &p.InboxURI,
		&p.SharedInboxURI, &local, &admin, &p.PublicKeyPem, &p.PrivateKeyPem,
		&p.LastFetchedAt)
	if err != nil {
		return err, nil
	}
	p.Id = mustParseUUID(id)
	p.Local = local != 0
	p.Admin = admin != 0
	return nil, &p
}

func (db *DB) CreateCommunity(c *domain.Community) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertCommunity, c.Id.String(), c.Name, c.Title,
			c.Domain, c.ActorURI, c.InboxURI, c.SharedInboxURI,
			boolToInt(c.Local), boolToInt(c.Removed), boolToInt(c.Deleted),
			c.CreatedAt)
		return err
	})
}

func (db *DB) ReadCommunityByActorURI(uri string) (error, *domain.Community) {
	return db.readCommunity(sqlSelectCommunityByActorURI, uri)
}

func (db *DB) ReadCommunityById(id uuid.UUID) (error, *domain.Community) {
	return db.readCommunity(sqlSelectCommunityById, id.String())
}

func (db *DB) ReadLocalCommunityByName(name string) (error, *domain.Community) {
	return db.readCommunity(sqlSelectLocalCommunityByName, name)
}

func (db *DB) readCommunity(query string, arg any) (error, *domain.Community) {
	row := db.db.QueryRow(query, arg)
	var c domain.Community
	var id string
	var local, removed, deleted int
	err := row.Scan(&id, &c.Name, &c.Title, &c.Domain, &c.ActorURI,
		&c.InboxURI, &c.SharedInboxURI, &local, &removed, &deleted, &c.CreatedAt)
	if err != nil {
		return err, nil
	}
	c.Id = mustParseUUID(id)
	c.Local = local != 0
	c.Removed = removed != 0
	c.Deleted = deleted != 0
	return nil, &c
}

func (db *DB) CreatePost(p *domain.Post) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertPost, p.Id.String(), p.CommunityId.String(),
			p.CreatorId.String(), p.ObjectURI, p.Title, p.Body,
			boolToInt(p.Removed), boolToInt(p.Deleted), p.CreatedAt)
		return err
	})
}

func (db *DB) ReadPostByObjectURI(uri string) (error, *domain.Post) {
	row := db.db.QueryRow(sqlSelectPostByObjectURI, uri)
	var p domain.Post
	var id, communityId, creatorId string
	var removed, deleted int
	err := row.Scan(&id, &communityId, &creatorId, &p.ObjectURI, &p.Title,
		&p.Body, &removed, &deleted, &p.CreatedAt)
	if err != nil {
		return err, nil
	}
	p.Id = mustParseUUID(id)
	p.CommunityId = mustParseUUID(communityId)
	p.CreatorId = mustParseUUID(creatorId)
	p.Removed = removed != 0
	p.Deleted = deleted != 0
	return nil, &p
}

func (db *DB) CreateComment(c *domain.Comment) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertComment, c.Id.String(), c.PostId.String(),
			c.CreatorId.String(), c.ObjectURI, c.Content,
			boolToInt(c.Removed), boolToInt(c.Deleted), c.CreatedAt)
		return err
	})
}

func (db *DB) ReadCommentByObjectURI(uri string) (error, *domain.Comment) {
	row := db.db.QueryRow(sqlSelectCommentByObjectURI, uri)
	var c domain.Comment
	var id, postId, creatorId string
	var removed, deleted int
	err := row.Scan(&id, &postId, &creatorId, &c.ObjectURI, &c.Content,
		&removed, &deleted, &c.CreatedAt)
	if err != nil {
		return err, nil
	}
	c.Id = mustParseUUID(id)
	c.PostId = mustParseUUID(postId)
	c.CreatorId = mustParseUUID(creatorId)
	c.Removed = removed != 0
	c.Deleted = deleted != 0
	return nil, &c
}

func (db *DB) CreatePrivateMessage(pm *domain.PrivateMessage) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertPrivateMessage, pm.Id.String(),
			pm.CreatorId.String(), pm.RecipientId.String(), pm.ObjectURI,
			pm.Content, boolToInt(pm.Deleted), pm.CreatedAt)
		return err
	})
}

func (db *DB) ReadPrivateMessageByObjectURI(uri string) (error, *domain.PrivateMessage) {
	row := db.db.QueryRow(sqlSelectPrivateMessageByObjectURI, uri)
	var pm domain.PrivateMessage
	var id, creatorId, recipientId string
	var deleted int
	err := row.Scan(&id, &creatorId, &recipientId, &pm.ObjectURI, &pm.Content,
		&deleted, &pm.CreatedAt)
	if err != nil {
		return err, nil
	}
	pm.Id = mustParseUUID(id)
	pm.CreatorId = mustParseUUID(creatorId)
	pm.RecipientId = mustParseUUID(recipientId)
	pm.Deleted = deleted != 0
	return nil, &pm
}

// mustParseUUID parses an id column we wrote ourselves. A parse failure
// here means the database is corrupt, not a caller error.
func mustParseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic("malformed uuid in database: " + s)
	}
	return id
}
