// Package session saves edited trees so they can be resumed later.
//
// A session holds a snapshot of a tree together with where it came from.
// The terminal explorer and the HTTP server both save into a [Store]; the
// CLI lists, shows and removes sessions.
//
// Two backends are provided:
//   - [FileStore]: one JSON file per session under the config directory
//   - [MongoStore]: a MongoDB collection, for servers shared by several users
//
// # Usage
//
//	store, err := session.NewFileStore("")  // ~/.config/treemap/sessions/
//	sess := session.New(fs.Kind, "/home/me/src", root)
//	err = store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	root, err := sess.Tree()
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Session is a saved tree.
type Session struct {
	ID        string       `json:"id" bson:"_id"`
	Kind      string       `json:"kind" bson:"kind"`
	Source    string       `json:"source" bson:"source"`
	Snapshot  *io.Snapshot `json:"snapshot" bson:"snapshot"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Summary is a session without its snapshot, as returned by [Store.List].
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Kind      string    `json:"kind" bson:"kind"`
	Source    string    `json:"source" bson:"source"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates a session with a fresh ID for the tree rooted at root.
// source records where the tree was built from (a directory or CSV path).
func New(kind, source string, root *tree.Node) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Snapshot:  io.FromTree(kind, root),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update replaces the saved tree and bumps UpdatedAt.
func (s *Session) Update(root *tree.Node) {
	s.Snapshot = io.FromTree(s.Kind, root)
	s.UpdatedAt = time.Now().UTC()
}

// Tree rebuilds the saved tree. Rectangles are not saved; lay the tree out
// again before drawing or hit-testing it.
func (s *Session) Tree() (*tree.Node, error) {
	if s.Snapshot == nil {
		return nil, errs.New(errs.ErrCodeInvalidSession, "session %s has no snapshot", s.ID)
	}
	return s.Snapshot.Tree()
}

// Summary returns s without its snapshot.
func (s *Session) Summary() Summary {
	return Summary{ID: s.ID, Kind: s.Kind, Source: s.Source, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. A missing session is a
	// SESSION_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	Close() error
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeSessionNotFound, "session not found: %s", id)
}
