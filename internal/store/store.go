package store

import (
	"context"
	"errors"

	"github.com/corethink/backend/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrNestedTx      = errors.New("store: nested transactions are not supported")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Projects() Projects

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it
	// automatically handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by the OAuth bridge to find-or-create.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email fails with ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to projects (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Projects interface {
	// CreateProject inserts a new project (id is ULID). A duplicate
	// domain name fails with ErrAlreadyExists; an unknown owner fails
	// with ErrNotFound.
	CreateProject(ctx context.Context, p domain.Project) error

	// GetProjectByID returns a project by id.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// GetProjectByDomain returns a project by its unique domain name.
	GetProjectByDomain(ctx context.Context, domainName string) (domain.Project, error)

	// ListProjectsByUser returns a user's projects, newest first.
	ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error)

	// UpdateProject overwrites the mutable fields and bumps updated_at.
	UpdateProject(ctx context.Context, p domain.Project) error

	// UpdateProjectMessages replaces the message history document.
	UpdateProjectMessages(ctx context.Context, projectID string, messages []domain.Message) error

	// UpdateProjectURL sets the public URL after a deployment succeeds.
	UpdateProjectURL(ctx context.Context, projectID string, url string) error

	// DeleteProject removes a project.
	DeleteProject(ctx context.Context, projectID string) error
}
