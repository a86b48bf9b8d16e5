package tokenauth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore is the persistent IdentityStore/ItemStore implementation. It keeps
// the same contract as MemoryStore so the binary can swap stores without the
// auth core noticing; the database serializes the display-name mutation.
type BunStore struct {
	db *bun.DB
}

var (
	_ IdentityStore = (*BunStore)(nil)
	_ ItemStore     = (*BunStore)(nil)
)

// NewBunStore creates a store over an initialized bun.DB
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// CreateSchema creates the users and items tables when missing
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}

	if _, err := s.db.NewCreateTable().
		Model((*Item)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create items table")
	}

	return nil
}

// Seed inserts fixture records, skipping users whose email already exists
func (s *BunStore) Seed(ctx context.Context, users []*User, items []Item) error {
	for _, user := range users {
		if user == nil {
			continue
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if _, err := s.db.NewInsert().
			Model(user).
			On("CONFLICT (email) DO NOTHING").
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to seed user")
		}
	}

	if len(items) > 0 {
		count, err := s.db.NewSelect().Model((*Item)(nil)).Count(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to count items")
		}
		if count == 0 {
			if _, err := s.db.NewInsert().Model(&items).Exec(ctx); err != nil {
				return errors.Wrap(err, errors.CategoryInternal, "failed to seed items")
			}
		}
	}

	return nil
}

// FindByEmail returns the record with the given key or ErrIdentityNotFound
func (s *BunStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := s.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
	}
	return user, nil
}

// UpdateDisplayName overwrites the record's display name, keeping the stored
// name when displayName is empty
func (s *BunStore) UpdateDisplayName(ctx context.Context, email, displayName string) (*User, error) {
	if displayName != "" {
		res, err := s.db.NewUpdate().
			Model((*User)(nil)).
			Set("display_name = ?", displayName).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("?TableAlias.email = ?", email).
			Exec(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "display name update failed")
		}
		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return nil, ErrIdentityNotFound
		}
	}

	return s.FindByEmail(ctx, email)
}

// ListItems returns the public catalog
func (s *BunStore) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := s.db.NewSelect().
		Model(&items).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "item listing failed")
	}
	return items, nil
}
