package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/dbx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

const returning = `RETURNING id, email, nickname, avatar_ref, progress, updated_at`

// PostgresRepository stores hunt profiles in the profiles table.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a repository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a fresh profile at progress 0 and fills in the stored
// progress and timestamp.
func (r *PostgresRepository) Create(ctx context.Context, p *hunt.Profile) error {
	query :=
		`INSERT INTO profiles (id, email, nickname, progress)
		 VALUES ($1, $2, $3, 0)
		 RETURNING progress, updated_at`

	if err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, p.Nickname).Scan(&p.Progress, &p.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// EnsureExists inserts a profile for userID unless one is already present.
func (r *PostgresRepository) EnsureExists(ctx context.Context, userID, email string) error {
	query :=
		`INSERT INTO profiles (id, email, progress)
		 VALUES ($1, $2, 0)
		 ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetProfile loads the profile of userID. A missing row yields
// common.ErrorNotFound.
func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*hunt.Profile, error) {
	query :=
		`SELECT id, email, nickname, avatar_ref, progress, updated_at FROM profiles
		 WHERE id = $1`

	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// CompareAndSetProgress only writes when the stored progress still equals
// expected. No matching row means either a missing profile or a lost race.
func (r *PostgresRepository) CompareAndSetProgress(ctx context.Context, userID string, expected, next int) (*hunt.Profile, error) {
	query :=
		`UPDATE profiles SET progress = $3, updated_at = now()
		 WHERE id = $1 AND progress = $2
		 ` + returning

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID, expected, next))
	if !errors.Is(err, common.ErrorNotFound) {
		return p, err
	}

	if _, err := r.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return nil, common.ErrVersionConflict
}

// ResetProgress sets progress back to 0 regardless of its current value.
func (r *PostgresRepository) ResetProgress(ctx context.Context, userID string) (*hunt.Profile, error) {
	query :=
		`UPDATE profiles SET progress = 0, updated_at = now()
		 WHERE id = $1
		 ` + returning

	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// UpdateNickname stores nickname and returns the updated profile.
func (r *PostgresRepository) UpdateNickname(ctx context.Context, userID, nickname string) (*hunt.Profile, error) {
	query :=
		`UPDATE profiles SET nickname = $2, updated_at = now()
		 WHERE id = $1
		 ` + returning

	return scanProfile(r.db.QueryRowContext(ctx, query, userID, nickname))
}

// UpdateAvatar stores the object key of the uploaded avatar.
func (r *PostgresRepository) UpdateAvatar(ctx context.Context, userID, avatarRef string) (*hunt.Profile, error) {
	query :=
		`UPDATE profiles SET avatar_ref = $2, updated_at = now()
		 WHERE id = $1
		 ` + returning

	return scanProfile(r.db.QueryRowContext(ctx, query, userID, avatarRef))
}

func scanProfile(row *sql.Row) (*hunt.Profile, error) {
	p := &hunt.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.Nickname, &p.AvatarRef, &p.Progress, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
