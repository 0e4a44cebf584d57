package triprepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/trippio/trippio-api/internal/adapters/postgres"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	creatorUUID, err := uuid.Parse(string(t.CreatedBy))
	if err != nil {
		return fmt.Errorf("invalid creator id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (id, name, start_date, end_date, timezone, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		tripUUID,
		t.Name,
		toDate(t.StartDate),
		toDate(t.EndDate),
		t.Timezone,
		creatorUUID,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, t domain.Trip) error {
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return triprepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Creator is immutable; the update never touches created_by.
		tag, err := tx.Exec(ctx, `
			UPDATE trips
			SET name = $2,
			    start_date = $3,
			    end_date = $4,
			    timezone = $5,
			    updated_at = $6
			WHERE id = $1
		`,
			tripUUID,
			t.Name,
			toDate(t.StartDate),
			toDate(t.EndDate),
			t.Timezone,
			t.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return triprepo.ErrNotFound
		}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, start_date, end_date, timezone, created_by, created_at, updated_at
		FROM trips
		WHERE id = $1
	`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error) {
	userUUID, err := uuid.Parse(string(userID))
	if err != nil {
		return []domain.Trip{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT tr.id, tr.name, tr.start_date, tr.end_date, tr.timezone, tr.created_by, tr.created_at, tr.updated_at
		FROM trips tr
		JOIN trip_collaborators c ON c.trip_id = tr.id
		WHERE c.user_id = $1
		ORDER BY tr.start_date ASC, tr.id ASC
	`, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) AddCollaborator(ctx context.Context, c domain.Collaborator) error {
	tripUUID, userUUID, err := parsePair(c.TripID, c.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO trip_collaborators (trip_id, user_id, email, role, added_at)
		VALUES ($1, $2, $3, $4, $5)
	`, tripUUID, userUUID, c.Email, string(c.Role), c.AddedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok {
			switch pe.Code {
			case postgres.UniqueViolationCode:
				return triprepo.ErrCollaboratorExists
			case postgres.ForeignKeyViolationCode:
				return triprepo.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (r *Repo) GetCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Collaborator, error) {
	tripUUID, userUUID, err := parsePair(tripID, userID)
	if err != nil {
		return domain.Collaborator{}, triprepo.ErrCollaboratorNotFound
	}

	var (
		c       domain.Collaborator
		role    string
		addedAt time.Time
	)
	err = r.pool.QueryRow(ctx, `
		SELECT email, role, added_at
		FROM trip_collaborators
		WHERE trip_id = $1 AND user_id = $2
	`, tripUUID, userUUID).Scan(&c.Email, &role, &addedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Collaborator{}, triprepo.ErrCollaboratorNotFound
		}
		return domain.Collaborator{}, err
	}
	c.TripID = tripID
	c.UserID = userID
	c.Role = domain.Role(role)
	c.AddedAt = addedAt.UTC()
	return c, nil
}

func (r *Repo) ListCollaborators(ctx context.Context, tripID domain.TripID) ([]domain.Collaborator, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Collaborator{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id, email, role, added_at
		FROM trip_collaborators
		WHERE trip_id = $1
		ORDER BY added_at ASC, user_id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Collaborator, 0)
	for rows.Next() {
		var (
			userUUID uuid.UUID
			email    string
			role     string
			addedAt  time.Time
		)
		if err := rows.Scan(&userUUID, &email, &role, &addedAt); err != nil {
			return nil, err
		}
		out = append(out, domain.Collaborator{
			TripID:  tripID,
			UserID:  domain.UserID(userUUID.String()),
			Email:   email,
			Role:    domain.Role(role),
			AddedAt: addedAt.UTC(),
		})
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCollaboratorRole(ctx context.Context, tripID domain.TripID, userID domain.UserID, role domain.Role) error {
	tripUUID, userUUID, err := parsePair(tripID, userID)
	if err != nil {
		return triprepo.ErrCollaboratorNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE trip_collaborators
		SET role = $3
		WHERE trip_id = $1 AND user_id = $2
	`, tripUUID, userUUID, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrCollaboratorNotFound
	}
	return nil
}

func (r *Repo) RemoveCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) error {
	tripUUID, userUUID, err := parsePair(tripID, userID)
	if err != nil {
		return triprepo.ErrCollaboratorNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM trip_collaborators
		WHERE trip_id = $1 AND user_id = $2
	`, tripUUID, userUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrCollaboratorNotFound
	}
	return nil
}

func (r *Repo) CreateShareLink(ctx context.Context, l domain.ShareLink) error {
	linkUUID, err := uuid.Parse(string(l.ID))
	if err != nil {
		return fmt.Errorf("invalid share link id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(l.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO share_links (id, trip_id, role, token_hash, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		linkUUID,
		tripUUID,
		string(l.Role),
		l.TokenHash,
		l.CreatedAt.UTC(),
		utcPtr(l.ExpiresAt),
		utcPtr(l.RevokedAt),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID) (domain.ShareLink, error) {
	linkUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.ShareLink{}, triprepo.ErrShareLinkNotFound
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return domain.ShareLink{}, triprepo.ErrShareLinkNotFound
	}
	return scanShareLink(r.pool.QueryRow(ctx, `
		SELECT id, trip_id, role, token_hash, created_at, expires_at, revoked_at
		FROM share_links
		WHERE id = $1 AND trip_id = $2
	`, linkUUID, tripUUID))
}

func (r *Repo) GetShareLinkByTokenHash(ctx context.Context, tokenHash string) (domain.ShareLink, error) {
	return scanShareLink(r.pool.QueryRow(ctx, `
		SELECT id, trip_id, role, token_hash, created_at, expires_at, revoked_at
		FROM share_links
		WHERE token_hash = $1
	`, tokenHash))
}

func (r *Repo) ListShareLinks(ctx context.Context, tripID domain.TripID) ([]domain.ShareLink, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.ShareLink{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, trip_id, role, token_hash, created_at, expires_at, revoked_at
		FROM share_links
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ShareLink, 0)
	for rows.Next() {
		l, err := scanShareLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) RevokeShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID, at time.Time) error {
	linkUUID, err := uuid.Parse(string(id))
	if err != nil {
		return triprepo.ErrShareLinkNotFound
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return triprepo.ErrShareLinkNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE share_links
		SET revoked_at = $3
		WHERE id = $1 AND trip_id = $2 AND revoked_at IS NULL
	`, linkUUID, tripUUID, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM share_links WHERE id = $1 AND trip_id = $2)
		`, linkUUID, tripUUID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return triprepo.ErrShareLinkNotFound
		}
	}
	return nil
}

// --- helpers ---

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		id        uuid.UUID
		name      string
		startDate pgtype.Date
		endDate   pgtype.Date
		timezone  string
		createdBy uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &startDate, &endDate, &timezone, &createdBy, &createdAt, &updatedAt); err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{
		ID:        domain.TripID(id.String()),
		Name:      name,
		StartDate: fromDate(startDate),
		EndDate:   fromDate(endDate),
		Timezone:  timezone,
		CreatedBy: domain.UserID(createdBy.String()),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func scanShareLink(row pgx.Row) (domain.ShareLink, error) {
	var (
		id        uuid.UUID
		tripID    uuid.UUID
		role      string
		tokenHash string
		createdAt time.Time
		expiresAt *time.Time
		revokedAt *time.Time
	)
	if err := row.Scan(&id, &tripID, &role, &tokenHash, &createdAt, &expiresAt, &revokedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShareLink{}, triprepo.ErrShareLinkNotFound
		}
		return domain.ShareLink{}, err
	}
	return domain.ShareLink{
		ID:        domain.ShareLinkID(id.String()),
		TripID:    domain.TripID(tripID.String()),
		Role:      domain.Role(role),
		TokenHash: tokenHash,
		CreatedAt: createdAt.UTC(),
		ExpiresAt: utcPtr(expiresAt),
		RevokedAt: utcPtr(revokedAt),
	}, nil
}

func parsePair(tripID domain.TripID, userID domain.UserID) (uuid.UUID, uuid.UUID, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	userUUID, err := uuid.Parse(string(userID))
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid user id: %w", err)
	}
	return tripUUID, userUUID, nil
}

func toDate(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func fromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
