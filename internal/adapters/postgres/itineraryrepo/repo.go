package itineraryrepo

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
	"github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
)

// Repo is a Postgres implementation of itineraryrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Days

func (r *Repo) CreateDay(ctx context.Context, d domain.Day) error {
	dayUUID, tripUUID, err := parseIDs(string(d.ID), string(d.TripID))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO days (id, trip_id, date, city, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, dayUUID, tripUUID, toDate(d.Date), d.City, d.Notes, d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return itineraryrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetDay(ctx context.Context, id domain.DayID) (domain.Day, error) {
	dayUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Day{}, itineraryrepo.ErrNotFound
	}
	return scanDay(r.pool.QueryRow(ctx, `
		SELECT id, trip_id, date, city, notes, created_at, updated_at
		FROM days
		WHERE id = $1
	`, dayUUID))
}

func (r *Repo) ListDays(ctx context.Context, tripID domain.TripID) ([]domain.Day, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Day{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, trip_id, date, city, notes, created_at, updated_at
		FROM days
		WHERE trip_id = $1
		ORDER BY date ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Day, 0)
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Events

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) error {
	return r.writeEvent(ctx, e, true)
}

func (r *Repo) SaveEvent(ctx context.Context, e domain.Event) error {
	return r.writeEvent(ctx, e, false)
}

func (r *Repo) writeEvent(ctx context.Context, e domain.Event, create bool) error {
	eventUUID, tripUUID, err := parseIDs(string(e.ID), string(e.TripID))
	if err != nil {
		return err
	}
	dayUUID, err := uuid.Parse(string(e.DayID))
	if err != nil {
		return fmt.Errorf("invalid day id: %w", err)
	}
	placeUUID, err := optionalUUID((*string)(e.PlaceID))
	if err != nil {
		return fmt.Errorf("invalid place id: %w", err)
	}

	var (
		transitMode  *string
		transitFrom  *string
		transitTo    *string
		transitInstr *string
		transitLinks []string
	)
	if e.Transit != nil {
		transitMode = (*string)(e.Transit.Mode)
		transitFrom = e.Transit.From
		transitTo = e.Transit.To
		transitInstr = e.Transit.Instructions
		transitLinks = e.Transit.Links
	}

	if create {
		_, err = r.pool.Exec(ctx, `
			INSERT INTO events (
				id, trip_id, day_id, title, start_time, end_time, type, place_id,
				transit_mode, transit_from, transit_to, transit_instructions, transit_links,
				links, sort_order, status, notes, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		`,
			eventUUID, tripUUID, dayUUID, e.Title, e.StartTime, e.EndTime, string(e.Type), placeUUID,
			transitMode, transitFrom, transitTo, transitInstr, transitLinks,
			e.Links, e.Order, string(e.Status), e.Notes, e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return itineraryrepo.ErrAlreadyExists
			}
		}
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, start_time = $3, end_time = $4, type = $5, place_id = $6,
		    transit_mode = $7, transit_from = $8, transit_to = $9,
		    transit_instructions = $10, transit_links = $11,
		    links = $12, sort_order = $13, status = $14, notes = $15, updated_at = $16
		WHERE id = $1
	`,
		eventUUID, e.Title, e.StartTime, e.EndTime, string(e.Type), placeUUID,
		transitMode, transitFrom, transitTo, transitInstr, transitLinks,
		e.Links, e.Order, string(e.Status), e.Notes, e.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error) {
	eventUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Event{}, itineraryrepo.ErrNotFound
	}
	return scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE id = $1`, eventUUID))
}

func (r *Repo) ListEvents(ctx context.Context, dayID domain.DayID) ([]domain.Event, error) {
	dayUUID, err := uuid.Parse(string(dayID))
	if err != nil {
		return []domain.Event{}, nil
	}
	rows, err := r.pool.Query(ctx, eventSelect+`
		WHERE day_id = $1
		ORDER BY sort_order ASC, id ASC
	`, dayUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteEvent(ctx context.Context, id domain.EventID) error {
	eventUUID, err := uuid.Parse(string(id))
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventUUID)
	return err
}

// Places

func (r *Repo) CreatePlace(ctx context.Context, p domain.Place) error {
	return r.writePlace(ctx, p, true)
}

func (r *Repo) SavePlace(ctx context.Context, p domain.Place) error {
	return r.writePlace(ctx, p, false)
}

func (r *Repo) writePlace(ctx context.Context, p domain.Place, create bool) error {
	placeUUID, tripUUID, err := parseIDs(string(p.ID), string(p.TripID))
	if err != nil {
		return err
	}

	if create {
		_, err = r.pool.Exec(ctx, `
			INSERT INTO places (
				id, trip_id, name, address, phone, lat, lng, google_maps_url,
				tags, notes, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
			placeUUID, tripUUID, p.Name, p.Address, p.Phone, p.Lat, p.Lng, p.GoogleMapsURL,
			p.Tags, p.Notes, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return itineraryrepo.ErrAlreadyExists
			}
		}
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE places
		SET name = $2, address = $3, phone = $4, lat = $5, lng = $6,
		    google_maps_url = $7, tags = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`,
		placeUUID, p.Name, p.Address, p.Phone, p.Lat, p.Lng,
		p.GoogleMapsURL, p.Tags, p.Notes, p.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetPlace(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	placeUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Place{}, itineraryrepo.ErrNotFound
	}
	return scanPlace(r.pool.QueryRow(ctx, placeSelect+` WHERE id = $1`, placeUUID))
}

func (r *Repo) ListPlaces(ctx context.Context, tripID domain.TripID) ([]domain.Place, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Place{}, nil
	}
	rows, err := r.pool.Query(ctx, placeSelect+`
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Place, 0)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Bookings

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	return r.writeBooking(ctx, b, true)
}

func (r *Repo) SaveBooking(ctx context.Context, b domain.Booking) error {
	return r.writeBooking(ctx, b, false)
}

func (r *Repo) writeBooking(ctx context.Context, b domain.Booking, create bool) error {
	bookingUUID, tripUUID, err := parseIDs(string(b.ID), string(b.TripID))
	if err != nil {
		return err
	}

	if create {
		_, err = r.pool.Exec(ctx, `
			INSERT INTO bookings (
				id, trip_id, type, title, confirmation_number, date, start_time,
				location, links, notes, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
			bookingUUID, tripUUID, string(b.Type), b.Title, b.ConfirmationNumber,
			toDatePtr(b.Date), b.StartTime, b.Location, b.Links, b.Notes,
			b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return itineraryrepo.ErrAlreadyExists
			}
		}
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET type = $2, title = $3, confirmation_number = $4, date = $5,
		    start_time = $6, location = $7, links = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`,
		bookingUUID, string(b.Type), b.Title, b.ConfirmationNumber,
		toDatePtr(b.Date), b.StartTime, b.Location, b.Links, b.Notes, b.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	bookingUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Booking{}, itineraryrepo.ErrNotFound
	}
	return scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE id = $1`, bookingUUID))
}

func (r *Repo) ListBookings(ctx context.Context, tripID domain.TripID) ([]domain.Booking, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Booking{}, nil
	}
	rows, err := r.pool.Query(ctx, bookingSelect+`
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteBooking(ctx context.Context, id domain.BookingID) error {
	bookingUUID, err := uuid.Parse(string(id))
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingUUID)
	return err
}

// Suggestions

func (r *Repo) CreateSuggestion(ctx context.Context, s domain.Suggestion) error {
	suggestionUUID, tripUUID, err := parseIDs(string(s.ID), string(s.TripID))
	if err != nil {
		return err
	}
	placeUUID, err := optionalUUID((*string)(s.PlaceID))
	if err != nil {
		return fmt.Errorf("invalid place id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO suggestions (
			id, trip_id, city, title, place_id, type, why, links, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		suggestionUUID, tripUUID, s.City, s.Title, placeUUID, s.Type, s.Why, s.Links,
		s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return itineraryrepo.ErrAlreadyExists
		}
	}
	return err
}

func (r *Repo) ListSuggestions(ctx context.Context, tripID domain.TripID) ([]domain.Suggestion, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Suggestion{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, trip_id, city, title, place_id, type, why, links, created_at, updated_at
		FROM suggestions
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Suggestion, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			trip      uuid.UUID
			city      string
			title     string
			placeID   *uuid.UUID
			typ       *string
			why       *string
			links     []string
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &trip, &city, &title, &placeID, &typ, &why, &links, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, domain.Suggestion{
			ID:        domain.SuggestionID(id.String()),
			TripID:    domain.TripID(trip.String()),
			City:      city,
			Title:     title,
			PlaceID:   placeIDPtr(placeID),
			Type:      typ,
			Why:       why,
			Links:     links,
			CreatedAt: createdAt.UTC(),
			UpdatedAt: updatedAt.UTC(),
		})
	}
	return out, rows.Err()
}

// Proposals

func (r *Repo) CreateProposal(ctx context.Context, p domain.Proposal) error {
	proposalUUID, tripUUID, err := parseIDs(string(p.ID), string(p.TripID))
	if err != nil {
		return err
	}
	dayUUID, err := optionalUUID((*string)(p.SuggestedDayID))
	if err != nil {
		return fmt.Errorf("invalid day id: %w", err)
	}
	proposedBy, err := uuid.Parse(string(p.ProposedBy))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO proposals (
			id, trip_id, title, category, description, links, suggested_day_id,
			status, proposed_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		proposalUUID, tripUUID, p.Title, string(p.Category), p.Description, p.Links, dayUUID,
		string(p.Status), proposedBy, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return itineraryrepo.ErrAlreadyExists
		}
	}
	return err
}

func (r *Repo) GetProposal(ctx context.Context, id domain.ProposalID) (domain.Proposal, error) {
	proposalUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Proposal{}, itineraryrepo.ErrNotFound
	}
	p, err := scanProposal(r.pool.QueryRow(ctx, proposalSelect+` WHERE id = $1`, proposalUUID))
	if err != nil {
		return domain.Proposal{}, err
	}
	p.Votes, err = r.loadVotes(ctx, proposalUUID)
	if err != nil {
		return domain.Proposal{}, err
	}
	return p, nil
}

func (r *Repo) ListProposals(ctx context.Context, tripID domain.TripID) ([]domain.Proposal, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Proposal{}, nil
	}
	rows, err := r.pool.Query(ctx, proposalSelect+`
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		proposalUUID, err := uuid.Parse(string(out[i].ID))
		if err != nil {
			return nil, err
		}
		if out[i].Votes, err = r.loadVotes(ctx, proposalUUID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SaveProposal rewrites the proposal row and its vote set in one transaction.
func (r *Repo) SaveProposal(ctx context.Context, p domain.Proposal) error {
	proposalUUID, err := uuid.Parse(string(p.ID))
	if err != nil {
		return itineraryrepo.ErrNotFound
	}
	dayUUID, err := optionalUUID((*string)(p.SuggestedDayID))
	if err != nil {
		return fmt.Errorf("invalid day id: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE proposals
		SET title = $2, category = $3, description = $4, links = $5,
		    suggested_day_id = $6, status = $7, updated_at = $8
		WHERE id = $1
	`,
		proposalUUID, p.Title, string(p.Category), p.Description, p.Links,
		dayUUID, string(p.Status), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM proposal_votes WHERE proposal_id = $1`, proposalUUID); err != nil {
		return err
	}
	for _, v := range p.Votes {
		voterUUID, err := uuid.Parse(string(v.UserID))
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO proposal_votes (proposal_id, user_id, value) VALUES ($1, $2, $3)
		`, proposalUUID, voterUUID, string(v.Value))
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) loadVotes(ctx context.Context, proposalUUID uuid.UUID) ([]domain.ProposalVote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, value
		FROM proposal_votes
		WHERE proposal_id = $1
		ORDER BY user_id ASC
	`, proposalUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProposalVote
	for rows.Next() {
		var (
			userID uuid.UUID
			value  string
		)
		if err := rows.Scan(&userID, &value); err != nil {
			return nil, err
		}
		out = append(out, domain.ProposalVote{
			UserID: domain.UserID(userID.String()),
			Value:  domain.VoteValue(value),
		})
	}
	return out, rows.Err()
}

// --- helpers ---

const eventSelect = `
	SELECT id, trip_id, day_id, title, start_time, end_time, type, place_id,
	       transit_mode, transit_from, transit_to, transit_instructions, transit_links,
	       links, sort_order, status, notes, created_at, updated_at
	FROM events
`

const placeSelect = `
	SELECT id, trip_id, name, address, phone, lat, lng, google_maps_url,
	       tags, notes, created_at, updated_at
	FROM places
`

const bookingSelect = `
	SELECT id, trip_id, type, title, confirmation_number, date, start_time,
	       location, links, notes, created_at, updated_at
	FROM bookings
`

const proposalSelect = `
	SELECT id, trip_id, title, category, description, links, suggested_day_id,
	       status, proposed_by, created_at, updated_at
	FROM proposals
`

func scanProposal(row pgx.Row) (domain.Proposal, error) {
	var (
		id          uuid.UUID
		tripID      uuid.UUID
		title       string
		category    string
		description *string
		links       []string
		dayID       *uuid.UUID
		status      string
		proposedBy  uuid.UUID
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := row.Scan(&id, &tripID, &title, &category, &description, &links, &dayID,
		&status, &proposedBy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Proposal{}, itineraryrepo.ErrNotFound
		}
		return domain.Proposal{}, err
	}

	var suggestedDayID *domain.DayID
	if dayID != nil {
		v := domain.DayID(dayID.String())
		suggestedDayID = &v
	}
	return domain.Proposal{
		ID:             domain.ProposalID(id.String()),
		TripID:         domain.TripID(tripID.String()),
		Title:          title,
		Category:       domain.ProposalCategory(category),
		Description:    description,
		Links:          links,
		SuggestedDayID: suggestedDayID,
		Status:         domain.ProposalStatus(status),
		ProposedBy:     domain.UserID(proposedBy.String()),
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      updatedAt.UTC(),
	}, nil
}

func scanDay(row pgx.Row) (domain.Day, error) {
	var (
		id        uuid.UUID
		tripID    uuid.UUID
		date      pgtype.Date
		city      string
		notes     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &tripID, &date, &city, &notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Day{}, itineraryrepo.ErrNotFound
		}
		return domain.Day{}, err
	}
	return domain.Day{
		ID:        domain.DayID(id.String()),
		TripID:    domain.TripID(tripID.String()),
		Date:      fromDate(date),
		City:      city,
		Notes:     notes,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		id           uuid.UUID
		tripID       uuid.UUID
		dayID        uuid.UUID
		title        string
		startTime    *string
		endTime      *string
		typ          string
		placeID      *uuid.UUID
		transitMode  *string
		transitFrom  *string
		transitTo    *string
		transitInstr *string
		transitLinks []string
		links        []string
		order        int
		status       string
		notes        *string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(
		&id, &tripID, &dayID, &title, &startTime, &endTime, &typ, &placeID,
		&transitMode, &transitFrom, &transitTo, &transitInstr, &transitLinks,
		&links, &order, &status, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, itineraryrepo.ErrNotFound
		}
		return domain.Event{}, err
	}

	var transit *domain.TransitInfo
	if transitMode != nil || transitFrom != nil || transitTo != nil || transitInstr != nil || len(transitLinks) > 0 {
		transit = &domain.TransitInfo{
			Mode:         (*domain.TransitMode)(transitMode),
			From:         transitFrom,
			To:           transitTo,
			Instructions: transitInstr,
			Links:        transitLinks,
		}
	}

	return domain.Event{
		ID:        domain.EventID(id.String()),
		TripID:    domain.TripID(tripID.String()),
		DayID:     domain.DayID(dayID.String()),
		Title:     title,
		StartTime: startTime,
		EndTime:   endTime,
		Type:      domain.EventType(typ),
		PlaceID:   placeIDPtr(placeID),
		Transit:   transit,
		Links:     links,
		Order:     order,
		Status:    domain.EventStatus(status),
		Notes:     notes,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func scanPlace(row pgx.Row) (domain.Place, error) {
	var (
		id        uuid.UUID
		tripID    uuid.UUID
		name      string
		address   string
		phone     *string
		lat       *float64
		lng       *float64
		mapsURL   *string
		tags      []string
		notes     *string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &tripID, &name, &address, &phone, &lat, &lng, &mapsURL, &tags, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, itineraryrepo.ErrNotFound
		}
		return domain.Place{}, err
	}
	return domain.Place{
		ID:            domain.PlaceID(id.String()),
		TripID:        domain.TripID(tripID.String()),
		Name:          name,
		Address:       address,
		Phone:         phone,
		Lat:           lat,
		Lng:           lng,
		GoogleMapsURL: mapsURL,
		Tags:          tags,
		Notes:         notes,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     updatedAt.UTC(),
	}, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		id        uuid.UUID
		tripID    uuid.UUID
		typ       string
		title     string
		confirm   *string
		date      pgtype.Date
		startTime *string
		location  *string
		links     []string
		notes     *string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &tripID, &typ, &title, &confirm, &date, &startTime, &location, &links, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, itineraryrepo.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return domain.Booking{
		ID:                 domain.BookingID(id.String()),
		TripID:             domain.TripID(tripID.String()),
		Type:               domain.BookingType(typ),
		Title:              title,
		ConfirmationNumber: confirm,
		Date:               fromDatePtr(date),
		StartTime:          startTime,
		Location:           location,
		Links:              links,
		Notes:              notes,
		CreatedAt:          createdAt.UTC(),
		UpdatedAt:          updatedAt.UTC(),
	}, nil
}

func parseIDs(id, tripID string) (uuid.UUID, uuid.UUID, error) {
	idUUID, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return idUUID, tripUUID, nil
}

func optionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	u, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func placeIDPtr(u *uuid.UUID) *domain.PlaceID {
	if u == nil {
		return nil
	}
	id := domain.PlaceID(u.String())
	return &id
}

func toDate(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func toDatePtr(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return toDate(*t)
}

func fromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func fromDatePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := fromDate(d)
	return &t
}
