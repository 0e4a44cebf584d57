package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/domain"
)

// --- response DTOs ---

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        string(u.ID),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type sessionDTO struct {
	AccessToken string  `json:"accessToken"`
	User        userDTO `json:"user"`
}

type tripDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
	Timezone  string             `json:"timezone,omitempty"`
	CreatedBy string             `json:"createdBy"`
	Role      string             `json:"role,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toTripDTO(t domain.Trip, role domain.Role) tripDTO {
	return tripDTO{
		ID:        string(t.ID),
		Name:      t.Name,
		StartDate: openapi_types.Date{Time: t.StartDate},
		EndDate:   openapi_types.Date{Time: t.EndDate},
		Timezone:  t.Timezone,
		CreatedBy: string(t.CreatedBy),
		Role:      string(role),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type collaboratorDTO struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

func toCollaboratorDTO(c domain.Collaborator) collaboratorDTO {
	return collaboratorDTO{
		UserID:  string(c.UserID),
		Email:   c.Email,
		Role:    string(c.Role),
		AddedAt: c.AddedAt,
	}
}

type shareLinkDTO struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	URL       string     `json:"url,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

func toShareLinkDTO(l domain.ShareLink, url string) shareLinkDTO {
	return shareLinkDTO{
		ID:        string(l.ID),
		Role:      string(l.Role),
		URL:       url,
		CreatedAt: l.CreatedAt,
		ExpiresAt: l.ExpiresAt,
		RevokedAt: l.RevokedAt,
	}
}

type dayDTO struct {
	ID        string             `json:"id"`
	TripID    string             `json:"tripId"`
	Date      openapi_types.Date `json:"date"`
	City      string             `json:"city,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toDayDTO(d domain.Day) dayDTO {
	return dayDTO{
		ID:        string(d.ID),
		TripID:    string(d.TripID),
		Date:      openapi_types.Date{Time: d.Date},
		City:      d.City,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type transitDTO struct {
	Mode         *string  `json:"mode,omitempty"`
	From         *string  `json:"from,omitempty"`
	To           *string  `json:"to,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
	Links        []string `json:"links,omitempty"`
}

func toTransitDTO(t *domain.TransitInfo) *transitDTO {
	if t == nil {
		return nil
	}
	return &transitDTO{
		Mode:         (*string)(t.Mode),
		From:         t.From,
		To:           t.To,
		Instructions: t.Instructions,
		Links:        t.Links,
	}
}

func fromTransitDTO(t *transitDTO) *domain.TransitInfo {
	if t == nil {
		return nil
	}
	return &domain.TransitInfo{
		Mode:         (*domain.TransitMode)(t.Mode),
		From:         t.From,
		To:           t.To,
		Instructions: t.Instructions,
		Links:        t.Links,
	}
}

type eventDTO struct {
	ID        string      `json:"id"`
	TripID    string      `json:"tripId"`
	DayID     string      `json:"dayId"`
	Title     string      `json:"title"`
	StartTime *string     `json:"startTime,omitempty"`
	EndTime   *string     `json:"endTime,omitempty"`
	Type      string      `json:"type"`
	PlaceID   *string     `json:"placeId,omitempty"`
	Transit   *transitDTO `json:"transit,omitempty"`
	Links     []string    `json:"links,omitempty"`
	Order     int         `json:"order"`
	Status    string      `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func toEventDTO(e domain.Event) eventDTO {
	return eventDTO{
		ID:        string(e.ID),
		TripID:    string(e.TripID),
		DayID:     string(e.DayID),
		Title:     e.Title,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Type:      string(e.Type),
		PlaceID:   (*string)(e.PlaceID),
		Transit:   toTransitDTO(e.Transit),
		Links:     e.Links,
		Order:     e.Order,
		Status:    string(e.Status),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type placeDTO struct {
	ID            string    `json:"id"`
	TripID        string    `json:"tripId"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	GoogleMapsURL *string   `json:"googleMapsUrl,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPlaceDTO(p domain.Place) placeDTO {
	return placeDTO{
		ID:            string(p.ID),
		TripID:        string(p.TripID),
		Name:          p.Name,
		Address:       p.Address,
		Phone:         p.Phone,
		Lat:           p.Lat,
		Lng:           p.Lng,
		GoogleMapsURL: p.GoogleMapsURL,
		Tags:          p.Tags,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type bookingDTO struct {
	ID                 string              `json:"id"`
	TripID             string              `json:"tripId"`
	Type               string              `json:"type"`
	Title              string              `json:"title"`
	ConfirmationNumber *string             `json:"confirmationNumber,omitempty"`
	Date               *openapi_types.Date `json:"date,omitempty"`
	StartTime          *string             `json:"startTime,omitempty"`
	Location           *string             `json:"location,omitempty"`
	Links              []string            `json:"links,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func toBookingDTO(b domain.Booking) bookingDTO {
	return bookingDTO{
		ID:                 string(b.ID),
		TripID:             string(b.TripID),
		Type:               string(b.Type),
		Title:              b.Title,
		ConfirmationNumber: b.ConfirmationNumber,
		Date:               toDateDTO(b.Date),
		StartTime:          b.StartTime,
		Location:           b.Location,
		Links:              b.Links,
		Notes:              b.Notes,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

type suggestionDTO struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	City      string    `json:"city"`
	Title     string    `json:"title"`
	PlaceID   *string   `json:"placeId,omitempty"`
	Type      *string   `json:"type,omitempty"`
	Why       *string   `json:"why,omitempty"`
	Links     []string  `json:"links,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSuggestionDTO(s domain.Suggestion) suggestionDTO {
	return suggestionDTO{
		ID:        string(s.ID),
		TripID:    string(s.TripID),
		City:      s.City,
		Title:     s.Title,
		PlaceID:   (*string)(s.PlaceID),
		Type:      s.Type,
		Why:       s.Why,
		Links:     s.Links,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type proposalVoteDTO struct {
	UserID string `json:"userId"`
	Value  string `json:"value"`
}

type proposalDTO struct {
	ID             string            `json:"id"`
	TripID         string            `json:"tripId"`
	Title          string            `json:"title"`
	Category       string            `json:"category"`
	Description    *string           `json:"description,omitempty"`
	Links          []string          `json:"links,omitempty"`
	SuggestedDayID *string           `json:"suggestedDayId,omitempty"`
	Status         string            `json:"status"`
	Votes          []proposalVoteDTO `json:"votes"`
	ProposedBy     string            `json:"proposedBy"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func toProposalDTO(p domain.Proposal) proposalDTO {
	votes := make([]proposalVoteDTO, 0, len(p.Votes))
	for _, v := range p.Votes {
		votes = append(votes, proposalVoteDTO{UserID: string(v.UserID), Value: string(v.Value)})
	}
	return proposalDTO{
		ID:             string(p.ID),
		TripID:         string(p.TripID),
		Title:          p.Title,
		Category:       string(p.Category),
		Description:    p.Description,
		Links:          p.Links,
		SuggestedDayID: (*string)(p.SuggestedDayID),
		Status:         string(p.Status),
		Votes:          votes,
		ProposedBy:     string(p.ProposedBy),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// --- request DTOs ---

type requestLinkRequest struct {
	Email openapi_types.Email `json:"email"`
}

type tripCreateRequest struct {
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
	Timezone  string             `json:"timezone,omitempty"`
}

type tripPatchRequest struct {
	Name      *string             `json:"name,omitempty"`
	StartDate *openapi_types.Date `json:"startDate,omitempty"`
	EndDate   *openapi_types.Date `json:"endDate,omitempty"`
	Timezone  *string             `json:"timezone,omitempty"`
}

type shareLinkCreateRequest struct {
	Role          string `json:"role"`
	ExpiresInDays *int   `json:"expiresInDays,omitempty"`
}

type collaboratorPatchRequest struct {
	Role string `json:"role"`
}

type dayCreateRequest struct {
	Date  openapi_types.Date `json:"date"`
	City  string             `json:"city,omitempty"`
	Notes string             `json:"notes,omitempty"`
}

type eventCreateRequest struct {
	Title     string      `json:"title,omitempty"`
	StartTime *string     `json:"startTime,omitempty"`
	EndTime   *string     `json:"endTime,omitempty"`
	Type      string      `json:"type,omitempty"`
	PlaceID   *string     `json:"placeId,omitempty"`
	Transit   *transitDTO `json:"transit,omitempty"`
	Links     []string    `json:"links,omitempty"`
	Order     *int        `json:"order,omitempty"`
	Status    string      `json:"status,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

func (req eventCreateRequest) toInput() itinerary.CreateEventInput {
	return itinerary.CreateEventInput{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      domain.EventType(req.Type),
		PlaceID:   (*domain.PlaceID)(req.PlaceID),
		Transit:   fromTransitDTO(req.Transit),
		Links:     req.Links,
		Order:     req.Order,
		Status:    domain.EventStatus(req.Status),
		Notes:     req.Notes,
	}
}

// Patch bodies use nullable.Nullable for clearable fields: absent leaves the
// field alone, explicit null clears it, a value replaces it.

type eventPatchRequest struct {
	Title     *string                       `json:"title,omitempty"`
	StartTime nullable.Nullable[string]     `json:"startTime,omitempty"`
	EndTime   nullable.Nullable[string]     `json:"endTime,omitempty"`
	Type      *string                       `json:"type,omitempty"`
	PlaceID   nullable.Nullable[string]     `json:"placeId,omitempty"`
	Transit   nullable.Nullable[transitDTO] `json:"transit,omitempty"`
	Links     *[]string                     `json:"links,omitempty"`
	Order     *int                          `json:"order,omitempty"`
	Status    *string                       `json:"status,omitempty"`
	Notes     nullable.Nullable[string]     `json:"notes,omitempty"`
}

func (req eventPatchRequest) toInput() (itinerary.UpdateEventInput, error) {
	var in itinerary.UpdateEventInput
	if req.Title != nil {
		in.Title = itinerary.Some(*req.Title)
	}
	var err error
	if in.StartTime, err = nullableStringPtr(req.StartTime); err != nil {
		return in, err
	}
	if in.EndTime, err = nullableStringPtr(req.EndTime); err != nil {
		return in, err
	}
	if req.Type != nil {
		in.Type = itinerary.Some(domain.EventType(*req.Type))
	}
	placeID, err := nullableStringPtr(req.PlaceID)
	if err != nil {
		return in, err
	}
	if placeID.Set {
		in.PlaceID = itinerary.Some((*domain.PlaceID)(placeID.Value))
	}
	if req.Transit.IsSpecified() {
		if req.Transit.IsNull() {
			in.Transit = itinerary.Some[*domain.TransitInfo](nil)
		} else {
			v, err := req.Transit.Get()
			if err != nil {
				return in, err
			}
			in.Transit = itinerary.Some(fromTransitDTO(&v))
		}
	}
	if req.Links != nil {
		in.Links = itinerary.Some(*req.Links)
	}
	if req.Order != nil {
		in.Order = itinerary.Some(*req.Order)
	}
	if req.Status != nil {
		in.Status = itinerary.Some(domain.EventStatus(*req.Status))
	}
	if in.Notes, err = nullableStringPtr(req.Notes); err != nil {
		return in, err
	}
	return in, nil
}

type placeCreateRequest struct {
	Name          string   `json:"name,omitempty"`
	Address       string   `json:"address,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	GoogleMapsURL *string  `json:"googleMapsUrl,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (req placeCreateRequest) toInput() itinerary.CreatePlaceInput {
	return itinerary.CreatePlaceInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Lat:           req.Lat,
		Lng:           req.Lng,
		GoogleMapsURL: req.GoogleMapsURL,
		Tags:          req.Tags,
		Notes:         req.Notes,
	}
}

type placePatchRequest struct {
	Name          *string                    `json:"name,omitempty"`
	Address       *string                    `json:"address,omitempty"`
	Phone         nullable.Nullable[string]  `json:"phone,omitempty"`
	Lat           nullable.Nullable[float64] `json:"lat,omitempty"`
	Lng           nullable.Nullable[float64] `json:"lng,omitempty"`
	GoogleMapsURL nullable.Nullable[string]  `json:"googleMapsUrl,omitempty"`
	Tags          *[]string                  `json:"tags,omitempty"`
	Notes         nullable.Nullable[string]  `json:"notes,omitempty"`
}

func (req placePatchRequest) toInput() (itinerary.UpdatePlaceInput, error) {
	var in itinerary.UpdatePlaceInput
	if req.Name != nil {
		in.Name = itinerary.Some(*req.Name)
	}
	if req.Address != nil {
		in.Address = itinerary.Some(*req.Address)
	}
	var err error
	if in.Phone, err = nullableStringPtr(req.Phone); err != nil {
		return in, err
	}
	if in.Lat, err = nullableFloatPtr(req.Lat); err != nil {
		return in, err
	}
	if in.Lng, err = nullableFloatPtr(req.Lng); err != nil {
		return in, err
	}
	if in.GoogleMapsURL, err = nullableStringPtr(req.GoogleMapsURL); err != nil {
		return in, err
	}
	if req.Tags != nil {
		in.Tags = itinerary.Some(*req.Tags)
	}
	if in.Notes, err = nullableStringPtr(req.Notes); err != nil {
		return in, err
	}
	return in, nil
}

type bookingCreateRequest struct {
	Type               string              `json:"type,omitempty"`
	Title              string              `json:"title"`
	ConfirmationNumber *string             `json:"confirmationNumber,omitempty"`
	Date               *openapi_types.Date `json:"date,omitempty"`
	StartTime          *string             `json:"startTime,omitempty"`
	Location           *string             `json:"location,omitempty"`
	Links              []string            `json:"links,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
}

func (req bookingCreateRequest) toInput() itinerary.CreateBookingInput {
	return itinerary.CreateBookingInput{
		Type:               domain.BookingType(req.Type),
		Title:              req.Title,
		ConfirmationNumber: req.ConfirmationNumber,
		Date:               fromDateDTO(req.Date),
		StartTime:          req.StartTime,
		Location:           req.Location,
		Links:              req.Links,
		Notes:              req.Notes,
	}
}

type bookingPatchRequest struct {
	Type               *string                               `json:"type,omitempty"`
	Title              *string                               `json:"title,omitempty"`
	ConfirmationNumber nullable.Nullable[string]             `json:"confirmationNumber,omitempty"`
	Date               nullable.Nullable[openapi_types.Date] `json:"date,omitempty"`
	StartTime          nullable.Nullable[string]             `json:"startTime,omitempty"`
	Location           nullable.Nullable[string]             `json:"location,omitempty"`
	Links              *[]string                             `json:"links,omitempty"`
	Notes              nullable.Nullable[string]             `json:"notes,omitempty"`
}

func (req bookingPatchRequest) toInput() (itinerary.UpdateBookingInput, error) {
	var in itinerary.UpdateBookingInput
	if req.Type != nil {
		in.Type = itinerary.Some(domain.BookingType(*req.Type))
	}
	if req.Title != nil {
		in.Title = itinerary.Some(*req.Title)
	}
	var err error
	if in.ConfirmationNumber, err = nullableStringPtr(req.ConfirmationNumber); err != nil {
		return in, err
	}
	if req.Date.IsSpecified() {
		if req.Date.IsNull() {
			in.Date = itinerary.Some[*time.Time](nil)
		} else {
			d, err := req.Date.Get()
			if err != nil {
				return in, err
			}
			t := d.Time
			in.Date = itinerary.Some(&t)
		}
	}
	if in.StartTime, err = nullableStringPtr(req.StartTime); err != nil {
		return in, err
	}
	if in.Location, err = nullableStringPtr(req.Location); err != nil {
		return in, err
	}
	if req.Links != nil {
		in.Links = itinerary.Some(*req.Links)
	}
	if in.Notes, err = nullableStringPtr(req.Notes); err != nil {
		return in, err
	}
	return in, nil
}

type suggestionCreateRequest struct {
	City    string   `json:"city"`
	Title   string   `json:"title"`
	PlaceID *string  `json:"placeId,omitempty"`
	Type    *string  `json:"type,omitempty"`
	Why     *string  `json:"why,omitempty"`
	Links   []string `json:"links,omitempty"`
}

func (req suggestionCreateRequest) toInput() itinerary.CreateSuggestionInput {
	return itinerary.CreateSuggestionInput{
		City:    req.City,
		Title:   req.Title,
		PlaceID: (*domain.PlaceID)(req.PlaceID),
		Type:    req.Type,
		Why:     req.Why,
		Links:   req.Links,
	}
}

type proposalCreateRequest struct {
	Title          string   `json:"title"`
	Category       string   `json:"category,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Links          []string `json:"links,omitempty"`
	SuggestedDayID *string  `json:"suggestedDayId,omitempty"`
}

func (req proposalCreateRequest) toInput() itinerary.CreateProposalInput {
	return itinerary.CreateProposalInput{
		Title:          req.Title,
		Category:       domain.ProposalCategory(req.Category),
		Description:    req.Description,
		Links:          req.Links,
		SuggestedDayID: (*domain.DayID)(req.SuggestedDayID),
	}
}

type proposalVoteRequest struct {
	Value string `json:"value"`
}

type proposalConvertRequest struct {
	DayID     string  `json:"dayId"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// --- helpers ---

func nullableStringPtr(n nullable.Nullable[string]) (itinerary.Optional[*string], error) {
	if !n.IsSpecified() {
		return itinerary.Optional[*string]{}, nil
	}
	if n.IsNull() {
		return itinerary.Some[*string](nil), nil
	}
	v, err := n.Get()
	if err != nil {
		return itinerary.Optional[*string]{}, err
	}
	return itinerary.Some(&v), nil
}

func nullableFloatPtr(n nullable.Nullable[float64]) (itinerary.Optional[*float64], error) {
	if !n.IsSpecified() {
		return itinerary.Optional[*float64]{}, nil
	}
	if n.IsNull() {
		return itinerary.Some[*float64](nil), nil
	}
	v, err := n.Get()
	if err != nil {
		return itinerary.Optional[*float64]{}, err
	}
	return itinerary.Some(&v), nil
}

func toDateDTO(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func fromDateDTO(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
