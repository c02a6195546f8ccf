package service

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// addressRefreshMinLen is the length guard on free-text address edits: only
// edits longer than this trigger a best-effort coordinate refresh.
const addressRefreshMinLen = 5

type draft struct {
	id          string
	customerID  string
	state       ports.DraftState
	fields      ports.CustomerInput
	coordinates *domain.Coordinates
	// gen increases on every mutation. An async geocode result carries the
	// gen captured at enqueue time and is dropped when the draft has moved
	// on, so a late response can never clobber newer state.
	gen       uint64
	createdAt time.Time
}

// DraftService manages in-progress form drafts and their lookup side effects.
type DraftService struct {
	mu     sync.Mutex
	drafts map[string]*draft

	customers ports.CustomerService
	postal    ports.PostalLookup
	geocoder  ports.Geocoder
	queue     ports.RefreshQueue
	logger    zerolog.Logger
}

func NewDraftService(
	customers ports.CustomerService,
	postal ports.PostalLookup,
	geocoder ports.Geocoder,
	logger zerolog.Logger,
) *DraftService {
	return &DraftService{
		drafts:    make(map[string]*draft),
		customers: customers,
		postal:    postal,
		geocoder:  geocoder,
		logger:    logger,
	}
}

// SetRefreshQueue wires the asynchronous refresh queue. Without a queue,
// address edits simply skip the coordinate refresh.
func (s *DraftService) SetRefreshQueue(q ports.RefreshQueue) {
	s.queue = q
}

// StartDraft opens a draft, pre-filled from an existing customer when
// customerID is non-empty.
func (s *DraftService) StartDraft(ctx context.Context, customerID string) (*ports.DraftView, error) {
	d := &draft{
		id:        uuid.NewString(),
		state:     ports.DraftEditing,
		createdAt: time.Now().UTC(),
		fields:    ports.CustomerInput{ContractTier: domain.TierBasic},
	}

	if customerID != "" {
		c, err := s.customers.GetCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		d.customerID = c.ID
		d.fields = ports.CustomerInput{
			Name:           c.Name,
			PostalCode:     c.PostalCode,
			Address:        c.Address,
			Phone:          c.Phone,
			Email:          c.Email,
			ContractTier:   c.ContractTier,
			RemovalAreaSqm: c.RemovalAreaSqm,
			ContractStart:  c.ContractStart,
			ContractEnd:    c.ContractEnd,
			BillingAmount:  c.BillingAmount,
		}
		if c.Coordinates != nil {
			d.coordinates = &domain.Coordinates{Lat: c.Coordinates.Lat, Lng: c.Coordinates.Lng}
		}
	}

	s.mu.Lock()
	s.drafts[d.id] = d
	s.mu.Unlock()

	return s.view(d), nil
}

// UpdateDraft applies a sparse patch to an editing draft. Two fields carry
// side effects: a postal code reaching exactly seven normalized digits
// invokes the address-lookup collaborator once, and an address longer than
// addressRefreshMinLen characters queues a coordinate refresh.
func (s *DraftService) UpdateDraft(ctx context.Context, draftID string, patch ports.DraftPatch) (*ports.DraftView, error) {
	s.mu.Lock()
	d, ok := s.drafts[draftID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrDraftNotFound
	}
	if d.state != ports.DraftEditing {
		s.mu.Unlock()
		return nil, domain.ErrDraftCommitted
	}

	applyPlainFields(d, patch)

	var refreshAddress string
	if patch.Address != nil {
		d.fields.Address = *patch.Address
		d.gen++
		if utf8.RuneCountInString(*patch.Address) > addressRefreshMinLen {
			refreshAddress = *patch.Address
		}
	}

	lookupCode := ""
	if patch.PostalCode != nil {
		normalized := domain.NormalizePostalCode(*patch.PostalCode)
		changed := normalized != d.fields.PostalCode
		d.fields.PostalCode = normalized
		d.gen++
		if changed && domain.IsCompletePostalCode(normalized) {
			lookupCode = normalized
		}
	}
	token := d.gen
	s.mu.Unlock()

	if lookupCode != "" {
		s.resolvePostalCode(ctx, draftID, lookupCode, token)
	} else if refreshAddress != "" {
		s.enqueueRefresh(draftID, refreshAddress, token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok = s.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return s.view(d), nil
}

// resolvePostalCode invokes the postal-lookup collaborator and, on success,
// overwrites the draft's address and queues a coordinate refresh. Lookup
// failures are logged and leave the address untouched.
func (s *DraftService) resolvePostalCode(ctx context.Context, draftID, code string, token uint64) {
	addr, err := s.postal.LookupAddress(ctx, code)
	if err != nil || addr == nil {
		s.logger.Warn().Err(err).Str("postal_code", code).Msg("postal lookup failed, address unchanged")
		return
	}

	resolved := addr.String()

	s.mu.Lock()
	d, ok := s.drafts[draftID]
	if !ok || d.state != ports.DraftEditing || d.gen != token {
		s.mu.Unlock()
		s.logger.Debug().Str("draft_id", draftID).Msg("stale postal lookup result dropped")
		return
	}
	d.fields.Address = resolved
	d.gen++
	next := d.gen
	s.mu.Unlock()

	s.enqueueRefresh(draftID, resolved, next)
}

func (s *DraftService) enqueueRefresh(draftID, address string, token uint64) {
	if s.queue == nil {
		return
	}
	s.queue.Enqueue(ports.GeocodeJob{DraftID: draftID, Address: address, Token: token})
}

// ApplyGeocode executes one queued coordinate refresh. The result is applied
// only when the draft generation still matches the job token.
func (s *DraftService) ApplyGeocode(ctx context.Context, job ports.GeocodeJob) {
	coords, err := s.geocoder.Geocode(ctx, job.Address)
	if err != nil || coords == nil {
		s.logger.Debug().Err(err).Str("draft_id", job.DraftID).Msg("coordinate refresh yielded no result")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[job.DraftID]
	if !ok || d.state != ports.DraftEditing {
		return
	}
	if d.gen != job.Token {
		s.logger.Debug().
			Str("draft_id", job.DraftID).
			Uint64("job_token", job.Token).
			Uint64("draft_gen", d.gen).
			Msg("stale geocode result dropped")
		return
	}
	d.coordinates = coords
}

// SubmitDraft resolves coordinates for the draft's address and commits the
// record. A geocoding failure never blocks the commit: the coordinates stay
// whatever they were before, absent included.
func (s *DraftService) SubmitDraft(ctx context.Context, draftID string, callerID string) (*domain.Customer, error) {
	s.mu.Lock()
	d, ok := s.drafts[draftID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrDraftNotFound
	}
	if d.state != ports.DraftEditing {
		s.mu.Unlock()
		return nil, domain.ErrDraftCommitted
	}
	d.state = ports.DraftResolving
	input := d.fields
	input.Coordinates = d.coordinates
	address := d.fields.Address
	customerID := d.customerID
	s.mu.Unlock()

	if address != "" {
		coords, err := s.geocoder.Geocode(ctx, address)
		if err != nil || coords == nil {
			s.logger.Warn().Err(err).Str("draft_id", draftID).Msg("geocoding failed on submit, keeping prior coordinates")
		} else {
			input.Coordinates = coords
		}
	}

	var committed *domain.Customer
	var err error
	if customerID == "" {
		committed, err = s.customers.CreateCustomer(ctx, input)
	} else {
		committed, err = s.customers.ReplaceCustomer(ctx, customerID, input, callerID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Commit failed: hand the draft back to the user for another attempt.
		if d, ok := s.drafts[draftID]; ok {
			d.state = ports.DraftEditing
		}
		return nil, err
	}

	delete(s.drafts, draftID)
	return committed, nil
}

// CancelDraft discards the draft. Nothing has been persisted at this point.
func (s *DraftService) CancelDraft(_ context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draftID]; !ok {
		return domain.ErrDraftNotFound
	}
	delete(s.drafts, draftID)
	return nil
}

func applyPlainFields(d *draft, patch ports.DraftPatch) {
	mutated := false
	if patch.Name != nil {
		d.fields.Name = *patch.Name
		mutated = true
	}
	if patch.Phone != nil {
		d.fields.Phone = *patch.Phone
		mutated = true
	}
	if patch.Email != nil {
		d.fields.Email = *patch.Email
		mutated = true
	}
	if patch.ContractTier != nil {
		d.fields.ContractTier = *patch.ContractTier
		mutated = true
	}
	if patch.RemovalAreaSqm != nil {
		d.fields.RemovalAreaSqm = *patch.RemovalAreaSqm
		mutated = true
	}
	if patch.ContractStart != nil {
		d.fields.ContractStart = *patch.ContractStart
		mutated = true
	}
	if patch.ContractEnd != nil {
		d.fields.ContractEnd = *patch.ContractEnd
		mutated = true
	}
	if patch.BillingAmount != nil {
		d.fields.BillingAmount = *patch.BillingAmount
		mutated = true
	}
	if mutated {
		d.gen++
	}
}

func (s *DraftService) view(d *draft) *ports.DraftView {
	v := &ports.DraftView{
		ID:         d.id,
		CustomerID: d.customerID,
		State:      d.state,
		Fields:     d.fields,
		CreatedAt:  d.createdAt,
	}
	if d.coordinates != nil {
		v.Coordinates = &domain.Coordinates{Lat: d.coordinates.Lat, Lng: d.coordinates.Lng}
	}
	return v
}
