package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubPostalLookup struct {
	calls  int
	result *ports.PostalAddress
	err    error
}

func (s *stubPostalLookup) LookupAddress(_ context.Context, _ string) (*ports.PostalAddress, error) {
	s.calls++
	return s.result, s.err
}

type stubGeocoder struct {
	calls  int
	result *domain.Coordinates
	err    error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*domain.Coordinates, error) {
	s.calls++
	return s.result, s.err
}

// stubQueue records refresh jobs without running them; tests drive
// ApplyGeocode explicitly to control interleaving.
type stubQueue struct {
	jobs []ports.GeocodeJob
}

func (q *stubQueue) Enqueue(job ports.GeocodeJob) {
	q.jobs = append(q.jobs, job)
}

type draftFixture struct {
	svc      *DraftService
	repo     *stubCustomerRepo
	postal   *stubPostalLookup
	geocoder *stubGeocoder
	queue    *stubQueue
}

func newDraftFixture() *draftFixture {
	repo := newStubCustomerRepo()
	customers := NewCustomerService(repo, discardLogger)
	postal := &stubPostalLookup{}
	geocoder := &stubGeocoder{}
	queue := &stubQueue{}

	svc := NewDraftService(customers, postal, geocoder, discardLogger)
	svc.SetRefreshQueue(queue)

	return &draftFixture{svc: svc, repo: repo, postal: postal, geocoder: geocoder, queue: queue}
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Postal-code side transition
// ---------------------------------------------------------------------------

func TestDraftService_PostalCode_TriggersLookupExactlyOnce(t *testing.T) {
	f := newDraftFixture()
	f.postal.result = &ports.PostalAddress{Prefecture: "北海道", City: "札幌市中央区", Town: "北一条西"}

	view, err := f.svc.StartDraft(context.Background(), "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	updated, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{PostalCode: strPtr("123-4567")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Fields.PostalCode != "1234567" {
		t.Fatalf("expected normalized postal code 1234567, got %q", updated.Fields.PostalCode)
	}
	if f.postal.calls != 1 {
		t.Fatalf("expected exactly one postal lookup, got %d", f.postal.calls)
	}
	if want := "北海道札幌市中央区北一条西"; updated.Fields.Address != want {
		t.Fatalf("expected address %q, got %q", want, updated.Fields.Address)
	}

	// Re-sending the same code must not trigger another lookup.
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{PostalCode: strPtr("1234567")}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if f.postal.calls != 1 {
		t.Fatalf("unchanged code re-triggered lookup: %d calls", f.postal.calls)
	}
}

func TestDraftService_PostalCode_IncompleteDoesNotTrigger(t *testing.T) {
	f := newDraftFixture()

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{PostalCode: strPtr("123-456")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.postal.calls != 0 {
		t.Fatalf("incomplete code triggered lookup")
	}
}

func TestDraftService_PostalCode_LookupFailureLeavesAddress(t *testing.T) {
	f := newDraftFixture()
	f.postal.err = errors.New("boom")

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Address: strPtr("手入力の住所")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{PostalCode: strPtr("1234567")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fields.Address != "手入力の住所" {
		t.Fatalf("lookup failure modified the address: %q", updated.Fields.Address)
	}
	if f.postal.calls != 1 {
		t.Fatalf("expected one failed lookup attempt, got %d", f.postal.calls)
	}
}

// ---------------------------------------------------------------------------
// Address edits and coordinate refresh
// ---------------------------------------------------------------------------

func TestDraftService_AddressEdit_QueuesRefreshAboveLengthGuard(t *testing.T) {
	f := newDraftFixture()

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Address: strPtr("Sapporo Chuo-ku")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.queue.jobs) != 1 {
		t.Fatalf("expected one queued refresh, got %d", len(f.queue.jobs))
	}

	// Five characters or fewer: guard suppresses the refresh.
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Address: strPtr("Otaru")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.queue.jobs) != 1 {
		t.Fatalf("short address queued a refresh")
	}
}

func TestDraftService_ApplyGeocode_SetsCoordinates(t *testing.T) {
	f := newDraftFixture()
	f.geocoder.result = &domain.Coordinates{Lat: 43.06, Lng: 141.35}

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Address: strPtr("Sapporo Chuo-ku")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	f.svc.ApplyGeocode(context.Background(), f.queue.jobs[0])

	updated, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{})
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if updated.Coordinates == nil || updated.Coordinates.Lat != 43.06 {
		t.Fatalf("expected coordinates applied, got %+v", updated.Coordinates)
	}
}

func TestDraftService_ApplyGeocode_StaleTokenDropped(t *testing.T) {
	f := newDraftFixture()
	f.geocoder.result = &domain.Coordinates{Lat: 43.06, Lng: 141.35}

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Address: strPtr("Sapporo Chuo-ku")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stale := f.queue.jobs[0]

	// The user keeps typing before the response lands.
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Name: strPtr("Tanaka")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	f.svc.ApplyGeocode(context.Background(), stale)

	current, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{})
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if current.Coordinates != nil {
		t.Fatalf("stale geocode result was applied: %+v", current.Coordinates)
	}
}

// ---------------------------------------------------------------------------
// Submit and cancel
// ---------------------------------------------------------------------------

func TestDraftService_Submit_CreatesCustomer(t *testing.T) {
	f := newDraftFixture()
	f.geocoder.result = &domain.Coordinates{Lat: 43.06, Lng: 141.35}

	view, _ := f.svc.StartDraft(context.Background(), "")
	patch := ports.DraftPatch{
		Name:    strPtr("Tanaka"),
		Address: strPtr("Sapporo Chuo-ku"),
	}
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	committed, err := f.svc.SubmitDraft(context.Background(), view.ID, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if committed.ID == "" || committed.Name != "Tanaka" {
		t.Fatalf("unexpected committed record: %+v", committed)
	}
	if committed.Coordinates == nil || committed.Coordinates.Lat != 43.06 {
		t.Fatalf("expected coordinates resolved on submit, got %+v", committed.Coordinates)
	}

	// The draft instance is discarded after commit.
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{}); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected draft discarded, got %v", err)
	}
}

func TestDraftService_Submit_GeocodeFailureKeepsPriorCoordinates(t *testing.T) {
	f := newDraftFixture()
	f.geocoder.err = errors.New("geocoding unavailable")

	view, _ := f.svc.StartDraft(context.Background(), "")
	patch := ports.DraftPatch{Name: strPtr("Tanaka"), Address: strPtr("Tokyo")}
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	committed, err := f.svc.SubmitDraft(context.Background(), view.ID, "user-1")
	if err != nil {
		t.Fatalf("submit must not fail on geocoding errors: %v", err)
	}
	if committed.Coordinates != nil {
		t.Fatalf("coordinates appeared despite geocoding failure: %+v", committed.Coordinates)
	}
}

func TestDraftService_Submit_ReplacesExistingCustomer(t *testing.T) {
	f := newDraftFixture()

	customers := NewCustomerService(f.repo, discardLogger)
	existing, err := customers.CreateCustomer(context.Background(), minimalInput("Old Name", domain.TierBasic))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	view, err := f.svc.StartDraft(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Fields.Name != "Old Name" {
		t.Fatalf("draft not pre-filled: %+v", view.Fields)
	}

	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Name: strPtr("New Name")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	committed, err := f.svc.SubmitDraft(context.Background(), view.ID, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if committed.ID != existing.ID {
		t.Fatalf("replacement created a new identifier: %q vs %q", committed.ID, existing.ID)
	}
	if committed.Name != "New Name" {
		t.Fatalf("replacement did not apply edits: %+v", committed)
	}
}

func TestDraftService_Cancel_NoSideEffects(t *testing.T) {
	f := newDraftFixture()

	view, _ := f.svc.StartDraft(context.Background(), "")
	if _, err := f.svc.UpdateDraft(context.Background(), view.ID, ports.DraftPatch{Name: strPtr("Tanaka")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := f.svc.CancelDraft(context.Background(), view.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	all, _ := f.repo.FindAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("cancel persisted a record: %+v", all)
	}

	if err := f.svc.CancelDraft(context.Background(), view.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound on double cancel, got %v", err)
	}
}
