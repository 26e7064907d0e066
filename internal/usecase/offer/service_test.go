package offer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/phonedex/internal/domain"
	dombatch "github.com/kailas-cloud/phonedex/internal/domain/batch"
	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// --- Mocks ---

type mockRepo struct {
	offers       map[string]domoffer.Offer
	createMany   [][]*domoffer.Offer
	createErr    error
	lastFilter   domoffer.ListFilter
	lastOffset   int
	lastLimit    int
	listTotal    int
	updatedPatch patch.Patch
}

func newMockRepo() *mockRepo {
	return &mockRepo{offers: make(map[string]domoffer.Offer)}
}

func (m *mockRepo) Create(_ context.Context, o *domoffer.Offer) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.offers[o.ID] = *o
	return nil
}

func (m *mockRepo) CreateMany(_ context.Context, offers []*domoffer.Offer) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createMany = append(m.createMany, offers)
	for _, o := range offers {
		m.offers[o.ID] = *o
	}
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domoffer.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return domoffer.Offer{}, domain.ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) ByPhoneSlug(_ context.Context, slug string) ([]domoffer.Offer, error) {
	var out []domoffer.Offer
	for _, o := range m.offers {
		if o.Phone.Slug == slug {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockRepo) ByPhoneID(_ context.Context, phoneID string) ([]domoffer.Offer, error) {
	var out []domoffer.Offer
	for _, o := range m.offers {
		if o.Phone.ID == phoneID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockRepo) List(
	_ context.Context, f domoffer.ListFilter, offset, limit int,
) ([]domoffer.Offer, int, error) {
	m.lastFilter = f
	m.lastOffset = offset
	m.lastLimit = limit
	return nil, m.listTotal, nil
}

func (m *mockRepo) Update(
	_ context.Context, id string, p patch.Patch, prepare func(*domoffer.Offer) error,
) (domoffer.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return domoffer.Offer{}, domain.ErrNotFound
	}
	m.updatedPatch = p
	doc := p.Apply(map[string]any{"dealType": string(o.DealType), "network": o.Network})
	dt, _ := doc["dealType"].(string)
	o.DealType = domoffer.DealType(dt)
	o.Network, _ = doc["network"].(string)
	if err := prepare(&o); err != nil {
		return domoffer.Offer{}, err
	}
	m.offers[id] = o
	return o, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.offers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.offers, id)
	return nil
}

type mockPhones struct {
	phones map[string]domphone.Phone
	gets   int
}

func (m *mockPhones) Get(_ context.Context, id string) (domphone.Phone, error) {
	m.gets++
	p, ok := m.phones[id]
	if !ok {
		return domphone.Phone{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPhones) GetBySlug(_ context.Context, slug string) (domphone.Phone, error) {
	for _, p := range m.phones {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domphone.Phone{}, domain.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockPhones) {
	t.Helper()
	repo := newMockRepo()
	phones := &mockPhones{phones: map[string]domphone.Phone{
		"p1": {ID: "p1", Name: "iPhone 15", Brand: "Apple", Slug: "iphone-15", OS: domphone.IOS},
	}}
	svc := New(repo, phones)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("offer-%d", n)
	}
	return svc, repo, phones
}

// --- Tests ---

func TestAdd(t *testing.T) {
	svc, repo, _ := newTestService(t)

	o, err := svc.Add(context.Background(), Input{
		PhoneID: "p1",
		Offer:   domoffer.Offer{Network: " EE ", Deal: domoffer.Deal{Cost: 30}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != "offer-1" {
		t.Errorf("ID = %q", o.ID)
	}
	if o.Phone.Slug != "iphone-15" || o.Phone.Brand != "Apple" {
		t.Errorf("phone summary = %+v", o.Phone)
	}
	if o.DealType != domoffer.Contract {
		t.Errorf("DealType = %q, want default contract", o.DealType)
	}
	if o.Network != "EE" {
		t.Errorf("Network = %q", o.Network)
	}
	if _, ok := repo.offers["offer-1"]; !ok {
		t.Error("offer not stored")
	}
}

func TestAdd_PhoneNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add(context.Background(), Input{PhoneID: "missing"})
	if !errors.Is(err, ErrPhoneNotFound) {
		t.Fatalf("expected ErrPhoneNotFound, got %v", err)
	}
}

func TestAdd_MissingPhoneID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add(context.Background(), Input{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAdd_InvalidDeal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add(context.Background(), Input{
		PhoneID: "p1",
		Offer:   domoffer.Offer{Deal: domoffer.Deal{Cost: -1}},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddBulk_PartialFailure(t *testing.T) {
	svc, repo, phones := newTestService(t)

	results := svc.AddBulk(context.Background(), []Input{
		{PhoneID: "p1", Offer: domoffer.Offer{Network: "EE"}},
		{PhoneID: "missing"},
		{PhoneID: "p1", Offer: domoffer.Offer{DealType: "lease"}},
		{PhoneID: "p1", Offer: domoffer.Offer{Network: "O2"}},
	})

	ok, failed := dombatch.Summary(results)
	if ok != 2 || failed != 2 {
		t.Fatalf("ok/failed = %d/%d, want 2/2", ok, failed)
	}
	if results[0].Status() != dombatch.StatusOK || results[3].Status() != dombatch.StatusOK {
		t.Errorf("statuses = %v, %v", results[0].Status(), results[3].Status())
	}
	if !errors.Is(results[1].Err(), ErrPhoneNotFound) {
		t.Errorf("item 1 err = %v", results[1].Err())
	}
	if results[2].Index() != 2 {
		t.Errorf("item 2 index = %d", results[2].Index())
	}
	if len(repo.createMany) != 1 || len(repo.createMany[0]) != 2 {
		t.Errorf("CreateMany batches = %d", len(repo.createMany))
	}
	// p1 is resolved once for the whole batch.
	if phones.gets != 2 {
		t.Errorf("phone lookups = %d, want 2", phones.gets)
	}
}

func TestAddBulk_StoreFailureMarksAll(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.createErr = errors.New("store down")

	results := svc.AddBulk(context.Background(), []Input{{PhoneID: "p1"}, {PhoneID: "p1"}})
	if _, failed := dombatch.Summary(results); failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}
}

func TestAddBulk_TooLarge(t *testing.T) {
	svc, repo, _ := newTestService(t)
	svc.WithMaxBatchSize(1)

	results := svc.AddBulk(context.Background(), []Input{{PhoneID: "p1"}, {PhoneID: "p1"}})
	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrValidation) {
			t.Errorf("item %d err = %v", r.Index(), r.Err())
		}
	}
	if len(repo.createMany) != 0 {
		t.Error("nothing must be stored")
	}
}

func TestGet_StripsPhone(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1", Network: "EE", Phone: domphone.Summary{ID: "p1", Name: "iPhone 15"}}

	detail, summary, err := svc.Get(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != "o1" || detail.Network != "EE" {
		t.Errorf("detail = %+v", detail)
	}
	if summary.Name != "iPhone 15" {
		t.Errorf("summary = %+v", summary)
	}
}

func TestByPhoneSlug(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1", Phone: domphone.Summary{ID: "p1", Slug: "iphone-15"}}

	res, err := svc.ByPhoneSlug(context.Background(), "iphone-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Phone.ID != "p1" || len(res.Offers) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestByPhoneSlug_UnknownPhone(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ByPhoneSlug(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByPhoneID_Details(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1", Network: "Three", Phone: domphone.Summary{ID: "p1"}}

	res, err := svc.ByPhoneID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Offers) != 1 || res.Offers[0].Network != "Three" {
		t.Errorf("offers = %+v", res.Offers)
	}
}

func TestList_Pagination(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.listTotal = 45

	page, err := svc.List(context.Background(), domoffer.ListFilter{Network: "EE"}, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastOffset != 40 || repo.lastLimit != DefaultPageSize {
		t.Errorf("offset/limit = %d/%d", repo.lastOffset, repo.lastLimit)
	}
	if repo.lastFilter.Network != "EE" {
		t.Errorf("filter = %+v", repo.lastFilter)
	}
	if page.TotalPages != 3 || page.CurPage != 3 || page.Total != 45 {
		t.Errorf("page = %+v", page)
	}
	if page.Docs == nil {
		t.Error("docs must not be nil")
	}
}

func TestList_ClampsLimitAndPage(t *testing.T) {
	svc, repo, _ := newTestService(t)

	page, err := svc.List(context.Background(), domoffer.ListFilter{}, -2, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != MaxPageSize || repo.lastOffset != 0 {
		t.Errorf("offset/limit = %d/%d", repo.lastOffset, repo.lastLimit)
	}
	if page.CurPage != 1 || page.Limit != MaxPageSize {
		t.Errorf("page = %+v", page)
	}
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1", DealType: domoffer.Contract}

	o, err := svc.Update(context.Background(), "o1", map[string]any{"dealType": "simonly"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.DealType != domoffer.SimOnly {
		t.Errorf("DealType = %q", o.DealType)
	}
	if o.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestUpdate_ProtectedPhone(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1"}

	_, err := svc.Update(context.Background(), "o1", map[string]any{"phone.name": "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.offers["o1"] = domoffer.Offer{ID: "o1"}

	if err := svc.Delete(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "o1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
