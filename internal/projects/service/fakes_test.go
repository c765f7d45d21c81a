package service

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/format"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/repository"
)

const validNonce = "valid-nonce"

var dutch = form.Locale{DecimalPoint: ",", ThousandsSep: "."}

var errStore = errors.New("store unavailable")

type fakeMeta struct {
	mu       sync.Mutex
	values   map[int64]map[string]string
	getErr   error
	failKeys map[string]bool // writes to these keys fail
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{values: map[int64]map[string]string{}}
}

func (m *fakeMeta) Get(_ context.Context, postID int64, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[postID][key]
	return v, ok, nil
}

func (m *fakeMeta) Set(_ context.Context, postID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKeys[key] {
		return errStore
	}
	if m.values[postID] == nil {
		m.values[postID] = map[string]string{}
	}
	m.values[postID][key] = value
	return nil
}

func (m *fakeMeta) Delete(_ context.Context, postID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKeys[key] {
		return errStore
	}
	delete(m.values[postID], key)
	return nil
}

func (m *fakeMeta) All(_ context.Context, postID int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values[postID]))
	for k, v := range m.values[postID] {
		out[k] = v
	}
	return out, nil
}

func (m *fakeMeta) has(postID int64, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[postID][key]
	return ok
}

func (m *fakeMeta) value(postID int64, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[postID][key]
}

type fakeProjects struct {
	rows      map[int64]map[string]any // row id -> columns
	byPost    map[int64]int64
	nextID    int64
	lookupErr error
	insertErr error
	inserts   int
	updates   int
	principal *domain.Principal
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{rows: map[int64]map[string]any{}, byPost: map[int64]int64{}, nextID: 1}
}

func (p *fakeProjects) FindIDByPostID(_ context.Context, postID int64) (int64, bool, error) {
	if p.lookupErr != nil {
		return 0, false, p.lookupErr
	}
	id, ok := p.byPost[postID]
	return id, ok, nil
}

func (p *fakeProjects) Insert(_ context.Context, cols []repository.Column) (int64, error) {
	if p.insertErr != nil {
		return 0, p.insertErr
	}
	p.inserts++
	id := p.nextID
	p.nextID++
	row := map[string]any{}
	for _, c := range cols {
		row[c.Name] = c.Value
	}
	p.rows[id] = row
	if postID, ok := row["post_id"].(int64); ok {
		p.byPost[postID] = id
	}
	return id, nil
}

func (p *fakeProjects) Update(_ context.Context, id int64, cols []repository.Column) error {
	row, ok := p.rows[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.updates++
	for _, c := range cols {
		row[c.Name] = c.Value
	}
	return nil
}

func (p *fakeProjects) GetByPostID(_ context.Context, postID int64) (*domain.ProjectRow, *domain.Principal, error) {
	id, ok := p.byPost[postID]
	if !ok {
		return nil, nil, domain.ErrProjectNotFound
	}
	return &domain.ProjectRow{ID: id, PostID: postID}, p.principal, nil
}

type fakeInvoices struct {
	created []repository.InvoiceInput
	updated map[int64]repository.InvoiceInput
	deleted []int64
	list    []domain.Invoice
	userIDs []int64
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{updated: map[int64]repository.InvoiceInput{}}
}

func (f *fakeInvoices) ListByProject(_ context.Context, _ int64) ([]domain.Invoice, error) {
	return f.list, nil
}

func (f *fakeInvoices) Create(_ context.Context, _ int64, userID int64, in repository.InvoiceInput) (int64, error) {
	f.created = append(f.created, in)
	f.userIDs = append(f.userIDs, userID)
	return int64(100 + len(f.created)), nil
}

func (f *fakeInvoices) Update(_ context.Context, _ int64, invoiceID int64, in repository.InvoiceInput) error {
	f.updated[invoiceID] = in
	return nil
}

func (f *fakeInvoices) Delete(_ context.Context, _ int64, ids []int64) (int64, error) {
	f.deleted = append(f.deleted, ids...)
	sort.Slice(f.deleted, func(i, j int) bool { return f.deleted[i] < f.deleted[j] })
	return int64(len(ids)), nil
}

type fakeNonces struct{}

func (fakeNonces) Verify(token, _ string, _, _ int64) bool {
	return token == validNonce
}

type recordingEmitter struct {
	events []domain.Event
}

func (r *recordingEmitter) Emit(_ context.Context, e domain.Event) {
	r.events = append(r.events, e)
}

type fixture struct {
	meta     *fakeMeta
	projects *fakeProjects
	invoices *fakeInvoices
	events   *recordingEmitter
	ctrl     *Controller
	registry *hooks.Registry
}

func newFixture() *fixture {
	f := &fixture{
		meta:     newFakeMeta(),
		projects: newFakeProjects(),
		invoices: newFakeInvoices(),
		events:   &recordingEmitter{},
	}
	f.ctrl = NewController(Deps{
		Meta:     f.meta,
		Projects: f.projects,
		Invoices: f.invoices,
		Nonces:   fakeNonces{},
		Events:   f.events,
		Numbers:  format.NumberFormat{DecimalPoint: ",", ThousandsSep: "."},
	})
	f.ctrl.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	f.registry = hooks.NewRegistry()
	f.ctrl.Register(f.registry)
	return f
}

func editor() auth.User {
	return auth.NewUser(7, "editor", domain.CapEditPost)
}

func admin() auth.User {
	return auth.NewUser(1, "admin", domain.CapEditPost, domain.CapProjectAdministration)
}

func publishedPost(id int64) *domain.Post {
	at := time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)
	return &domain.Post{ID: id, Type: domain.PostType, Title: "Website relaunch", Status: domain.StatusPublish, PublishedAt: &at}
}

func draftPost(id int64) *domain.Post {
	return &domain.Post{ID: id, Type: domain.PostType, Title: "Website relaunch", Status: domain.StatusDraft}
}

func detailsForm(kv ...string) url.Values {
	v := url.Values{domain.DetailsNonceField: {validNonce}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Add(kv[i], kv[i+1])
	}
	return v
}

func saveContext(post *domain.Post, user auth.User, values url.Values) *hooks.SaveContext {
	return &hooks.SaveContext{Post: post, Form: values, User: user, Locale: dutch}
}
