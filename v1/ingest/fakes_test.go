package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/items"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

var errBoom = errors.New("boom")

type fakeProviders struct {
	byKey map[string]catalog.Provider
	err   error
}

func newFakeProviders(ps ...catalog.Provider) *fakeProviders {
	f := &fakeProviders{byKey: map[string]catalog.Provider{}}
	for _, p := range ps {
		f.byKey[p.ID] = p
		f.byKey[p.Code] = p
	}
	return f
}

func (f *fakeProviders) GetByIDOrCode(_ context.Context, key string) (*catalog.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byKey[key]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeRows struct {
	files map[string][]catalog.Row
	err   error
}

func (f *fakeRows) ReadRows(_ context.Context, fileRef string) ([]catalog.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.files[fileRef], nil
}

// memLedger mirrors the relational ledger's transitions, its idempotent
// open and activate, and the single ACTIVE constraint.
type memLedger struct {
	mu       sync.Mutex
	versions map[string]*catalog.Version

	openErr     error
	activateErr error
	revertErr   error
	reverts     int

	// lostOpenAcks and lostActivateAcks commit the call and then report a
	// dropped connection, as many times as set.
	lostOpenAcks     int
	lostActivateAcks int
}

func newMemLedger() *memLedger {
	return &memLedger{versions: map[string]*catalog.Version{}}
}

func droppedConnection() error {
	return &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}
}

func (l *memLedger) Open(_ context.Context, versionID, providerID, fileRef string) (catalog.Version, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.openErr != nil {
		return catalog.Version{}, l.openErr
	}
	if v, ok := l.versions[versionID]; ok {
		return *v, nil
	}
	last := 0
	for _, v := range l.versions {
		if v.ProviderID == providerID && v.VersionNumber > last {
			last = v.VersionNumber
		}
	}
	v := catalog.Version{
		ID:            versionID,
		ProviderID:    providerID,
		VersionNumber: last + 1,
		OriginalFile:  fileRef,
		Status:        catalog.StatusProcessing,
	}
	l.versions[v.ID] = &v
	if l.lostOpenAcks > 0 {
		l.lostOpenAcks--
		return catalog.Version{}, droppedConnection()
	}
	return v, nil
}

func (l *memLedger) Activate(_ context.Context, providerID, versionID string) (*catalog.Version, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activateErr != nil {
		return nil, l.activateErr
	}
	target, ok := l.versions[versionID]
	if !ok {
		return nil, fmt.Errorf("version %s not found", versionID)
	}
	if target.Status == catalog.StatusActive {
		if target.ReplacedVersionID == nil {
			return nil, nil
		}
		c := *l.versions[*target.ReplacedVersionID]
		return &c, nil
	}
	if target.Status != catalog.StatusProcessing {
		return nil, fmt.Errorf("cannot activate %s", versionID)
	}
	var prev *catalog.Version
	for _, v := range l.versions {
		if v.ProviderID == providerID && v.Status == catalog.StatusActive {
			v.Status = catalog.StatusArchived
			c := *v
			prev = &c
		}
	}
	target.Status = catalog.StatusActive
	if prev != nil {
		id := prev.ID
		target.ReplacedVersionID = &id
	}
	if l.lostActivateAcks > 0 {
		l.lostActivateAcks--
		return nil, droppedConnection()
	}
	return prev, nil
}

func (l *memLedger) RevertActivation(_ context.Context, versionID, previousID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reverts++
	if l.revertErr != nil {
		return l.revertErr
	}
	l.versions[versionID].Status = catalog.StatusProcessing
	l.versions[versionID].ReplacedVersionID = nil
	if previousID != "" {
		l.versions[previousID].Status = catalog.StatusActive
	}
	return nil
}

func (l *memLedger) count(providerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, v := range l.versions {
		if v.ProviderID == providerID {
			n++
		}
	}
	return n
}

func (l *memLedger) MarkFailed(_ context.Context, versionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.versions[versionID]
	if !ok {
		return fmt.Errorf("version %s not found", versionID)
	}
	switch v.Status {
	case catalog.StatusProcessing, catalog.StatusFailed:
		v.Status = catalog.StatusFailed
		return nil
	}
	return fmt.Errorf("cannot fail %s version", v.Status)
}

func (l *memLedger) status(versionID string) catalog.VersionStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.versions[versionID].Status
}

func (l *memLedger) byStatus(providerID string, s catalog.VersionStatus) []catalog.Version {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []catalog.Version
	for _, v := range l.versions {
		if v.ProviderID == providerID && v.Status == s {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber < out[j].VersionNumber })
	return out
}

type memItems struct {
	mu    sync.Mutex
	items []catalog.Item

	rejectSKU   map[string]bool
	insertErr   error
	setActiveFn func(versionID string, active bool) error
}

func newMemItems() *memItems {
	return &memItems{rejectSKU: map[string]bool{}}
}

func (m *memItems) InsertStaged(_ context.Context, docs []catalog.Item) (items.StageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return items.StageResult{}, m.insertErr
	}
	res := items.StageResult{Rejected: map[int]string{}}
	for i, d := range docs {
		if m.rejectSKU[d.SKU] {
			res.Rejected[i] = "duplicate key"
			continue
		}
		m.items = append(m.items, d)
		res.Inserted = append(res.Inserted, d)
	}
	return res, nil
}

func (m *memItems) SetActive(_ context.Context, versionID string, active bool, at time.Time) (int64, error) {
	if m.setActiveFn != nil {
		if err := m.setActiveFn(versionID, active); err != nil {
			return 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.items {
		if m.items[i].CatalogVersionID != versionID {
			continue
		}
		m.items[i].Active = active
		if active {
			m.items[i].ArchivedAt = nil
		} else {
			ts := at
			m.items[i].ArchivedAt = &ts
		}
		n++
	}
	return n, nil
}

func (m *memItems) DeleteInactive(_ context.Context, versionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	var n int64
	for _, it := range m.items {
		if it.CatalogVersionID == versionID && !it.Active {
			n++
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	return n, nil
}

func (m *memItems) forVersion(versionID string) []catalog.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Item
	for _, it := range m.items {
		if it.CatalogVersionID == versionID {
			out = append(out, it)
		}
	}
	return out
}

func (m *memItems) activeVersions(providerID string) map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]bool{}
	for _, it := range m.items {
		if it.ProviderID == providerID && it.Active {
			out[it.CatalogVersionID] = true
		}
	}
	return out
}

type memVectors struct {
	mu      sync.Mutex
	points  map[string]catalog.VectorRecord
	upserts int

	upsertErrs []error
	deleteErr  error
}

func newMemVectors() *memVectors {
	return &memVectors{points: map[string]catalog.VectorRecord{}}
}

func (m *memVectors) Upsert(_ context.Context, records []catalog.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if len(m.upsertErrs) > 0 {
		err := m.upsertErrs[0]
		m.upsertErrs = m.upsertErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, r := range records {
		m.points[r.Metadata.CatalogVersionID+"/"+r.ID] = r
	}
	return nil
}

func (m *memVectors) DeleteByVersion(_ context.Context, providerID, versionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for k, r := range m.points {
		if r.Metadata.ProviderID == providerID && r.Metadata.CatalogVersionID == versionID {
			delete(m.points, k)
		}
	}
	return nil
}

func (m *memVectors) count(versionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.points {
		if r.Metadata.CatalogVersionID == versionID {
			n++
		}
	}
	return n
}

// scriptedEmbedder returns the queued errors first, then vectors.
type scriptedEmbedder struct {
	mu    sync.Mutex
	errs  []error
	calls int
	texts []string
}

func (e *scriptedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts = append(e.texts, text)
	if len(e.errs) > 0 {
		err := e.errs[0]
		e.errs = e.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []float32{float32(len(text)), 1}, nil
}

type recordedEvent struct {
	Action   audit.Action
	Metadata map[string]string
}

type recordingAudit struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (a *recordingAudit) Record(_ context.Context, action audit.Action, md map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, recordedEvent{Action: action, Metadata: md})
}

func (a *recordingAudit) actions() []audit.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]audit.Action, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

func (a *recordingAudit) last() recordedEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events[len(a.events)-1]
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

// fixture is a pipeline over in-memory collaborators.
type fixture struct {
	provider catalog.Provider
	rows     *fakeRows
	ledger   *memLedger
	items    *memItems
	vectors  *memVectors
	embedder *scriptedEmbedder
	audit    *recordingAudit
	sleeps   *sleepRecorder
	logs     *observer.ObservedLogs
	pipeline *Pipeline
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		provider: catalog.Provider{ID: "prov-1", Code: "ACME", Name: "Acme", Active: true},
		rows:     &fakeRows{files: map[string][]catalog.Row{}},
		ledger:   newMemLedger(),
		items:    newMemItems(),
		vectors:  newMemVectors(),
		embedder: &scriptedEmbedder{},
		audit:    &recordingAudit{},
		sleeps:   &sleepRecorder{},
	}
	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	f.pipeline = NewPipeline(cfg, Deps{
		Providers: newFakeProviders(f.provider),
		Rows:      f.rows,
		Ledger:    f.ledger,
		Items:     f.items,
		Vectors:   f.vectors,
		Embedder:  f.embedder,
		Audit:     f.audit,
		Logger:    logger.NewFromZap(zap.New(core), false),
		Sleep:     f.sleeps.sleep,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	return f
}

func (f *fixture) upload(fileRef string, skus ...string) Request {
	rows := make([]catalog.Row, len(skus))
	for i, sku := range skus {
		rows[i] = catalog.Row{
			ProviderCode: f.provider.Code,
			SKU:          sku,
			Name:         "Chair " + sku,
			Description:  "A sturdy chair",
			Category:     "chairs",
			Tags:         []string{"oak"},
			Extra:        map[string]string{catalog.AttrBrand: "Acme"},
		}
	}
	f.rows.files[fileRef] = rows
	return Request{ProviderKey: f.provider.ID, FileRef: fileRef, Actor: "tester"}
}
