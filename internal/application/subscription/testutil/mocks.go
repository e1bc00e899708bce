// Package testutil provides in-memory doubles for the entitlement engine
// use case tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
)

// MockSubscriptionRepository is a mutex-guarded map-backed repository with
// per-method error injection.
type MockSubscriptionRepository struct {
	mu            sync.Mutex
	subscriptions map[string]*subscription.Subscription
	// committed tracks the last persisted status per subscription, since the
	// stored aggregate shares memory with the one the use case mutates.
	committed map[string]vo.SubscriptionStatus
	order     []string

	CreateErr error
	GetErr    error
	FindErr   error
	UpdateErr error
	DeleteErr error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subscriptions: make(map[string]*subscription.Subscription),
		committed:     make(map[string]vo.SubscriptionStatus),
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[sub.ID()] = sub
	m.committed[sub.ID()] = sub.Status()
	m.order = append(m.order, sub.ID())
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, subID string) (*subscription.Subscription, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions[subID], nil
}

func (m *MockSubscriptionRepository) FindByCriteria(ctx context.Context, criteria subscription.Criteria) ([]*subscription.Subscription, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(criteria), nil
}

func (m *MockSubscriptionRepository) Search(ctx context.Context, criteria subscription.Criteria) ([]*subscription.Subscription, int64, error) {
	if m.FindErr != nil {
		return nil, 0, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(criteria)
	total := int64(len(matched))

	offset := (criteria.Page - 1) * criteria.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + criteria.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[sub.ID()] = sub
	m.committed[sub.ID()] = sub.Status()
	return nil
}

func (m *MockSubscriptionRepository) UpdateWithStatusGuard(ctx context.Context, sub *subscription.Subscription, expectedStatus vo.SubscriptionStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	if m.committed[sub.ID()] != expectedStatus {
		return subscription.ErrInvalidStateTransition
	}
	m.subscriptions[sub.ID()] = sub
	m.committed[sub.ID()] = sub.Status()
	return nil
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, subID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subID)
	delete(m.committed, subID)
	return nil
}

// Count returns the number of stored subscriptions.
func (m *MockSubscriptionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscriptions)
}

func (m *MockSubscriptionRepository) match(criteria subscription.Criteria) []*subscription.Subscription {
	var out []*subscription.Subscription
	for _, id := range m.order {
		sub, ok := m.subscriptions[id]
		if !ok {
			continue
		}
		if len(criteria.APIs) > 0 && !contains(criteria.APIs, sub.APIID()) {
			continue
		}
		if len(criteria.Applications) > 0 && !contains(criteria.Applications, sub.ApplicationID()) {
			continue
		}
		if len(criteria.Plans) > 0 && !contains(criteria.Plans, sub.PlanID()) {
			continue
		}
		if len(criteria.Statuses) > 0 && !containsStatus(criteria.Statuses, sub.Status()) {
			continue
		}
		if criteria.From != nil && sub.CreatedAt().Before(*criteria.From) {
			continue
		}
		if criteria.To != nil && sub.CreatedAt().After(*criteria.To) {
			continue
		}
		out = append(out, sub)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func containsStatus(values []vo.SubscriptionStatus, v vo.SubscriptionStatus) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// MockApiKeyRepository is a mutex-guarded map-backed api key store.
type MockApiKeyRepository struct {
	mu   sync.Mutex
	keys map[string]*subscription.ApiKey

	CreateErr error
	FindErr   error
	UpdateErr error
	DeleteErr error

	// FailUpdateFor injects UpdateErr only for the named keys.
	FailUpdateFor map[string]bool
}

func NewMockApiKeyRepository() *MockApiKeyRepository {
	return &MockApiKeyRepository{
		keys: make(map[string]*subscription.ApiKey),
	}
}

func (m *MockApiKeyRepository) Create(ctx context.Context, key *subscription.ApiKey) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key.Key()] = key
	return nil
}

func (m *MockApiKeyRepository) FindBySubscription(ctx context.Context, subID string) ([]*subscription.ApiKey, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*subscription.ApiKey
	for _, key := range m.keys {
		if key.SubscriptionID() == subID {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (m *MockApiKeyRepository) Update(ctx context.Context, key *subscription.ApiKey) error {
	if m.UpdateErr != nil && (m.FailUpdateFor == nil || m.FailUpdateFor[key.Key()]) {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key.Key()] = key
	return nil
}

func (m *MockApiKeyRepository) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func (m *MockApiKeyRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// MockPlanDirectory resolves plans from a fixed map.
type MockPlanDirectory struct {
	mu    sync.Mutex
	plans map[string]*plan.Plan

	GetErr error
}

func NewMockPlanDirectory() *MockPlanDirectory {
	return &MockPlanDirectory{plans: make(map[string]*plan.Plan)}
}

func (m *MockPlanDirectory) Add(p *plan.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID()] = p
}

func (m *MockPlanDirectory) GetByID(ctx context.Context, id string) (*plan.Plan, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plans[id], nil
}

// MockApplicationDirectory resolves applications from a fixed map.
type MockApplicationDirectory struct {
	mu   sync.Mutex
	apps map[string]*application.Application

	GetErr error
}

func NewMockApplicationDirectory() *MockApplicationDirectory {
	return &MockApplicationDirectory{apps: make(map[string]*application.Application)}
}

func (m *MockApplicationDirectory) Add(app *application.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.ID()] = app
}

func (m *MockApplicationDirectory) GetByID(ctx context.Context, id string) (*application.Application, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apps[id], nil
}

// MockAuditSink records audit entries for later inspection.
type MockAuditSink struct {
	mu      sync.Mutex
	entries []usecases.AuditEntry
}

func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

func (m *MockAuditSink) Audit(ctx context.Context, entry usecases.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *MockAuditSink) Entries() []usecases.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]usecases.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// CountEvent returns how many recorded entries carry the given event.
func (m *MockAuditSink) CountEvent(event subscription.AuditEvent) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entry := range m.entries {
		if entry.Event == event {
			n++
		}
	}
	return n
}

// TriggeredHook is one recorded notification.
type TriggeredHook struct {
	Hook    subscription.Hook
	Scope   subscription.ScopeKind
	ScopeID string
	Params  map[string]any
}

// MockNotifier records hook notifications for later inspection.
type MockNotifier struct {
	mu    sync.Mutex
	hooks []TriggeredHook
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Trigger(ctx context.Context, hook subscription.Hook, scope subscription.ScopeKind, scopeID string, params map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, TriggeredHook{Hook: hook, Scope: scope, ScopeID: scopeID, Params: params})
}

func (m *MockNotifier) Hooks() []TriggeredHook {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TriggeredHook, len(m.hooks))
	copy(out, m.hooks)
	return out
}

// CountHook returns how many notifications carry the given hook.
func (m *MockNotifier) CountHook(hook subscription.Hook) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.hooks {
		if h.Hook == hook {
			n++
		}
	}
	return n
}

// InMemoryLocker serializes callers per key with plain mutexes.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	LockErr error
}

func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *InMemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if l.LockErr != nil {
		return l.LockErr
	}
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}
