package planlimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockTenantReader struct {
	mock.Mock
}

func (m *mockTenantReader) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountResources(ctx context.Context, tenantID uuid.UUID, kind billing.LimitType, since time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, kind, since)
	return args.Get(0).(int64), args.Error(1)
}

func newTenant(t *testing.T, plan billing.Plan) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("SHOP", "Shop", plan)
	require.NoError(t, err)
	return tenant
}

func withTenantQuota(t *testing.T, limit billing.LimitType, q billing.Quota) *identity.Tenant {
	t.Helper()
	tenant := newTenant(t, billing.PlanPyme)
	switch limit {
	case billing.LimitUsers:
		tenant.Quotas.Users = q
	case billing.LimitProducts:
		tenant.Quotas.Products = q
	case billing.LimitInvoices:
		tenant.Quotas.Invoices = q
	case billing.LimitWarehouses:
		tenant.Quotas.Warehouses = q
	}
	return tenant
}

func authed(tenantID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{Subject: "user-1", TenantID: tenantID, Role: "admin"})
}

type fixture struct {
	tenants *mockTenantReader
	counter *mockCounter
	logs    *observer.ObservedLogs
	gate    *Gate
	now     time.Time
}

func newFixture(opts ...Option) *fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		tenants: new(mockTenantReader),
		counter: new(mockCounter),
		logs:    logs,
		now:     time.Date(2026, 3, 17, 15, 30, 0, 0, time.UTC),
	}
	all := append([]Option{WithLogger(zap.New(core)), WithClock(func() time.Time { return f.now })}, opts...)
	f.gate = NewGate(f.tenants, f.counter, all...)
	return f
}

func sameInstant(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

// handler returns a guarded function that records whether it ran.
func handler(ran *bool) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		*ran = true
		return "created", nil
	}
}

func TestInvoke_UnannotatedAlwaysRuns(t *testing.T) {
	f := newFixture()
	var ran bool

	got, err := Invoke(context.Background(), f.gate, Operation{Name: "list", Transport: TransportHTTP}, handler(&ran))

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "created", got)
	f.tenants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestInvoke_NonHTTPTransportBypasses(t *testing.T) {
	for _, tr := range []Transport{TransportJob, TransportEvent} {
		t.Run(string(tr), func(t *testing.T) {
			f := newFixture()
			var ran bool

			_, err := Invoke(context.Background(), f.gate,
				Operation{Name: "import", Transport: tr, Limit: billing.LimitProducts}, handler(&ran))

			require.NoError(t, err)
			assert.True(t, ran)
			f.tenants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			f.counter.AssertNotCalled(t, "CountResources", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInvoke_NoIdentity(t *testing.T) {
	f := newFixture()
	var ran bool

	_, err := Invoke(context.Background(), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

	assert.False(t, ran)
	assert.Equal(t, "Authentication required to perform this action", err.Error())
	assert.True(t, IsForbidden(err))
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestInvoke_EmptyTenant(t *testing.T) {
	f := newFixture()
	var ran bool

	_, err := Invoke(authed(""), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

	assert.False(t, ran)
	assert.Equal(t, "Tenant context required to perform this action", err.Error())
	assert.True(t, IsForbidden(err))
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestInvoke_TenantNotFound(t *testing.T) {
	t.Run("missing row", func(t *testing.T) {
		f := newFixture()
		tenantID := uuid.New()
		f.tenants.On("FindByID", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)
		var ran bool

		_, err := Invoke(authed(tenantID.String()), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

		assert.False(t, ran)
		assert.Equal(t, "Tenant not found", err.Error())
		assert.True(t, IsForbidden(err))
		assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture()
		var ran bool

		_, err := Invoke(authed("not-a-uuid"), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

		assert.False(t, ran)
		assert.ErrorIs(t, err, ErrTenantNotFound)
		f.tenants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestInvoke_TenantLookupFailureIsNotForbidden(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	dbErr := errors.New("connection refused")
	f.tenants.On("FindByID", mock.Anything, tenantID).Return(nil, dbErr)
	var ran bool

	_, err := Invoke(authed(tenantID.String()), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

	assert.False(t, ran)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, IsForbidden(err))
}

func TestInvoke_UnlimitedSkipsCounting(t *testing.T) {
	f := newFixture()
	tenant := newTenant(t, billing.PlanEnterprise)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	for _, limit := range billing.AllLimitTypes() {
		var ran bool
		_, err := Invoke(authed(tenant.ID.String()), f.gate, HTTP("create", limit), handler(&ran))
		require.NoError(t, err)
		assert.True(t, ran)
	}
	f.counter.AssertNotCalled(t, "CountResources", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoke_QuotaBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		max     int64
		current int64
		allowed bool
	}{
		{"zero quota blocks first creation", 0, 0, false},
		{"one quota allows first", 1, 0, true},
		{"one quota blocks second", 1, 1, false},
		{"below limit", 100, 99, true},
		{"at limit", 100, 100, false},
		{"over limit", 3, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tenant := withTenantQuota(t, billing.LimitProducts, billing.Limited(tt.max))
			f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
			f.counter.On("CountResources", mock.Anything, tenant.ID, billing.LimitProducts, time.Time{}).Return(tt.current, nil)
			var ran bool

			got, err := Invoke(authed(tenant.ID.String()), f.gate, HTTP("create", billing.LimitProducts), handler(&ran))

			assert.Equal(t, tt.allowed, ran)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "created", got)
				return
			}
			require.Error(t, err)
			assert.True(t, IsForbidden(err))
			assert.Empty(t, got)
		})
	}
}

func TestInvoke_LimitMessages(t *testing.T) {
	tests := []struct {
		limit billing.LimitType
		max   int64
		want  string
	}{
		{billing.LimitUsers, 3, "Users limit reached (3). Upgrade your plan."},
		{billing.LimitProducts, 500, "Products limit reached (500). Upgrade your plan."},
		{billing.LimitInvoices, 100, "Invoices limit reached (100). Upgrade your plan."},
		{billing.LimitWarehouses, 1, "Warehouses limit reached (1). Upgrade your plan."},
	}

	for _, tt := range tests {
		t.Run(tt.limit.String(), func(t *testing.T) {
			f := newFixture()
			tenant := newTenant(t, billing.PlanPyme)
			f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
			f.counter.On("CountResources", mock.Anything, tenant.ID, tt.limit, mock.Anything).Return(tt.max, nil)

			err := f.gate.Check(authed(tenant.ID.String()), tt.limit)

			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.DebugLevel).Len())
		})
	}
}

func TestInvoke_InvoiceWindowStartsAtMonthBoundary(t *testing.T) {
	f := newFixture()
	tenant := newTenant(t, billing.PlanPyme)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.counter.On("CountResources", mock.Anything, tenant.ID, billing.LimitInvoices, sameInstant(monthStart)).Return(int64(99), nil)

	err := f.gate.Check(authed(tenant.ID.String()), billing.LimitInvoices)

	require.NoError(t, err)
	f.counter.AssertExpectations(t)
}

func TestInvoke_InvoiceWindowUsesTenantTimezone(t *testing.T) {
	f := newFixture()
	// 02:00 UTC on April 1st is still March in Bogota (UTC-5).
	f.now = time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)
	tenant := newTenant(t, billing.PlanPyme)
	tenant.Timezone = "America/Bogota"
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.counter.On("CountResources", mock.Anything, tenant.ID, billing.LimitInvoices,
		sameInstant(time.Date(2026, 3, 1, 0, 0, 0, 0, bogota))).Return(int64(100), nil)

	err = f.gate.Check(authed(tenant.ID.String()), billing.LimitInvoices)

	assert.EqualError(t, err, "Invoices limit reached (100). Upgrade your plan.")
	f.counter.AssertExpectations(t)
}

func TestInvoke_GateLocationFallback(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	f := newFixture(WithLocation(tokyo))
	// 16:00 UTC on March 31st is already April 1st in Tokyo.
	f.now = time.Date(2026, 3, 31, 16, 0, 0, 0, time.UTC)
	tenant := newTenant(t, billing.PlanPyme)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.counter.On("CountResources", mock.Anything, tenant.ID, billing.LimitInvoices,
		sameInstant(time.Date(2026, 4, 1, 0, 0, 0, 0, tokyo))).Return(int64(0), nil)

	require.NoError(t, f.gate.Check(authed(tenant.ID.String()), billing.LimitInvoices))
	f.counter.AssertExpectations(t)
}

func TestInvoke_LifetimeLimitsCountEverything(t *testing.T) {
	for _, limit := range []billing.LimitType{billing.LimitUsers, billing.LimitProducts, billing.LimitWarehouses} {
		t.Run(limit.String(), func(t *testing.T) {
			f := newFixture()
			tenant := newTenant(t, billing.PlanPlus)
			f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
			f.counter.On("CountResources", mock.Anything, tenant.ID, limit, time.Time{}).Return(int64(0), nil)

			require.NoError(t, f.gate.Check(authed(tenant.ID.String()), limit))
			f.counter.AssertExpectations(t)
		})
	}
}

func TestInvoke_CountFailure(t *testing.T) {
	f := newFixture()
	tenant := newTenant(t, billing.PlanPyme)
	countErr := errors.New("timeout")
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.counter.On("CountResources", mock.Anything, tenant.ID, billing.LimitUsers, mock.Anything).Return(int64(0), countErr)
	var ran bool

	_, err := Invoke(authed(tenant.ID.String()), f.gate, HTTP("invite", billing.LimitUsers), handler(&ran))

	assert.False(t, ran)
	assert.ErrorIs(t, err, countErr)
	assert.False(t, IsForbidden(err))
}

func TestInvoke_PassesThroughHandlerError(t *testing.T) {
	f := newFixture()
	tenant := newTenant(t, billing.PlanPyme)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.counter.On("CountResources", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	boom := shared.NewDomainError("ALREADY_EXISTS", "SKU already exists")

	err := f.gate.Guard(authed(tenant.ID.String()), HTTP("create", billing.LimitProducts), func(ctx context.Context) error {
		return boom
	})

	assert.Same(t, boom, err)
}

func TestInvoke_RereadsTenantOnEveryCall(t *testing.T) {
	f := newFixture()
	tenant := newTenant(t, billing.PlanPyme)
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.counter.On("CountResources", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	ctx := authed(tenant.ID.String())

	for i := 0; i < 3; i++ {
		require.NoError(t, f.gate.Check(ctx, billing.LimitWarehouses))
	}
	f.tenants.AssertNumberOfCalls(t, "FindByID", 3)
	f.counter.AssertNumberOfCalls(t, "CountResources", 3)
}

func TestCheck_UnknownLimitType(t *testing.T) {
	f := newFixture()
	err := f.gate.Check(authed(uuid.NewString()), billing.LimitType("storage"))
	require.Error(t, err)
	assert.False(t, IsForbidden(err))
}

// barrierCounter makes every caller wait until n callers have counted, so all
// of them observe the same count before any resource is stored.
type barrierCounter struct {
	mu      sync.Mutex
	stored  int64
	arrived int
	n       int
	release chan struct{}
}

func (b *barrierCounter) CountResources(ctx context.Context, _ uuid.UUID, _ billing.LimitType, _ time.Time) (int64, error) {
	b.mu.Lock()
	current := b.stored
	b.arrived++
	if b.arrived == b.n {
		close(b.release)
	}
	b.mu.Unlock()

	select {
	case <-b.release:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return current, nil
}

func (b *barrierCounter) store() {
	b.mu.Lock()
	b.stored++
	b.mu.Unlock()
}

func TestGuard_ConcurrentChecksAreAdvisory(t *testing.T) {
	tenant := withTenantQuota(t, billing.LimitWarehouses, billing.Limited(1))
	tenants := new(mockTenantReader)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	counter := &barrierCounter{n: 2, release: make(chan struct{})}
	gate := NewGate(tenants, counter)

	ctx, cancel := context.WithTimeout(authed(tenant.ID.String()), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = gate.Guard(ctx, HTTP("create", billing.LimitWarehouses), func(ctx context.Context) error {
				counter.store()
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, int64(2), counter.stored, "both creations passed a quota of one")
}
