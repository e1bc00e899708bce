package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub/internal/application/subscription/testutil"
	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

const auditWait = 2 * time.Second

// env bundles the mocks and wired use cases for one test.
type env struct {
	subRepo  *testutil.MockSubscriptionRepository
	keyRepo  *testutil.MockApiKeyRepository
	plans    *testutil.MockPlanDirectory
	apps     *testutil.MockApplicationDirectory
	audit    *testutil.MockAuditSink
	notifier *testutil.MockNotifier
	locker   *testutil.InMemoryLocker

	create  *usecases.CreateSubscriptionUseCase
	process *usecases.ProcessSubscriptionUseCase
	update  *usecases.UpdateSubscriptionUseCase
	close   *usecases.CloseSubscriptionUseCase
	delete  *usecases.DeleteSubscriptionUseCase
	renew   *usecases.RenewApiKeyUseCase
	get     *usecases.GetSubscriptionUseCase
	search  *usecases.SearchSubscriptionsUseCase
	list    *usecases.ListSubscriptionsUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		subRepo:  testutil.NewMockSubscriptionRepository(),
		keyRepo:  testutil.NewMockApiKeyRepository(),
		plans:    testutil.NewMockPlanDirectory(),
		apps:     testutil.NewMockApplicationDirectory(),
		audit:    testutil.NewMockAuditSink(),
		notifier: testutil.NewMockNotifier(),
		locker:   testutil.NewInMemoryLocker(),
	}

	log := logger.NewLogger()
	sideEffects := usecases.NewSideEffects(e.audit, e.notifier, log)

	e.process = usecases.NewProcessSubscriptionUseCase(e.subRepo, e.keyRepo, e.plans, sideEffects, log)
	e.create = usecases.NewCreateSubscriptionUseCase(e.subRepo, e.plans, e.apps, e.process, e.locker, sideEffects, log)
	e.update = usecases.NewUpdateSubscriptionUseCase(e.subRepo, e.keyRepo, e.plans, sideEffects, log)
	e.close = usecases.NewCloseSubscriptionUseCase(e.subRepo, e.keyRepo, sideEffects, log)
	e.delete = usecases.NewDeleteSubscriptionUseCase(e.subRepo, e.keyRepo, sideEffects, log)
	e.renew = usecases.NewRenewApiKeyUseCase(e.subRepo, e.keyRepo, e.plans, sideEffects, 30*time.Minute, log)
	e.get = usecases.NewGetSubscriptionUseCase(e.subRepo, e.keyRepo, log)
	e.search = usecases.NewSearchSubscriptionsUseCase(e.subRepo, log)
	e.list = usecases.NewListSubscriptionsUseCase(e.subRepo, log)

	return e
}

func (e *env) addPlan(t *testing.T, id string, security plan.SecurityType, status plan.Status, validation plan.ValidationMode) *plan.Plan {
	t.Helper()
	p, err := plan.ReconstructPlan(id, "plan "+id, "api-1", security, status, validation)
	require.NoError(t, err)
	e.plans.Add(p)
	return p
}

func (e *env) addApp(t *testing.T, id, clientID string) *application.Application {
	t.Helper()
	app, err := application.ReconstructApplication(id, "app "+id, clientID)
	require.NoError(t, err)
	e.apps.Add(app)
	return app
}

// createPending provisions a plan, an application and a pending subscription.
func (e *env) createPending(t *testing.T, security plan.SecurityType) *subscription.Subscription {
	t.Helper()
	e.addPlan(t, "plan-1", security, plan.StatusPublished, plan.ValidationManual)
	e.addApp(t, "app-1", "client-abc")

	sub, err := e.create.Execute(context.Background(), usecases.CreateSubscriptionCommand{
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		Request:       "please",
		SubscribedBy:  subscription.UserActor("user-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

// createAccepted provisions and processes a subscription into ACCEPTED.
func (e *env) createAccepted(t *testing.T, security plan.SecurityType) *subscription.Subscription {
	t.Helper()
	sub := e.createPending(t, security)

	accepted, err := e.process.Execute(context.Background(), usecases.ProcessSubscriptionCommand{
		SubscriptionID: sub.ID(),
		Accepted:       true,
		ProcessedBy:    subscription.UserActor("admin-1"),
	})
	require.NoError(t, err)
	return accepted
}

func (e *env) keysOf(t *testing.T, subID string) []*subscription.ApiKey {
	t.Helper()
	keys, err := e.keyRepo.FindBySubscription(context.Background(), subID)
	require.NoError(t, err)
	return keys
}
