package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsub "github.com/planhub-io/planhub/internal/application/subscription"
	"github.com/planhub-io/planhub/internal/application/subscription/testutil"
	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/shared/logger"
	"github.com/planhub-io/planhub/internal/shared/utils"
)

// =====================================================================
// Test fixture
// =====================================================================

type handlerEnv struct {
	router *gin.Engine
	subs   *testutil.MockSubscriptionRepository
	keys   *testutil.MockApiKeyRepository
	plans  *testutil.MockPlanDirectory
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	subs := testutil.NewMockSubscriptionRepository()
	keys := testutil.NewMockApiKeyRepository()
	plans := testutil.NewMockPlanDirectory()
	apps := testutil.NewMockApplicationDirectory()

	p, err := plan.ReconstructPlan("plan-1", "gold", "api-1",
		plan.SecurityAPIKey, plan.StatusPublished, plan.ValidationManual)
	require.NoError(t, err)
	plans.Add(p)

	app, err := application.ReconstructApplication("app-1", "storefront", "client-abc")
	require.NoError(t, err)
	apps.Add(app)

	engine := appsub.NewEngine(appsub.Deps{
		SubscriptionRepo: subs,
		ApiKeyRepo:       keys,
		PlanDirectory:    plans,
		AppDirectory:     apps,
		AuditSink:        testutil.NewMockAuditSink(),
		Notifier:         testutil.NewMockNotifier(),
		Locker:           testutil.NewInMemoryLocker(),
		RenewGracePeriod: 30 * time.Minute,
		Logger:           logger.NewLogger(),
	})

	handler := NewSubscriptionHandler(engine)
	router := gin.New()
	router.POST("/subscriptions", handler.Create)
	router.GET("/subscriptions", handler.Search)
	router.GET("/subscriptions/:sid", handler.Get)
	router.PUT("/subscriptions/:sid", handler.Update)
	router.DELETE("/subscriptions/:sid", handler.Delete)
	router.POST("/subscriptions/:sid/_process", handler.Process)
	router.POST("/subscriptions/:sid/_close", handler.Close)
	router.POST("/subscriptions/:sid/apikeys/_renew", handler.RenewApiKey)

	return &handlerEnv{router: router, subs: subs, keys: keys, plans: plans}
}

func (e *handlerEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (e *handlerEnv) createSubscription(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/subscriptions", CreateSubscriptionRequest{
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		Request:       "please",
		SubscribedBy:  "user-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	return data["id"].(string)
}

func (e *handlerEnv) acceptSubscription(t *testing.T, sid string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/_process", ProcessSubscriptionRequest{
		Accepted:    true,
		ProcessedBy: "admin-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// Tests
// =====================================================================

func TestSubscriptionHandler_Create(t *testing.T) {
	e := newHandlerEnv(t)

	w := e.do(t, http.MethodPost, "/subscriptions", CreateSubscriptionRequest{
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		SubscribedBy:  "user-1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "plan-1", data["plan_id"])
}

func TestSubscriptionHandler_Create_InvalidBody(t *testing.T) {
	e := newHandlerEnv(t)

	w := e.do(t, http.MethodPost, "/subscriptions", map[string]string{"plan_id": "plan-1"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "validation_error", resp.Error.Type)
}

func TestSubscriptionHandler_Create_Conflict(t *testing.T) {
	e := newHandlerEnv(t)
	e.createSubscription(t)

	w := e.do(t, http.MethodPost, "/subscriptions", CreateSubscriptionRequest{
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		SubscribedBy:  "user-1",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "conflict", resp.Error.Type)
}

func TestSubscriptionHandler_Create_PlanNotFound(t *testing.T) {
	e := newHandlerEnv(t)

	w := e.do(t, http.MethodPost, "/subscriptions", CreateSubscriptionRequest{
		PlanID:        "plan-missing",
		ApplicationID: "app-1",
		SubscribedBy:  "user-1",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionHandler_Process_Accept(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/_process", ProcessSubscriptionRequest{
		Accepted:    true,
		ProcessedBy: "admin-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ACCEPTED", data["status"])
	assert.Equal(t, "admin-1", data["processed_by"])
}

func TestSubscriptionHandler_Process_AlreadyProcessed(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)
	e.acceptSubscription(t, sid)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/_process", ProcessSubscriptionRequest{
		Accepted:    true,
		ProcessedBy: "admin-2",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubscriptionHandler_Get_WithKeys(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)
	e.acceptSubscription(t, sid)

	w := e.do(t, http.MethodGet, "/subscriptions/"+sid+"?include=keys", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	apiKeys, ok := data["api_keys"].([]any)
	require.True(t, ok)
	assert.Len(t, apiKeys, 1)
}

func TestSubscriptionHandler_Get_NotFound(t *testing.T) {
	e := newHandlerEnv(t)

	w := e.do(t, http.MethodGet, "/subscriptions/sub_missing", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestSubscriptionHandler_Search(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)

	w := e.do(t, http.MethodGet, "/subscriptions?status=PENDING&page=1&page_size=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, sid, items[0].(map[string]any)["id"])
	assert.EqualValues(t, 1, data["total"])
}

func TestSubscriptionHandler_Search_InvalidStatus(t *testing.T) {
	e := newHandlerEnv(t)

	w := e.do(t, http.MethodGet, "/subscriptions?status=PAUSED", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_Search_InvalidTimeFilter(t *testing.T) {
	e := newHandlerEnv(t)
	e.createSubscription(t)

	for _, query := range []string{"from=yesterday", "to=2026-99-01T00:00:00Z"} {
		w := e.do(t, http.MethodGet, "/subscriptions?"+query, nil)

		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "validation_error", resp.Error.Type)
	}
}

func TestSubscriptionHandler_Update(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)
	e.acceptSubscription(t, sid)

	end := time.Now().UTC().Add(24 * time.Hour)
	w := e.do(t, http.MethodPut, "/subscriptions/"+sid, UpdateSubscriptionRequest{
		EndingAt: &end,
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["ending_at"])
}

func TestSubscriptionHandler_Close(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)
	e.acceptSubscription(t, sid)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/_close", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "CLOSED", data["status"])
}

func TestSubscriptionHandler_Close_Pending(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/_close", nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubscriptionHandler_Delete(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)

	w := e.do(t, http.MethodDelete, "/subscriptions/"+sid, nil)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, e.subs.Count())
}

func TestSubscriptionHandler_RenewApiKey(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)
	e.acceptSubscription(t, sid)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/apikeys/_renew", nil)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["key"])
	assert.Equal(t, 2, e.keys.Count())
}

func TestSubscriptionHandler_RenewApiKey_Pending(t *testing.T) {
	e := newHandlerEnv(t)
	sid := e.createSubscription(t)

	w := e.do(t, http.MethodPost, "/subscriptions/"+sid+"/apikeys/_renew", nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
