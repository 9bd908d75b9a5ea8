package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/premium"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = i18n.Initialize()
}

// asUser stands in for AuthRequired.
func asUser(id uuid.UUID, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id.String())
		c.Set("role", string(role))
		c.Set("lang", i18n.LangEN)
	}
}

func do(r http.Handler, method, path string, body []byte, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.APIError {
	t.Helper()
	var body struct {
		Success bool           `json:"success"`
		Error   utils.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func webhookRouter(svc PremiumManager, cfg config.RevenueCatConfig) *gin.Engine {
	r := gin.New()
	r.POST("/revenuecat", NewPremiumHandler(svc, cfg).Webhook)
	return r
}

func TestWebhookStructuralErrors(t *testing.T) {
	svc := &mockPremium{}
	r := webhookRouter(svc, config.RevenueCatConfig{})

	cases := map[string]string{
		"not json":      `{"event":`,
		"missing event": `{"foo":1}`,
		"missing user":  `{"event":{"type":"RENEWAL"}}`,
	}
	for name, body := range cases {
		w := do(r, http.MethodPost, "/revenuecat", []byte(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookAcknowledgesUnknownUser(t *testing.T) {
	svc := &mockPremium{}
	svc.On("HandleWebhook", mock.Anything, mock.AnythingOfType("premium.GrantEvent"), mock.Anything).
		Return(&services.WebhookResult{Outcome: services.OutcomeUserNotFound}, nil)
	r := webhookRouter(svc, config.RevenueCatConfig{})

	w := do(r, http.MethodPost, "/revenuecat", []byte(`{"event":{"type":"RENEWAL","app_user_id":"ghost"}}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.OutcomeUserNotFound)
	svc.AssertExpectations(t)
}

func TestWebhookAuthorization(t *testing.T) {
	svc := &mockPremium{}
	svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.WebhookResult{Outcome: services.OutcomeIgnored}, nil)
	body := []byte(`{"event":{"type":"TEST","app_user_id":"x"}}`)

	enforced := webhookRouter(svc, config.RevenueCatConfig{WebhookSecret: "s3cret", EnforceAuth: true})
	assert.Equal(t, http.StatusUnauthorized, do(enforced, http.MethodPost, "/revenuecat", body, "Authorization", "Bearer nope").Code)
	assert.Equal(t, http.StatusOK, do(enforced, http.MethodPost, "/revenuecat", body, "Authorization", "Bearer s3cret").Code)

	lenient := webhookRouter(svc, config.RevenueCatConfig{WebhookSecret: "s3cret"})
	assert.Equal(t, http.StatusOK, do(lenient, http.MethodPost, "/revenuecat", body, "Authorization", "Bearer nope").Code)
}

func TestUpgrade(t *testing.T) {
	id := uuid.New()
	svc := &mockPremium{}
	r := gin.New()
	r.POST("/users/:id/upgrade", asUser(id, models.RoleUser), NewPremiumHandler(svc, config.RevenueCatConfig{}).Upgrade)

	w := do(r, http.MethodPost, "/users/"+id.String()+"/upgrade", []byte(`{"subscriptionType":"weekly"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, i18n.T(i18n.LangEN, i18n.KeyPremiumInvalidPlan), decodeError(t, w).Message)

	svc.On("Upgrade", mock.Anything, id, id, &services.UpgradeRequest{SubscriptionType: "monthly"}).
		Return(nil, apperrors.NewValidationError(i18n.KeyPremiumAlreadyActive)).Once()
	w = do(r, http.MethodPost, "/users/"+id.String()+"/upgrade", []byte(`{"subscriptionType":"monthly"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, i18n.T(i18n.LangEN, i18n.KeyPremiumAlreadyActive), decodeError(t, w).Message)

	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	plan := "yearly"
	svc.On("Upgrade", mock.Anything, id, id, &services.UpgradeRequest{SubscriptionType: "yearly"}).
		Return(&premium.Status{State: premium.StateActive, IsPremium: true, SubscriptionType: &plan, PremiumEndDate: &end}, nil).Once()
	w = do(r, http.MethodPost, "/users/"+id.String()+"/upgrade", []byte(`{"subscriptionType":"yearly"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isPremium":true`)
}

func TestCreateCommentConflictReturnsExisting(t *testing.T) {
	userID, modelID := uuid.New(), uuid.New()
	existing := &models.Comment{UserID: userID, ModelID: modelID, Rating: 4}
	svc := &mockComments{}
	svc.On("CreateComment", mock.Anything, userID, mock.Anything).
		Return(nil, apperrors.NewConflictError(i18n.KeyCommentExists, existing))

	r := gin.New()
	r.POST("/comments", asUser(userID, models.RoleUser), NewCommentHandler(svc).CreateComment)

	w := do(r, http.MethodPost, "/comments", []byte(`{"model_id":"`+modelID.String()+`","rating":5}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	existingJSON, _ := json.Marshal(apiErr.Existing)
	assert.Contains(t, string(existingJSON), `"rating":4`)
}

func TestCreateCommentValidation(t *testing.T) {
	svc := &mockComments{}
	r := gin.New()
	r.POST("/comments", asUser(uuid.New(), models.RoleUser), NewCommentHandler(svc).CreateComment)

	w := do(r, http.MethodPost, "/comments", []byte(`{"model_id":"`+uuid.NewString()+`","rating":6}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Code)
	svc.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCommentOfSomeoneElseIsNotFound(t *testing.T) {
	userID, commentID := uuid.New(), uuid.New()
	svc := &mockComments{}
	svc.On("DeleteComment", mock.Anything, userID, commentID).Return(apperrors.NewUnauthorizedError(i18n.KeyCommentNotFound))

	r := gin.New()
	r.DELETE("/comments/:id", asUser(userID, models.RoleUser), NewCommentHandler(svc).DeleteComment)
	w := do(r, http.MethodDelete, "/comments/"+commentID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListModelsEmptyPage(t *testing.T) {
	svc := &mockModels{}
	svc.On("ListModels", mock.Anything, mock.MatchedBy(func(q services.ModelQuery) bool {
		return q.Filter.Type == "Cruiser" && q.Page == 3 && q.Limit == 10
	})).Return(utils.EmptyPage[models.EnrichedModel](utils.NewPaginationParams(3, 10)), nil)

	r := gin.New()
	r.GET("/models/type/:type", NewModelHandler(svc, &mockImages{}).ListByType)
	w := do(r, http.MethodGet, "/models/type/Cruiser?page=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"docs":[],"totalDocs":0,"limit":10,"totalPages":0,"page":3,"hasNextPage":false,"hasPrevPage":false}`, w.Body.String())
}

func TestListModelsSortParam(t *testing.T) {
	svc := &mockModels{}
	svc.On("ListModels", mock.Anything, mock.MatchedBy(func(q services.ModelQuery) bool {
		return q.Sort == services.SortRating
	})).Return(utils.EmptyPage[models.EnrichedModel](utils.NewPaginationParams(1, 10)), nil)

	r := gin.New()
	r.GET("/models/top/rated", NewModelHandler(svc, &mockImages{}).TopRated)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/models/top/rated", nil).Code)
	svc.AssertExpectations(t)
}

func TestGetModelBadID(t *testing.T) {
	r := gin.New()
	r.GET("/models/:id", NewModelHandler(&mockModels{}, &mockImages{}).GetModel)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/models/not-a-uuid", nil).Code)
}

func TestUploadModelImage(t *testing.T) {
	modelID := uuid.New()
	images := &mockImages{}
	images.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, services.UploadModelImage).
		Return(&services.UploadResult{URL: "/uploads/models/x.png", Key: "models/x.png"}, nil)
	svc := &mockModels{}
	svc.On("SetModelImage", mock.Anything, modelID, "/uploads/models/x.png").Return(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "x.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/models/:id/image", NewModelHandler(svc, images).UploadImage)
	req := httptest.NewRequest(http.MethodPost, "/models/"+modelID.String()+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestUploadModelImageRemovesFileWhenModelMissing(t *testing.T) {
	modelID := uuid.New()
	images := &mockImages{}
	images.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, services.UploadModelImage).
		Return(&services.UploadResult{URL: "/uploads/models/x.png", Key: "models/x.png"}, nil)
	images.On("DeleteFile", mock.Anything, "models/x.png").Return(nil)
	svc := &mockModels{}
	svc.On("SetModelImage", mock.Anything, modelID, "/uploads/models/x.png").
		Return(apperrors.NewNotFoundError(i18n.KeyModelNotFound))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "x.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/models/:id/image", NewModelHandler(svc, images).UploadImage)
	req := httptest.NewRequest(http.MethodPost, "/models/"+modelID.String()+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	images.AssertExpectations(t)
}

func TestGetUserOnlySelfOrAdmin(t *testing.T) {
	caller, other := uuid.New(), uuid.New()
	users := &mockUsers{}
	users.On("GetUserByID", mock.Anything, other).Return(&models.User{Name: "Other"}, nil)

	r := gin.New()
	h := NewUserHandler(nil, users)
	r.GET("/as-user/:id", asUser(caller, models.RoleUser), h.GetUser)
	r.GET("/as-admin/:id", asUser(caller, models.RoleAdmin), h.GetUser)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/as-user/"+other.String(), nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/as-admin/"+other.String(), nil).Code)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	h := NewHealthHandler("1.0.0", map[string]Pinger{
		"database": func(ctx context.Context) error { return nil },
	})
	r.GET("/health", h.Health)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil).Code)

	r = gin.New()
	h = NewHealthHandler("1.0.0", map[string]Pinger{
		"database": func(ctx context.Context) error { return errors.New("down") },
	})
	r.GET("/health", h.Health)
	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"down"`)
}
