package handlers

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/premium"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type mockPremium struct{ mock.Mock }

func (m *mockPremium) HandleWebhook(ctx context.Context, ev premium.Event, raw []byte) (*services.WebhookResult, error) {
	args := m.Called(ctx, ev, raw)
	res, _ := args.Get(0).(*services.WebhookResult)
	return res, args.Error(1)
}

func (m *mockPremium) Upgrade(ctx context.Context, callerID, userID uuid.UUID, req *services.UpgradeRequest) (*premium.Status, error) {
	args := m.Called(ctx, callerID, userID, req)
	status, _ := args.Get(0).(*premium.Status)
	return status, args.Error(1)
}

func (m *mockPremium) Status(ctx context.Context, userID uuid.UUID) (*premium.Status, error) {
	args := m.Called(ctx, userID)
	status, _ := args.Get(0).(*premium.Status)
	return status, args.Error(1)
}

func (m *mockPremium) Prices() services.SubscriptionPrices {
	return m.Called().Get(0).(services.SubscriptionPrices)
}

type mockComments struct{ mock.Mock }

func (m *mockComments) ListComments(ctx context.Context, params utils.PaginationParams) (utils.Page[services.CommentView], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(utils.Page[services.CommentView]), args.Error(1)
}

func (m *mockComments) ListByModel(ctx context.Context, modelID uuid.UUID) (*services.ModelComments, error) {
	args := m.Called(ctx, modelID)
	res, _ := args.Get(0).(*services.ModelComments)
	return res, args.Error(1)
}

func (m *mockComments) CreateComment(ctx context.Context, userID uuid.UUID, req *services.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*models.Comment)
	return res, args.Error(1)
}

func (m *mockComments) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *services.UpdateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, userID, commentID, req)
	res, _ := args.Get(0).(*models.Comment)
	return res, args.Error(1)
}

func (m *mockComments) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

type mockModels struct{ mock.Mock }

func (m *mockModels) ListModels(ctx context.Context, q services.ModelQuery) (utils.Page[models.EnrichedModel], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(utils.Page[models.EnrichedModel]), args.Error(1)
}

func (m *mockModels) GetModel(ctx context.Context, id uuid.UUID) (*models.EnrichedModel, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.EnrichedModel)
	return res, args.Error(1)
}

func (m *mockModels) CreateModel(ctx context.Context, req *services.CreateModelRequest) (*models.EnrichedModel, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*models.EnrichedModel)
	return res, args.Error(1)
}

func (m *mockModels) SetModelImage(ctx context.Context, id uuid.UUID, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type mockImages struct{ mock.Mock }

func (m *mockImages) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind services.UploadKind) (*services.UploadResult, error) {
	args := m.Called(ctx, file, header, kind)
	res, _ := args.Get(0).(*services.UploadResult)
	return res, args.Error(1)
}

func (m *mockImages) DeleteFile(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func (m *mockUsers) ListUsers(ctx context.Context, params utils.PaginationParams) (utils.Page[models.User], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(utils.Page[models.User]), args.Error(1)
}
