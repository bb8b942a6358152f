package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/mock"
	"github.com/chapelworks/mediasync/models"
)

func TestContactService_Submit_SendsUnreadMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mock.NewMockCollectionGateway(ctrl)
	gw.EXPECT().
		Create(gomock.Any(), "contacts", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload models.CreatePayload) (models.Record, error) {
			assert.Equal(t, "Alice", payload.Field("name"))
			assert.Equal(t, "alice@example.org", payload.Field("email"))
			assert.Equal(t, "hello from the retreat", payload.Field("message"))
			assert.Equal(t, "unread", payload.Field("status"))
			return models.Record{ID: "c1"}, nil
		})

	svc := NewContactService(gw)
	err := svc.Submit(context.Background(), models.ContactRequest{
		Name:    "  Alice  ",
		Email:   "alice@example.org",
		Subject: "Retreat",
		Message: "hello from the retreat",
	})
	require.NoError(t, err)
}

func TestContactService_Submit_ValidatesBeforeSending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no Create expectation: invalid requests never reach the gateway
	svc := NewContactService(mock.NewMockCollectionGateway(ctrl))

	tests := []struct {
		name string
		req  models.ContactRequest
	}{
		{name: "missing name", req: models.ContactRequest{Email: "a@b.c", Message: "hi"}},
		{name: "missing email", req: models.ContactRequest{Name: "Alice", Message: "hi"}},
		{name: "malformed email", req: models.ContactRequest{Name: "Alice", Email: "not-an-address", Message: "hi"}},
		{name: "missing message", req: models.ContactRequest{Name: "Alice", Email: "a@b.c", Message: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), tt.req)
			assert.ErrorIs(t, err, adapter.ErrValidation)
		})
	}
}

func TestContactService_Submit_WrapsGatewayFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mock.NewMockCollectionGateway(ctrl)
	gw.EXPECT().
		Create(gomock.Any(), "contacts", gomock.Any()).
		Return(models.Record{}, adapter.ErrFetch)

	err := NewContactService(gw).Submit(context.Background(), models.ContactRequest{
		Name:    "Alice",
		Email:   "alice@example.org",
		Message: "hi",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrFetch)
}
