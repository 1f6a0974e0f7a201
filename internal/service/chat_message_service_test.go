package service_test

import (
	"context"
	"errors"
	"testing"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/internal/model"
	"chatmsg-go/internal/repository"
	"chatmsg-go/internal/service"
	"chatmsg-go/pkg/store"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher 是 EventPublisher 的 testify mock 实现
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.ChatMessageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(typ model.ChatMessageEventType) interface{} {
	return mock.MatchedBy(func(e model.ChatMessageEvent) bool { return e.Type == typ })
}

func newService(pub service.EventPublisher, maxRecords int) service.ChatMessageService {
	repo := repository.NewChatMessageRepository(store.NewKeyed[model.ChatMessage]())
	return service.NewChatMessageService(repo, pub, maxRecords)
}

func TestService_ExampleLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, 0)

	// Act: create → defaults applied
	created, err := svc.Create(ctx, model.CreateChatMessage{Content: "hi", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, model.MessageTypeUser, created.MessageType)
	assert.Equal(t, model.PriorityMedium, created.Priority)

	// update priority only
	updated, err := svc.Update(ctx, created.ID, model.UpdateChatMessage{Priority: lo.ToPtr(model.PriorityHigh)})
	require.NoError(t, err)
	assert.Equal(t, "hi", updated.Content)
	assert.Equal(t, model.PriorityHigh, updated.Priority)

	// delete, then read → not found
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.FindByID(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_NotFoundSymmetry(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, 0)

	_, err := svc.FindByID(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Update(ctx, "missing", model.UpdateChatMessage{Content: lo.ToPtr("x")})
	assert.True(t, apperr.IsNotFound(err))

	err = svc.Delete(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.MarkAsRead(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_FindByIDEmptyID(t *testing.T) {
	_, err := newService(nil, 0).FindByID(context.Background(), "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_MarkAsReadTouchesOnlyUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, 0)
	created, err := svc.Create(ctx, model.CreateChatMessage{Content: "hi", SessionID: "s1", UserID: "u1"})
	require.NoError(t, err)

	first, err := svc.MarkAsRead(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.MarkAsRead(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	second.UpdatedAt = created.UpdatedAt
	assert.Equal(t, created, second, "content fields are untouched")
}

func TestService_FindAllPassThrough(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, 0)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, model.CreateChatMessage{Content: "a", SessionID: "s1"})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, model.CreateChatMessage{Content: "b", SessionID: "s2"})
		require.NoError(t, err)
	}

	page, err := svc.FindAll(ctx, model.ChatMessageFilter{SessionID: "s1", Limit: lo.ToPtr(2), Offset: lo.ToPtr(1)})

	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, 5, page.Total)
}

func TestService_CapacityLimit(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, 2)

	_, err := svc.Create(ctx, model.CreateChatMessage{Content: "a", SessionID: "s"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, model.CreateChatMessage{Content: "b", SessionID: "s"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateChatMessage{Content: "c", SessionID: "s"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindStoreFull, apperr.From(err).Kind)

	// 删除后重新获得容量
	require.NoError(t, svc.Delete(ctx, second.ID))
	_, err = svc.Create(ctx, model.CreateChatMessage{Content: "c", SessionID: "s"})
	assert.NoError(t, err)
}

func TestService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, eventOfType(model.EventCreated)).Return(nil).Once()
	pub.On("Publish", mock.Anything, eventOfType(model.EventUpdated)).Return(nil).Once()
	pub.On("Publish", mock.Anything, eventOfType(model.EventRead)).Return(nil).Once()
	pub.On("Publish", mock.Anything, eventOfType(model.EventDeleted)).Return(nil).Once()
	svc := newService(pub, 0)

	created, err := svc.Create(ctx, model.CreateChatMessage{Content: "hi", SessionID: "s1"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, model.UpdateChatMessage{Content: lo.ToPtr("hello")})
	require.NoError(t, err)
	_, err = svc.MarkAsRead(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	pub.AssertExpectations(t)
	pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e model.ChatMessageEvent) bool {
		return e.Type == model.EventDeleted && e.MessageID == created.ID && e.SessionID == "s1" && e.Record == nil
	}))
}

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc := newService(pub, 0)

	created, err := svc.Create(ctx, model.CreateChatMessage{Content: "hi", SessionID: "s1"})

	require.NoError(t, err)
	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestService_NotFoundDoesNotPublish(t *testing.T) {
	pub := new(MockPublisher)
	svc := newService(pub, 0)

	_ = svc.Delete(context.Background(), "missing")

	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
