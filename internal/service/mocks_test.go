package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type mockBus struct {
	mock.Mock
}

func (m *mockBus) Publish(e event.Event) {
	m.Called(e)
}

func (m *mockBus) Subscribe(types ...event.Type) (<-chan event.Event, func()) {
	args := m.Called(types)
	return args.Get(0).(<-chan event.Event), args.Get(1).(func())
}

func eventOfType(typ event.Type) any {
	return mock.MatchedBy(func(e event.Event) bool { return e.Type == typ })
}

type mockEntityStore struct {
	mock.Mock
}

func (m *mockEntityStore) GetByID(ctx context.Context, id string) (model.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Restaurant), args.Error(1)
}

func (m *mockEntityStore) Delete(ctx context.Context, id string, deletedBy *string, commit bool) (bool, error) {
	args := m.Called(ctx, id, deletedBy, commit)
	return args.Bool(0), args.Error(1)
}

type mockArchiveWriter struct {
	mock.Mock
}

func (m *mockArchiveWriter) Create(ctx context.Context, data model.ArchiveData, deletedBy *string, commit bool) (model.Archive, error) {
	args := m.Called(ctx, data, deletedBy, commit)
	return args.Get(0).(model.Archive), args.Error(1)
}

type mockTransactor struct {
	mock.Mock
}

func (m *mockTransactor) Commit() error {
	return m.Called().Error(0)
}

func (m *mockTransactor) Rollback() error {
	return m.Called().Error(0)
}
