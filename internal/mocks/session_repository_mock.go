package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gamemaster-server/internal/model"
	"gamemaster-server/internal/repository"
)

// MockSessionRepository is a mock type for the repository.SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, id
func (_m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.Session
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *model.Session); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Session)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Save provides a mock function with given fields: ctx, session
func (_m *MockSessionRepository) Save(ctx context.Context, session *model.Session) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

var _ repository.SessionRepository = (*MockSessionRepository)(nil)
