package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gamemaster-server/internal/dialogue"
	"gamemaster-server/internal/narrator"
)

// MockGenerator is a mock type for the dialogue.Generator type
type MockGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, promptText, params
func (_m *MockGenerator) Generate(ctx context.Context, promptText string, params narrator.GenerationParams) (string, error) {
	ret := _m.Called(ctx, promptText, params)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, narrator.GenerationParams) string); ok {
		r0 = rf(ctx, promptText, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, narrator.GenerationParams) error); ok {
		r1 = rf(ctx, promptText, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

var _ dialogue.Generator = (*MockGenerator)(nil)
