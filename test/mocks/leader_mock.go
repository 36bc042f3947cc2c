package mocks

import (
	"github.com/gilby125/weekend-trip-api/worker"
	"github.com/stretchr/testify/mock"
)

// MockLeadership is a testify mock of worker.Leadership.
type MockLeadership struct {
	mock.Mock
}

var _ worker.Leadership = (*MockLeadership)(nil)

func (m *MockLeadership) IsLeader() bool {
	return m.Called().Bool(0)
}
