package mocks

import (
	"context"

	"github.com/gilby125/weekend-trip-api/worker"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/mock"
)

// MockCronner is a testify mock of worker.Cronner. The last registered job
// is kept in Job so tests can fire it.
type MockCronner struct {
	mock.Mock
	Job func()
}

var _ worker.Cronner = (*MockCronner)(nil)

func (m *MockCronner) Start() {
	m.Called()
}

// Stop returns an already finished context unless one was configured.
func (m *MockCronner) Stop() context.Context {
	args := m.Called()
	if ctx, ok := args.Get(0).(context.Context); ok {
		return ctx
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func (m *MockCronner) AddFunc(spec string, cmd func()) (cron.EntryID, error) {
	args := m.Called(spec)
	m.Job = cmd
	return args.Get(0).(cron.EntryID), args.Error(1)
}
