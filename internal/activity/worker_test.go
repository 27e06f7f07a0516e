package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLogger struct {
	mu     sync.Mutex
	events []Event
}

func (m *memoryLogger) Save(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memoryLogger) GetByType(_ context.Context, eventType string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryLogger) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestWorkerSavesLoggedEvents(t *testing.T) {
	logger := &memoryLogger{}
	worker := NewWorker(logger, 16)
	worker.Start()

	worker.Log(NewEvent(
		WithType(TypeSharePaid),
		WithActor("user-1"),
		WithData(map[string]any{"expense_id": "e1"}),
	))
	worker.Shutdown()

	require.Equal(t, 1, logger.len())
	saved, err := logger.GetByType(context.Background(), TypeSharePaid)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "user-1", saved[0].Metadata["actor_id"])
}

func TestWorkerDrainsBufferOnShutdown(t *testing.T) {
	logger := &memoryLogger{}
	worker := NewWorker(logger, 64)

	// Queue before the worker starts so everything is still buffered.
	for i := 0; i < 10; i++ {
		worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	}

	worker.Start()
	worker.Shutdown()

	assert.Equal(t, 10, logger.len())
}

func TestWorkerDropsWhenBufferFull(t *testing.T) {
	logger := &memoryLogger{}
	worker := NewWorker(logger, 1)

	worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	worker.Log(NewEvent(WithType(TypeExpenseCreated))) // buffer full, dropped

	worker.Start()
	worker.Shutdown()

	assert.Equal(t, 1, logger.len())
}

func TestNewEventDefaults(t *testing.T) {
	before := time.Now()
	e := NewEvent(WithType(TypeGroupCreated))

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", e.ID.String())
	assert.Equal(t, TypeGroupCreated, e.Type)
	assert.NotNil(t, e.Metadata)
	assert.False(t, e.CreatedAt.Before(before))
}
