package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockCanceler struct {
	mu       sync.Mutex
	canceled []string
}

func (m *mockCanceler) Cancel(ctx context.Context, queryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canceled = append(m.canceled, queryID)
	return nil
}

func (m *mockCanceler) canceledIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.canceled...)
}

func TestAdmitSingleQuery(t *testing.T) {
	db := New(&mockCanceler{}, WithWindow(20*time.Millisecond))

	assert.True(t, db.Admit(context.Background(), 1, "q1"))
}

func TestBurstOnlyLastIsLive(t *testing.T) {
	canceler := &mockCanceler{}
	db := New(canceler, WithWindow(50*time.Millisecond))
	ctx := context.Background()

	var wg sync.WaitGroup
	var firstLive, secondLive bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstLive = db.Admit(ctx, 1, "q1")
	}()

	time.Sleep(10 * time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		secondLive = db.Admit(ctx, 1, "q2")
	}()

	wg.Wait()

	assert.False(t, firstLive, "superseded query must not be live")
	assert.True(t, secondLive, "latest query must be live")

	// Best-effort cancel targets the superseded query.
	assert.Eventually(t, func() bool {
		ids := canceler.canceledIDs()
		return len(ids) == 1 && ids[0] == "q1"
	}, time.Second, 5*time.Millisecond)
}

func TestSpacedQueriesBothLive(t *testing.T) {
	canceler := &mockCanceler{}
	db := New(canceler, WithWindow(20*time.Millisecond))
	ctx := context.Background()

	assert.True(t, db.Admit(ctx, 1, "q1"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, db.Admit(ctx, 1, "q2"))

	assert.Empty(t, canceler.canceledIDs(), "no cancel outside the window")
}

func TestUsersDoNotInteract(t *testing.T) {
	db := New(&mockCanceler{}, WithWindow(40*time.Millisecond))
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]bool, 2)

	for i, userID := range []int64{1, 2} {
		i, userID := i, userID
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = db.Admit(ctx, userID, "q")
		}()
	}
	wg.Wait()

	assert.True(t, results[0])
	assert.True(t, results[1])
}

func TestAdmitCanceledContext(t *testing.T) {
	db := New(&mockCanceler{}, WithWindow(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, db.Admit(ctx, 1, "q1"))
}
