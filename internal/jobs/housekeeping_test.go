package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDeactivator struct {
	calls chan struct{}
	err   error
}

func (f *fakeDeactivator) DeactivateEnded(context.Context) (int64, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return 2, f.err
}

func runHousekeeping(t *testing.T, d *fakeDeactivator) {
	t.Helper()

	h, err := NewHousekeeping(d, time.Hour, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case <-d.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("deactivation job did not run on start")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("housekeeping did not stop")
	}
}

func TestHousekeeping_RunsImmediatelyAndStops(t *testing.T) {
	runHousekeeping(t, &fakeDeactivator{calls: make(chan struct{}, 1)})
}

func TestHousekeeping_SurvivesJobErrors(t *testing.T) {
	runHousekeeping(t, &fakeDeactivator{calls: make(chan struct{}, 1), err: errors.New("db down")})
}
