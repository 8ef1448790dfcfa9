package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/control"
	"github.com/smoralesdev/volley-panel/internal/model"
)

// stubBackend serves a single static match so sessions can be opened.
type stubBackend struct {
	matchErr error
}

func (b *stubBackend) GetMatch(ctx context.Context, id int) (model.Match, error) {
	if b.matchErr != nil {
		return model.Match{}, b.matchErr
	}
	return model.Match{ID: id, Status: model.StatusPending}, nil
}

func (b *stubBackend) GetProgress(ctx context.Context, id int) (model.Progress, error) {
	return model.Progress{Status: model.StatusPending}, nil
}

func (b *stubBackend) StartMatch(ctx context.Context, id int) error { return nil }
func (b *stubBackend) EndMatch(ctx context.Context, id int) error   { return nil }
func (b *stubBackend) StartSet(ctx context.Context, id int) error   { return nil }
func (b *stubBackend) EndSet(ctx context.Context, id int) error     { return nil }
func (b *stubBackend) AddPerformance(ctx context.Context, id int, d model.PerformanceDelta) error {
	return nil
}
func (b *stubBackend) RevertPerformance(ctx context.Context, id int, d model.PerformanceDelta) error {
	return nil
}
func (b *stubBackend) Substitute(ctx context.Context, id int, sub model.Substitution) error {
	return nil
}
func (b *stubBackend) Timeout(ctx context.Context, id int, team model.TeamSide) error { return nil }

func newTestHub(t *testing.T, b control.Backend) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, b, control.DefaultRules(), zap.NewNop())
}

func ensure(t *testing.T, h *Hub, matchID int) EnsureResult {
	t.Helper()
	reply := make(chan EnsureResult, 1)
	h.Inbox() <- EnsureSession{MatchID: matchID, Reply: reply}
	select {
	case res := <-reply:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for ensure reply")
		return EnsureResult{} // unreachable
	}
}

func get(t *testing.T, h *Hub, matchID int) *control.Session {
	t.Helper()
	reply := make(chan *control.Session, 1)
	h.Inbox() <- GetSession{MatchID: matchID, Reply: reply}
	select {
	case s := <-reply:
		return s
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for get reply")
		return nil // unreachable
	}
}

func TestEnsureSession_ReusesExisting(t *testing.T) {
	h := newTestHub(t, &stubBackend{})

	first := ensure(t, h, 1)
	if first.Err != nil {
		t.Fatalf("ensure: %v", first.Err)
	}
	second := ensure(t, h, 1)
	if second.Session != first.Session {
		t.Fatalf("same match should reuse the session actor")
	}

	other := ensure(t, h, 2)
	if other.Session == first.Session {
		t.Fatalf("different matches must get different sessions")
	}
}

func TestEnsureSession_PropagatesLoadError(t *testing.T) {
	wantErr := errors.New("match not found")
	h := newTestHub(t, &stubBackend{matchErr: wantErr})

	res := ensure(t, h, 9)
	if !errors.Is(res.Err, wantErr) {
		t.Fatalf("want load error, got %v", res.Err)
	}
	if res.Session != nil {
		t.Fatalf("no session should be registered on failure")
	}
	if got := get(t, h, 9); got != nil {
		t.Fatalf("failed open must not leave a session behind")
	}
}

func TestGetSession_NilWhenAbsent(t *testing.T) {
	h := newTestHub(t, &stubBackend{})
	if got := get(t, h, 42); got != nil {
		t.Fatalf("expected nil for unopened match, got %v", got)
	}
}

func TestRemoveSession(t *testing.T) {
	h := newTestHub(t, &stubBackend{})

	res := ensure(t, h, 1)
	if res.Err != nil {
		t.Fatalf("ensure: %v", res.Err)
	}
	h.Inbox() <- RemoveSession{MatchID: 1}

	if got := get(t, h, 1); got != nil {
		t.Fatalf("session should be gone after removal")
	}
}
