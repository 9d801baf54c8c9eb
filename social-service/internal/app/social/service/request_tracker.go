package service

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type trackedRequest struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// RequestTracker пропускает к ответу только последний запрос с данным ключом.
// Begin отменяет контекст предыдущего запроса с тем же ключом причиной ErrSuperseded.
type RequestTracker struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]trackedRequest
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{inflight: make(map[string]trackedRequest)}
}

func trackerKey(userID, scope string) string {
	return userID + "|" + scope
}

// Begin регистрирует запрос пользователя в области scope.
// Возвращенную функцию done нужно вызвать по завершении обработки.
func (t *RequestTracker) Begin(ctx context.Context, userID, scope string) (context.Context, func()) {
	key := trackerKey(userID, scope)
	reqCtx, cancel := context.WithCancelCause(ctx)

	t.mu.Lock()
	t.seq++
	seq := t.seq
	if prev, ok := t.inflight[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	t.inflight[key] = trackedRequest{seq: seq, cancel: cancel}
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if cur, ok := t.inflight[key]; ok && cur.seq == seq {
			delete(t.inflight, key)
		}
		t.mu.Unlock()
		cancel(nil)
	}

	return reqCtx, done
}

// CancelUser отменяет все запросы пользователя, например после выхода
func (t *RequestTracker) CancelUser(userID string) {
	prefix := userID + "|"

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, req := range t.inflight {
		if strings.HasPrefix(key, prefix) {
			req.cancel(ErrSignedOut)
			delete(t.inflight, key)
		}
	}
}

// OnAuthEvent - слушатель для SessionService.Subscribe
func (t *RequestTracker) OnAuthEvent(event AuthEvent) {
	if event.Type == AuthSignedOut {
		t.CancelUser(event.UserID)
	}
}

// Superseded сообщает, что ответ устарел и не должен быть применен
func Superseded(ctx context.Context) bool {
	cause := context.Cause(ctx)
	return errors.Is(cause, ErrSuperseded) || errors.Is(cause, ErrSignedOut)
}

// InFlight - число отслеживаемых запросов
func (t *RequestTracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}
