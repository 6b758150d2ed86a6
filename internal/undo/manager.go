// Package undo implements the transactional undo/redo engine.
//
// The Manager owns two LIFO histories (undo and redo) and executes every
// registration, undo, and redo request on a single worker goroutine, in
// submission order. The stacks are touched only from that goroutine; nothing
// outside the queue ever holds a reference to them. WaitForIdle gives
// callers a deterministic synchronization point: it returns only after every
// request submitted before it has completed.
//
// A failed undo or redo is never lost: the action is pushed back onto the
// stack it came from so the user can retry, and the failure is reported to
// the caller instead of being rethrown into the queue.
package undo

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rcollins/contacts/internal/storage"
	"github.com/rcollins/contacts/internal/types"
)

// Action is one reversible operation: a human-readable description plus an
// undo/redo closure pair. Actions are created at registration time and never
// mutated afterwards, only moved between the two stacks.
type Action struct {
	ID          string
	Description string
	undo        func(ctx context.Context) error
	redo        func(ctx context.Context) error
}

type requestKind int

const (
	requestRegister requestKind = iota
	requestUndo
	requestRedo
	requestSnapshot
	requestDrain
)

type request struct {
	kind   requestKind
	action *Action

	// done carries the outcome for undo/redo and signals completion for
	// drain/snapshot
	done chan result
	ctx  context.Context
}

type result struct {
	performed bool
	err       error
	undoDescs []string
	redoDescs []string
}

// Manager is the serialized undo/redo transaction engine.
type Manager struct {
	requests chan request
	stopCh   chan struct{}
	doneCh   chan struct{}

	// Stack depths mirrored for lock-free CanUndo/CanRedo
	undoLen atomic.Int64
	redoLen atomic.Int64

	// Owned exclusively by the worker goroutine
	undoStack []*Action
	redoStack []*Action
}

// NewManager creates and starts an undo manager. Call Close when done.
func NewManager() *Manager {
	m := &Manager{
		requests: make(chan request, 128),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go m.loop()
	return m
}

// Close stops the worker goroutine. Requests already submitted may be
// dropped; Close is for shutdown, not synchronization — use WaitForIdle for
// that.
func (m *Manager) Close() {
	close(m.stopCh)
	<-m.doneCh
}

// Register records a new reversible action. The redo stack is cleared: a
// new action invalidates any forward history.
func (m *Manager) Register(description string, undoFn, redoFn func(ctx context.Context) error) error {
	if undoFn == nil || redoFn == nil {
		return fmt.Errorf("both undo and redo closures are required")
	}
	action := &Action{
		ID:          uuid.New().String(),
		Description: description,
		undo:        undoFn,
		redo:        redoFn,
	}
	m.submit(request{kind: requestRegister, action: action})
	return nil
}

// RegisterEffect translates a named effect into an undo/redo closure pair
// against the capability interface and registers it.
func (m *Manager) RegisterEffect(effect types.Effect, actionTitle string, performer storage.ActionPerformer) error {
	if err := effect.Validate(); err != nil {
		return fmt.Errorf("invalid effect: %w", err)
	}
	undoFn, redoFn, err := effectClosures(effect, performer)
	if err != nil {
		return err
	}
	if actionTitle == "" {
		actionTitle = effect.String()
	}
	return m.Register(actionTitle, undoFn, redoFn)
}

// Undo reverses the most recently registered action. It returns (true, nil)
// when an action was undone, (false, nil) when the undo stack was empty (a
// no-op), and (false, err) when the action's inverse failed — in which case
// the action stays on top of the undo stack for retry.
func (m *Manager) Undo(ctx context.Context) (bool, error) {
	return m.submitAndWait(ctx, requestUndo)
}

// Redo re-applies the most recently undone action, mirroring Undo against
// the redo stack.
func (m *Manager) Redo(ctx context.Context) (bool, error) {
	return m.submitAndWait(ctx, requestRedo)
}

// CanUndo reports whether the undo stack is non-empty
func (m *Manager) CanUndo() bool {
	return m.undoLen.Load() > 0
}

// CanRedo reports whether the redo stack is non-empty
func (m *Manager) CanRedo() bool {
	return m.redoLen.Load() > 0
}

// WaitForIdle blocks until every request submitted before it has completed,
// or the context is cancelled.
func (m *Manager) WaitForIdle(ctx context.Context) error {
	done := make(chan result, 1)
	select {
	case m.requests <- request{kind: requestDrain, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-m.stopCh:
		return fmt.Errorf("undo manager is closed")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// History returns the descriptions on both stacks, most recent last. Like
// every other request it runs through the serialized queue, so it reflects
// a consistent point in the submission order.
func (m *Manager) History(ctx context.Context) (undoDescs, redoDescs []string, err error) {
	done := make(chan result, 1)
	select {
	case m.requests <- request{kind: requestSnapshot, done: done}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-m.stopCh:
		return nil, nil, fmt.Errorf("undo manager is closed")
	}
	select {
	case res := <-done:
		return res.undoDescs, res.redoDescs, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

func (m *Manager) submit(req request) {
	select {
	case m.requests <- req:
	case <-m.stopCh:
	}
}

func (m *Manager) submitAndWait(ctx context.Context, kind requestKind) (bool, error) {
	done := make(chan result, 1)
	select {
	case m.requests <- request{kind: kind, ctx: ctx, done: done}:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-m.stopCh:
		return false, fmt.Errorf("undo manager is closed")
	}
	// Wait for the worker even if ctx expires: once an execution starts it
	// runs to completion, and the closure itself observes ctx
	res := <-done
	return res.performed, res.err
}

// loop is the single writer for both stacks
func (m *Manager) loop() {
	defer close(m.doneCh)
	for {
		select {
		case <-m.stopCh:
			return
		case req := <-m.requests:
			m.handle(req)
		}
	}
}

func (m *Manager) handle(req request) {
	switch req.kind {
	case requestRegister:
		m.undoStack = append(m.undoStack, req.action)
		m.redoStack = nil
		m.undoLen.Store(int64(len(m.undoStack)))
		m.redoLen.Store(0)

	case requestUndo:
		req.done <- m.move(req.ctx, &m.undoStack, &m.redoStack, func(a *Action, ctx context.Context) error {
			return a.undo(ctx)
		})
		m.syncLens()

	case requestRedo:
		req.done <- m.move(req.ctx, &m.redoStack, &m.undoStack, func(a *Action, ctx context.Context) error {
			return a.redo(ctx)
		})
		m.syncLens()

	case requestSnapshot:
		req.done <- result{
			undoDescs: descriptions(m.undoStack),
			redoDescs: descriptions(m.redoStack),
		}

	case requestDrain:
		req.done <- result{}
	}
}

// move pops the top of from, runs the closure, and pushes the action onto to
// on success or back onto from on failure. The action is never dropped.
func (m *Manager) move(ctx context.Context, from, to *[]*Action, run func(*Action, context.Context) error) result {
	if len(*from) == 0 {
		return result{performed: false}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	top := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	if err := run(top, ctx); err != nil {
		*from = append(*from, top)
		return result{performed: false, err: fmt.Errorf("%s failed: %w", top.Description, err)}
	}

	*to = append(*to, top)
	return result{performed: true}
}

func (m *Manager) syncLens() {
	m.undoLen.Store(int64(len(m.undoStack)))
	m.redoLen.Store(int64(len(m.redoStack)))
}

func descriptions(stack []*Action) []string {
	descs := make([]string, len(stack))
	for i, a := range stack {
		descs[i] = a.Description
	}
	return descs
}
