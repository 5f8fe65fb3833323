package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"charityportal/pkg/types"
)

// Owner selects which slot set an attachment operation targets.
type Owner int

const (
	OwnerRequest Owner = iota
	OwnerPartnerDraft
)

func (w *Workflow) slotsFor(owner Owner) (*Slots, error) {
	if owner == OwnerPartnerDraft {
		return w.partners.DraftSlots()
	}
	return w.attachments, nil
}

// Session hosts one Workflow on its own event loop. Every mutation runs on
// the loop goroutine; file encoding and submission run outside it and post
// their results back.
type Session struct {
	ID      string
	OwnerID string

	cmds   chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	wf         *Workflow
	submitting bool

	lastActive atomic.Int64
}

func NewSession(id, ownerID string, opts *Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:      id,
		OwnerID: ownerID,
		cmds:    make(chan func()),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		wf:      New(ownerID, opts),
	}
	s.touch()

	go s.loop()

	return s
}

func (s *Session) loop() {
	defer close(s.done)

	for {
		select {
		case <-s.ctx.Done():
			s.wf = nil
			return
		case cmd := <-s.cmds:
			cmd()
		}
	}
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Do runs fn on the session loop and returns its error. fn must not block.
func (s *Session) Do(ctx context.Context, fn func(w *Workflow) error) error {
	errc := make(chan error, 1)
	cmd := func() {
		errc <- fn(s.wf)
	}

	select {
	case s.cmds <- cmd:
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	s.touch()

	return <-errc
}

// SelectAttachment validates u against the slot's rules on the loop, encodes
// it outside the loop and applies the result only if no later selection,
// removal or teardown happened in between.
func (s *Session) SelectAttachment(ctx context.Context, owner Owner, requirementID int64, u Upload) error {
	var (
		slots  *Slots
		ticket Ticket
	)

	err := s.Do(ctx, func(w *Workflow) error {
		var err error
		slots, err = w.slotsFor(owner)
		if err != nil {
			return err
		}
		ticket, err = slots.Begin(requirementID, u)
		return err
	})
	if err != nil {
		return err
	}

	encodeCtx, stop := s.bind(ctx)
	content, encodeErr := ticket.Encode(encodeCtx, u.Body)
	stop()

	return s.Do(context.Background(), func(w *Workflow) error {
		return slots.Complete(ticket, content, encodeErr)
	})
}

// Submit assembles the payload on the loop, calls the submitter outside it
// and settles the outcome back on the loop. Only one submission may be in
// flight per session.
func (s *Session) Submit(ctx context.Context, submitter Submitter) (*types.SubmissionReceipt, error) {
	var payload *types.PermitPayload

	err := s.Do(ctx, func(w *Workflow) error {
		if s.submitting {
			return ErrSubmissionInFlight
		}

		p, err := w.Assemble()
		if err != nil {
			return err
		}

		payload = p
		s.submitting = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	submitCtx, stop := s.bind(ctx)
	receipt, submitErr := submitter.Submit(submitCtx, payload)
	stop()

	err = s.Do(context.Background(), func(w *Workflow) error {
		s.submitting = false
		return w.Settle(submitErr)
	})
	if errors.Is(err, ErrSessionClosed) && submitErr == nil {
		return receipt, nil
	}
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// bind derives a context cancelled by either ctx or the session teardown.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	bound, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	return bound, func() {
		stop()
		cancel()
	}
}

// Close cancels every in-flight operation, stops the loop and drops the
// workflow state. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *Session) Closed() bool {
	return s.ctx.Err() != nil
}
