// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/store"
)

var (
	// ErrUnknownDraft rejects ballot creation for untracked drafts.
	ErrUnknownDraft = errors.New("draft is not tracked")

	// ErrBallotExists refuses a second concurrent ballot for a draft.
	ErrBallotExists = errors.New("ballot already open for this draft")

	// ErrNoBallot means no ballot is registered for the draft.
	ErrNoBallot = errors.New("no ballot open for this draft")

	// ErrBallotOpen means metadata arrived before the ballot resolved.
	ErrBallotOpen = errors.New("ballot has not resolved yet")

	// ErrMetadataWindowClosed means the 5 minute prompt expired (or the
	// ballot ended without a metadata phase).
	ErrMetadataWindowClosed = errors.New("metadata window closed")

	// ErrInvalidChoice rejects anything but approve/reject.
	ErrInvalidChoice = errors.New("choice must be approve or reject")
)

// StaleStateError reports a draft that vanished between resolution and
// execution. No mutation is attempted.
type StaleStateError struct {
	Title string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("draft %q no longer exists", e.Title)
}

// Executor performs the irreversible wiki-side mutations once a human
// supplies the decision metadata.
type Executor interface {
	Approve(ctx context.Context, author, name, categories string) error
	Reject(ctx context.Context, author, name, reason string) error
}

// Options tunes a single ballot. Zero values take the defaults; the
// duration is hard-capped at models.MaxBallotDuration.
type Options struct {
	RequiredVotes int
	Duration      time.Duration
}

// Status is a point-in-time snapshot of a ballot.
type Status struct {
	Title         string
	Author        string
	Name          string
	ApproveCount  int
	RejectCount   int
	RequiredVotes int
	ClosesAt      time.Time
	Result        string
}

// Engine owns the registry of open ballots, one per draft title. All
// ballot state lives in process memory; a restart abandons open
// ballots by design.
type Engine struct {
	store *store.Store
	exec  Executor

	metadataWindow time.Duration

	mu      sync.Mutex
	ballots map[string]*Ballot
}

func NewEngine(s *store.Store, exec Executor) *Engine {
	return &Engine{
		store:          s,
		exec:           exec,
		metadataWindow: models.MetadataWindow,
		ballots:        make(map[string]*Ballot),
	}
}

// Open starts a ballot for a tracked draft. It refuses untracked
// drafts and drafts that already have a live ballot (one ballot per
// draft, enforced rather than assumed).
func (e *Engine) Open(author, name string, opts Options) (*Ballot, error) {
	title := models.DraftTitle(author, name)

	d, err := e.store.GetDraft(title)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrUnknownDraft
	}

	required := opts.RequiredVotes
	if required <= 0 {
		required = models.DefaultRequiredVotes
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = models.DefaultBallotDuration
	}
	if duration > models.MaxBallotDuration {
		duration = models.MaxBallotDuration
	}

	b := &Ballot{
		engine:     e,
		author:     author,
		name:       name,
		title:      title,
		required:   required,
		closesAt:   time.Now().Add(duration),
		choices:    make(map[string]string),
		metadataCh: make(chan metadataMsg),
		done:       make(chan struct{}),
	}

	e.mu.Lock()
	if _, exists := e.ballots[title]; exists {
		e.mu.Unlock()
		return nil, ErrBallotExists
	}
	e.ballots[title] = b
	e.mu.Unlock()

	b.timer = time.AfterFunc(duration, b.timeout)
	slog.Info("ballot opened", "title", title, "required_votes", required, "closes_at", b.closesAt)
	return b, nil
}

// Get returns the live ballot for a draft, if any.
func (e *Engine) Get(author, name string) (*Ballot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.ballots[models.DraftTitle(author, name)]
	if !ok {
		return nil, ErrNoBallot
	}
	return b, nil
}

// Cast records a participant's choice on the draft's ballot and
// returns the post-cast snapshot.
func (e *Engine) Cast(author, name, participant, choice string) (Status, error) {
	b, err := e.Get(author, name)
	if err != nil {
		return Status{}, err
	}
	return b.Cast(participant, choice)
}

// SubmitMetadata hands the free-text decision metadata (categories for
// approval, reason for rejection) to a resolved ballot and blocks until
// execution finishes, returning its error. ErrMetadataWindowClosed
// means the 5 minute prompt already expired.
func (e *Engine) SubmitMetadata(author, name, text string) error {
	b, err := e.Get(author, name)
	if err != nil {
		return err
	}
	return b.SubmitMetadata(text)
}

func (e *Engine) remove(title string) {
	e.mu.Lock()
	delete(e.ballots, title)
	e.mu.Unlock()
}

type metadataMsg struct {
	text  string
	reply chan error
}

// Ballot is one open voting round for a single draft. Every mutation
// and the resolution check run under one mutex, so no two concurrent
// casts can both observe sub-threshold state and resolve differently.
type Ballot struct {
	engine *Engine
	author string
	name   string
	title  string

	required int
	closesAt time.Time
	timer    *time.Timer

	metadataCh chan metadataMsg
	done       chan struct{}

	mu      sync.Mutex
	choices map[string]string
	approve int
	reject  int
	result  string
}

// Cast applies one participant's choice. A changed vote moves between
// buckets atomically; re-casting the same choice keeps it. After a
// ballot resolves, casts are no-ops and the frozen snapshot comes back.
func (b *Ballot) Cast(participant, choice string) (Status, error) {
	if choice != models.ChoiceApprove && choice != models.ChoiceReject {
		return Status{}, ErrInvalidChoice
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.result != models.ResultUnset {
		return b.statusLocked(), nil
	}

	prev, voted := b.choices[participant]
	if voted && prev == choice {
		return b.statusLocked(), nil
	}
	if voted {
		switch prev {
		case models.ChoiceApprove:
			b.approve--
		case models.ChoiceReject:
			b.reject--
		}
	}
	b.choices[participant] = choice
	switch choice {
	case models.ChoiceApprove:
		b.approve++
	case models.ChoiceReject:
		b.reject++
	}

	b.evaluateLocked()
	return b.statusLocked(), nil
}

// evaluateLocked applies the threshold rule. Caller holds b.mu.
func (b *Ballot) evaluateLocked() {
	approveDone := b.approve >= b.required
	rejectDone := b.reject >= b.required

	switch {
	case approveDone && rejectDone:
		switch {
		case b.approve > b.reject:
			b.resolveLocked(models.ResultApproved)
		case b.reject > b.approve:
			b.resolveLocked(models.ResultRejected)
		default:
			b.resolveLocked(models.ResultTie)
		}
	case approveDone:
		b.resolveLocked(models.ResultApproved)
	case rejectDone:
		b.resolveLocked(models.ResultRejected)
	}
}

// resolveLocked sets the terminal result exactly once and starts the
// post-resolution phase. Caller holds b.mu.
func (b *Ballot) resolveLocked(result string) {
	if b.result != models.ResultUnset {
		return
	}
	b.result = result
	if b.timer != nil {
		b.timer.Stop()
	}
	slog.Info("ballot resolved", "title", b.title, "result", result,
		"approve", b.approve, "reject", b.reject)
	go b.finalize(result)
}

// timeout fires when the ballot's duration elapses. It loses cleanly
// to an earlier threshold resolution.
func (b *Ballot) timeout() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resolveLocked(models.ResultTimedOut)
}

// finalize runs the post-resolution phase. Approvals and rejections
// wait up to the metadata window for a human to supply categories or a
// reason; no input means no action and the draft stays tracked. Tie
// and timeout have no metadata phase. In every case the ballot leaves
// the registry when this returns.
func (b *Ballot) finalize(result string) {
	defer close(b.done)
	defer b.engine.remove(b.title)

	if result != models.ResultApproved && result != models.ResultRejected {
		return
	}

	select {
	case msg := <-b.metadataCh:
		msg.reply <- b.execute(result, msg.text)
	case <-time.After(b.engine.metadataWindow):
		slog.Info("metadata window expired, draft left for a future vote", "title", b.title)
	}
}

// execute revalidates the draft then runs the decision. The draft may
// have been removed concurrently (say, a direct sink callback); in that
// case nothing is mutated.
func (b *Ballot) execute(result, text string) error {
	d, err := b.engine.store.GetDraft(b.title)
	if err != nil {
		return err
	}
	if d == nil {
		return &StaleStateError{Title: b.title}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if result == models.ResultApproved {
		return b.engine.exec.Approve(ctx, b.author, b.name, text)
	}
	return b.engine.exec.Reject(ctx, b.author, b.name, text)
}

// SubmitMetadata delivers decision metadata to the finalize phase and
// waits for execution. See Engine.SubmitMetadata.
func (b *Ballot) SubmitMetadata(text string) error {
	b.mu.Lock()
	result := b.result
	b.mu.Unlock()

	switch result {
	case models.ResultUnset:
		return ErrBallotOpen
	case models.ResultTie, models.ResultTimedOut:
		return ErrMetadataWindowClosed
	}

	msg := metadataMsg{text: text, reply: make(chan error, 1)}
	select {
	case b.metadataCh <- msg:
		return <-msg.reply
	case <-b.done:
		return ErrMetadataWindowClosed
	}
}

// Status returns a point-in-time snapshot.
func (b *Ballot) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusLocked()
}

func (b *Ballot) statusLocked() Status {
	return Status{
		Title:         b.title,
		Author:        b.author,
		Name:          b.name,
		ApproveCount:  b.approve,
		RejectCount:   b.reject,
		RequiredVotes: b.required,
		ClosesAt:      b.closesAt,
		Result:        b.result,
	}
}
