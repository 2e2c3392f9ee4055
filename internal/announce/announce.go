// Package announce runs one announcement pass: classify the channel's
// recent items, decide whether the winner is new, then compose, publish and
// record it according to the run mode.
package announce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deusflow/ytannounce/internal/compose"
	"github.com/deusflow/ytannounce/internal/publish"
	"github.com/deusflow/ytannounce/internal/state"
	"github.com/deusflow/ytannounce/internal/templates"
	"github.com/deusflow/ytannounce/internal/video"
)

var (
	// ErrSourceUnavailable wraps a failed content source query. It is
	// reported in Result.Err and never returned from Run.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrPublishFailed is returned when the target confirmed a failure.
	ErrPublishFailed = errors.New("publish failed")

	// ErrStatePersist is returned when a successful publish could not be
	// recorded; the next run may announce the same event again.
	ErrStatePersist = errors.New("failed to persist announcement state")
)

// Status is the outcome of a run.
type Status string

const (
	StatusSourceUnavailable Status = "source_unavailable"
	StatusNoCandidate       Status = "no_candidate"
	StatusStateUnavailable  Status = "state_unavailable"
	StatusComposeFailed     Status = "compose_failed"
	StatusAlreadyAnnounced  Status = "already_announced"
	StatusDryRun            Status = "dry_run"
	StatusPublished         Status = "published"
	StatusPublishFailed     Status = "publish_failed"
)

// Result describes what a run did.
type Result struct {
	Status    Status
	Mode      state.RunMode
	Candidate *video.Candidate
	Message   string
	Publish   publish.Result
	Err       error // absorbed error behind a benign status
}

// Store is the persisted state the announcer reads and writes.
type Store interface {
	LastAnnounced(ctx context.Context) (video.SelectionID, error)
	SetLastAnnounced(ctx context.Context, id video.SelectionID) error
	RunMode(ctx context.Context) (state.RunMode, error)
	SetRunMode(ctx context.Context, m state.RunMode) error
}

// Composer builds the message text for a candidate.
type Composer interface {
	Compose(ctx context.Context, cand video.Candidate) (compose.Message, error)
}

// DrawCommitter persists the template pool left by a draw.
type DrawCommitter interface {
	Commit(ctx context.Context, d templates.Draw) error
}

// Recorder receives publish and draw events for metrics.
type Recorder interface {
	RecordPublish(target string, ok bool)
	RecordDraw(category string)
}

type nopRecorder struct{}

func (nopRecorder) RecordPublish(string, bool) {}
func (nopRecorder) RecordDraw(string)          {}

// Options are fixed for the lifetime of an Announcer.
type Options struct {
	ChannelID string
	MaxItems  int
	Now       func() time.Time
}

// Deps are the collaborators of an Announcer.
type Deps struct {
	Source    video.Source
	Store     Store
	Composer  Composer
	Draws     DrawCommitter
	Publisher publish.Publisher
	Metrics   Recorder
	Logger    zerolog.Logger
}

// Announcer runs announcement passes. It holds no per-run state.
type Announcer struct {
	opts Options
	deps Deps
}

// New builds an Announcer.
func New(opts Options, deps Deps) *Announcer {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	return &Announcer{opts: opts, deps: deps}
}

// ShouldAnnounce reports whether current must be announced given the last
// announced selection. Any change of id or category is a new event.
func ShouldAnnounce(mode state.RunMode, current, last video.SelectionID) bool {
	return mode == state.ModeForceRepost || current != last
}

// Run performs one pass. Only a confirmed publish failure (ErrPublishFailed)
// or a failure to record a successful publish (ErrStatePersist) is returned
// as an error; every other problem ends the run as a no-op described by the
// Result.
func (a *Announcer) Run(ctx context.Context) (Result, error) {
	log := a.deps.Logger

	mode, err := a.deps.Store.RunMode(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not read run mode")
		return Result{Status: StatusStateUnavailable, Err: err}, nil
	}
	res := Result{Mode: mode}
	log = log.With().Str("mode", string(mode)).Logger()

	items, err := a.deps.Source.Recent(ctx, a.opts.ChannelID, a.opts.MaxItems)
	if err != nil {
		log.Warn().Err(err).Msg("content source unavailable, will retry next run")
		res.Status = StatusSourceUnavailable
		res.Err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		return res, nil
	}

	cand, ok := video.Classify(items, a.opts.Now())
	if !ok {
		log.Info().Int("items", len(items)).Msg("no videos found")
		res.Status = StatusNoCandidate
		return res, nil
	}
	res.Candidate = &cand
	current := cand.SelectionID()
	log = log.With().Str("id", cand.ID).Str("category", string(cand.Category)).Logger()

	last, err := a.deps.Store.LastAnnounced(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not read last announced selection")
		res.Status = StatusStateUnavailable
		res.Err = err
		return res, nil
	}

	if !ShouldAnnounce(mode, current, last) {
		log.Info().Str("last", last.String()).Msg("already announced")
		res.Status = StatusAlreadyAnnounced
		return res, nil
	}

	msg, err := a.deps.Composer.Compose(ctx, cand)
	if err != nil {
		log.Error().Err(err).Msg("could not compose message")
		res.Status = StatusComposeFailed
		res.Err = err
		return res, nil
	}
	res.Message = msg.Text

	if mode == state.ModeDryRun {
		log.Info().Str("message", msg.Text).Msg("dry run, not publishing")
		res.Status = StatusDryRun
		return res, nil
	}

	target := a.deps.Publisher.Name()
	pr := a.deps.Publisher.Publish(ctx, msg.Text)
	res.Publish = pr
	a.deps.Metrics.RecordPublish(target, pr.OK)
	if !pr.OK {
		log.Error().Err(pr.Err()).Str("target", target).Msg("publish failed, state unchanged")
		res.Status = StatusPublishFailed
		return res, fmt.Errorf("%w: %v", ErrPublishFailed, pr.Err())
	}
	res.Status = StatusPublished
	log.Info().Str("target", target).Str("post_id", pr.ID).Msg("announcement published")

	if err := a.record(ctx, mode, current, msg.Draw); err != nil {
		log.Error().Err(err).Msg("published but could not record it")
		return res, fmt.Errorf("%w: %v", ErrStatePersist, err)
	}
	return res, nil
}

// record persists a confirmed announcement. The selection goes first: it is
// the guard against a duplicate post.
func (a *Announcer) record(ctx context.Context, mode state.RunMode, id video.SelectionID, d templates.Draw) error {
	if err := a.deps.Store.SetLastAnnounced(ctx, id); err != nil {
		return err
	}

	var errs []error
	if mode == state.ModeForceRepost {
		if err := a.deps.Store.SetRunMode(ctx, state.ModeNormal); err != nil {
			errs = append(errs, fmt.Errorf("reset run mode: %w", err))
		}
	}
	if err := a.deps.Draws.Commit(ctx, d); err != nil {
		errs = append(errs, fmt.Errorf("commit template pool: %w", err))
	} else if !d.Fallback {
		a.deps.Metrics.RecordDraw(string(d.Category))
	}
	return errors.Join(errs...)
}
