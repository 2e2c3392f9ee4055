package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deusflow/ytannounce/internal/video"
)

// Keys of the persisted fields. The names match the files the announcer has
// always kept in its working directory.
const (
	KeyLastAnnounced = "last-posted.txt"
	KeyTemplatePool  = "template-pool.json"
	KeyRunMode       = "run-mode.txt"
)

// RunMode gates whether a run publishes and persists.
type RunMode string

const (
	ModeNormal      RunMode = "normal"
	ModeDryRun      RunMode = "dryRun"
	ModeForceRepost RunMode = "forceRepost"
)

// DefaultRunMode is used when no mode was ever stored.
const DefaultRunMode = ModeDryRun

// ParseRunMode accepts the canonical names case-insensitively, plus the
// dashed spellings used on the command line.
func ParseRunMode(s string) (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return ModeNormal, nil
	case "dryrun", "dry-run", "dry_run":
		return ModeDryRun, nil
	case "forcerepost", "force-repost", "force_repost":
		return ModeForceRepost, nil
	}
	return "", fmt.Errorf("unknown run mode %q", s)
}

// State is the typed view over a KV.
type State struct {
	kv KV
}

// New wraps kv.
func New(kv KV) *State {
	return &State{kv: kv}
}

// LastAnnounced returns the last successfully announced selection, or the
// zero SelectionID when nothing was announced yet.
func (s *State) LastAnnounced(ctx context.Context) (video.SelectionID, error) {
	raw, err := s.kv.Get(ctx, KeyLastAnnounced)
	if errors.Is(err, ErrNotFound) {
		return video.SelectionID{}, nil
	}
	if err != nil {
		return video.SelectionID{}, err
	}
	id, err := video.ParseSelectionID(raw)
	if err != nil {
		// Unreadable value: behave as if nothing was announced.
		return video.SelectionID{}, nil
	}
	return id, nil
}

// SetLastAnnounced records id as announced.
func (s *State) SetLastAnnounced(ctx context.Context, id video.SelectionID) error {
	return s.kv.Set(ctx, KeyLastAnnounced, id.String())
}

// TemplatePool returns the remaining template indices for cat. A missing or
// unparsable store yields a nil pool, never an error.
func (s *State) TemplatePool(ctx context.Context, cat video.Category) ([]int, error) {
	pools, err := s.templatePools(ctx)
	if err != nil {
		return nil, err
	}
	return pools[string(cat)], nil
}

// SetTemplatePool replaces the pool of cat, leaving the other categories.
func (s *State) SetTemplatePool(ctx context.Context, cat video.Category, pool []int) error {
	pools, err := s.templatePools(ctx)
	if err != nil {
		return err
	}
	if pool == nil {
		pool = []int{}
	}
	pools[string(cat)] = pool

	data, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("failed to marshal template pool: %w", err)
	}
	return s.kv.Set(ctx, KeyTemplatePool, string(data))
}

func (s *State) templatePools(ctx context.Context) (map[string][]int, error) {
	raw, err := s.kv.Get(ctx, KeyTemplatePool)
	if errors.Is(err, ErrNotFound) {
		return map[string][]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	pools := map[string][]int{}
	if err := json.Unmarshal([]byte(raw), &pools); err != nil || pools == nil {
		return map[string][]int{}, nil
	}
	return pools, nil
}

// RunMode returns the stored mode. Nothing stored, or an unknown value,
// yields DefaultRunMode.
func (s *State) RunMode(ctx context.Context) (RunMode, error) {
	raw, err := s.kv.Get(ctx, KeyRunMode)
	if errors.Is(err, ErrNotFound) {
		return DefaultRunMode, nil
	}
	if err != nil {
		return "", err
	}
	m, err := ParseRunMode(raw)
	if err != nil {
		return DefaultRunMode, nil
	}
	return m, nil
}

// SetRunMode stores m.
func (s *State) SetRunMode(ctx context.Context, m RunMode) error {
	if _, err := ParseRunMode(string(m)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyRunMode, string(m))
}
