package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ytannounce/internal/video"
)

func newTestState(t *testing.T) (*State, KV) {
	t.Helper()
	kv, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	return New(kv), kv
}

func TestState_LastAnnounced(t *testing.T) {
	ctx := context.Background()
	st, kv := newTestState(t)

	id, err := st.LastAnnounced(ctx)
	require.NoError(t, err)
	assert.True(t, id.IsZero())

	want := video.SelectionID{ID: "a", Category: video.Live}
	require.NoError(t, st.SetLastAnnounced(ctx, want))

	raw, err := kv.Get(ctx, KeyLastAnnounced)
	require.NoError(t, err)
	assert.Equal(t, "a:live", raw)

	got, err := st.LastAnnounced(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestState_TemplatePool(t *testing.T) {
	ctx := context.Background()
	st, kv := newTestState(t)

	pool, err := st.TemplatePool(ctx, video.Live)
	require.NoError(t, err)
	assert.Nil(t, pool)

	require.NoError(t, st.SetTemplatePool(ctx, video.Live, []int{3, 1}))
	require.NoError(t, st.SetTemplatePool(ctx, video.Published, []int{0}))

	pool, err = st.TemplatePool(ctx, video.Live)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, pool)

	raw, err := kv.Get(ctx, KeyTemplatePool)
	require.NoError(t, err)
	assert.JSONEq(t, `{"live":[3,1],"published":[0]}`, raw)
}

func TestState_CorruptTemplatePoolIsEmpty(t *testing.T) {
	ctx := context.Background()
	st, kv := newTestState(t)

	require.NoError(t, kv.Set(ctx, KeyTemplatePool, "{not json"))

	pool, err := st.TemplatePool(ctx, video.Upcoming)
	require.NoError(t, err)
	assert.Nil(t, pool)

	require.NoError(t, st.SetTemplatePool(ctx, video.Upcoming, []int{1}))
	pool, err = st.TemplatePool(ctx, video.Upcoming)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, pool)
}

func TestState_RunMode(t *testing.T) {
	ctx := context.Background()
	st, kv := newTestState(t)

	m, err := st.RunMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeDryRun, m)

	require.NoError(t, st.SetRunMode(ctx, ModeForceRepost))
	m, err = st.RunMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeForceRepost, m)

	require.NoError(t, kv.Set(ctx, KeyRunMode, "banana\n"))
	m, err = st.RunMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeDryRun, m)

	assert.Error(t, st.SetRunMode(ctx, RunMode("loud")))
}

func TestParseRunMode(t *testing.T) {
	for in, want := range map[string]RunMode{
		"normal":       ModeNormal,
		"dryRun":       ModeDryRun,
		"dry-run":      ModeDryRun,
		"FORCE-REPOST": ModeForceRepost,
		" forceRepost": ModeForceRepost,
	} {
		got, err := ParseRunMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRunMode("")
	assert.Error(t, err)
}
