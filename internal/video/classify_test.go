package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestClassify_Empty(t *testing.T) {
	_, ok := Classify(nil, now)
	assert.False(t, ok)
}

func TestClassify_LiveWinsScenario(t *testing.T) {
	items := []Item{
		{ID: "a", PublishedAt: now.Add(-2 * time.Hour), Live: &LiveDetails{ActualStart: at(-time.Hour)}},
		{ID: "b", PublishedAt: now.Add(-time.Minute)},
	}

	got, ok := Classify(items, now)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, Live, got.Category)
	assert.Equal(t, "a:live", got.SelectionID().String())
}

func TestClassify_LiveBeatsUpcomingAndNewerPublished(t *testing.T) {
	items := []Item{
		{ID: "up", PublishedAt: now, Live: &LiveDetails{ScheduledStart: at(time.Hour)}},
		{ID: "new", PublishedAt: now.Add(time.Minute)},
		{ID: "live", PublishedAt: now.Add(-48 * time.Hour), Live: &LiveDetails{ActualStart: at(-30 * time.Minute)}},
	}

	got, ok := Classify(items, now)
	require.True(t, ok)
	assert.Equal(t, "live", got.ID)
	assert.Equal(t, Live, got.Category)
	assert.Equal(t, *at(-30 * time.Minute), got.ReferenceTime)
}

func TestClassify_FirstLiveWins(t *testing.T) {
	items := []Item{
		{ID: "first", Live: &LiveDetails{ActualStart: at(-time.Minute)}},
		{ID: "second", Live: &LiveDetails{ActualStart: at(-time.Hour)}},
	}

	got, _ := Classify(items, now)
	assert.Equal(t, "first", got.ID)
}

func TestClassify_EarliestUpcoming(t *testing.T) {
	items := []Item{
		{ID: "later", Live: &LiveDetails{ScheduledStart: at(48 * time.Hour)}},
		{ID: "soon", Live: &LiveDetails{ScheduledStart: at(2 * time.Hour)}},
		{ID: "mid", Live: &LiveDetails{ScheduledStart: at(24 * time.Hour)}},
		{ID: "vod", PublishedAt: now.Add(time.Hour)},
	}

	got, ok := Classify(items, now)
	require.True(t, ok)
	assert.Equal(t, "soon", got.ID)
	assert.Equal(t, Upcoming, got.Category)
}

func TestClassify_LatestPublished(t *testing.T) {
	items := []Item{
		{ID: "old", PublishedAt: now.Add(-72 * time.Hour)},
		{ID: "newest", PublishedAt: now.Add(-time.Hour)},
		{ID: "ended", PublishedAt: now.Add(-2 * time.Hour), Live: &LiveDetails{ActualStart: at(-5 * time.Hour), ActualEnd: at(-3 * time.Hour)}},
	}

	got, ok := Classify(items, now)
	require.True(t, ok)
	assert.Equal(t, "newest", got.ID)
	assert.Equal(t, Published, got.Category)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Category
	}{
		{"plain upload", Item{ID: "x"}, Published},
		{"live", Item{Live: &LiveDetails{ActualStart: at(-time.Minute)}}, Live},
		{"ended stream", Item{Live: &LiveDetails{ActualStart: at(-2 * time.Hour), ActualEnd: at(-time.Hour)}}, Published},
		{"scheduled in future", Item{Live: &LiveDetails{ScheduledStart: at(time.Hour)}}, Upcoming},
		{"missed schedule", Item{Live: &LiveDetails{ScheduledStart: at(-time.Hour)}}, Published},
		{"scheduled exactly now", Item{Live: &LiveDetails{ScheduledStart: at(0)}}, Published},
		{"started early", Item{Live: &LiveDetails{ScheduledStart: at(time.Hour), ActualStart: at(-time.Minute)}}, Live},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Categorize(tt.item, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelectionID(t *testing.T) {
	id, err := ParseSelectionID("a:live")
	require.NoError(t, err)
	assert.Equal(t, SelectionID{ID: "a", Category: Live}, id)

	id, err = ParseSelectionID("yt:video:abc:published\n")
	require.NoError(t, err)
	assert.Equal(t, SelectionID{ID: "yt:video:abc", Category: Published}, id)

	id, err = ParseSelectionID("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, SelectionID{ID: "dQw4w9WgXcQ"}, id)
	assert.NotEqual(t, SelectionID{ID: "dQw4w9WgXcQ", Category: Published}, id)

	id, err = ParseSelectionID("")
	require.NoError(t, err)
	assert.True(t, id.IsZero())

	_, err = ParseSelectionID(":live")
	assert.Error(t, err)
}
