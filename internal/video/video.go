// Package video holds the channel item model and the classifier that picks
// the single item worth announcing.
package video

import (
	"context"
	"time"
)

// Category is the announceable state of an item.
type Category string

const (
	Live      Category = "live"
	Upcoming  Category = "upcoming"
	Published Category = "published"
)

// Categories lists every category in priority order.
var Categories = []Category{Live, Upcoming, Published}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Live, Upcoming, Published:
		return true
	}
	return false
}

// LiveDetails is the broadcast sub-record of an item. Nil fields are unset.
type LiveDetails struct {
	ScheduledStart *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
}

// Item is one entry returned by a content source, newest first.
type Item struct {
	ID          string
	Title       string
	Link        string
	PublishedAt time.Time
	Live        *LiveDetails
}

// Candidate is the classified winner of a run.
type Candidate struct {
	ID            string
	Title         string
	Link          string
	ReferenceTime time.Time
	Category      Category
}

// SelectionID returns the idempotency key of the candidate.
func (c Candidate) SelectionID() SelectionID {
	return SelectionID{ID: c.ID, Category: c.Category}
}

// Source returns the most recent items of a channel.
type Source interface {
	Recent(ctx context.Context, channelID string, max int) ([]Item, error)
}
