package video

import "time"

// Categorize derives the category of a single item relative to now.
//
// A live session that has ended, a schedule already in the past and an item
// without broadcast details are all Published.
func Categorize(it Item, now time.Time) (Category, time.Time) {
	if d := it.Live; d != nil {
		if d.ActualStart != nil && d.ActualEnd == nil {
			return Live, *d.ActualStart
		}
		if d.ActualStart == nil && d.ActualEnd == nil && d.ScheduledStart != nil && d.ScheduledStart.After(now) {
			return Upcoming, *d.ScheduledStart
		}
	}
	return Published, it.PublishedAt
}

// Classify picks the most salient item: the first Live item, otherwise the
// Upcoming item scheduled soonest, otherwise the most recently published one.
// It reports false when items is empty.
func Classify(items []Item, now time.Time) (Candidate, bool) {
	var upcoming, published *Candidate

	for _, it := range items {
		cat, ref := Categorize(it, now)
		c := Candidate{
			ID:            it.ID,
			Title:         it.Title,
			Link:          it.Link,
			ReferenceTime: ref,
			Category:      cat,
		}
		switch cat {
		case Live:
			// Sources list newest first, so the first live item is the current stream.
			return c, true
		case Upcoming:
			if upcoming == nil || c.ReferenceTime.Before(upcoming.ReferenceTime) {
				upcoming = &c
			}
		case Published:
			if published == nil || c.ReferenceTime.After(published.ReferenceTime) {
				published = &c
			}
		}
	}

	if upcoming != nil {
		return *upcoming, true
	}
	if published != nil {
		return *published, true
	}
	return Candidate{}, false
}
