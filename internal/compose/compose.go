// Package compose turns a classified candidate into the final message text.
package compose

import (
	"context"
	"strings"
	"time"

	"github.com/deusflow/ytannounce/internal/templates"
	"github.com/deusflow/ytannounce/internal/video"
)

// TimeLayout renders a scheduled start like "Friday 6 June, 7:30 PM NZST".
const TimeLayout = "Monday 2 January, 3:04 PM MST"

// Drawer is the part of templates.Selector the composer needs.
type Drawer interface {
	Draw(ctx context.Context, cat video.Category, data templates.Data) (templates.Draw, error)
}

// Options are the static parts of every message.
type Options struct {
	StaticTags   []string
	CategoryTags map[video.Category]string
	Location     *time.Location
}

// Message is a composed announcement and the draw that produced it.
type Message struct {
	Text string
	Draw templates.Draw
}

// Composer combines a drawn template with tags.
type Composer struct {
	drawer Drawer
	opts   Options
}

// New returns a Composer. A nil Location renders times in UTC.
func New(drawer Drawer, opts Options) *Composer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Composer{drawer: drawer, opts: opts}
}

// Compose builds the message for c.
func (c *Composer) Compose(ctx context.Context, cand video.Candidate) (Message, error) {
	data := templates.Data{Title: cand.Title, Link: cand.Link}
	if cand.Category == video.Upcoming {
		data.Time = FormatTime(cand.ReferenceTime, c.opts.Location)
	}

	d, err := c.drawer.Draw(ctx, cand.Category, data)
	if err != nil {
		return Message{}, err
	}

	text := strings.TrimSpace(d.Text)
	if tags := c.tags(cand.Category); tags != "" {
		text += "\n\n" + tags
	}
	return Message{Text: text, Draw: d}, nil
}

func (c *Composer) tags(cat video.Category) string {
	tags := make([]string, 0, len(c.opts.StaticTags)+1)
	for _, t := range c.opts.StaticTags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if t := strings.TrimSpace(c.opts.CategoryTags[cat]); t != "" {
		tags = append(tags, t)
	}
	return strings.Join(tags, " ")
}

// FormatTime renders t in loc with a 12-hour clock.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimeLayout)
}
