package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/ytannounce/internal/video"
)

// ScrapeLiveDetails loads a watch page and reads its BroadcastEvent
// microdata. It returns nil details for ordinary uploads.
func ScrapeLiveDetails(ctx context.Context, client *http.Client, url string) (*video.LiveDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// Without a language hint the consent interstitial is served instead of the page.
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return ParseLiveDetails(resp.Body)
}

// ParseLiveDetails reads broadcast details from a watch page.
//
// The BroadcastEvent microdata only carries a startDate, which is the
// schedule until the stream starts. Whether the stream is on air comes from
// liveBroadcastDetails in the embedded player response; a past start without
// that confirmation is a missed schedule, not a live stream.
func ParseLiveDetails(r io.Reader) (*video.LiveDetails, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	event := doc.Find(`[itemtype$="schema.org/BroadcastEvent"]`).First()
	isLive, _ := event.Find(`meta[itemprop="isLiveBroadcast"]`).Attr("content")
	broadcast, upcoming := playerSignal(doc)
	if !strings.EqualFold(isLive, "true") && broadcast == nil {
		return nil, nil
	}

	start := metaTime(event, "startDate")
	end := metaTime(event, "endDate")
	onAir := false
	if broadcast != nil {
		if t := parseTime(broadcast.StartTimestamp); t != nil {
			start = t
		}
		if t := parseTime(broadcast.EndTimestamp); t != nil {
			end = t
		}
		onAir = broadcast.IsLiveNow && !upcoming
	}

	d := &video.LiveDetails{ActualEnd: end}
	switch {
	case start == nil:
	case end != nil || onAir:
		d.ActualStart = start
	default:
		// Upcoming when still ahead of now, a missed schedule otherwise.
		d.ScheduledStart = start
	}
	return d, nil
}

// broadcastDetails is liveBroadcastDetails of the player microformat.
type broadcastDetails struct {
	IsLiveNow      bool   `json:"isLiveNow"`
	StartTimestamp string `json:"startTimestamp"`
	EndTimestamp   string `json:"endTimestamp"`
}

var (
	broadcastDetailsRe = regexp.MustCompile(`"liveBroadcastDetails"\s*:\s*(\{[^{}]*\})`)
	isUpcomingRe       = regexp.MustCompile(`"isUpcoming"\s*:\s*true`)
)

// playerSignal scans the inline scripts for the player response.
func playerSignal(doc *goquery.Document) (*broadcastDetails, bool) {
	var (
		details  *broadcastDetails
		upcoming bool
	)
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if details == nil {
			if m := broadcastDetailsRe.FindStringSubmatch(text); m != nil {
				var bd broadcastDetails
				if err := json.Unmarshal([]byte(m[1]), &bd); err == nil {
					details = &bd
				}
			}
		}
		if isUpcomingRe.MatchString(text) {
			upcoming = true
		}
	})
	return details, upcoming
}

func metaTime(sel *goquery.Selection, prop string) *time.Time {
	v, ok := sel.Find(`meta[itemprop="` + prop + `"]`).Attr("content")
	if !ok {
		return nil
	}
	return parseTime(strings.TrimSpace(v))
}
