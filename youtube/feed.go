// Package youtube resolves channels and fetches upload metadata from the
// public YouTube RSS feeds, which need no API key.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"seyobot/models"
)

const defaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

var (
	channelIDPattern   = regexp.MustCompile(`^UC[0-9A-Za-z_-]{22}$`)
	channelPathPattern = regexp.MustCompile(`/channel/(UC[0-9A-Za-z_-]{22})`)
	embeddedIDPattern  = regexp.MustCompile(`"channelId":"(UC[0-9A-Za-z_-]{22})"`)
)

// feed is the subset of the uploads Atom document we care about
type feed struct {
	Title   string      `xml:"title"`
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	VideoID   string `xml:"videoId"`
	Title     string `xml:"title"`
	Link      link   `xml:"link"`
	Published string `xml:"published"`
	Media     media  `xml:"group"`
}

type link struct {
	Href string `xml:"href,attr"`
}

type media struct {
	Thumbnail thumbnail `xml:"thumbnail"`
}

type thumbnail struct {
	URL string `xml:"url,attr"`
}

// FeedProvider fetches channel metadata over the YouTube RSS feeds
type FeedProvider struct {
	httpClient  *http.Client
	feedBaseURL string
}

// Option configures a FeedProvider
type Option func(*FeedProvider)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *FeedProvider) {
		p.httpClient = client
	}
}

// WithFeedBaseURL overrides the feed endpoint, used in tests
func WithFeedBaseURL(baseURL string) Option {
	return func(p *FeedProvider) {
		p.feedBaseURL = baseURL
	}
}

// NewFeedProvider creates a feed-backed video provider
func NewFeedProvider(opts ...Option) *FeedProvider {
	p := &FeedProvider{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		feedBaseURL: defaultFeedBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveChannel extracts a channel ID and title from a raw channel ID, a
// /channel/ URL, or a handle URL. Handle URLs cost an extra page fetch because
// the feed endpoint only accepts channel IDs.
func (p *FeedProvider) ResolveChannel(ctx context.Context, channelURL string) (string, string, error) {
	channelURL = strings.TrimSpace(channelURL)
	if channelURL == "" {
		return "", "", fmt.Errorf("channel URL is empty")
	}

	var channelID string
	switch {
	case channelIDPattern.MatchString(channelURL):
		channelID = channelURL
	case channelPathPattern.MatchString(channelURL):
		channelID = channelPathPattern.FindStringSubmatch(channelURL)[1]
	default:
		id, err := p.scrapeChannelID(ctx, channelURL)
		if err != nil {
			return "", "", err
		}
		channelID = id
	}

	f, err := p.fetchFeed(ctx, channelID)
	if err != nil {
		return "", "", err
	}
	return channelID, f.Title, nil
}

// Latest returns the newest upload for a channel, or nil when the channel has
// no videos yet
func (p *FeedProvider) Latest(ctx context.Context, channelID string) (*models.Video, error) {
	f, err := p.fetchFeed(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if len(f.Entries) == 0 {
		return nil, nil
	}

	entry := f.Entries[0]
	published, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		published = time.Time{}
	}

	return &models.Video{
		ID:           entry.VideoID,
		Title:        entry.Title,
		URL:          entry.Link.Href,
		Thumbnail:    entry.Media.Thumbnail.URL,
		ChannelID:    channelID,
		ChannelTitle: f.Title,
		Published:    published,
	}, nil
}

func (p *FeedProvider) fetchFeed(ctx context.Context, channelID string) (*feed, error) {
	url := fmt.Sprintf("%s?channel_id=%s", p.feedBaseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed for %s: %w", channelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed for %s returned status %d", channelID, resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse feed for %s: %w", channelID, err)
	}
	return &f, nil
}

// scrapeChannelID fetches a channel page and pulls the canonical channel ID
// out of the embedded page metadata
func (p *FeedProvider) scrapeChannelID(ctx context.Context, channelURL string) (string, error) {
	if !strings.HasPrefix(channelURL, "http://") && !strings.HasPrefix(channelURL, "https://") {
		channelURL = "https://" + channelURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build channel page request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("channel page returned status %d", resp.StatusCode)
	}

	// Channel pages are large; the ID appears within the first chunk
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read channel page: %w", err)
	}

	match := embeddedIDPattern.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("no channel ID found at %s", channelURL)
	}
	return string(match[1]), nil
}
