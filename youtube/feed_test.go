package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
  <title>Some Creator</title>
  <entry>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <title>Newest Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <published>2026-03-01T12:00:00+00:00</published>
    <media:group>
      <media:thumbnail url="https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" width="480" height="360"/>
    </media:group>
  </entry>
  <entry>
    <yt:videoId>older00000x</yt:videoId>
    <title>Older Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=older00000x"/>
    <published>2026-02-01T12:00:00+00:00</published>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Quiet Channel</title>
</feed>`

func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("channel_id"))
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFeedProvider_Latest(t *testing.T) {
	server := newFeedServer(t, sampleFeed)
	provider := NewFeedProvider(WithFeedBaseURL(server.URL))

	video, err := provider.Latest(context.Background(), "UC0000000000000000000000")

	require.NoError(t, err)
	require.NotNil(t, video)
	assert.Equal(t, "dQw4w9WgXcQ", video.ID)
	assert.Equal(t, "Newest Upload", video.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", video.URL)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", video.Thumbnail)
	assert.Equal(t, "Some Creator", video.ChannelTitle)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), video.Published.UTC())
}

func TestFeedProvider_Latest_EmptyChannel(t *testing.T) {
	server := newFeedServer(t, emptyFeed)
	provider := NewFeedProvider(WithFeedBaseURL(server.URL))

	video, err := provider.Latest(context.Background(), "UC0000000000000000000000")

	require.NoError(t, err)
	assert.Nil(t, video)
}

func TestFeedProvider_Latest_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	provider := NewFeedProvider(WithFeedBaseURL(server.URL))

	_, err := provider.Latest(context.Background(), "UC0000000000000000000000")

	assert.ErrorContains(t, err, "status 404")
}

func TestFeedProvider_ResolveChannel_RawID(t *testing.T) {
	server := newFeedServer(t, sampleFeed)
	provider := NewFeedProvider(WithFeedBaseURL(server.URL))

	id, title, err := provider.ResolveChannel(context.Background(), "UC0000000000000000000000")

	require.NoError(t, err)
	assert.Equal(t, "UC0000000000000000000000", id)
	assert.Equal(t, "Some Creator", title)
}

func TestFeedProvider_ResolveChannel_ChannelURL(t *testing.T) {
	server := newFeedServer(t, sampleFeed)
	provider := NewFeedProvider(WithFeedBaseURL(server.URL))

	id, _, err := provider.ResolveChannel(context.Background(), "https://www.youtube.com/channel/UC0000000000000000000000/videos")

	require.NoError(t, err)
	assert.Equal(t, "UC0000000000000000000000", id)
}

func TestFeedProvider_ResolveChannel_HandleURL(t *testing.T) {
	feedServer := newFeedServer(t, sampleFeed)

	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><script>var x = {"channelId":"UC0000000000000000000000"};</script></html>`))
	}))
	t.Cleanup(pageServer.Close)

	provider := NewFeedProvider(WithFeedBaseURL(feedServer.URL))

	id, title, err := provider.ResolveChannel(context.Background(), pageServer.URL+"/@somecreator")

	require.NoError(t, err)
	assert.Equal(t, "UC0000000000000000000000", id)
	assert.Equal(t, "Some Creator", title)
}

func TestFeedProvider_ResolveChannel_Empty(t *testing.T) {
	provider := NewFeedProvider()

	_, _, err := provider.ResolveChannel(context.Background(), "  ")

	assert.Error(t, err)
}
