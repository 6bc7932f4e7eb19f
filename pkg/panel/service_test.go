package panel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pearpanel/pkg/config"
	"pearpanel/pkg/stream"
)

type feedConn struct {
	frames []string
	next   int
	ctx    context.Context
}

func (c *feedConn) Read(ctx context.Context) ([]byte, error) {
	if c.next < len(c.frames) {
		frame := c.frames[c.next]
		c.next++
		return []byte(frame), nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

func (c *feedConn) Close() error {
	return nil
}

type dialerFunc func(ctx context.Context) (stream.Conn, error)

func (f dialerFunc) Dial(ctx context.Context) (stream.Conn, error) {
	return f(ctx)
}

func feedDialer(ctx context.Context, frames ...string) stream.Dialer {
	return dialerFunc(func(context.Context) (stream.Conn, error) {
		return &feedConn{frames: frames, ctx: ctx}, nil
	})
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Panel.Host = "127.0.0.1"
	cfg.Panel.Port = 0
	cfg.Stream.RetryDelaySeconds = 1
	return cfg
}

func waitForAddr(t *testing.T, svc *Service) string {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if addr := svc.Addr(); addr != "" {
			return addr
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatal("status server never bound")
	return ""
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s", what)
}

func getJSON(t *testing.T, url string) (int, statusResponse) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded statusResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp.StatusCode, decoded
}

func TestServiceStatusReflectsStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	playerDialer := feedDialer(ctx,
		`{"type": "PLAYER_INFO", "isPlaying": true, "muted": false, "position": 42.5, "repeat": "NONE", "shuffle": false, "volume": 70, "song": {"title": "Plastic Love", "artist": "Mariya Takeuchi", "songDuration": 292, "imageSrc": "https://i.ytimg.com/vi/abc/hq720.jpg", "url": "https://music.youtube.com/watch?v=abc", "elapsedSeconds": 42, "videoId": "abc", "mediaType": "AUDIO"}}`,
	)
	integrationDialer := feedDialer(ctx,
		`{"type": "TWITCH_INFO", "login": "streamer", "expiry_date": "Mon, 02 Jan 2006 15:04:05 UTC", "stream_online": true}`,
	)

	svc := newService(testConfig(), playerDialer, integrationDialer, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	addr := waitForAddr(t, svc)
	base := "http://" + addr

	waitFor(t, "readiness", func() bool {
		code, _ := getJSON(t, base+"/readyz")
		return code == http.StatusOK
	})

	waitFor(t, "projections", func() bool {
		_, status := getJSON(t, base+"/statusz")
		return status.Player.SongName == "Plastic Love" && status.Twitch.Login == "streamer"
	})

	code, status := getJSON(t, base+"/statusz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", status.Status)
	require.Equal(t, stream.StateOpen, status.Streams["media"])
	require.Equal(t, stream.StateOpen, status.Streams["integration"])
	require.True(t, status.Player.IsPlaying)
	require.True(t, status.Player.Connected)
	require.InDelta(t, 292, status.Player.SongLength, 0.001)
	require.True(t, status.Twitch.StreamOnline)
	require.True(t, status.Twitch.Connected)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after cancel")
	}
}

func TestServiceOAuthRedirectEndpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newService(testConfig(), feedDialer(ctx), feedDialer(ctx), nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	base := "http://" + waitForAddr(t, svc)

	tests := []struct {
		name       string
		url        string
		wantCode   int
		wantStatus string
	}{
		{
			name:       "provider error",
			url:        base + "/oauth/redirect?error=redirect_mismatch&error_description=bad",
			wantCode:   http.StatusBadRequest,
			wantStatus: "provider_error",
		},
		{
			name:       "bot credential accepted",
			url:        base + "/oauth/redirect?fragment=" + url.QueryEscape("#access_token=abc&scope=chat&token_type=bearer&state=bot"),
			wantCode:   http.StatusOK,
			wantStatus: "accepted",
		},
		{
			name:       "non bearer rejected",
			url:        base + "/oauth/redirect?fragment=" + url.QueryEscape("access_token=abc&token_type=mac"),
			wantCode:   http.StatusBadRequest,
			wantStatus: "invalid_credential",
		},
		{
			name:       "bare visit",
			url:        base + "/oauth/redirect",
			wantCode:   http.StatusOK,
			wantStatus: "no_credential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(tt.url)
			require.NoError(t, err)
			defer resp.Body.Close()

			var decoded map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
			require.Equal(t, tt.wantCode, resp.StatusCode)
			require.Equal(t, tt.wantStatus, decoded["status"])
		})
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after cancel")
	}
}

func TestServiceNotReadyWhilePlayerUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failing := dialerFunc(func(context.Context) (stream.Conn, error) {
		return nil, context.DeadlineExceeded
	})

	svc := newService(testConfig(), failing, failing, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	addr := waitForAddr(t, svc)
	base := "http://" + addr

	code, status := getJSON(t, base+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "not_ready", status.Status)
	require.False(t, status.Player.Connected)

	code, _ = getJSON(t, base+"/healthz")
	require.Equal(t, http.StatusOK, code)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after cancel")
	}
}
