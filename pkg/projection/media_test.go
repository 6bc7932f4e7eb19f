package projection

import (
	"testing"

	"pearpanel/pkg/event"
)

func TestMediaZeroValueIsNeutral(t *testing.T) {
	var m Media

	if m.IsPlaying {
		t.Fatal("zero projection is playing")
	}
	if m.SongName != "" || m.ArtistName != "" {
		t.Fatal("zero projection has track fields set")
	}
	if m.SongLength != 0 || m.ElapsedTime != 0 {
		t.Fatal("zero projection has nonzero durations")
	}
	if m.Connected {
		t.Fatal("zero projection is connected")
	}
}

func TestApplyPlayerStateChangedTouchesOnlyPlaybackFields(t *testing.T) {
	before := Media{
		IsPlaying:   false,
		SongName:    "Plastic Love",
		ArtistName:  "Mariya Takeuchi",
		ElapsedTime: 10,
		SongLength:  292,
		AlbumArtURL: "https://example.test/art.jpg",
		VideoURL:    "https://music.example.test/watch?v=abc123",
		Connected:   true,
	}

	after := before.Apply(event.PlayerStateChanged{IsPlaying: true, Position: 42})

	if !after.IsPlaying {
		t.Fatal("isPlaying = false, want true")
	}
	if after.ElapsedTime != 42 {
		t.Fatalf("elapsedTime = %v, want 42", after.ElapsedTime)
	}

	// Everything else must equal the prior projection.
	after.IsPlaying = before.IsPlaying
	after.ElapsedTime = before.ElapsedTime
	if after != before {
		t.Fatalf("unrelated fields changed: %#v", after)
	}
}

func TestApplyVideoChangedReplacesTrackBlock(t *testing.T) {
	before := Media{
		IsPlaying:   true,
		SongName:    "Old Song",
		ArtistName:  "Old Artist",
		SongLength:  100,
		AlbumArtURL: "https://example.test/old.jpg",
		VideoURL:    "https://music.example.test/watch?v=old",
		ElapsedTime: 90,
	}

	after := before.Apply(event.VideoChanged{
		Song: event.Song{
			Title:        "New Song",
			Artist:       "New Artist",
			SongDuration: 200,
			VideoID:      "new123",
		},
		Position: 0,
	})

	if after.SongName != "New Song" || after.ArtistName != "New Artist" {
		t.Fatalf("track block not replaced: %#v", after)
	}
	if after.SongLength != 200 {
		t.Fatalf("songLength = %v, want 200", after.SongLength)
	}
	if after.ElapsedTime != 0 {
		t.Fatalf("elapsedTime = %v, want 0", after.ElapsedTime)
	}
	if after.AlbumArtURL != "" || after.VideoURL != "" {
		t.Fatalf("stale artwork/url survived track change: %#v", after)
	}
	if !after.IsPlaying {
		t.Fatal("video change must not touch isPlaying")
	}
}

func TestApplyPlayerInfoSetsTrackAndPlayback(t *testing.T) {
	var m Media
	after := m.Apply(event.PlayerInfo{
		IsPlaying: true,
		Position:  33,
		Song: event.Song{
			Title:        "Midnight Pretenders",
			Artist:       "Tomoko Aran",
			SongDuration: 319,
			ImageSrc:     "https://example.test/art2.jpg",
			URL:          "https://music.example.test/watch?v=xyz789",
		},
	})

	if !after.IsPlaying {
		t.Fatal("isPlaying = false, want true")
	}
	if after.SongName != "Midnight Pretenders" {
		t.Fatalf("songName = %q", after.SongName)
	}
	if after.ElapsedTime != 33 {
		t.Fatalf("elapsedTime = %v, want 33", after.ElapsedTime)
	}
	if after.AlbumArtURL != "https://example.test/art2.jpg" {
		t.Fatalf("albumArtURL = %q", after.AlbumArtURL)
	}
}

func TestApplyPositionChangedTouchesOnlyElapsed(t *testing.T) {
	before := Media{SongName: "Plastic Love", ElapsedTime: 10, SongLength: 292}
	after := before.Apply(event.PositionChanged{Position: 11})

	if after.ElapsedTime != 11 {
		t.Fatalf("elapsedTime = %v, want 11", after.ElapsedTime)
	}
	after.ElapsedTime = before.ElapsedTime
	if after != before {
		t.Fatalf("unrelated fields changed: %#v", after)
	}
}

func TestApplyIgnoredEventsLeaveProjectionUnchanged(t *testing.T) {
	before := Media{IsPlaying: true, SongName: "Plastic Love", ElapsedTime: 5}

	ignored := []event.Event{
		event.VolumeChanged{Volume: 20, Muted: true},
		event.RepeatChanged{Repeat: "ALL"},
		event.ShuffleChanged{Shuffle: true},
		event.Unknown{Type: "LYRICS_CHANGED"},
		event.TwitchInfo{},
	}

	for _, ev := range ignored {
		if after := before.Apply(ev); after != before {
			t.Fatalf("Apply(%T) changed projection: %#v", ev, after)
		}
	}
}

func TestWithConnectedOnlyFlipsFlag(t *testing.T) {
	before := Media{IsPlaying: true, SongName: "Plastic Love"}
	after := before.WithConnected(true)

	if !after.Connected {
		t.Fatal("connected = false, want true")
	}
	after.Connected = before.Connected
	if after != before {
		t.Fatalf("unrelated fields changed: %#v", after)
	}
}
