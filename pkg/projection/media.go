// Package projection holds the canonical snapshots derived from stream
// events. A projection is a plain value: every field has a defined neutral
// zero value, and the only way it changes is through its Apply fold.
package projection

import "pearpanel/pkg/event"

// Media is the best-known player state. The zero value is the neutral
// starting projection: nothing playing, empty track, not connected.
type Media struct {
	IsPlaying   bool    `json:"is_playing"`
	SongName    string  `json:"song_name"`
	ArtistName  string  `json:"artist_name"`
	ElapsedTime float64 `json:"elapsed_time"`
	SongLength  float64 `json:"song_length"`
	AlbumArtURL string  `json:"album_art_url"`
	VideoURL    string  `json:"video_url"`
	Connected   bool    `json:"connected"`
}

// Apply folds one event into the projection and returns the result.
//
// Fields the event does not carry keep their prior values; a new track
// replaces the whole track block, including clearing artwork the new song
// does not have. Events the media stream does not act on (volume, repeat,
// shuffle, unknown kinds) leave the projection untouched.
func (m Media) Apply(ev event.Event) Media {
	switch ev := ev.(type) {
	case event.PlayerStateChanged:
		m.IsPlaying = ev.IsPlaying
		m.ElapsedTime = ev.Position
	case event.VideoChanged:
		m = m.withTrack(ev.Song, ev.Position)
	case event.PlayerInfo:
		m = m.withTrack(ev.Song, ev.Position)
		m.IsPlaying = ev.IsPlaying
	case event.PositionChanged:
		m.ElapsedTime = ev.Position
	}

	return m
}

// WithConnected flips the transport flag without touching playback state.
func (m Media) WithConnected(connected bool) Media {
	m.Connected = connected
	return m
}

// withTrack replaces the track block as one unit. Track descriptors are
// value objects; stale fields from the previous song must not survive.
func (m Media) withTrack(song event.Song, position float64) Media {
	m.SongName = song.Title
	m.ArtistName = song.Artist
	m.SongLength = song.SongDuration
	m.AlbumArtURL = song.ImageSrc
	m.VideoURL = song.URL
	m.ElapsedTime = position
	return m
}
