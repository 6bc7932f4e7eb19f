// Package event defines the typed messages pushed over the player and
// integration websocket streams, and the decoder that turns raw frames
// into them.
package event

import "time"

// Message type discriminators carried in the "type" field of every frame.
const (
	TypePlayerStateChanged = "PLAYER_STATE_CHANGED"
	TypeVideoChanged       = "VIDEO_CHANGED"
	TypePlayerInfo         = "PLAYER_INFO"
	TypePositionChanged    = "POSITION_CHANGED"
	TypeVolumeChanged      = "VOLUME_CHANGED"
	TypeRepeatChanged      = "REPEAT_CHANGED"
	TypeShuffleChanged     = "SHUFFLE_CHANGED"
	TypeTwitchInfo         = "TWITCH_INFO"
)

// Event is one decoded stream message. The set of variants is closed;
// frames with a discriminator outside it decode to Unknown.
type Event interface {
	event()
}

// Song describes the track the player is on. A new song always arrives
// as a whole descriptor, never as a partial patch.
type Song struct {
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	SongDuration   float64 `json:"songDuration"`
	ImageSrc       string  `json:"imageSrc,omitempty"`
	URL            string  `json:"url,omitempty"`
	ElapsedSeconds float64 `json:"elapsedSeconds,omitempty"`
	VideoID        string  `json:"videoId"`
	MediaType      string  `json:"mediaType,omitempty"`
	Album          string  `json:"album,omitempty"`
}

// PlayerStateChanged reports a play/pause flip with the playback position.
type PlayerStateChanged struct {
	IsPlaying bool
	Position  float64
}

// VideoChanged reports that a new song started playing.
type VideoChanged struct {
	Song     Song
	Position float64
}

// PlayerInfo is the full player snapshot sent on connect and on demand.
type PlayerInfo struct {
	IsPlaying bool
	Muted     bool
	Position  float64
	Repeat    string
	Shuffle   bool
	Volume    float64
	Song      Song
}

// PositionChanged carries the playback position; the player emits one
// every second.
type PositionChanged struct {
	Position float64
}

// VolumeChanged reports a volume or mute change.
type VolumeChanged struct {
	Volume float64
	Muted  bool
}

// RepeatChanged reports the repeat mode (ALL, ONE or NONE).
type RepeatChanged struct {
	Repeat string
}

// ShuffleChanged reports the shuffle flag.
type ShuffleChanged struct {
	Shuffle bool
}

// TwitchInfo carries integration identity state. The backend broadcasts
// partial frames (main-identity fields only, or bot fields only), so every
// field is optional; nil means "not included in this frame".
type TwitchInfo struct {
	Login         *string
	LoginBot      *string
	ExpiryDate    *time.Time
	ExpiryDateBot *time.Time
	StreamOnline  *bool
	RewardID      *string
}

// Unknown is a well-formed frame whose discriminator names no known
// variant. It decodes successfully so that newer message kinds are not
// mistaken for protocol corruption; the projector ignores it.
type Unknown struct {
	Type string
}

func (PlayerStateChanged) event() {}
func (VideoChanged) event()       {}
func (PlayerInfo) event()         {}
func (PositionChanged) event()    {}
func (VolumeChanged) event()      {}
func (RepeatChanged) event()      {}
func (ShuffleChanged) event()     {}
func (TwitchInfo) event()         {}
func (Unknown) event()            {}
