package projection

import (
	"time"

	"pearpanel/pkg/event"
)

// Integration is the best-known Twitch integration state for the primary
// and the secondary (bot) identity. The zero value is the neutral starting
// projection.
type Integration struct {
	Login        string    `json:"login"`
	BotLogin     string    `json:"bot_login"`
	ExpiresAt    time.Time `json:"expires_at"`
	BotExpiresAt time.Time `json:"bot_expires_at"`
	StreamOnline bool      `json:"stream_online"`
	RewardID     string    `json:"reward_id"`
	Connected    bool      `json:"connected"`
}

// Apply folds one event into the projection and returns the result.
//
// TWITCH_INFO frames are partial: only fields present in the frame are
// overwritten. All other event kinds leave the projection untouched.
func (i Integration) Apply(ev event.Event) Integration {
	info, ok := ev.(event.TwitchInfo)
	if !ok {
		return i
	}

	if info.Login != nil {
		i.Login = *info.Login
	}
	if info.LoginBot != nil {
		i.BotLogin = *info.LoginBot
	}
	if info.ExpiryDate != nil {
		i.ExpiresAt = *info.ExpiryDate
	}
	if info.ExpiryDateBot != nil {
		i.BotExpiresAt = *info.ExpiryDateBot
	}
	if info.StreamOnline != nil {
		i.StreamOnline = *info.StreamOnline
	}
	if info.RewardID != nil {
		i.RewardID = *info.RewardID
	}

	return i
}

// WithConnected flips the transport flag without touching identity state.
func (i Integration) WithConnected(connected bool) Integration {
	i.Connected = connected
	return i
}
