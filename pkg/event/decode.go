package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// expiryDateLayout is the format the integration backend uses for token
// expiry timestamps.
const expiryDateLayout = time.RFC1123

// Decode parses one raw text frame into a typed event.
//
// It fails when the frame is not well-formed JSON, when the "type"
// discriminator is absent, or when a field the variant requires is missing.
// A well-formed frame with an unrecognized discriminator is not a failure:
// it decodes to Unknown.
func Decode(raw []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	if head.Type == "" {
		return nil, errors.New("missing type discriminator")
	}

	switch head.Type {
	case TypePlayerStateChanged:
		return decodePlayerStateChanged(raw)
	case TypeVideoChanged:
		return decodeVideoChanged(raw)
	case TypePlayerInfo:
		return decodePlayerInfo(raw)
	case TypePositionChanged:
		return decodePositionChanged(raw)
	case TypeVolumeChanged:
		return decodeVolumeChanged(raw)
	case TypeRepeatChanged:
		return decodeRepeatChanged(raw)
	case TypeShuffleChanged:
		return decodeShuffleChanged(raw)
	case TypeTwitchInfo:
		return decodeTwitchInfo(raw)
	default:
		return Unknown{Type: head.Type}, nil
	}
}

func decodePlayerStateChanged(raw []byte) (Event, error) {
	var body struct {
		IsPlaying *bool    `json:"isPlaying"`
		Position  *float64 `json:"position"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypePlayerStateChanged, err)
	}
	if body.IsPlaying == nil {
		return nil, requiredFieldError(TypePlayerStateChanged, "isPlaying")
	}
	if body.Position == nil {
		return nil, requiredFieldError(TypePlayerStateChanged, "position")
	}

	return PlayerStateChanged{IsPlaying: *body.IsPlaying, Position: *body.Position}, nil
}

func decodeVideoChanged(raw []byte) (Event, error) {
	var body struct {
		Song     *Song    `json:"song"`
		Position *float64 `json:"position"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeVideoChanged, err)
	}
	if body.Song == nil {
		return nil, requiredFieldError(TypeVideoChanged, "song")
	}
	if body.Position == nil {
		return nil, requiredFieldError(TypeVideoChanged, "position")
	}

	return VideoChanged{Song: *body.Song, Position: *body.Position}, nil
}

func decodePlayerInfo(raw []byte) (Event, error) {
	var body struct {
		IsPlaying *bool    `json:"isPlaying"`
		Muted     *bool    `json:"muted"`
		Position  *float64 `json:"position"`
		Repeat    *string  `json:"repeat"`
		Shuffle   *bool    `json:"shuffle"`
		Volume    *float64 `json:"volume"`
		Song      *Song    `json:"song"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypePlayerInfo, err)
	}
	if body.IsPlaying == nil {
		return nil, requiredFieldError(TypePlayerInfo, "isPlaying")
	}
	if body.Position == nil {
		return nil, requiredFieldError(TypePlayerInfo, "position")
	}
	if body.Song == nil {
		return nil, requiredFieldError(TypePlayerInfo, "song")
	}

	info := PlayerInfo{
		IsPlaying: *body.IsPlaying,
		Position:  *body.Position,
		Song:      *body.Song,
	}
	if body.Muted != nil {
		info.Muted = *body.Muted
	}
	if body.Repeat != nil {
		info.Repeat = *body.Repeat
	}
	if body.Shuffle != nil {
		info.Shuffle = *body.Shuffle
	}
	if body.Volume != nil {
		info.Volume = *body.Volume
	}

	return info, nil
}

func decodePositionChanged(raw []byte) (Event, error) {
	var body struct {
		Position *float64 `json:"position"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypePositionChanged, err)
	}
	if body.Position == nil {
		return nil, requiredFieldError(TypePositionChanged, "position")
	}

	return PositionChanged{Position: *body.Position}, nil
}

func decodeVolumeChanged(raw []byte) (Event, error) {
	var body struct {
		Volume *float64 `json:"volume"`
		Muted  *bool    `json:"muted"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeVolumeChanged, err)
	}
	if body.Volume == nil {
		return nil, requiredFieldError(TypeVolumeChanged, "volume")
	}
	if body.Muted == nil {
		return nil, requiredFieldError(TypeVolumeChanged, "muted")
	}

	return VolumeChanged{Volume: *body.Volume, Muted: *body.Muted}, nil
}

func decodeRepeatChanged(raw []byte) (Event, error) {
	var body struct {
		Repeat *string `json:"repeat"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeRepeatChanged, err)
	}
	if body.Repeat == nil {
		return nil, requiredFieldError(TypeRepeatChanged, "repeat")
	}

	return RepeatChanged{Repeat: *body.Repeat}, nil
}

func decodeShuffleChanged(raw []byte) (Event, error) {
	var body struct {
		Shuffle *bool `json:"shuffle"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeShuffleChanged, err)
	}
	if body.Shuffle == nil {
		return nil, requiredFieldError(TypeShuffleChanged, "shuffle")
	}

	return ShuffleChanged{Shuffle: *body.Shuffle}, nil
}

func decodeTwitchInfo(raw []byte) (Event, error) {
	var body struct {
		Login         *string `json:"login"`
		LoginBot      *string `json:"login_bot"`
		ExpiryDate    *string `json:"expiry_date"`
		ExpiryDateBot *string `json:"expiry_date_bot"`
		StreamOnline  *bool   `json:"stream_online"`
		RewardID      *string `json:"reward_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeTwitchInfo, err)
	}

	info := TwitchInfo{
		Login:        body.Login,
		LoginBot:     body.LoginBot,
		StreamOnline: body.StreamOnline,
		RewardID:     body.RewardID,
	}

	var err error
	if info.ExpiryDate, err = parseExpiry(TypeTwitchInfo, "expiry_date", body.ExpiryDate); err != nil {
		return nil, err
	}
	if info.ExpiryDateBot, err = parseExpiry(TypeTwitchInfo, "expiry_date_bot", body.ExpiryDateBot); err != nil {
		return nil, err
	}

	return info, nil
}

// parseExpiry converts an optional RFC1123 timestamp field. A present but
// unparsable value is a decode failure, not a silently dropped field.
func parseExpiry(msgType, field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	parsed, err := time.Parse(expiryDateLayout, *value)
	if err != nil {
		return nil, fmt.Errorf("%s: parse %s: %w", msgType, field, err)
	}

	return &parsed, nil
}

func requiredFieldError(msgType, field string) error {
	return fmt.Errorf("%s: missing required field %q", msgType, field)
}
