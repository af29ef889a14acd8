package automod

import (
	"encoding/json"
	"fmt"

	"go-heatguard/internal/models"
)

type FilterType string

const (
	FilterBannedWords FilterType = "banned_words"
	FilterInvites     FilterType = "discord_invites"
	FilterMassMention FilterType = "mass_mention"
	FilterAllCaps     FilterType = "all_caps"
)

const (
	DefaultMentionLimit = 5
	DefaultCapsPercent  = 70
	// Shorter texts never trip the caps filter; "OK!!" is not shouting.
	MinCapsLetters = 15
)

// Rule is one enabled automod filter with its typed config. Rules are
// evaluated in stored order and the first match wins.
type Rule struct {
	ID              int64
	Type            FilterType
	Enabled         bool
	IgnoredChannels map[uint64]bool
	IgnoredRoles    map[uint64]bool

	// Exactly one of these is set, matching Type. Inert marks a rule
	// whose stored config failed validation; it is skipped entirely.
	BannedWords *BannedWordsConfig
	MassMention *MassMentionConfig
	AllCaps     *AllCapsConfig
	Inert       bool
}

type BannedWordsConfig struct {
	Words []string `json:"words"`
}

type MassMentionConfig struct {
	Limit int `json:"limit"`
}

type AllCapsConfig struct {
	Percent int `json:"percent"`
}

// ParseConfig decodes the stored JSON blob into the variant matching
// the rule's filter type. Validation happens here, at cache load, so a
// malformed blob costs one warning instead of one per message.
func (r *Rule) ParseConfig(raw string) error {
	switch r.Type {
	case FilterBannedWords:
		cfg := &BannedWordsConfig{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), cfg); err != nil {
				return fmt.Errorf("banned_words config: %w", err)
			}
		}
		if len(cfg.Words) == 0 {
			return fmt.Errorf("banned_words config: empty word list")
		}
		r.BannedWords = cfg
	case FilterInvites:
		// No tunables; any non-empty blob must still be valid JSON.
		if raw != "" && !json.Valid([]byte(raw)) {
			return fmt.Errorf("discord_invites config: invalid json")
		}
	case FilterMassMention:
		cfg := &MassMentionConfig{Limit: DefaultMentionLimit}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), cfg); err != nil {
				return fmt.Errorf("mass_mention config: %w", err)
			}
		}
		if cfg.Limit <= 0 {
			cfg.Limit = DefaultMentionLimit
		}
		r.MassMention = cfg
	case FilterAllCaps:
		cfg := &AllCapsConfig{Percent: DefaultCapsPercent}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), cfg); err != nil {
				return fmt.Errorf("all_caps config: %w", err)
			}
		}
		if cfg.Percent <= 0 || cfg.Percent > 100 {
			cfg.Percent = DefaultCapsPercent
		}
		r.AllCaps = cfg
	default:
		return fmt.Errorf("unknown filter type %q", r.Type)
	}
	return nil
}

// Violation maps a filter type to the violation it reports.
func (r *Rule) Violation() models.ViolationType {
	switch r.Type {
	case FilterBannedWords:
		return models.ViolationBannedWords
	case FilterInvites:
		return models.ViolationInviteLink
	case FilterMassMention:
		return models.ViolationMassMention
	case FilterAllCaps:
		return models.ViolationAllCaps
	}
	return ""
}
