package automod

import (
	"regexp"
	"strings"
	"unicode"

	"go-heatguard/internal/models"
)

var (
	inviteRe      = regexp.MustCompile(`(?i)(?:discord\.gg|discord(?:app)?\.com/invite)/[a-zA-Z0-9-]+`)
	customEmojiRe = regexp.MustCompile(`<a?:[\w~]+:\d+>`)
)

// Classify maps a message to at most one violation given the guild's
// rules. Evaluation is order-sensitive: rules run in stored order and
// the first match ends the scan.
func Classify(msg *models.ChatMessage, rules []*Rule) (models.ViolationType, bool) {
	if msg.AuthorIsBot || len(rules) == 0 {
		return "", false
	}

	// Global bypass: a role ignored by any enabled rule exempts the
	// author from the whole pass, checked once up front.
	if holdsIgnoredRole(msg, rules) {
		return "", false
	}

	for _, r := range rules {
		if !r.Enabled || r.Inert {
			continue
		}
		if r.IgnoredChannels[msg.ChannelID] {
			continue
		}
		if matches(r, msg) {
			return r.Violation(), true
		}
	}

	return "", false
}

func holdsIgnoredRole(msg *models.ChatMessage, rules []*Rule) bool {
	for _, r := range rules {
		if !r.Enabled || len(r.IgnoredRoles) == 0 {
			continue
		}
		for _, roleID := range msg.AuthorRoles {
			if r.IgnoredRoles[roleID] {
				return true
			}
		}
	}
	return false
}

func matches(r *Rule, msg *models.ChatMessage) bool {
	switch r.Type {
	case FilterBannedWords:
		return matchBannedWords(r.BannedWords, msg.Content)
	case FilterInvites:
		return inviteRe.MatchString(msg.Content)
	case FilterMassMention:
		return matchMassMention(r.MassMention, msg.MentionedUsers)
	case FilterAllCaps:
		return matchAllCaps(r.AllCaps, msg.Content)
	}
	return false
}

func matchBannedWords(cfg *BannedWordsConfig, content string) bool {
	if cfg == nil {
		return false
	}
	lowered := strings.ToLower(content)
	for _, word := range cfg.Words {
		if word == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

func matchMassMention(cfg *MassMentionConfig, mentioned []uint64) bool {
	limit := DefaultMentionLimit
	if cfg != nil && cfg.Limit > 0 {
		limit = cfg.Limit
	}

	seen := make(map[uint64]bool, len(mentioned))
	for _, id := range mentioned {
		seen[id] = true
	}
	return len(seen) >= limit
}

func matchAllCaps(cfg *AllCapsConfig, content string) bool {
	percent := DefaultCapsPercent
	if cfg != nil && cfg.Percent > 0 {
		percent = cfg.Percent
	}

	stripped := customEmojiRe.ReplaceAllString(content, "")

	letters := 0
	uppers := 0
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
		}
	}

	if letters < MinCapsLetters {
		return false
	}
	return uppers*100 >= letters*percent
}
