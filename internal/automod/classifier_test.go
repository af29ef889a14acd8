package automod

import (
	"strings"
	"testing"

	"go-heatguard/internal/models"
)

func enabledRule(t FilterType, raw string) *Rule {
	r := &Rule{Type: t, Enabled: true}
	if err := r.ParseConfig(raw); err != nil {
		panic(err)
	}
	return r
}

func msg(content string) *models.ChatMessage {
	return &models.ChatMessage{
		GuildID:   1,
		ChannelID: 10,
		AuthorID:  100,
		Content:   content,
	}
}

func TestClassifyBannedWords(t *testing.T) {
	rules := []*Rule{enabledRule(FilterBannedWords, `{"words":["spam","scam"]}`)}

	cases := []struct {
		content string
		want    bool
	}{
		{"this is spam", true},
		{"this is SPAM", true},
		{"spammer alert", true}, // substring match
		{"perfectly fine", false},
		{"", false},
	}
	for _, tc := range cases {
		_, got := Classify(msg(tc.content), rules)
		if got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestClassifyInvites(t *testing.T) {
	rules := []*Rule{enabledRule(FilterInvites, "")}

	cases := []struct {
		content string
		want    bool
	}{
		{"join discord.gg/abc123", true},
		{"join DISCORD.GG/abc123", true},
		{"https://discord.com/invite/xyz-1", true},
		{"https://discordapp.com/invite/xyz", true},
		{"discord.gg without a code", false},
		{"nothing here", false},
	}
	for _, tc := range cases {
		v, got := Classify(msg(tc.content), rules)
		if got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.content, got, tc.want)
		}
		if got && v != models.ViolationInviteLink {
			t.Errorf("Classify(%q) violation = %q, want %q", tc.content, v, models.ViolationInviteLink)
		}
	}
}

func TestClassifyMassMentionCountsDistinctUsers(t *testing.T) {
	rules := []*Rule{enabledRule(FilterMassMention, `{"limit":3}`)}

	m := msg("hey")
	m.MentionedUsers = []uint64{1, 1, 1, 2}
	if _, got := Classify(m, rules); got {
		t.Fatal("duplicate mentions should count once")
	}

	m.MentionedUsers = []uint64{1, 2, 3}
	if _, got := Classify(m, rules); !got {
		t.Fatal("three distinct mentions should trip limit 3")
	}
}

func TestClassifyAllCaps(t *testing.T) {
	rules := []*Rule{enabledRule(FilterAllCaps, "")}

	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"short shouting ignored", "STOP IT", false},
		{"long shouting", "STOP DOING THAT RIGHT NOW PLEASE", true},
		{"mixed case under ratio", "Stop Doing That Right Now Please", false},
		{"emoji name stripped before counting", "<:AAAAAAAAAAAAAAAA:123456789> hi", false},
		{"digits are not letters", "1234567890123456789", false},
	}
	for _, tc := range cases {
		if _, got := Classify(msg(tc.content), rules); got != tc.want {
			t.Errorf("%s: Classify(%q) = %v, want %v", tc.name, tc.content, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := []*Rule{
		enabledRule(FilterInvites, ""),
		enabledRule(FilterBannedWords, `{"words":["discord"]}`),
	}

	v, ok := Classify(msg("discord.gg/abc"), rules)
	if !ok || v != models.ViolationInviteLink {
		t.Fatalf("got %q, want first rule %q", v, models.ViolationInviteLink)
	}

	// Reversed order flips the winner for the same content.
	rules[0], rules[1] = rules[1], rules[0]
	v, ok = Classify(msg("discord.gg/abc"), rules)
	if !ok || v != models.ViolationBannedWords {
		t.Fatalf("got %q, want first rule %q", v, models.ViolationBannedWords)
	}
}

func TestClassifyBypasses(t *testing.T) {
	banned := enabledRule(FilterBannedWords, `{"words":["spam"]}`)
	banned.IgnoredChannels = map[uint64]bool{10: true}
	rules := []*Rule{banned}

	if _, got := Classify(msg("spam"), rules); got {
		t.Fatal("ignored channel should skip the rule")
	}

	banned.IgnoredChannels = nil
	banned.IgnoredRoles = map[uint64]bool{777: true}

	m := msg("spam")
	m.AuthorRoles = []uint64{777}
	if _, got := Classify(m, rules); got {
		t.Fatal("ignored role should exempt the author entirely")
	}

	bot := msg("spam")
	bot.AuthorIsBot = true
	if _, got := Classify(bot, rules); got {
		t.Fatal("bot authors are never classified")
	}

	if _, got := Classify(msg("spam"), nil); got {
		t.Fatal("no rules means no violation")
	}
}

func TestClassifyIgnoredRoleOnOneRuleExemptsAll(t *testing.T) {
	invites := enabledRule(FilterInvites, "")
	invites.IgnoredRoles = map[uint64]bool{777: true}
	banned := enabledRule(FilterBannedWords, `{"words":["spam"]}`)
	rules := []*Rule{invites, banned}

	m := msg("spam")
	m.AuthorRoles = []uint64{777}
	if _, got := Classify(m, rules); got {
		t.Fatal("role ignored by any enabled rule bypasses the whole pass")
	}
}

func TestClassifyDisabledAndInertRulesSkipped(t *testing.T) {
	disabled := enabledRule(FilterBannedWords, `{"words":["spam"]}`)
	disabled.Enabled = false

	inert := &Rule{Type: FilterBannedWords, Enabled: true, Inert: true}

	if _, got := Classify(msg("spam"), []*Rule{disabled, inert}); got {
		t.Fatal("disabled and inert rules must not match")
	}
}

func TestParseConfigRejectsBadBlobs(t *testing.T) {
	cases := []struct {
		filterType FilterType
		raw        string
	}{
		{FilterBannedWords, ""},            // empty word list
		{FilterBannedWords, `{"words":[]}`},
		{FilterBannedWords, "not json"},
		{FilterInvites, "not json"},
		{FilterType("unknown"), "{}"},
	}
	for _, tc := range cases {
		r := &Rule{Type: tc.filterType}
		if err := r.ParseConfig(tc.raw); err == nil {
			t.Errorf("ParseConfig(%s, %q): expected error", tc.filterType, tc.raw)
		}
	}
}

func TestParseConfigDefaults(t *testing.T) {
	mention := &Rule{Type: FilterMassMention}
	if err := mention.ParseConfig(""); err != nil {
		t.Fatal(err)
	}
	if mention.MassMention.Limit != DefaultMentionLimit {
		t.Errorf("mention limit = %d, want %d", mention.MassMention.Limit, DefaultMentionLimit)
	}

	caps := &Rule{Type: FilterAllCaps}
	if err := caps.ParseConfig(`{"percent":150}`); err != nil {
		t.Fatal(err)
	}
	if caps.AllCaps.Percent != DefaultCapsPercent {
		t.Errorf("out-of-range percent = %d, want default %d", caps.AllCaps.Percent, DefaultCapsPercent)
	}
}

func TestAllCapsBoundary(t *testing.T) {
	// Exactly 15 letters, all upper: eligible and over ratio.
	content := strings.Repeat("A", 15)
	rules := []*Rule{enabledRule(FilterAllCaps, "")}
	if _, got := Classify(msg(content), rules); !got {
		t.Fatal("15 uppercase letters should trip the filter")
	}

	// 14 letters never counts regardless of ratio.
	if _, got := Classify(msg(strings.Repeat("A", 14)), rules); got {
		t.Fatal("14 letters is below the minimum")
	}
}
