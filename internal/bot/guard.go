package bot

import (
	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/logging"
	"go-heatguard/pkg/util"
)

// StateGuard answers role-hierarchy questions from gateway state. Every
// action class reduces to the same test: the target is not the guild
// owner and the bot's highest role sits above the target's. A member
// missing from state fails the check; remediation abandons rather than
// acting blind.
type StateGuard struct {
	session *discordgo.Session
}

func NewStateGuard(session *discordgo.Session) *StateGuard {
	return &StateGuard{session: session}
}

func (g *StateGuard) Moderatable(guildID, userID uint64) bool {
	return g.outranks(guildID, userID)
}

func (g *StateGuard) Kickable(guildID, userID uint64) bool {
	return g.outranks(guildID, userID)
}

func (g *StateGuard) Bannable(guildID, userID uint64) bool {
	return g.outranks(guildID, userID)
}

func (g *StateGuard) Manageable(guildID, userID uint64) bool {
	return g.outranks(guildID, userID)
}

func (g *StateGuard) outranks(guildID, userID uint64) bool {
	gid := util.Uint64ToString(guildID)
	uid := util.Uint64ToString(userID)

	guild, err := g.session.State.Guild(gid)
	if err != nil {
		logging.Debug("[GUARD] Guild %d not in state: %v", guildID, err)
		return false
	}
	if guild.OwnerID == uid {
		return false
	}

	target, err := g.member(gid, uid)
	if err != nil {
		logging.Debug("[GUARD] Member %d of guild %d unresolvable: %v", userID, guildID, err)
		return false
	}
	bot, err := g.member(gid, g.session.State.User.ID)
	if err != nil {
		logging.Debug("[GUARD] Bot member of guild %d unresolvable: %v", guildID, err)
		return false
	}

	return highestRolePosition(guild, bot) > highestRolePosition(guild, target)
}

func (g *StateGuard) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := g.session.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return g.session.GuildMember(guildID, userID)
}

func highestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	held := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		held[id] = true
	}

	highest := 0
	for _, role := range guild.Roles {
		if held[role.ID] && role.Position > highest {
			highest = role.Position
		}
	}
	return highest
}
