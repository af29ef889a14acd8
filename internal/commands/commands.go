package commands

import "github.com/bwmarrin/discordgo"

// GetAllCommands returns all application commands.
func GetAllCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "automod",
			Description: "Manage the automod heat engine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "enable",
					Description: "Enable automod for this server",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "disable",
					Description: "Disable automod for this server",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "rules",
					Description: "List configured automod rules",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "heat",
					Description: "Show a user's current heat",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "user",
							Description: "User to inspect",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
					},
				},
				{
					Name:        "rule",
					Description: "Manage automod rules",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "add",
							Description: "Add an automod rule",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "type",
									Description: "Filter type",
									Type:        discordgo.ApplicationCommandOptionString,
									Required:    true,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "Banned Words", Value: "banned_words"},
										{Name: "Discord Invites", Value: "discord_invites"},
										{Name: "Mass Mention", Value: "mass_mention"},
										{Name: "All Caps", Value: "all_caps"},
									},
								},
								{
									Name:        "config",
									Description: "Rule config as JSON, e.g. {\"words\":[\"spam\"]}",
									Type:        discordgo.ApplicationCommandOptionString,
									Required:    false,
								},
							},
						},
						{
							Name:        "remove",
							Description: "Remove an automod rule by ID",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "id",
									Description: "Rule ID from /automod rules",
									Type:        discordgo.ApplicationCommandOptionInteger,
									Required:    true,
								},
							},
						},
					},
				},
				{
					Name:        "set",
					Description: "Tune heat scoring",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "value",
							Description: "Set heat points for a violation type",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "violation",
									Description: "Violation type",
									Type:        discordgo.ApplicationCommandOptionString,
									Required:    true,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "Banned Words", Value: "banned_words"},
										{Name: "Discord Invites", Value: "discord_invites"},
										{Name: "Mass Mention", Value: "mass_mention"},
										{Name: "All Caps", Value: "all_caps"},
									},
								},
								{
									Name:        "points",
									Description: "Heat points awarded per violation",
									Type:        discordgo.ApplicationCommandOptionInteger,
									Required:    true,
								},
							},
						},
						{
							Name:        "threshold",
							Description: "Set the action taken at a heat score",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "score",
									Description: "Heat score that triggers the action",
									Type:        discordgo.ApplicationCommandOptionInteger,
									Required:    true,
								},
								{
									Name:        "action",
									Description: "Action to take",
									Type:        discordgo.ApplicationCommandOptionString,
									Required:    true,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "Warn", Value: "warn"},
										{Name: "Mute", Value: "mute"},
										{Name: "Kick", Value: "kick"},
										{Name: "Ban", Value: "ban"},
									},
								},
								{
									Name:        "duration",
									Description: "Mute duration in minutes (mute only)",
									Type:        discordgo.ApplicationCommandOptionInteger,
									Required:    false,
								},
							},
						},
						{
							Name:        "decay",
							Description: "Set the heat decay window in seconds",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "seconds",
									Description: "Seconds before an infraction stops counting",
									Type:        discordgo.ApplicationCommandOptionInteger,
									Required:    true,
								},
							},
						},
					},
				},
			},
		},
		{
			Name:        "antinuke",
			Description: "Manage anti-nuke protection",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "enable",
					Description: "Enable anti-nuke protection",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "disable",
					Description: "Disable anti-nuke protection",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "limit",
					Description: "Cap an audit action within the sliding window",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "action",
							Description: "Audit action to cap",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Channel Delete", Value: "channel_delete"},
								{Name: "Role Delete", Value: "role_delete"},
								{Name: "Member Kick", Value: "kick"},
								{Name: "Member Ban", Value: "ban"},
							},
						},
						{
							Name:        "max",
							Description: "Max actions allowed in the window",
							Type:        discordgo.ApplicationCommandOptionInteger,
							Required:    true,
						},
					},
				},
				{
					Name:        "view",
					Description: "Show anti-nuke configuration",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:        "whitelist",
			Description: "Manage the anti-nuke whitelist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "add",
					Description: "Exempt a user from anti-nuke tracking",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "user",
							Description: "User to whitelist",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
					},
				},
				{
					Name:        "remove",
					Description: "Remove a user from the whitelist",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "user",
							Description: "User to remove",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
					},
				},
				{
					Name:        "view",
					Description: "View all whitelisted users",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:        "logs",
			Description: "Configure moderation logging",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "channel",
					Description: "Channel to send moderation logs to",
					Type:        discordgo.ApplicationCommandOptionChannel,
					Required:    true,
				},
			},
		},
		{
			Name:        "infractions",
			Description: "Show a user's recent infractions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to inspect",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "status",
			Description: "Show system status",
		},
		{
			Name:        "ping",
			Description: "Check Discord API latency",
		},
	}
}
