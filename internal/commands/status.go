package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

var botStartTime = time.Now()

// handleStatus shows host and process health alongside bot stats.
func handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	// Deferred: cpu.Percent samples for a second.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	cpuUsage := 0.0
	if percents, err := cpu.Percent(time.Second, false); err == nil && len(percents) > 0 {
		cpuUsage = percents[0]
	}

	memLine := "unknown"
	if vm, err := mem.VirtualMemory(); err == nil {
		memLine = fmt.Sprintf("%.1f GB / %.1f GB (%.0f%%)",
			float64(vm.Used)/1e9, float64(vm.Total)/1e9, vm.UsedPercent)
	}

	hostLine := "unknown"
	if info, err := host.Info(); err == nil {
		hostLine = fmt.Sprintf("%s (%s), up %s",
			info.Hostname, info.Platform,
			(time.Duration(info.Uptime) * time.Second).Round(time.Minute))
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	embed := &discordgo.MessageEmbed{
		Title: "📊 System Status",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🖥️ Host", Value: hostLine, Inline: false},
			{Name: "⚙️ CPU", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "💾 Memory", Value: memLine, Inline: true},
			{Name: "🤖 Bot Uptime", Value: time.Since(botStartTime).Round(time.Second).String(), Inline: true},
			{Name: "🌐 Guilds", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
			{Name: "🧵 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "📦 Heap", Value: fmt.Sprintf("%.1f MB", float64(ms.Alloc)/1e6), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}
