package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-heatguard/internal/models"
)

type Database struct {
	db *sql.DB
}

var globalDB *Database

// Initialize opens the SQLite rule store and creates the schema.
func Initialize(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	globalDB = &Database{db: db}

	if err := globalDB.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// GetDB returns the global database instance.
func GetDB() *Database {
	return globalDB
}

// IsConnected checks if the database connection is alive.
func IsConnected() bool {
	if globalDB == nil || globalDB.db == nil {
		return false
	}
	return globalDB.db.Ping() == nil
}

// Close closes the database connection.
func Close() error {
	if globalDB != nil && globalDB.db != nil {
		return globalDB.db.Close()
	}
	return nil
}

func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_config (
		guild_id TEXT PRIMARY KEY,
		automod_enabled INTEGER DEFAULT 0,
		decay_seconds INTEGER DEFAULT 600,
		antinuke_enabled INTEGER DEFAULT 0,
		window_seconds INTEGER DEFAULT 10,
		log_channel_id TEXT DEFAULT '',
		created_at INTEGER DEFAULT 0,
		updated_at INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS heat_values (
		guild_id TEXT NOT NULL,
		violation TEXT NOT NULL,
		points INTEGER NOT NULL,
		UNIQUE(guild_id, violation)
	);

	CREATE TABLE IF NOT EXISTS heat_thresholds (
		guild_id TEXT NOT NULL,
		threshold INTEGER NOT NULL,
		action TEXT NOT NULL,
		duration_minutes INTEGER DEFAULT 0,
		UNIQUE(guild_id, threshold)
	);

	CREATE TABLE IF NOT EXISTS automod_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		filter_type TEXT NOT NULL,
		config TEXT DEFAULT '',
		ignored_channels TEXT DEFAULT '',
		ignored_roles TEXT DEFAULT '',
		enabled INTEGER DEFAULT 1,
		position INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_automod_rules_guild ON automod_rules(guild_id);

	CREATE TABLE IF NOT EXISTS antinuke_limits (
		guild_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		max_actions INTEGER DEFAULT 3,
		UNIQUE(guild_id, action_type)
	);

	CREATE TABLE IF NOT EXISTS whitelist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		added_by TEXT DEFAULT '',
		created_at INTEGER NOT NULL,
		UNIQUE(guild_id, target_id)
	);

	CREATE INDEX IF NOT EXISTS idx_whitelist_guild ON whitelist(guild_id);

	CREATE TABLE IF NOT EXISTS infractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		reason TEXT DEFAULT '',
		duration_minutes INTEGER DEFAULT 0,
		moderator TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_infractions_guild ON infractions(guild_id);
	CREATE INDEX IF NOT EXISTS idx_infractions_user ON infractions(guild_id, user_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// GetGuildConfig retrieves the master row, defaulting when absent.
func (d *Database) GetGuildConfig(guildID string) (*GuildRow, error) {
	var row GuildRow
	err := d.db.QueryRow(
		`SELECT guild_id, automod_enabled, decay_seconds, antinuke_enabled, window_seconds, log_channel_id, created_at, updated_at
		 FROM guild_config WHERE guild_id = ?`,
		guildID,
	).Scan(&row.GuildID, &row.AutomodEnabled, &row.DecaySeconds, &row.AntiNukeEnabled,
		&row.WindowSeconds, &row.LogChannelID, &row.CreatedAt, &row.UpdatedAt)

	if err == sql.ErrNoRows {
		return &GuildRow{
			GuildID:       guildID,
			DecaySeconds:  600,
			WindowSeconds: 10,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertGuildConfig creates or updates the master row.
func (d *Database) UpsertGuildConfig(row *GuildRow) error {
	row.UpdatedAt = time.Now().Unix()
	if row.CreatedAt == 0 {
		row.CreatedAt = row.UpdatedAt
	}

	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO guild_config (guild_id, automod_enabled, decay_seconds, antinuke_enabled, window_seconds, log_channel_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.GuildID, row.AutomodEnabled, row.DecaySeconds, row.AntiNukeEnabled,
		row.WindowSeconds, row.LogChannelID, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

// SetAutomodEnabled toggles the heat engine for a guild.
func (d *Database) SetAutomodEnabled(guildID string, enabled bool) error {
	row, err := d.GetGuildConfig(guildID)
	if err != nil {
		return err
	}
	row.AutomodEnabled = enabled
	return d.UpsertGuildConfig(row)
}

// SetAntiNukeEnabled toggles the anti-nuke tracker for a guild.
func (d *Database) SetAntiNukeEnabled(guildID string, enabled bool) error {
	row, err := d.GetGuildConfig(guildID)
	if err != nil {
		return err
	}
	row.AntiNukeEnabled = enabled
	return d.UpsertGuildConfig(row)
}

// GetHeatValues returns the heat table for a guild.
func (d *Database) GetHeatValues(guildID string) ([]*HeatValueRow, error) {
	rows, err := d.db.Query(
		`SELECT guild_id, violation, points FROM heat_values WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []*HeatValueRow
	for rows.Next() {
		var v HeatValueRow
		if err := rows.Scan(&v.GuildID, &v.Violation, &v.Points); err != nil {
			return nil, err
		}
		values = append(values, &v)
	}
	return values, rows.Err()
}

// UpsertHeatValue sets the points for one violation type.
func (d *Database) UpsertHeatValue(guildID, violation string, points int) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO heat_values (guild_id, violation, points) VALUES (?, ?, ?)`,
		guildID, violation, points,
	)
	return err
}

// GetThresholds returns a guild's escalation steps, unordered; the
// settings cache sorts them.
func (d *Database) GetThresholds(guildID string) ([]*ThresholdRow, error) {
	rows, err := d.db.Query(
		`SELECT guild_id, threshold, action, duration_minutes FROM heat_thresholds WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thresholds []*ThresholdRow
	for rows.Next() {
		var t ThresholdRow
		if err := rows.Scan(&t.GuildID, &t.Threshold, &t.Action, &t.DurationMinutes); err != nil {
			return nil, err
		}
		thresholds = append(thresholds, &t)
	}
	return thresholds, rows.Err()
}

// UpsertThreshold sets one escalation step.
func (d *Database) UpsertThreshold(guildID string, threshold int, action string, durationMinutes int) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO heat_thresholds (guild_id, threshold, action, duration_minutes) VALUES (?, ?, ?, ?)`,
		guildID, threshold, action, durationMinutes,
	)
	return err
}

// GetRules returns a guild's automod rules in stored order.
func (d *Database) GetRules(guildID string) ([]*RuleRow, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, filter_type, config, ignored_channels, ignored_roles, enabled, position
		 FROM automod_rules WHERE guild_id = ? ORDER BY position, id`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*RuleRow
	for rows.Next() {
		var r RuleRow
		if err := rows.Scan(&r.ID, &r.GuildID, &r.FilterType, &r.Config,
			&r.IgnoredChannels, &r.IgnoredRoles, &r.Enabled, &r.Position); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

// AddRule appends an automod rule at the end of the guild's rule
// order and returns its ID.
func (d *Database) AddRule(r *RuleRow) (int64, error) {
	var maxPos sql.NullInt64
	if err := d.db.QueryRow(
		`SELECT MAX(position) FROM automod_rules WHERE guild_id = ?`, r.GuildID,
	).Scan(&maxPos); err != nil {
		return 0, err
	}
	r.Position = int(maxPos.Int64) + 1

	res, err := d.db.Exec(
		`INSERT INTO automod_rules (guild_id, filter_type, config, ignored_channels, ignored_roles, enabled, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GuildID, r.FilterType, r.Config, r.IgnoredChannels, r.IgnoredRoles, r.Enabled, r.Position,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteRule removes one rule; the guild scope prevents cross-guild
// deletion by ID.
func (d *Database) DeleteRule(guildID string, ruleID int64) (bool, error) {
	res, err := d.db.Exec(
		`DELETE FROM automod_rules WHERE guild_id = ? AND id = ?`,
		guildID, ruleID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetLogChannel points the guild's moderation announcements at a
// channel; empty clears it.
func (d *Database) SetLogChannel(guildID, channelID string) error {
	row, err := d.GetGuildConfig(guildID)
	if err != nil {
		return err
	}
	row.LogChannelID = channelID
	return d.UpsertGuildConfig(row)
}

// GetLimits returns a guild's anti-nuke action caps.
func (d *Database) GetLimits(guildID string) ([]*LimitRow, error) {
	rows, err := d.db.Query(
		`SELECT guild_id, action_type, max_actions FROM antinuke_limits WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var limits []*LimitRow
	for rows.Next() {
		var l LimitRow
		if err := rows.Scan(&l.GuildID, &l.ActionType, &l.MaxActions); err != nil {
			return nil, err
		}
		limits = append(limits, &l)
	}
	return limits, rows.Err()
}

// UpsertLimit caps one action type.
func (d *Database) UpsertLimit(guildID, actionType string, maxActions int) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO antinuke_limits (guild_id, action_type, max_actions) VALUES (?, ?, ?)`,
		guildID, actionType, maxActions,
	)
	return err
}

// AddWhitelist exempts a user from anti-nuke tracking.
func (d *Database) AddWhitelist(guildID, targetID, addedBy string) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO whitelist (guild_id, target_id, added_by, created_at) VALUES (?, ?, ?, ?)`,
		guildID, targetID, addedBy, time.Now().Unix(),
	)
	return err
}

// RemoveWhitelist removes an exemption.
func (d *Database) RemoveWhitelist(guildID, targetID string) error {
	_, err := d.db.Exec(
		`DELETE FROM whitelist WHERE guild_id = ? AND target_id = ?`,
		guildID, targetID,
	)
	return err
}

// GetWhitelist returns all exemptions for a guild.
func (d *Database) GetWhitelist(guildID string) ([]*WhitelistRow, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, target_id, added_by, created_at FROM whitelist WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*WhitelistRow
	for rows.Next() {
		var w WhitelistRow
		if err := rows.Scan(&w.ID, &w.GuildID, &w.TargetID, &w.AddedBy, &w.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &w)
	}
	return entries, rows.Err()
}

// RecordInfraction appends one remediation record.
func (d *Database) RecordInfraction(inf *models.Infraction) error {
	inf.CreatedAt = time.Now().Unix()

	_, err := d.db.Exec(
		`INSERT INTO infractions (guild_id, user_id, action, reason, duration_minutes, moderator, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inf.GuildID, inf.UserID, inf.Action, inf.Reason, inf.DurationMinutes, inf.Moderator, inf.CreatedAt,
	)
	return err
}

// GetRecentInfractions returns a user's latest records, newest first.
func (d *Database) GetRecentInfractions(guildID, userID string, limit int) ([]*models.Infraction, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, user_id, action, reason, duration_minutes, moderator, created_at
		 FROM infractions WHERE guild_id = ? AND user_id = ? ORDER BY created_at DESC LIMIT ?`,
		guildID, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infs []*models.Infraction
	for rows.Next() {
		var inf models.Infraction
		if err := rows.Scan(&inf.ID, &inf.GuildID, &inf.UserID, &inf.Action, &inf.Reason,
			&inf.DurationMinutes, &inf.Moderator, &inf.CreatedAt); err != nil {
			return nil, err
		}
		infs = append(infs, &inf)
	}
	return infs, rows.Err()
}
