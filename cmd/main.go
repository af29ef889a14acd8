package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"go-heatguard/internal/antinuke"
	"go-heatguard/internal/bot"
	"go-heatguard/internal/commands"
	"go-heatguard/internal/config"
	"go-heatguard/internal/database"
	"go-heatguard/internal/dispatcher"
	"go-heatguard/internal/engine"
	"go-heatguard/internal/heat"
	"go-heatguard/internal/ingest"
	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/notifier"
	"go-heatguard/internal/remedy"
	"go-heatguard/pkg/memory"
)

func main() {
	fmt.Println("Starting HeatGuard moderation engine")

	godotenv.Load()
	cfg := config.LoadOrDefault("config.json")

	if cfg.Bot.Token == "" {
		fmt.Println("No bot token configured (config.json or DISCORD_TOKEN)")
		os.Exit(1)
	}

	initializeRuntime(cfg)

	if err := logging.InitGlobalLogger(logging.LevelInfo, "heatguard.log"); err != nil {
		panic(err)
	}

	if err := initializeDatabase(cfg); err != nil {
		panic(err)
	}

	metrics.Init()
	if cfg.Metrics.Enabled {
		go metrics.Serve(cfg.Metrics.Addr)
		logging.Info("Metrics listening on %s", cfg.Metrics.Addr)
	}

	components := startComponents(cfg)

	if err := initializeBot(cfg, components); err != nil {
		panic(err)
	}

	logging.Info("All components started successfully")
	logging.Info("Audit engine pinned to CPU %d, %d remediation workers",
		cfg.Runtime.EngineCPU, cfg.Network.WorkerCount)

	waitForShutdown()

	stopComponents(components)
	bot.GetSession().Close()
	database.Close()

	logging.Info("Shutdown complete")
}

func initializeRuntime(cfg *config.Config) {
	if cfg.Runtime.DisableGC {
		debug.SetGCPercent(-1)
		fmt.Println("GC disabled for hot path performance")
	}

	if cfg.Runtime.MemoryLock {
		if err := memory.MlockAll(); err != nil {
			fmt.Printf("Warning: memory lock not available on this platform (%v)\n", err)
		} else {
			fmt.Println("Memory locked to prevent page faults")
		}
	}
}

func initializeDatabase(cfg *config.Config) error {
	fmt.Println("Initializing SQLite database...")

	if err := database.Initialize(cfg.Database.Path); err != nil {
		return err
	}
	if !database.IsConnected() {
		fmt.Println("Database initialized but connection verification failed")
	}
	return nil
}

type Components struct {
	ringBuffer  *ingest.RingBuffer
	jobQueue    *remedy.JobQueue
	heatStore   *heat.MemoryStore
	ledger      *heat.Ledger
	monitor     *antinuke.Monitor
	cache       *config.SettingsCache
	auditEngine *engine.AuditEngine
	msgEngine   *engine.MessageEngine
	httpPool    *dispatcher.HTTPPool
	rateLimiter *dispatcher.RateLimitMonitor
	workers     []*remedy.Worker
	stop        chan struct{}
}

func startComponents(cfg *config.Config) *Components {
	c := &Components{
		ringBuffer: ingest.NewRingBuffer(65536),
		jobQueue:   remedy.NewJobQueue(16384),
		heatStore:  heat.NewMemoryStore(),
		stop:       make(chan struct{}),
	}

	c.ledger = heat.NewLedger(c.heatStore)
	c.monitor = antinuke.NewMonitor(antinuke.NewMemoryTracker())

	c.cache = config.NewSettingsCache(database.GetDB(), cfg.Cache.TTLSeconds)
	c.cache.StartRefreshLoop(c.stop)

	c.msgEngine = engine.NewMessageEngine(c.cache, c.ledger, c.jobQueue)

	c.httpPool = dispatcher.NewHTTPPool(cfg.Network.HTTPPoolSize)
	c.httpPool.Warmup(cfg.Network.APIBaseURL)
	c.rateLimiter = dispatcher.NewRateLimitMonitor()

	go c.reportLedgerSize()

	return c
}

// reportLedgerSize keeps the ledger gauge current without touching the
// scoring path.
func (c *Components) reportLedgerSize() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.HeatLedgerSize.Set(float64(c.heatStore.Len()))
		case <-c.stop:
			return
		}
	}
}

func initializeBot(cfg *config.Config, c *Components) error {
	fmt.Println("Initializing Discord bot...")

	if err := bot.Initialize(cfg.Bot.Token); err != nil {
		return err
	}

	session := bot.GetSession()

	// Handlers must be attached before the gateway opens.
	session.SetupEventHandlers(c.msgEngine, c.ringBuffer)

	if err := session.Connect(); err != nil {
		return err
	}

	// The audit engine needs the bot's own ID, known only after connect.
	c.auditEngine = engine.NewAuditEngine(
		c.ringBuffer, c.cache, c.monitor, c.jobQueue, session.BotID, cfg.Runtime.EngineCPU)
	go c.auditEngine.Start()

	client := dispatcher.NewClient(c.httpPool, c.rateLimiter, cfg.Network.APIBaseURL, cfg.Bot.Token)
	guard := bot.NewStateGuard(session.GetDiscord())
	notif := notifier.New(session.GetDiscord(), func(guildID uint64) uint64 {
		if s := c.cache.Get(guildID); s != nil {
			return s.LogChannelID
		}
		return 0
	})

	executor := remedy.NewExecutor(client, guard, database.GetDB(), notif)
	c.workers = make([]*remedy.Worker, cfg.Network.WorkerCount)
	for i := 0; i < cfg.Network.WorkerCount; i++ {
		c.workers[i] = remedy.NewWorker(c.jobQueue, executor, i)
		go c.workers[i].Start()
	}

	if err := commands.Initialize(session, c.cache, c.ledger); err != nil {
		return err
	}

	fmt.Println("Discord bot initialized successfully")
	return nil
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received")
}

func stopComponents(c *Components) {
	close(c.stop)
	if c.auditEngine != nil {
		c.auditEngine.Stop()
	}
	for _, w := range c.workers {
		w.Stop()
	}
}
