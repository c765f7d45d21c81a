package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/orbis-25/orbis-projects-backend/config"
	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/bootstrap"
	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/events"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/scheduler"
	"github.com/orbis-25/orbis-projects-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.App.Environment, cfg.App.LogLevel, os.Stdout)

	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd == "token" {
		issueToken(cfg, os.Args[2:])
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logrus.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	module := projects.New(projects.Deps{
		DB:              db,
		Redis:           rdb,
		Nonces:          auth.NewNonces([]byte(cfg.App.NonceSecret), cfg.App.NonceTTL),
		Locale:          form.Locale{DecimalPoint: cfg.Locale.DecimalPoint, ThousandsSep: cfg.Locale.ThousandsSep},
		PermalinkFormat: cfg.App.PermalinkFormat,
	})
	auditor := module.Auditor()

	switch cmd {
	case "audit":
		report, err := auditor.Run(logging.WithRequestID(ctx, "cli-audit"))
		if err != nil {
			logrus.Fatalf("audit: %v", err)
		}
		logrus.WithFields(logrus.Fields{
			"checked":  report.Checked,
			"repaired": report.Repaired,
			"cleared":  report.Cleared,
			"failed":   report.Failed,
		}).Info("audit finished")
	case "run":
		run(ctx, cfg, module, rdb)
	default:
		logrus.Fatalf("unknown command: %s (usage: worker [run|audit|token])", cmd)
	}
}

// run schedules the cache audit and logs published project events until
// the process is signalled.
func run(ctx context.Context, cfg *config.Config, module *projects.Module, rdb *redis.Client) {
	sched := scheduler.NewScheduler(10 * time.Minute)
	if err := sched.Add("cache_audit", cfg.App.AuditSchedule, func(ctx context.Context) error {
		_, err := module.Auditor().Run(ctx)
		return err
	}); err != nil {
		logrus.Fatalf("scheduler: %v", err)
	}
	sched.Start()

	err := events.Subscribe(ctx, rdb, func(ctx context.Context, m events.Message) {
		logrus.WithFields(logrus.Fields{
			"event":       m.Event,
			"post_id":     m.PostID,
			"occurred_at": m.OccurredAt,
		}).Info("project event received")
	})
	if err != nil {
		logrus.Errorf("subscriber: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(stopCtx)
}

// issueToken prints a signed identity token, for calling the API without
// the fronting CMS.
func issueToken(cfg *config.Config, args []string) {
	if len(args) == 0 {
		logrus.Fatal("usage: worker token <external-id> [capabilities]")
	}
	id := auth.Identity{ExternalID: args[0]}
	if len(args) > 1 {
		id.Capabilities = auth.ParseCapabilities(args[1])
	}
	if cfg.App.IdentitySecret == "" {
		logrus.Fatal("IDENTITY_SECRET is required to issue tokens")
	}
	token, err := auth.NewIdentities([]byte(cfg.App.IdentitySecret), cfg.App.IdentityTTL).Issue(id)
	if err != nil {
		logrus.Fatalf("token: %v", err)
	}
	fmt.Println(token)
}
