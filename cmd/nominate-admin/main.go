package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/campuslabs/nominate-gateway/internal/adapters/postgres"
	redisadapter "github.com/campuslabs/nominate-gateway/internal/adapters/redis"
	"github.com/campuslabs/nominate-gateway/internal/bootstrap"
)

type commandFn func(ctx context.Context, logger *slog.Logger, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

func commands() map[string]command {
	return map[string]command{
		"audit": {
			name:        "audit",
			description: "print recent session audit events",
			run:         runAudit,
		},
		"revoke": {
			name:        "revoke",
			description: "clear a session's persisted state",
			run:         runRevoke,
		},
	}
}

func main() {
	logger := bootstrap.InitLogger()
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmd, ok := commands()[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	if err := cmd.run(ctx, logger, os.Args[2:]); err != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmd.name, "error", err)
		os.Exit(1) //nolint:forbidigo // CLI exit status reflects command outcome
	}
}

func printUsage() {
	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "usage: nominate-admin <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands() {
		fmt.Fprintf(w, "  %s\t%s\n", c.name, c.description)
	}
	_ = w.Flush()
}

func runAudit(ctx context.Context, _ *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	sessionID := fs.String("session", "", "filter by session id (empty for all)")
	limit := fs.Int("limit", 50, "maximum events to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.Postgres.Enabled {
		return fmt.Errorf("audit log is disabled (DB_ENABLED=false)")
	}

	pool, err := bootstrap.ConnectPostgres(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewAuditRepo(pool)
	events, err := repo.RecentEvents(ctx, *sessionID, *limit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, event := range events {
		if encErr := enc.Encode(event); encErr != nil {
			return encErr
		}
	}
	return nil
}

func runRevoke(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ExitOnError)
	sessionID := fs.String("session", "", "session id to revoke")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sessionID == "" {
		return fmt.Errorf("-session is required")
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	client, err := bootstrap.ConnectRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := redisadapter.NewSessionStore(client).Clear(ctx, *sessionID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "session state cleared", "session_id", *sessionID)
	return nil
}
