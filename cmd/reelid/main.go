package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/reelid/reelid/internal/api"
	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/logger"
	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata"
	"github.com/reelid/reelid/internal/scheduler"
	"github.com/reelid/reelid/internal/scheduler/tasks"
)

const usage = `Usage: reelid [-config file] [command]

Commands:
  serve                      run the HTTP API (default)
  resolve <title> [subtitle] resolve one title and print the record
  batch <file>...            resolve files, borrowing names from their folders
  seed <path> <type> <id>    record a known match for a file or folder
`

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Output:     os.Stderr,
	})
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	args := flag.Args()
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, a, log)
	case "resolve":
		err = resolveCmd(ctx, a.resolver, args)
	case "batch":
		err = batchCmd(ctx, a.resolver, args)
	case "seed":
		err = seedCmd(ctx, a.resolver, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, a *app, log *logger.Logger) error {
	sched, err := scheduler.New(log.Logger)
	if err != nil {
		return err
	}
	if err := tasks.RegisterCacheMaintenanceTask(sched, a.resolver, cfg.Scheduler.CacheMaintenanceCron, log.Logger); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop scheduler")
		}
	}()

	server := api.NewServer(cfg, a.resolver, sched, log, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx, cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func resolveCmd(ctx context.Context, r *metadata.Resolver, args []string) error {
	if len(args) == 0 {
		return errors.New("resolve needs a title")
	}
	req := metadata.ResolveRequest{Title: args[0]}
	if len(args) > 1 {
		req.Subtitle = args[1]
	}
	rec, err := r.ResolveByQuery(ctx, req)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no match for %q", req.Title)
	}
	return printJSON(rec)
}

func batchCmd(ctx context.Context, r *metadata.Resolver, args []string) error {
	if len(args) == 0 {
		return errors.New("batch needs at least one file")
	}
	matches, err := r.ResolveBatch(ctx, args, metadata.BatchOptions{})
	if err != nil {
		return err
	}
	return printJSON(matches)
}

func seedCmd(ctx context.Context, r *metadata.Resolver, args []string) error {
	if len(args) != 3 {
		return errors.New("seed needs <path> <type> <id>")
	}
	t := media.ParseType(args[1])
	id, err := strconv.Atoi(args[2])
	if err != nil || !t.Valid() {
		return fmt.Errorf("invalid type or id: %s %s", args[1], args[2])
	}

	rec, err := r.ResolveByID(ctx, t, id, "")
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%s %d not found in the catalog", t, id)
	}
	n, err := r.SeedCache(ctx, args[0], rec)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d cache keys for %s\n", n, rec.Title)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
