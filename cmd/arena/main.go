package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"ctchen222/LLM-Arena/internal/agent"
	apicontroller "ctchen222/LLM-Arena/internal/api/controller"
	apirepository "ctchen222/LLM-Arena/internal/api/repository"
	apiservice "ctchen222/LLM-Arena/internal/api/service"
	"ctchen222/LLM-Arena/internal/config"
	"ctchen222/LLM-Arena/internal/db"
	"ctchen222/LLM-Arena/internal/hub"
	"ctchen222/LLM-Arena/internal/logger"
	"ctchen222/LLM-Arena/internal/match"
	"ctchen222/LLM-Arena/internal/repository"
	"ctchen222/LLM-Arena/internal/server"
	"ctchen222/LLM-Arena/internal/telemetry"
	"ctchen222/LLM-Arena/internal/tournament"
)

type options struct {
	mode       string
	configPath string

	agent1 string
	agent2 string
	name1  string
	name2  string
	model1 string
	model2 string

	agents string

	games       int
	delay       time.Duration
	temperature float64
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "quick", "what to run: quick, tournament, demo or serve")
	flag.StringVar(&opts.configPath, "config", "", "optional YAML config file")
	flag.StringVar(&opts.agent1, "agent1", "groq", "kind of the first agent (groq, openai, gemini, random, heuristic)")
	flag.StringVar(&opts.agent2, "agent2", "gemini", "kind of the second agent")
	flag.StringVar(&opts.name1, "name1", "", "display name of the first agent (defaults to its kind)")
	flag.StringVar(&opts.name2, "name2", "", "display name of the second agent")
	flag.StringVar(&opts.model1, "model1", "", "model override for the first agent")
	flag.StringVar(&opts.model2, "model2", "", "model override for the second agent")
	flag.StringVar(&opts.agents, "agents", "", "tournament participants as kind:name[:model], comma separated")
	flag.IntVar(&opts.games, "games", 1, "games per pairing")
	flag.DurationVar(&opts.delay, "delay", 0, "pause between moves, for watchable games")
	flag.Float64Var(&opts.temperature, "temperature", 0.2, "sampling temperature for model agents")
	flag.Parse()

	cfg := config.MustLoad(opts.configPath)
	if opts.delay > 0 {
		cfg.MoveDelay = opts.delay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.InitOtel(ctx, cfg.OtelEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.OtelEndpoint != "")

	if err := run(ctx, cfg, &opts); err != nil {
		slog.Error("run failed", "mode", opts.mode, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	factory := &tournament.Factory{
		GroqAPIKey:   cfg.GroqAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		GeminiAPIKey: cfg.GeminiAPIKey,
		Retry:        agent.DefaultRetryOptions(),
	}

	switch opts.mode {
	case "quick":
		return runSeries(ctx, cfg, factory, []tournament.AgentSpec{
			agentSpec(opts.agent1, opts.name1, opts.model1, opts.temperature),
			agentSpec(opts.agent2, opts.name2, opts.model2, opts.temperature),
		}, opts.games)

	case "demo":
		// No API keys needed: heuristic against random.
		return runSeries(ctx, cfg, factory, []tournament.AgentSpec{
			{Kind: tournament.KindHeuristic, Name: "Heuristic"},
			{Kind: tournament.KindRandom, Name: "Random"},
		}, opts.games)

	case "tournament":
		specs, err := parseAgentList(opts.agents, opts.temperature)
		if err != nil {
			return err
		}
		return runSeries(ctx, cfg, factory, specs, opts.games)

	case "serve":
		return runServer(ctx, cfg, factory)

	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

// runSeries plays a match (two agents) or a round-robin (more) and prints
// the outcome.
func runSeries(ctx context.Context, cfg *config.Config, factory *tournament.Factory, specs []tournament.AgentSpec, games int) error {
	providers, err := factory.BuildAll(specs)
	if err != nil {
		return err
	}

	pool, publisher, cleanup, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var store tournament.Store
	if pool != nil {
		store = repository.NewRecordRepository(pool)
	}

	runner := match.NewRunner(publisher, match.Options{MoveDelay: cfg.MoveDelay})
	tour := tournament.New(runner, store, publisher, games)

	standings, results, err := tour.Run(ctx, providers)
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Printf("%s vs %s: %d-%d (%d draws)\n",
			result.Agent1, result.Agent2, result.Wins1, result.Wins2, result.Draws)
	}
	printLeaderboard(standings.Leaderboard())
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, factory *tournament.Factory) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("serve mode requires JWT_SECRET to be set")
	}

	pool, err := db.LocalConnect(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer pool.Close()

	records := repository.NewRecordRepository(pool)

	h := hub.NewHub()
	go h.Run(ctx)

	var (
		live      repository.LiveGameRepository
		publisher match.Publisher = h
	)
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()

		live = repository.NewLiveGameRepository(rdb)
		publisher = live
		go h.RunSubscriber(ctx, rdb)
	}

	runner := match.NewRunner(publisher, match.Options{MoveDelay: cfg.MoveDelay})

	operatorRepo := apirepository.NewOperatorRepository(pool)
	operatorService := apiservice.NewOperatorService(operatorRepo, cfg.JWTSecret)
	operatorController := apicontroller.NewOperatorController(operatorService)

	arenaService := apiservice.NewArenaService(records, live, factory, runner, publisher)
	arenaController := apicontroller.NewArenaController(arenaService)

	srv := server.NewServer(operatorController, arenaController, h)
	return srv.Run(ctx, cfg.HTTPAddr)
}

// openBackends opens whatever persistence the config names. Both are
// optional for CLI runs.
func openBackends(ctx context.Context, cfg *config.Config) (*sqlx.DB, match.Publisher, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for _, f := range cleanups {
			f()
		}
	}

	var pool *sqlx.DB
	if cfg.SQLitePath != "" {
		p, err := db.LocalConnect(cfg.SQLitePath)
		if err != nil {
			return nil, nil, cleanup, err
		}
		pool = p
		cleanups = append(cleanups, func() { pool.Close() })
	}

	var publisher match.Publisher
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			cleanup()
			return nil, nil, func() {}, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cleanups = append(cleanups, func() { rdb.Close() })
		publisher = repository.NewLiveGameRepository(rdb)
	}

	return pool, publisher, cleanup, nil
}

func agentSpec(kind, name, model string, temperature float64) tournament.AgentSpec {
	if name == "" {
		name = kind
	}
	return tournament.AgentSpec{
		Kind:        kind,
		Name:        name,
		Model:       model,
		Temperature: temperature,
	}
}

// parseAgentList parses "kind:name[:model]" entries separated by commas.
func parseAgentList(list string, temperature float64) ([]tournament.AgentSpec, error) {
	if list == "" {
		return nil, fmt.Errorf("tournament mode needs --agents, e.g. groq:Llama,gemini:Gemini,heuristic:Heuristic")
	}

	var specs []tournament.AgentSpec
	for _, entry := range strings.Split(list, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if parts[0] == "" {
			return nil, fmt.Errorf("invalid agent entry %q", entry)
		}
		spec := tournament.AgentSpec{Kind: parts[0], Temperature: temperature}
		if len(parts) > 1 && parts[1] != "" {
			spec.Name = parts[1]
		} else {
			spec.Name = parts[0]
		}
		if len(parts) > 2 {
			spec.Model = parts[2]
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func printLeaderboard(board []tournament.Standing) {
	fmt.Println("\nFinal standings:")
	fmt.Printf("%-20s %5s %5s %5s %5s %8s\n", "AGENT", "W", "L", "T", "PTS", "RATE")
	for _, s := range board {
		fmt.Printf("%-20s %5d %5d %5d %5d %7.1f%%\n",
			s.Agent, s.Wins, s.Losses, s.Ties, s.Points, s.WinRate*100)
	}
}
