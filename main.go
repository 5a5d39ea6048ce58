package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"rudder/pkg/config"
	"rudder/pkg/dialog"
	"rudder/pkg/enrich"
	"rudder/pkg/finance"
	"rudder/pkg/flow"
	"rudder/pkg/llm"
	"rudder/pkg/logx"
	"rudder/pkg/metrics"
	"rudder/pkg/nlu"
	"rudder/pkg/persistence"
	"rudder/pkg/session"
)

// defaultModels maps each provider to the model used when -model is not set.
var defaultModels = map[string]string{
	"anthropic": "claude-3-5-haiku-latest",
	"openai":    "gpt-4o-mini",
	"ollama":    "llama3.2",
	"gemini":    "gemini-2.0-flash",
}

// Assistant owns one interactive conversation and the services behind it.
type Assistant struct {
	engine   *dialog.Engine
	sessions session.Store
	db       *persistence.Store
	logger   *logx.Logger
}

func main() {
	var (
		provider      string
		model         string
		flowPath      string
		dbPath        string
		ducklingURL   string
		redisAddr     string
		metricsAddr   string
		prometheusURL string
		statsWindow   time.Duration
		showStats     bool
		listSessions  bool
		debug         bool
	)
	flag.StringVar(&provider, "provider", "mock", "LLM provider: mock, anthropic, openai, ollama, gemini")
	flag.StringVar(&model, "model", "", "Model name (provider default when empty)")
	flag.StringVar(&flowPath, "flow", "", "Path to a flow document (built-in banking flow when empty)")
	flag.StringVar(&dbPath, "db", "rudder.db", "Path to the transcript database")
	flag.StringVar(&ducklingURL, "duckling", "", "Duckling server URL for entity enrichment (disabled when empty)")
	flag.StringVar(&redisAddr, "redis", "", "Redis address for session storage (in-memory when empty)")
	flag.StringVar(&metricsAddr, "metrics-listen", "", "Address to serve Prometheus metrics on (disabled when empty)")
	flag.StringVar(&prometheusURL, "prometheus-url", "http://localhost:9090", "Prometheus server URL for -stats")
	flag.DurationVar(&statsWindow, "stats-window", 24*time.Hour, "Lookback window for -stats")
	flag.BoolVar(&showStats, "stats", false, "Print aggregate flow metrics from Prometheus and exit")
	flag.BoolVar(&listSessions, "list-sessions", false, "List stored sessions and exit")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging for all scopes")
	flag.Parse()

	if debug {
		logx.SetDebug(true, nil)
	}
	logger := logx.NewLogger("main")

	if showStats {
		printFlowMetrics(prometheusURL, statsWindow)
		return
	}

	db, err := persistence.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if listSessions {
		printSessions(db)
		return
	}

	loadSecrets(logger)

	client, err := buildClient(provider, model)
	if err != nil {
		log.Fatalf("Failed to build LLM client: %v", err)
	}

	doc, err := loadFlow(flowPath)
	if err != nil {
		log.Fatalf("Failed to load flow: %v", err)
	}

	engine, err := dialog.NewEngine(dialog.Config{
		States:     doc.States,
		StartState: doc.Settings.StartState,
		Predictor:  buildPredictor(client),
		Generator:  buildGenerator(client),
		Observer:   metrics.NewPrometheusRecorder(),
	})
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	var duckling *enrich.Client
	if ducklingURL != "" {
		duckling = enrich.NewClient(ducklingURL, enrich.DefaultLocale)
	}
	finance.Register(engine, duckling)

	sessions, err := buildSessionStore(redisAddr)
	if err != nil {
		log.Fatalf("Failed to connect session store: %v", err)
	}

	if metricsAddr != "" {
		go serveMetrics(metricsAddr, logger)
	}

	assistant := &Assistant{
		engine:   engine,
		sessions: sessions,
		db:       db,
		logger:   logger,
	}
	if err := assistant.Run(); err != nil {
		log.Fatalf("Conversation failed: %v", err)
	}
}

// Run drives the read-eval-print loop until EOF, "quit", or a signal.
func (a *Assistant) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	if err := a.db.CreateSession(ctx, sessionID, "banking"); err != nil {
		return logx.Wrap(err, "failed to create session")
	}
	logger := a.logger.WithScope("session-" + sessionID[:8])
	defer func() {
		if err := a.db.EndSession(context.Background(), sessionID); err != nil {
			logger.Warn("Failed to close session: %v", err)
		}
	}()

	c := a.engine.StartSession(sessionID)
	logger.Info("Session %s started", sessionID)

	start, _ := a.engine.StateByID(a.engine.StartState())
	if start != nil && start.ResponseTemplate != "" {
		fmt.Println("Bot:", dialog.RenderTemplate(start.ResponseTemplate, c.Slots))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			return nil
		}

		reply, err := a.engine.ProcessTurn(ctx, input, c)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("turn failed: %w", err)
		}
		fmt.Println("Bot:", reply)

		a.persistTurn(ctx, c)
		if state, ok := a.engine.StateByID(c.CurrentState); ok && state.Type == dialog.StateTerminal {
			return nil
		}
	}
}

// persistTurn saves the context to the session store and the latest turn to
// the transcript database. Both are best effort: a storage outage must not
// end the conversation.
func (a *Assistant) persistTurn(ctx context.Context, c *dialog.Context) {
	if err := a.sessions.Save(ctx, c); err != nil {
		a.logger.Warn("Failed to save session: %v", err)
	}
	if len(c.History) == 0 {
		return
	}
	turn := c.History[len(c.History)-1]
	if err := a.db.SaveTurn(ctx, c.SessionID, turn); err != nil {
		a.logger.Warn("Failed to save turn: %v", err)
	}
}

// loadSecrets decrypts the local secrets file when one exists and stdin is a
// terminal to prompt on. Missing secrets fall back to environment variables.
func loadSecrets(logger *logx.Logger) {
	if !config.SecretsFileExists(".") || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	fmt.Print("Secrets password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		logger.Warn("Failed to read password: %v", err)
		return
	}

	secrets, err := config.DecryptSecretsFile(".", string(password))
	if err != nil {
		logger.Warn("Failed to decrypt secrets: %v", err)
		return
	}
	config.SetDecryptedSecrets(secrets)
}

func buildClient(provider, model string) (llm.Client, error) {
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case "mock":
		return llm.NewMockClient(nil, nil), nil
	case "anthropic":
		key, err := config.GetSecret(config.SecretAnthropicKey)
		if err != nil {
			return nil, err
		}
		return llm.NewClaudeClient(key, model), nil
	case "openai":
		key, err := config.GetSecret(config.SecretOpenAIKey)
		if err != nil {
			return nil, err
		}
		return llm.NewOpenAIClient(key, model), nil
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return llm.NewOllamaClient(host, model), nil
	case "gemini":
		key, err := config.GetSecret(config.SecretGeminiKey)
		if err != nil {
			return nil, err
		}
		return llm.NewGeminiClient(key, model), nil
	default:
		return nil, logx.Errorf("unknown provider %q", provider)
	}
}

func buildPredictor(client llm.Client) nlu.Predictor {
	if _, ok := client.(*llm.MockClient); ok {
		// Unscripted mock turns classify as unknown, which exercises the
		// fallback paths without an API key.
		return &nlu.MockPredictor{}
	}
	return nlu.NewLLMPredictor(client)
}

func buildGenerator(client llm.Client) nlu.Generator {
	if _, ok := client.(*llm.MockClient); ok {
		return nil
	}
	return nlu.NewLLMGenerator(client)
}

func loadFlow(path string) (*flow.Document, error) {
	if path == "" {
		return finance.LoadFlow()
	}
	return flow.Load(path)
}

func buildSessionStore(redisAddr string) (session.Store, error) {
	if redisAddr == "" {
		return session.NewMemoryStore(session.DefaultTTL), nil
	}
	client, err := session.DialRedis(context.Background(), redisAddr)
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, session.DefaultTTL), nil
}

func serveMetrics(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("Serving metrics on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics server failed: %v", err)
	}
}

func printFlowMetrics(prometheusURL string, window time.Duration) {
	svc, err := metrics.NewQueryService(prometheusURL)
	if err != nil {
		log.Fatalf("Failed to create Prometheus client: %v", err)
	}
	fm, err := svc.GetFlowMetrics(context.Background(), window)
	if err != nil {
		log.Fatalf("Failed to query flow metrics: %v", err)
	}

	fmt.Printf("Flow metrics over the last %s:\n", window)
	fmt.Printf("  Turns:     %d\n", fm.Turns)
	fmt.Printf("  Fallbacks: %d\n", fm.Fallbacks)
	if len(fm.ActionsByName) > 0 {
		fmt.Println("  Actions:")
		names := make([]string, 0, len(fm.ActionsByName))
		for name := range fm.ActionsByName {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("    %s: %d\n", name, fm.ActionsByName[name])
		}
	}
}

func printSessions(db *persistence.Store) {
	infos, err := db.ListSessions(context.Background())
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}
	for _, info := range infos {
		ended := "active"
		if info.EndedAt != nil {
			ended = info.EndedAt.Format(time.RFC3339)
		}
		fmt.Printf("%s  flow=%s  turns=%d  started=%s  ended=%s\n",
			info.ID, info.FlowName, info.TurnCount,
			info.StartedAt.Format(time.RFC3339), ended)
	}
}
