package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"fipet-service/internal/app"
	"fipet-service/internal/auth"
	"fipet-service/internal/config"
	"fipet-service/internal/domain"
	"fipet-service/internal/infra/memory"
	pginfra "fipet-service/internal/infra/postgres"
	redisinfra "fipet-service/internal/infra/redis"
	transport "fipet-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quest service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestLoader = memory.NewStaticQuestLoader(sampleQuests())
	if pool != nil {
		loader = pginfra.NewQuestLoader(pool)
	}

	questTTL := config.TTLDuration(cfg.Quest.TTL, 10*time.Minute)
	var questRepo app.QuestRepository
	if redisClient != nil {
		questRepo = redisinfra.NewQuestRepository(redisClient, loader, questTTL)
	} else {
		questRepo = memory.NewQuestRepository(loader, questTTL)
	}

	var answers app.AnswerRepository = memory.NewAnswerStore()
	var users app.UserRepository = memory.NewUserStore()
	if pool != nil {
		answers = pginfra.NewAnswerRepo(pool)
		users = pginfra.NewUserRepo(pool)
	}

	var gate app.DailyGate = memory.NewDailyGate()
	var progress app.ProgressStore = memory.NewProgressStore()
	if redisClient != nil {
		gate = redisinfra.NewDailyGate(redisClient)
		progress = redisinfra.NewProgressStore(redisClient, redisTTL)
	}

	if pool == nil {
		seedDemoUser(ctx, users)
	}

	tokens := auth.NewTokenVerifier(cfg.Auth.Secret, config.TTLDuration(cfg.Auth.TTL, 24*time.Hour))
	service := app.NewQuestService(questRepo, answers, users, gate, progress)
	handler := transport.NewHandler(service, tokens)
	wsHandler := transport.NewWSHandler(service, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quest service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func seedDemoUser(ctx context.Context, users app.UserRepository) {
	if err := users.SaveUser(ctx, domain.UserProfile{
		ID:          "demo-user",
		DisplayName: "Demo",
	}); err != nil {
		log.Printf("seed demo user: %v", err)
	}
}

// sampleQuests provides a minimal set of quest content; the Postgres
// loader replaces this in production.
func sampleQuests() map[string]domain.Quest {
	return map[string]domain.Quest{
		"quest-1": {
			ID:       "quest-1",
			Title:    "Budget Basics",
			PreQuest: "Before we start, meet your pet and learn what a budget is.",
			Questions: []domain.Question{
				{
					ID:      "q1",
					Ordinal: 0,
					Prompt:  "You earn 10 coins. How many should you save if your goal is half?",
					Type:    domain.QuestionMultipleChoice,
					Options: []domain.Option{
						{ID: "o1", Text: "2", Outcome: domain.Outcome{Feedback: "That's less than half.", XPReward: 5}},
						{ID: "o2", Text: "5", Correct: true, Outcome: domain.Outcome{Feedback: "Exactly half, nice!", XPReward: 20}},
						{ID: "o3", Text: "10", Outcome: domain.Outcome{Feedback: "Saving everything leaves nothing to spend.", XPReward: 5}},
					},
				},
				{
					ID:      "q2",
					Ordinal: 1,
					Prompt:  "Saving before spending makes goals easier to reach.",
					Type:    domain.QuestionTrueFalse,
					Options: []domain.Option{
						{ID: "o1", Text: "True", Correct: true, Outcome: domain.Outcome{Feedback: "Pay yourself first!", XPReward: 20}},
						{ID: "o2", Text: "False", Outcome: domain.Outcome{Feedback: "Spending first usually empties the jar.", XPReward: 5}},
					},
				},
			},
			XPReward:   50,
			CoinReward: 10,
		},
	}
}
