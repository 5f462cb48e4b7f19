package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"fipet-service/internal/app"
	"fipet-service/internal/auth"
	"fipet-service/internal/domain"
	pginfra "fipet-service/internal/infra/postgres"
	pgmigrations "fipet-service/internal/infra/postgres/migrations"
	redisinfra "fipet-service/internal/infra/redis"
)

func TestQuestFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedContent(t, ctx, pgURL, sampleQuest())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	users := pginfra.NewUserRepo(pool)
	if err := users.SaveUser(ctx, domain.UserProfile{ID: "u1", DisplayName: "Alice", Level: 1}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	questRepo := redisinfra.NewQuestRepository(redisClient, pginfra.NewQuestLoader(pool), 5*time.Minute)
	service := app.NewQuestService(
		questRepo,
		pginfra.NewAnswerRepo(pool),
		users,
		redisinfra.NewDailyGate(redisClient),
		redisinfra.NewProgressStore(redisClient, 5*time.Minute),
	)
	session := auth.Session{UserID: "u1"}

	dest, err := service.NextDestination(ctx, session, "quest-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dest.Kind != domain.DestinationQuestion || dest.QuestionID != "q1" {
		t.Fatalf("expected q1 first, got %+v", dest)
	}

	snap, err := service.RecordAnswer(ctx, app.RecordAnswerRequest{
		UserID: "u1", QuestID: "quest-1", QuestionID: "q1", OptionID: "o2", Correct: true,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if snap.CurrentXP != 20 {
		t.Fatalf("expected 20 XP, got %d", snap.CurrentXP)
	}

	// Re-submission overwrites the row and leaves progress untouched.
	snap, err = service.RecordAnswer(ctx, app.RecordAnswerRequest{
		UserID: "u1", QuestID: "quest-1", QuestionID: "q1", OptionID: "o1", Correct: false,
	})
	if err != nil {
		t.Fatalf("re-record: %v", err)
	}
	if snap.CurrentXP != 20 {
		t.Fatalf("expected XP unchanged, got %d", snap.CurrentXP)
	}
	var rows int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM answered_questions WHERE user_id='u1' AND quest_id='quest-1' AND question_id='q1'`,
	).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected single row, got %d", rows)
	}

	dest, err = service.NextDestination(ctx, session, "quest-1")
	if err != nil {
		t.Fatalf("resolve 2: %v", err)
	}
	if dest.Kind != domain.DestinationComplete {
		t.Fatalf("expected complete, got %+v", dest)
	}

	outcome, err := service.DailyLogin(ctx, session)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !outcome.FirstLoginToday || outcome.Mood != 55 {
		t.Fatalf("expected first login mood 55, got %+v", outcome)
	}
	outcome, err = service.DailyLogin(ctx, session)
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}
	if outcome.FirstLoginToday {
		t.Fatalf("expected re-entry on second login")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "fipet", "POSTGRES_PASSWORD": "fipetpass", "POSTGRES_DB": "fipetdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://fipet:fipetpass@%s:%s/fipetdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedContent(t *testing.T, ctx context.Context, dsn string, quest domain.Quest) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(quest)
	if err != nil {
		t.Fatalf("marshal quest: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quests (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, quest.ID, string(data)); err != nil {
		t.Fatalf("insert quest: %v", err)
	}
}

func sampleQuest() domain.Quest {
	return domain.Quest{
		ID:    "quest-1",
		Title: "Budget Basics",
		Questions: []domain.Question{
			{
				ID:      "q1",
				Ordinal: 0,
				Prompt:  "What is 2 + 2?",
				Type:    domain.QuestionMultipleChoice,
				Options: []domain.Option{
					{ID: "o1", Text: "3", Outcome: domain.Outcome{XPReward: 5}},
					{ID: "o2", Text: "4", Correct: true, Outcome: domain.Outcome{XPReward: 20}},
				},
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
