//go:build integration

package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SirBarnaby/moyb/internal"
	"github.com/SirBarnaby/moyb/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort     = 9000
	serverHost     = "localhost"
	postgresDBName = "moyb_db"
	postgresPass   = "postgres"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) *Suite {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = 2 * time.Minute

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := getTestConfig(redisPort, pgPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config: cfg,
			Secrets: &config.Secrets{
				PostgresPassword: postgresPass,
			},
			VersionInfo: "test-version-info",
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(ctx, cfg.Host, cfg.Port)

	if err := suite.dockerPool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		suite.cleanup()
		log.Fatalf("server not up: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:             "development",
		Host:                    serverHost,
		Port:                    serverPort,
		LogLevel:                "debug",
		PrometheusMetricsHost:   "localhost",
		PrometheusMetricsPort:   "2113",
		RedisHost:               "localhost",
		RedisPort:               redisPort,
		PostgresPort:            postgresPort,
		PostgresHost:            "localhost",
		PostgresDBName:          postgresDBName,
		ExerciseSource:          config.ExerciseSourcePostgres,
		MuscleSearchCacheTTLSec: 60,
		MutationRateLimitPerMin: 1000,
		PlanIdleTimeoutMin:      60,
		SetsPerWeekMax:          20,
		SynergisticMultiplier:   0.5,
		StabilizingMultiplier:   0.33,
		TipsCsvPath:             "../assets/tips.csv",
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "moyb-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + postgresPass,
			"POSTGRES_DB=" + postgresDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/%s?sslmode=disable", postgresPass, pgPort, postgresDBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	// the container accepts connections a bit after it starts
	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	if _, err := db.Exec(initSQL); err != nil {
		return "", fmt.Errorf("run init script: %s", err)
	}

	return pgPort, nil
}

const initSQL = `
CREATE TABLE public.muscle
(
    id          INTEGER PRIMARY KEY,
    name        VARCHAR NOT NULL,
    name_latin  VARCHAR,
    description TEXT
);

CREATE TABLE public.exercise
(
    id                  VARCHAR PRIMARY KEY,
    name                VARCHAR NOT NULL,
    description         TEXT,
    equipment_required  VARCHAR,
    movement_type       VARCHAR,
    popularity          DOUBLE PRECISION,
    range_of_motion     DOUBLE PRECISION,
    injury_risk_factor  VARCHAR,
    joint_stress_factor VARCHAR,
    cns_fatigue_factor  VARCHAR,
    is_unilateral       BOOLEAN NOT NULL DEFAULT FALSE,
    is_high_spinal_load BOOLEAN NOT NULL DEFAULT FALSE,
    main_muscle         VARCHAR,
    image_url           VARCHAR
);

CREATE TABLE public.muscle_in_exercise
(
    id                          SERIAL PRIMARY KEY,
    exercise_id                 VARCHAR NOT NULL REFERENCES public.exercise (id) ON DELETE CASCADE,
    muscle_id                   INTEGER NOT NULL REFERENCES public.muscle (id),
    contraction_type            VARCHAR,
    fatigue_accumulation_factor VARCHAR,
    muscle_movement_category    VARCHAR NOT NULL
);

CREATE INDEX ix_exercise_main_muscle ON public.exercise (LOWER(main_muscle));
CREATE INDEX ix_muscle_in_exercise_exercise_id ON public.muscle_in_exercise (exercise_id);

INSERT INTO public.muscle (id, name, name_latin, description) VALUES
    (1, 'Abs', 'Rectus abdominis', NULL),
    (4, 'Front Delts', 'Deltoideus anterior', NULL),
    (7, 'Chest', 'Pectoralis major', 'Large fan-shaped muscle of the upper chest'),
    (16, 'Rear Delts', 'Deltoideus posterior', NULL),
    (21, 'Triceps', 'Triceps brachii', 'Back of the upper arm');

INSERT INTO public.exercise (id, name, equipment_required, movement_type, popularity, main_muscle) VALUES
    ('bench-press', 'Barbell Bench Press', 'Barbell, Bench', 'Compound', 9.5, 'Chest'),
    ('push-up', 'Push-up', 'Bodyweight', 'Compound', 8, 'Chest'),
    ('triceps-pushdown', 'Cable Triceps Pushdown', 'Cable', 'Isolation', NULL, 'Triceps');

INSERT INTO public.muscle_in_exercise (exercise_id, muscle_id, muscle_movement_category) VALUES
    ('bench-press', 7, 'primary'),
    ('bench-press', 21, 'synergistic'),
    ('bench-press', 4, 'synergistic'),
    ('bench-press', 1, 'stabilizing'),
    ('push-up', 7, 'primary'),
    ('push-up', 21, 'synergistic'),
    ('triceps-pushdown', 21, 'primary');
`
