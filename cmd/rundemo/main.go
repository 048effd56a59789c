package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/config"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/dal"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/events"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/fixtures"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/persistence/memory"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/persistence/postgres"
)

const demoUsername = "demo_user"

func main() {
	cfg := config.Load()

	backend := flag.String("backend", cfg.StorageBackend, "storage backend: postgres or memory")
	migrate := flag.Bool("migrate", cfg.MigrateOnStart, "apply the schema before running (postgres only)")
	seed := flag.String("seed", "", `YAML seed file to load first, or "demo" for the built-in seed`)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher := identity.NewBcryptHasher(cfg.BcryptCost)

	var storage dal.Storage
	switch *backend {
	case config.BackendMemory:
		storage = memory.NewStore(memory.WithHasher(hasher))
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if *migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatalf("failed to migrate: %v", err)
			}
		}
		storage = postgres.NewStorage(pool, postgres.WithHasher(hasher))
	default:
		log.Fatalf("unknown backend %q", *backend)
	}

	opts := []dal.Option{}
	if cfg.PublishChanges() {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ChangesTopic)
		defer publisher.Close()
		opts = append(opts, dal.WithPublisher(publisher))
	}

	err := dal.Run(ctx, storage, func(d *dal.DataAccessLayer) error {
		if *seed != "" {
			if err := applySeed(ctx, d, *seed); err != nil {
				return err
			}
		}
		return runDemo(ctx, d)
	}, opts...)
	if err != nil {
		log.Fatalf("demo failed: %v", err)
	}
}

func applySeed(ctx context.Context, d *dal.DataAccessLayer, source string) error {
	var (
		s   *fixtures.Seed
		err error
	)
	if source == "demo" {
		s, err = fixtures.Demo()
	} else {
		s, err = fixtures.LoadFile(source)
	}
	if err != nil {
		return err
	}

	sum, err := fixtures.Apply(ctx, d, s)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Printf("seeded %d users, %d activities, %d points, %d comments, %d kudos, %d follows",
		sum.Users, sum.Activities, sum.Points, sum.Comments, sum.Kudos, sum.Follows)
	return nil
}

func runDemo(ctx context.Context, d *dal.DataAccessLayer) error {
	user, err := demoUser(ctx, d)
	if err != nil {
		return err
	}
	log.Printf("using user #%d %s", user.ID, user.Username)

	if err := ensureProfile(ctx, d, user.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	activity, _, err := d.Activities().Add(ctx, domain.CreateActivityInput{
		UserID:         user.ID,
		DurationSec:    3600,
		DistanceM:      10500,
		ElevationGainM: 120,
		Height:         150,
		StartTime:      &now,
		EndTime:        &now,
	})
	if err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	log.Printf("added activity #%d", activity.ID)

	all, err := d.Activities().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for _, a := range all {
		fmt.Printf("activity #%d user=%d distance=%.0fm duration=%.0fs\n", a.ID, a.UserID, a.DistanceM, a.DurationSec)
	}

	found, ok, err := d.Activities().GetByID(ctx, activity.ID)
	if err != nil {
		return fmt.Errorf("get activity: %w", err)
	}
	if !ok {
		return fmt.Errorf("activity #%d vanished", activity.ID)
	}
	fmt.Printf("looked up activity #%d: %.0fm in %.0fs\n", found.ID, found.DistanceM, found.DurationSec)
	return nil
}

func demoUser(ctx context.Context, d *dal.DataAccessLayer) (domain.User, error) {
	users, err := d.Users().GetAll(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Username == demoUsername {
			return u, nil
		}
	}

	user, _, err := d.Users().Add(ctx, domain.CreateUserInput{
		Username: demoUsername,
		Email:    "demo@example.com",
		Password: os.Getenv("DEMO_PASSWORD"),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create demo user: %w", err)
	}
	return user, nil
}

func ensureProfile(ctx context.Context, d *dal.DataAccessLayer, userID int64) error {
	profiles, err := d.Profiles().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	for _, p := range profiles {
		if p.UserID == userID {
			return nil
		}
	}

	age := 30
	_, _, err = d.Profiles().Add(ctx, domain.CreateProfileInput{
		UserID:      userID,
		DisplayName: "Demo User",
		City:        "Kyiv",
		Age:         &age,
	})
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
