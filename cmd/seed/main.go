// Command seed fills the database with demo users and friendships.
package main

import (
	"context"
	"flag"
	"log"

	"usergraph/internal/cache"
	"usergraph/internal/config"
	"usergraph/internal/database"
	"usergraph/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of random users to create")
	friends := flag.Int("friends", 3, "Friend links attempted per random user")
	fixture := flag.String("fixture", "", "YAML fixture to load instead of random data (\"demo\" for the built-in graph)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	rdb := cache.InitRedis(cfg.RedisURL)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	s := seed.NewSeeder(db, rdb)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var res *seed.Result
	switch *fixture {
	case "":
		log.Printf("Target: %d users, %d friends each, clean=%v", *numUsers, *friends, *shouldClean)
		res, err = s.SeedRandom(ctx, seed.NewFactory(*randSeed), *numUsers, *friends)
	default:
		var fx *seed.Fixture
		if *fixture == "demo" {
			fx, err = seed.DemoFixture()
		} else {
			fx, err = seed.LoadFixtureFile(*fixture)
		}
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		res, err = s.ApplyFixture(ctx, fx)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d friendships", res.Users, res.Friendships)
}
