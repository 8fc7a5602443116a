package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"intern-tracker/config"
	"intern-tracker/logging"
	"intern-tracker/repositories"
	"intern-tracker/services"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.InitLogger(logging.Options{SystemName: "seed-admin", Level: cfg.LogLevel})

	seed, err := config.LoadAdminSeed(cfg.AdminSeedFile)
	if err != nil {
		logging.Logger.Fatalf("Event ID: SEED_CONFIG_ERROR, Description: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := repositories.ConnectMongo(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	users := repositories.NewUserRepository(client.Database(cfg.MongoDBName).Collection(repositories.UsersCollection))
	if err := users.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	created, err := services.NewUserService(users, nil).SeedAdmin(ctx, seed.Email, seed.Password, seed.Name)
	if err != nil {
		logging.Logger.Fatalf("Event ID: SEED_FAILED, Description: %v", err)
	}
	if !created {
		logging.Logger.Infof("Event ID: SEED_SKIPPED, Description: Admin %s already exists", seed.Email)
		return
	}
	logging.Logger.Infof("Event ID: SEED_DONE, Description: Admin %s created", seed.Email)
}
