package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"intern-tracker/config"
	"intern-tracker/handlers"
	"intern-tracker/logging"
	"intern-tracker/repositories"
	"intern-tracker/services"
	"intern-tracker/utils"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{SystemName: "intern-tracker", File: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting intern tracker...")

	if err := cfg.Validate(); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	ctx := context.Background()
	client, err := repositories.ConnectMongo(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	taskRepo := repositories.NewTaskRepository(db.Collection(repositories.TasksCollection))
	userRepo := repositories.NewUserRepository(db.Collection(repositories.UsersCollection))
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	var (
		notificationStore services.NotificationStore
		notificationRepo  *repositories.NotificationRepo
	)
	if cfg.CassandraHost != "" {
		notificationRepo, err = repositories.NewNotificationRepo(cfg.CassandraHost, logging.Logger)
		if err != nil {
			logging.Logger.Errorf("Event ID: CASSANDRA_UNAVAILABLE, Description: Running without notifications: %v", err)
		} else {
			notificationStore = notificationRepo
		}
	} else {
		logging.Logger.Info("Event ID: NOTIFICATIONS_DISABLED, Description: CASS_DB not set, notifications are disabled")
	}

	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	notificationService := services.NewNotificationService(notificationStore, services.NewNotificationBreaker())
	taskService := services.NewTaskService(taskRepo, userRepo, notificationService)
	userService := services.NewUserService(userRepo, jwtManager)

	router := handlers.Router{
		Tasks:         handlers.NewTaskHandler(taskService),
		Users:         handlers.NewUserHandler(userService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Tokens:        jwtManager,
		CORSOrigin:    cfg.CORSOrigin,
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Graceful shutdown initiated...")
				return server.Shutdown(ctx)
			},
			"mongo": func(ctx context.Context) error {
				return client.Disconnect(ctx)
			},
			"cassandra": func(ctx context.Context) error {
				if notificationRepo != nil {
					notificationRepo.Close()
				}
				return nil
			},
		},
	)

	exitCode := <-wait
	logging.Logger.Infof("Event ID: SERVICE_STOP, Description: Exited with code %d", exitCode)
	os.Exit(exitCode)
}
