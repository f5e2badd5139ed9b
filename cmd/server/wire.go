// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"estatehub_backend/internal/app"
	"estatehub_backend/internal/assistant"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/favorite"
	"estatehub_backend/internal/filestorage"
	"estatehub_backend/internal/firebase"
	"estatehub_backend/internal/jobs"
	"estatehub_backend/internal/notification"
	"estatehub_backend/internal/platform/database"
	platformes "estatehub_backend/internal/platform/elasticsearch"
	"estatehub_backend/internal/platform/logger"
	"estatehub_backend/internal/property"
	"estatehub_backend/internal/property/esutil"
	"estatehub_backend/internal/request"
	"estatehub_backend/internal/setting"
	"estatehub_backend/internal/shared"
	"estatehub_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		platformes.NewClient,
		filestorage.NewFileStorageService,
		filestorage.NewHandler,

		// Firebase Service
		firebase.NewFirebaseService,

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Properties
		property.NewGORMRepository,
		property.NewAssignmentResolver,
		esutil.NewIndexer,
		wire.Bind(new(property.SearchIndexer), new(*esutil.Indexer)),
		property.NewService,
		property.NewHandler,

		// Purchase Requests
		request.NewGORMRepository,
		request.NewService,
		request.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,

		// Favorites
		favorite.NewGORMRepository,
		favorite.NewMembershipCache,
		providePropertyProvider,
		favorite.NewService,
		favorite.NewHandler,

		// Settings
		setting.NewGORMRepository,
		setting.NewService,
		setting.NewHandler,

		// Assistant
		assistant.NewService,
		assistant.NewHandler,

		// Jobs
		jobs.NewNotificationCleanupJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

// providePropertyProvider narrows the property repository to the
// read-only surface the favorites module needs.
func providePropertyProvider(repo property.Repository) favorite.PropertyProvider {
	return repo
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
