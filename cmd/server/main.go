// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"

	"estatehub_backend/internal/config"
	"estatehub_backend/internal/platform/database"
	platformes "estatehub_backend/internal/platform/elasticsearch"
	"estatehub_backend/internal/platform/logger"
	"estatehub_backend/internal/property"
	"estatehub_backend/internal/property/esutil"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncCmd := flag.NewFlagSet("sync-properties", flag.ExitOnError)
	batchSize := syncCmd.Int("batch-size", 100, "Batch size for syncing properties")
	esRefresh := syncCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-properties" {
		syncCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		esClient, err := platformes.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if !esClient.Enabled() {
			appLogger.Fatal("FATAL: Elasticsearch is not configured, ensure ELASTICSEARCH_URL is set before syncing.")
		}

		if err := platformes.CreatePropertiesIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		propertyRepo := property.NewGORMRepository(db)

		if err := runPropertySync(propertyRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Property synchronization failed", zap.Error(err))
		}
		appLogger.Info("Property synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient.Enabled() {
		if err := platformes.CreatePropertiesIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch properties index. Search will degrade to SQL until it exists.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runPropertySync pushes every publicly visible property into the
// Elasticsearch index using the Bulk API. Pending properties are never
// indexed, so fetching the public set is enough.
func runPropertySync(
	propertyRepo property.Repository,
	esClient *platformes.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting property synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	properties, err := propertyRepo.FindAllPublic(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch public properties: %w", err)
	}
	if len(properties) == 0 {
		logger.Info("No properties to sync.")
		return nil
	}

	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for start := 0; start < len(properties); start += batchSize {
		end := start + batchSize
		if end > len(properties) {
			end = len(properties)
		}
		batch := properties[start:end]

		var bulkRequestBody strings.Builder
		batchIDs := make([]string, 0, len(batch))

		for i := range batch {
			p := &batch[i]
			docJSON, errDoc := esutil.PropertyToElasticsearchDoc(p)
			if errDoc != nil {
				logger.Error("Failed to convert property to Elasticsearch document",
					zap.String("propertyID", p.ID.String()),
					zap.Error(errDoc),
				)
				totalFailed++
				continue
			}
			batchIDs = append(batchIDs, p.ID.String())

			action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`, platformes.PropertiesIndexName, p.ID.String(), "\n")
			bulkRequestBody.WriteString(action)
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
		}

		if bulkRequestBody.Len() == 0 {
			logger.Warn("No documents to index in current batch due to conversion errors.", zap.Int("batchNumber", batchNumber))
			batchNumber++
			continue
		}

		logger.Info("Sending bulk request to Elasticsearch",
			zap.Int("batchNumber", batchNumber),
			zap.Int("documentCount", len(batchIDs)),
		)

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkRequestBody.String()),
			Refresh: esRefresh,
		}
		res, errBulk := req.Do(context.Background(), esClient.Client)
		if errBulk != nil {
			logger.Error("Failed to send bulk request to Elasticsearch", zap.Error(errBulk), zap.Int("batchNumber", batchNumber))
			totalFailed += len(batchIDs)
			batchNumber++
			continue
		}

		batchSynced, batchFailed := parseBulkResponse(res, batchIDs, logger, batchNumber)
		res.Body.Close()

		totalSynced += batchSynced
		totalFailed += batchFailed
		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("syncedInBatch", batchSynced),
			zap.Int("failedInBatch", batchFailed),
		)
		batchNumber++
	}

	logger.Info("Property synchronization process finished.",
		zap.Int("totalPropertiesSyncedSuccessfully", totalSynced),
		zap.Int("totalPropertiesFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d properties failed to sync", totalFailed)
	}
	return nil
}

// parseBulkResponse counts item-level successes and failures. A bulk
// request can succeed overall while individual documents fail.
func parseBulkResponse(res *esapi.Response, batchIDs []string, logger *zap.Logger, batchNumber int) (synced, failed int) {
	if res.IsError() {
		logger.Error("Elasticsearch bulk request returned an error",
			zap.String("status", res.Status()),
			zap.Int("batchNumber", batchNumber),
		)
		return 0, len(batchIDs)
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, len(batchIDs)
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index document in bulk batch",
				zap.String("propertyID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}
