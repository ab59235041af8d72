package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-admin/clients"
	"catalog-admin/config"
	"catalog-admin/controllers"
	apperrors "catalog-admin/errors"
	"catalog-admin/logger"
	"catalog-admin/middleware"
	"catalog-admin/notify"
	awspkg "catalog-admin/pkg/aws"
	"catalog-admin/routes"
	"catalog-admin/screens"
	"catalog-admin/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "catalog-admin"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- 1. AWS (secrets, notifications, exports, metrics) ---
	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)
	if awsErr != nil {
		zap.L().Warn("AWS config unavailable, AWS features disabled", zap.Error(awsErr))
	}
	awsReady := awsErr == nil

	if cfg.UseSecrets && awsReady {
		cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg))
	}

	deps := controllers.Deps{ImportMaxBytes: cfg.ImportMaxBytes}

	if cfg.NotifyTopicArn != "" && awsReady {
		deps.Notifier = notify.NewSNSNotifier(awspkg.NewSNSClient(awsCfg), cfg.NotifyTopicArn, serviceName)
		zap.L().Info("Notices published to SNS", zap.String("topic", cfg.NotifyTopicArn))
	}
	if cfg.ExportBucket != "" && awsReady {
		deps.Exports = awspkg.NewExportStore(awspkg.NewS3Client(awsCfg), cfg.ExportBucket, cfg.ExportPrefix, cfg.ExportURLExpiry)
		zap.L().Info("Exports stored in S3", zap.String("bucket", cfg.ExportBucket))
	}
	deps.Metrics = newMetrics(cfg, awsCfg, awsReady)

	// --- 2. Backend and Redis ---
	gql := clients.NewGraphQLClient(cfg.GraphQLURL, cfg.GraphQLToken, cfg.RequestTimeout)
	deps.Client = gql

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		zap.L().Info("Connected to Redis")
	} else {
		zap.L().Warn("REDIS_URL not set: common codes are not cached and async imports are disabled")
	}
	deps.Codes = services.NewCodeService(gql, rdb, cfg.CodeCacheTTL)

	registry, err := screens.NewCatalogRegistry()
	if err != nil {
		zap.L().Fatal("Failed to build screen registry", zap.Error(err))
	}
	deps.Registry = registry

	var jobs *services.ImportJobs
	if rdb != nil {
		jobs = services.NewImportJobs(rdb)
		deps.Jobs = jobs
	}
	controller := controllers.NewScreenController(deps)
	if jobs != nil {
		jobs.StartWorker(ctx, controller.ProcessImportJob)
	}

	// --- 3. HTTP ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.MetricsMiddleware(deps.Metrics, serviceName))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, controller)

	// --- 4. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog admin starting", zap.String("port", cfg.Port), zap.String("graphql", cfg.GraphQLURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down catalog admin...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}

	zap.L().Info("Catalog admin stopped")
}

func newMetrics(cfg *config.Config, awsCfg sdkaws.Config, awsReady bool) *awspkg.MetricsClient {
	if !cfg.CloudWatchEnabled || !awsReady {
		return nil
	}
	zap.L().Info("CloudWatch metrics enabled", zap.String("namespace", cfg.CloudWatchNamespace))
	return awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, true)
}
