package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/controller"
	"github.com/BestDemain/EduAssistSys/internal/repository"
	"github.com/BestDemain/EduAssistSys/internal/service"
	"github.com/BestDemain/EduAssistSys/pkg/configwatcher"
	"github.com/BestDemain/EduAssistSys/pkg/database"
	"github.com/BestDemain/EduAssistSys/pkg/logger"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
	"github.com/BestDemain/EduAssistSys/pkg/security"
	"github.com/BestDemain/EduAssistSys/pkg/tracing"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	submission *repository.SubmissionRepository
	item       *repository.ItemRepository
	student    *repository.StudentRepository
}

type services struct {
	data       *service.DataService
	analysis   *service.AnalysisService
	behavior   *service.BehaviorService
	difficulty *service.DifficultyService
	curve      *service.CurveService
	trend      *service.TrendService
	importSvc  *service.ImportService
	auth       *service.AuthService
}

type controllers struct {
	analysis *controller.AnalysisController
	data     *controller.DataController
	dataset  *controller.DatasetController
	auth     *controller.AuthController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		submission: repository.NewSubmissionRepository(db),
		item:       repository.NewItemRepository(db),
		student:    repository.NewStudentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.data = service.NewDataService(repos.submission, repos.item, repos.student, rdb, cfg)
	s.analysis = service.NewAnalysisService(s.data, cfg)
	s.behavior = service.NewBehaviorService(s.data, cfg)
	s.difficulty = service.NewDifficultyService(s.data, cfg)
	s.curve = service.NewCurveService(s.data, cfg)
	s.trend = service.NewTrendService(s.data, s.curve, cfg)
	s.importSvc = service.NewImportService(repos.submission, repos.item, repos.student, s.data, cfg, logger.Log)
	s.auth = service.NewAuthService(cfg)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		analysis: controller.NewAnalysisController(s.analysis, s.behavior, s.difficulty, s.curve, s.trend, s.data),
		data:     controller.NewDataController(repos.submission, repos.item, repos.student),
		dataset:  controller.NewDatasetController(s.importSvc),
		auth:     controller.NewAuthController(s.auth),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 热更新分析阈值：配置文件变更后替换阈值段并使缓存失效，
// 已构建的快照不受影响。
func (a *App) watchConfig(configPath string) {
	go configwatcher.WatchConfig(configPath, func(cfg *config.Config) {
		a.Config.Analysis = cfg.Analysis
		a.services.data.Invalidate(context.Background())
		logger.Log.Info("分析阈值已热更新",
			zap.String("mastery_source", cfg.Analysis.MasterySource),
			zap.Float64("difficulty_low", cfg.Analysis.Difficulty.Low),
			zap.Float64("difficulty_high", cfg.Analysis.Difficulty.High))
	})
}

// warmup 在后台预构建分析快照，让首个分析请求不用等待全量加载。
func (a *App) warmup() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := a.services.data.Snapshot(ctx); err != nil {
			logger.Log.Warn("快照预热失败，等待数据导入", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config, configPath string) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("edu-assist-sys", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if configPath != "" {
		app.watchConfig(configPath)
	}
	app.warmup()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
