package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/BestDemain/EduAssistSys/docs"
	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/middleware"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)

		// 原始数据查询
		public.GET("/students", c.data.ListStudents)
		public.GET("/questions", c.data.ListQuestions)
		public.GET("/submissions", c.data.ListSubmissions)

		// 分析接口
		public.GET("/analysis/knowledge", c.analysis.KnowledgeMastery)
		public.GET("/analysis/behavior", c.analysis.LearningBehavior)
		public.GET("/analysis/difficulty", c.analysis.QuestionDifficulty)
		public.GET("/analysis/curve", c.analysis.PracticeCurve)
		public.GET("/analysis/trend", c.analysis.MasteryTrend)
		public.GET("/knowledge/structure", c.analysis.KnowledgeStructure)
	}

	// 管理接口：数据集导入会整体替换数据库，需要登录
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(cfg))
	{
		admin.POST("/dataset/import", c.dataset.ImportDataset)
	}
}
