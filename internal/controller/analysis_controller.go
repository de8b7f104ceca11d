package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/service"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

// AnalysisController 聚合四类分析接口与知识结构查询。
type AnalysisController struct {
	Analysis   *service.AnalysisService
	Behavior   *service.BehaviorService
	Difficulty *service.DifficultyService
	Curve      *service.CurveService
	Trend      *service.TrendService
	Data       *service.DataService
}

func NewAnalysisController(
	analysis *service.AnalysisService,
	behavior *service.BehaviorService,
	difficulty *service.DifficultyService,
	curve *service.CurveService,
	trend *service.TrendService,
	data *service.DataService,
) *AnalysisController {
	return &AnalysisController{
		Analysis:   analysis,
		Behavior:   behavior,
		Difficulty: difficulty,
		Curve:      curve,
		Trend:      trend,
		Data:       data,
	}
}

// @Summary 知识点掌握程度分析
// @Description 按知识点/从属知识点两级层次统计掌握程度，并标记薄弱环节
// @Tags 分析
// @Produce json
// @Param student_id query string false "学生ID，缺省分析全体"
// @Success 200 {object} util.Response
// @Router /api/analysis/knowledge [get]
func (c *AnalysisController) KnowledgeMastery(ctx *gin.Context) {
	result, err := c.Analysis.AnalyzeKnowledgeMastery(ctx.Request.Context(), ctx.Query("student_id"))
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 学习行为模式分析
// @Description 统计答题时段分布、状态分布、方法偏好及相对表现
// @Tags 分析
// @Produce json
// @Param student_id query string false "学生ID，缺省分析全体"
// @Success 200 {object} util.Response
// @Router /api/analysis/behavior [get]
func (c *AnalysisController) LearningBehavior(ctx *gin.Context) {
	result, err := c.Behavior.AnalyzeLearningBehavior(ctx.Request.Context(), ctx.Query("student_id"))
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 题目难度合理性分析
// @Description 找出正确率低但群体知识掌握度高的疑似不合理题目
// @Tags 分析
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/analysis/difficulty [get]
func (c *AnalysisController) QuestionDifficulty(ctx *gin.Context) {
	result, err := c.Difficulty.AnalyzeQuestionDifficulty(ctx.Request.Context())
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 平均练习曲线
// @Description 按练习序号对齐全体学生，输出掌握度/用时/内存三条平均曲线
// @Tags 分析
// @Produce json
// @Param student_id query string false "学生ID，缺省基于全体"
// @Param group_by query string false "分组维度 title_ID/sub_knowledge/knowledge" default(knowledge)
// @Success 200 {object} util.Response
// @Router /api/analysis/curve [get]
func (c *AnalysisController) PracticeCurve(ctx *gin.Context) {
	dim, ok := model.ParseDimension(ctx.Query("group_by"))
	if !ok {
		util.RespondAnalysisError(ctx, util.ErrUnsupportedDimension)
		return
	}

	result, err := c.Curve.AnalyzeAvgPracticeCurve(ctx.Request.Context(), ctx.Query("student_id"), dim)
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 掌握度时间趋势分析
// @Description 按时间粒度切窗口，结合练习曲线基线输出带标签的趋势时间线
// @Tags 分析
// @Produce json
// @Param student_id query string false "学生ID，缺省分析全体"
// @Param granularity query string false "时间粒度 day/week/month/submission" default(day)
// @Param group_by query string false "分组维度 title_ID/sub_knowledge/knowledge" default(knowledge)
// @Success 200 {object} util.Response
// @Router /api/analysis/trend [get]
func (c *AnalysisController) MasteryTrend(ctx *gin.Context) {
	gran, ok := model.ParseGranularity(ctx.Query("granularity"))
	if !ok {
		util.RespondAnalysisError(ctx, util.ErrUnsupportedGranularity)
		return
	}
	dim, ok := model.ParseDimension(ctx.Query("group_by"))
	if !ok {
		util.RespondAnalysisError(ctx, util.ErrUnsupportedDimension)
		return
	}

	result, err := c.Trend.AnalyzeMasteryTrend(ctx.Request.Context(), ctx.Query("student_id"), gran, dim)
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 知识点层级结构
// @Description 返回知识点到从属知识点的两级结构
// @Tags 分析
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/knowledge/structure [get]
func (c *AnalysisController) KnowledgeStructure(ctx *gin.Context) {
	snap, err := c.Data.Snapshot(ctx.Request.Context())
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, snap.KnowledgeStructure())
}
