package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BestDemain/EduAssistSys/internal/repository"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

// DataController 暴露原始数据查询接口，供前端表格与钻取使用。
type DataController struct {
	Submissions *repository.SubmissionRepository
	Items       *repository.ItemRepository
	Students    *repository.StudentRepository
}

func NewDataController(
	submissions *repository.SubmissionRepository,
	items *repository.ItemRepository,
	students *repository.StudentRepository,
) *DataController {
	return &DataController{Submissions: submissions, Items: items, Students: students}
}

// @Summary 学生列表
// @Tags 数据
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/students [get]
func (c *DataController) ListStudents(ctx *gin.Context) {
	students, err := c.Students.FindAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"total": len(students), "students": students})
}

// @Summary 题目列表
// @Tags 数据
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *DataController) ListQuestions(ctx *gin.Context) {
	items, err := c.Items.FindAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"total": len(items), "questions": items})
}

// @Summary 提交记录查询
// @Description 支持按班级和学生过滤，分页返回
// @Tags 数据
// @Produce json
// @Param class query string false "班级标识"
// @Param student_id query string false "学生ID"
// @Param limit query int false "每页条数" default(100)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response
// @Router /api/submissions [get]
func (c *DataController) ListSubmissions(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 10000 {
		util.BadRequest(ctx, "limit 参数无效")
		return
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		util.BadRequest(ctx, "offset 参数无效")
		return
	}

	records, total, err := c.Submissions.Find(ctx.Query("class"), ctx.Query("student_id"), limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"total":       total,
		"limit":       limit,
		"offset":      offset,
		"submissions": records,
	})
}
