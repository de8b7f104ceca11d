package util

import (
	"errors"
	"net/http"

	"github.com/BestDemain/EduAssistSys/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// RespondAnalysisError 把引擎的错误分类映射到响应状态码：
// 空数据/找不到学生 -> 404，参数不支持 -> 400，其余 -> 500。
func RespondAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoSubmissionData),
		errors.Is(err, ErrNoQuestionData),
		errors.Is(err, ErrNoStudentData),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrDatasetNotLoaded):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnsupportedGranularity),
		errors.Is(err, ErrUnsupportedDimension):
		Error(c, http.StatusBadRequest, err.Error())
	default:
		LogInternalError(c, err)
	}
}
