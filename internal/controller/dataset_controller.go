package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/BestDemain/EduAssistSys/internal/service"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

// DatasetController 负责数据集的全量导入。
type DatasetController struct {
	Import *service.ImportService
}

func NewDatasetController(importSvc *service.ImportService) *DatasetController {
	return &DatasetController{Import: importSvc}
}

// @Summary 导入数据集
// @Description 从配置的数据来源读取 CSV 并替换数据库内容，随后分析缓存失效
// @Tags 数据集
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/dataset/import [post]
func (c *DatasetController) ImportDataset(ctx *gin.Context) {
	summary, err := c.Import.ImportDataset(ctx.Request.Context())
	if err != nil {
		util.RespondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
