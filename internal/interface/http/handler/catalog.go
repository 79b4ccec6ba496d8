package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/cleardrip/cleardrip/internal/application/catalog"
	"github.com/cleardrip/cleardrip/pkg/response"
)

// CatalogHandler 服务与套餐目录处理器
// 公开查询接口,前端下单页据此渲染可选的服务与订阅套餐
type CatalogHandler struct {
	listServicesUseCase *appcatalog.ListServicesUseCase
	listPlansUseCase    *appcatalog.ListPlansUseCase
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(
	listServicesUseCase *appcatalog.ListServicesUseCase,
	listPlansUseCase *appcatalog.ListPlansUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		listServicesUseCase: listServicesUseCase,
		listPlansUseCase:    listPlansUseCase,
	}
}

// ListServices 服务项目列表
// @Summary      服务项目列表
// @Description  查询可预订的上门服务(公开接口)
// @Tags         目录
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=appcatalog.ListServicesResponse} "查询成功"
// @Router       /api/v1/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var req struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listServicesUseCase.Execute(c.Request.Context(), appcatalog.ListServicesRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListPlans 订阅套餐列表
// @Summary      订阅套餐列表
// @Description  查询可购买的订阅套餐(公开接口)
// @Tags         目录
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=appcatalog.ListPlansResponse} "查询成功"
// @Router       /api/v1/plans [get]
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	var req struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listPlansUseCase.Execute(c.Request.Context(), appcatalog.ListPlansRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
