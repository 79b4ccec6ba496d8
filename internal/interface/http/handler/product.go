package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/cleardrip/cleardrip/internal/application/product"
	"github.com/cleardrip/cleardrip/internal/interface/http/dto"
	"github.com/cleardrip/cleardrip/internal/interface/http/middleware"
	"github.com/cleardrip/cleardrip/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	publishUseCase *appproduct.PublishProductUseCase
	listUseCase    *appproduct.ListProductsUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	publishUseCase *appproduct.PublishProductUseCase,
	listUseCase *appproduct.ListProductsUseCase,
) *ProductHandler {
	return &ProductHandler{
		publishUseCase: publishUseCase,
		listUseCase:    listUseCase,
	}
}

// PublishProduct 上架商品
// @Summary      上架商品
// @Description  发布新商品(需要登录)
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishProductRequest true "商品信息"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "上架成功"
// @Failure      400 {object} response.Response "参数错误(SKU格式/价格范围)"
// @Failure      401 {object} response.Response "未登录"
// @Failure      409 {object} response.Response "SKU已存在"
// @Router       /api/v1/products [post]
func (h *ProductHandler) PublishProduct(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PublishProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前登录用户ID(发布者)
	userID := middleware.MustGetUserID(c)

	// 3. 调用应用层用例
	result, err := h.publishUseCase.Execute(c.Request.Context(), appproduct.PublishProductRequest{
		SKU:         req.SKU,
		Name:        req.Name,
		Price:       req.Price,
		Inventory:   req.Inventory,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		PublisherID: userID,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 4. 构建HTTP响应
	response.Success(c, &dto.ProductResponse{
		ID:          result.ID,
		SKU:         result.SKU,
		Name:        result.Name,
		Price:       result.Price,
		PriceRupees: dto.FormatPriceRupees(result.Price),
		Inventory:   result.Inventory,
		ImageURL:    result.ImageURL,
		Description: result.Description,
		PublisherID: result.PublisherID,
		CreatedAt:   result.CreatedAt,
	})
}

// ListProducts 商品列表
// @Summary      商品列表
// @Description  分页查询商品(公开接口,支持搜索与排序)
// @Tags         商品
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Param        keyword query string false "搜索关键词(名称、描述)"
// @Param        sort_by query string false "排序(price_asc/price_desc/created_at_desc)"
// @Success      200 {object} response.Response{data=dto.ListProductsResponse} "查询成功"
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appproduct.ListProductsRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.ProductListItem, len(result.List))
	for i, p := range result.List {
		list[i] = dto.ProductListItem{
			ID:          p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			Price:       p.Price,
			PriceRupees: dto.FormatPriceRupees(p.Price),
			Inventory:   p.Inventory,
			ImageURL:    p.ImageURL,
			CreatedAt:   p.CreatedAt,
		}
	}

	response.Success(c, &dto.ListProductsResponse{
		List:  list,
		Total: result.Total,
		Page:  result.Page,
		Size:  result.PageSize,
	})
}
