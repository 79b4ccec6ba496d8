package product

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/product"
)

// ListProductsUseCase 商品列表查询用例
// 设计说明:
// 1. 支持分页、搜索、排序
// 2. 列表查询不返回description字段(减少数据传输量)
type ListProductsUseCase struct {
	productService product.Service
}

// NewListProductsUseCase 创建列表查询用例
func NewListProductsUseCase(productService product.Service) *ListProductsUseCase {
	return &ListProductsUseCase{
		productService: productService,
	}
}

// ListProductsRequest 列表查询请求DTO
type ListProductsRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索名称、描述)
	SortBy   string // 排序方式(price_asc, price_desc, created_at_desc)
}

// ProductListItem 列表项DTO(不含description)
type ProductListItem struct {
	ID        uint   `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 价格(paise)
	Inventory int    `json:"inventory"`
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}

// ListProductsResponse 列表查询响应DTO
type ListProductsResponse struct {
	List       []ProductListItem `json:"list"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListProductsUseCase) Execute(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	// 2. 查询
	products, total, err := uc.productService.ListProducts(ctx, product.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]ProductListItem, len(products))
	for i, p := range products {
		list[i] = ProductListItem{
			ID:        p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.Price,
			Inventory: p.Inventory,
			ImageURL:  p.ImageURL,
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	// 4. 计算总页数
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListProductsResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
