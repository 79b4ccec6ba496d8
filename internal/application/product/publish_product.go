package product

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/product"
)

// PublishProductUseCase 商品上架用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 业务规则校验(SKU格式、价格范围、SKU重复)由领域服务负责
type PublishProductUseCase struct {
	productService product.Service
}

// NewPublishProductUseCase 创建上架用例
func NewPublishProductUseCase(productService product.Service) *PublishProductUseCase {
	return &PublishProductUseCase{
		productService: productService,
	}
}

// PublishProductRequest 上架请求DTO
type PublishProductRequest struct {
	SKU         string // 商品SKU
	Name        string // 商品名称
	Price       int64  // 价格(paise)
	Inventory   int    // 初始库存
	ImageURL    string // 商品图片URL
	Description string // 商品描述
	PublisherID uint   // 发布者用户ID(从认证中间件获取)
}

// PublishProductResponse 上架响应DTO
type PublishProductResponse struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // 价格(paise)
	Inventory   int    `json:"inventory"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	PublisherID uint   `json:"publisher_id"`
	CreatedAt   string `json:"created_at"`
}

// Execute 执行上架用例
func (uc *PublishProductUseCase) Execute(ctx context.Context, req PublishProductRequest) (*PublishProductResponse, error) {
	p, err := uc.productService.PublishProduct(
		ctx,
		req.SKU,
		req.Name,
		req.Price,
		req.Inventory,
		req.ImageURL,
		req.Description,
		req.PublisherID,
	)
	if err != nil {
		return nil, err
	}

	return &PublishProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Inventory:   p.Inventory,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		PublisherID: p.PublisherID,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
