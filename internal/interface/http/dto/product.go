package dto

import (
	"github.com/cleardrip/cleardrip/pkg/money"
)

// PublishProductRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type PublishProductRequest struct {
	SKU         string `json:"sku" binding:"required,min=3,max=64" example:"CD-FILTER-001"`
	Name        string `json:"name" binding:"required,max=200" example:"RO反渗透滤芯"`
	Price       int64  `json:"price" binding:"required,min=1,max=99999999" example:"49900"` // 价格(paise),₹499.00
	Inventory   int    `json:"inventory" binding:"min=0" example:"100"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/filter.jpg"`
	Description string `json:"description" binding:"max=5000" example:"适配ClearDrip全系净水器"`
}

// ProductResponse HTTP商品响应
type ProductResponse struct {
	ID          uint   `json:"id" example:"1"`
	SKU         string `json:"sku" example:"CD-FILTER-001"`
	Name        string `json:"name" example:"RO反渗透滤芯"`
	Price       int64  `json:"price" example:"49900"`          // 价格(paise)
	PriceRupees string `json:"price_rupees" example:"₹499.00"` // 价格(卢比),方便前端显示
	Inventory   int    `json:"inventory" example:"100"`
	ImageURL    string `json:"image_url" example:"https://example.com/filter.jpg"`
	Description string `json:"description" example:"适配ClearDrip全系净水器"`
	PublisherID uint   `json:"publisher_id" example:"1"`
	CreatedAt   string `json:"created_at" example:"2026-01-15 10:30:00"`
}

// ProductListItem HTTP商品列表项
// 列表查询时不返回Description字段(减少数据传输量)
type ProductListItem struct {
	ID          uint   `json:"id" example:"1"`
	SKU         string `json:"sku" example:"CD-FILTER-001"`
	Name        string `json:"name" example:"RO反渗透滤芯"`
	Price       int64  `json:"price" example:"49900"`
	PriceRupees string `json:"price_rupees" example:"₹499.00"`
	Inventory   int    `json:"inventory" example:"100"`
	ImageURL    string `json:"image_url" example:"https://example.com/filter.jpg"`
	CreatedAt   string `json:"created_at" example:"2026-01-15 10:30:00"`
}

// ListProductsRequest HTTP商品列表请求
type ListProductsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"滤芯"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// ListProductsResponse HTTP商品列表响应
type ListProductsResponse struct {
	List  []ProductListItem `json:"list"`
	Total int64             `json:"total" example:"100"`
	Page  int               `json:"page" example:"1"`
	Size  int               `json:"size" example:"20"`
}

// FormatPriceRupees 格式化价格(paise→卢比字符串)
// 例如:49900 paise → "₹499.00"
func FormatPriceRupees(paise int64) string {
	return money.FormatPaise(paise)
}
