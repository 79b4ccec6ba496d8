package catalog

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/booking"
)

// ListServicesUseCase 服务项目列表查询用例
// 公开接口,前端下单页据此渲染可预订的上门服务
type ListServicesUseCase struct {
	services booking.ServiceRepository
}

// NewListServicesUseCase 创建列表查询用例
func NewListServicesUseCase(services booking.ServiceRepository) *ListServicesUseCase {
	return &ListServicesUseCase{services: services}
}

// ListServicesRequest 列表查询请求DTO
type ListServicesRequest struct {
	Page     int
	PageSize int
}

// ServiceItem 服务项目DTO
type ServiceItem struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // 价格(paise)
	Description string `json:"description"`
}

// ListServicesResponse 列表查询响应DTO
type ListServicesResponse struct {
	List  []ServiceItem `json:"list"`
	Total int64         `json:"total"`
}

// Execute 执行查询
func (uc *ListServicesUseCase) Execute(ctx context.Context, req ListServicesRequest) (*ListServicesResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	services, total, err := uc.services.List(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]ServiceItem, len(services))
	for i, s := range services {
		list[i] = ServiceItem{
			ID:          s.ID,
			Name:        s.Name,
			Price:       s.Price,
			Description: s.Description,
		}
	}

	return &ListServicesResponse{List: list, Total: total}, nil
}
