package payment

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
)

// ListOrdersUseCase 查询用户订单列表用例
type ListOrdersUseCase struct {
	orders payment.OrderRepository
}

// NewListOrdersUseCase 创建用例实例
func NewListOrdersUseCase(orders payment.OrderRepository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

// Execute 执行查询
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 10
	}

	orders, total, err := uc.orders.ListByUserID(ctx, req.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	dtos := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = toOrderDTO(o)
	}

	return &ListOrdersResponse{
		Orders:   dtos,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Orders   []*OrderDTO `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
