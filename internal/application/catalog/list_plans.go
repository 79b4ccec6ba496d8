package catalog

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/subscription"
)

// ListPlansUseCase 订阅套餐列表查询用例
type ListPlansUseCase struct {
	plans subscription.PlanRepository
}

// NewListPlansUseCase 创建列表查询用例
func NewListPlansUseCase(plans subscription.PlanRepository) *ListPlansUseCase {
	return &ListPlansUseCase{plans: plans}
}

// ListPlansRequest 列表查询请求DTO
type ListPlansRequest struct {
	Page     int
	PageSize int
}

// PlanItem 套餐DTO
type PlanItem struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"` // 价格(paise)
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
}

// ListPlansResponse 列表查询响应DTO
type ListPlansResponse struct {
	List  []PlanItem `json:"list"`
	Total int64      `json:"total"`
}

// Execute 执行查询
func (uc *ListPlansUseCase) Execute(ctx context.Context, req ListPlansRequest) (*ListPlansResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	plans, total, err := uc.plans.List(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]PlanItem, len(plans))
	for i, p := range plans {
		list[i] = PlanItem{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			DurationDays: p.DurationDays,
			Description:  p.Description,
		}
	}

	return &ListPlansResponse{List: list, Total: total}, nil
}
