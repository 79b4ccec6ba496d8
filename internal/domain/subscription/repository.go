package subscription

import (
	"context"
)

// PlanRepository 订阅套餐仓储接口
type PlanRepository interface {
	// Create 创建套餐
	Create(ctx context.Context, plan *Plan) error

	// FindByID 根据ID查找套餐
	FindByID(ctx context.Context, id uint) (*Plan, error)

	// List 查询套餐列表
	List(ctx context.Context, page, pageSize int) ([]*Plan, int64, error)
}

// Repository 用户订阅仓储接口
type Repository interface {
	// Create 创建订阅
	Create(ctx context.Context, sub *Subscription) error

	// FindByID 根据订阅号查找订阅
	FindByID(ctx context.Context, id string) (*Subscription, error)

	// Update 更新订阅(状态推进)
	Update(ctx context.Context, sub *Subscription) error

	// ListByUserID 查询用户的订阅列表
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Subscription, int64, error)
}
