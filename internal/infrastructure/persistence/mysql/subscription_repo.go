package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cleardrip/cleardrip/internal/domain/subscription"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// planRepository 订阅套餐仓储实现(MySQL)
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建订阅套餐仓储
func NewPlanRepository(db *gorm.DB) subscription.PlanRepository {
	return &planRepository{db: db}
}

// Create 创建套餐
func (r *planRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	model := &PlanModel{
		Name:         plan.Name,
		Price:        plan.Price,
		DurationDays: plan.DurationDays,
		Description:  plan.Description,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订阅套餐失败")
	}

	plan.ID = model.ID
	plan.CreatedAt = model.CreatedAt
	plan.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找套餐
func (r *planRepository) FindByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model PlanModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(err, "查询订阅套餐失败")
	}

	return toPlanEntity(&model), nil
}

// List 查询套餐列表
func (r *planRepository) List(ctx context.Context, page, pageSize int) ([]*subscription.Plan, int64, error) {
	var models []PlanModel
	var total int64

	query := r.db.WithContext(ctx).Model(&PlanModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询套餐总数失败")
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id ASC").Limit(pageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询套餐列表失败")
	}

	plans := make([]*subscription.Plan, len(models))
	for i, model := range models {
		plans[i] = toPlanEntity(&model)
	}
	return plans, total, nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *planRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// toPlanEntity GORM模型 → 领域实体
func toPlanEntity(model *PlanModel) *subscription.Plan {
	return &subscription.Plan{
		ID:           model.ID,
		Name:         model.Name,
		Price:        model.Price,
		DurationDays: model.DurationDays,
		Description:  model.Description,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// subscriptionRepository 用户订阅仓储实现(MySQL)
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建用户订阅仓储
func NewSubscriptionRepository(db *gorm.DB) subscription.Repository {
	return &subscriptionRepository{db: db}
}

// Create 创建订阅
func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := toSubscriptionModel(sub)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订阅失败")
	}

	sub.CreatedAt = model.CreatedAt
	sub.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据订阅号查找订阅
func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	var model SubscriptionModel
	db := r.getDB(ctx)
	err := db.Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "查询订阅失败")
	}

	return toSubscriptionEntity(&model), nil
}

// Update 更新订阅
func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	db := r.getDB(ctx)

	updates := map[string]interface{}{
		"status":     string(sub.Status),
		"updated_at": sub.UpdatedAt,
	}
	// StartsAt/EndsAt仅在支付确认时定格,零值不覆盖
	if !sub.StartsAt.IsZero() {
		updates["starts_at"] = sub.StartsAt
		updates["ends_at"] = sub.EndsAt
	}

	result := db.Model(&SubscriptionModel{}).Where("id = ?", sub.ID).Updates(updates)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订阅失败")
	}

	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}

	return nil
}

// ListByUserID 查询用户的订阅列表
func (r *subscriptionRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*subscription.Subscription, int64, error) {
	var models []SubscriptionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&SubscriptionModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订阅总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订阅列表失败")
	}

	subs := make([]*subscription.Subscription, len(models))
	for i, model := range models {
		subs[i] = toSubscriptionEntity(&model)
	}
	return subs, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toSubscriptionModel 领域实体 → GORM模型
func toSubscriptionModel(sub *subscription.Subscription) *SubscriptionModel {
	model := &SubscriptionModel{
		ID:        sub.ID,
		PlanID:    sub.PlanID,
		UserID:    sub.UserID,
		Status:    string(sub.Status),
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
	if !sub.StartsAt.IsZero() {
		startsAt := sub.StartsAt
		endsAt := sub.EndsAt
		model.StartsAt = &startsAt
		model.EndsAt = &endsAt
	}
	return model
}

// toSubscriptionEntity GORM模型 → 领域实体
func toSubscriptionEntity(model *SubscriptionModel) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:        model.ID,
		PlanID:    model.PlanID,
		UserID:    model.UserID,
		Status:    subscription.SubscriptionStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.StartsAt != nil {
		sub.StartsAt = *model.StartsAt
	}
	if model.EndsAt != nil {
		sub.EndsAt = *model.EndsAt
	}
	return sub
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *subscriptionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
