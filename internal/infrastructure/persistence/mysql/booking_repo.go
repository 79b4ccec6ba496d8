package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cleardrip/cleardrip/internal/domain/booking"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// serviceRepository 服务项目仓储实现(MySQL)
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务项目仓储
func NewServiceRepository(db *gorm.DB) booking.ServiceRepository {
	return &serviceRepository{db: db}
}

// Create 创建服务项目
func (r *serviceRepository) Create(ctx context.Context, svc *booking.ServiceDefinition) error {
	model := &ServiceDefinitionModel{
		Name:        svc.Name,
		Price:       svc.Price,
		Description: svc.Description,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建服务项目失败")
	}

	svc.ID = model.ID
	svc.CreatedAt = model.CreatedAt
	svc.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找服务项目
func (r *serviceRepository) FindByID(ctx context.Context, id uint) (*booking.ServiceDefinition, error) {
	var model ServiceDefinitionModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrServiceNotFound
		}
		return nil, apperrors.Wrap(err, "查询服务项目失败")
	}

	return toServiceEntity(&model), nil
}

// List 查询服务项目列表
func (r *serviceRepository) List(ctx context.Context, page, pageSize int) ([]*booking.ServiceDefinition, int64, error) {
	var models []ServiceDefinitionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ServiceDefinitionModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询服务项目总数失败")
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id ASC").Limit(pageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询服务项目列表失败")
	}

	services := make([]*booking.ServiceDefinition, len(models))
	for i, model := range models {
		services[i] = toServiceEntity(&model)
	}
	return services, total, nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *serviceRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// toServiceEntity GORM模型 → 领域实体
func toServiceEntity(model *ServiceDefinitionModel) *booking.ServiceDefinition {
	return &booking.ServiceDefinition{
		ID:          model.ID,
		Name:        model.Name,
		Price:       model.Price,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// bookingRepository 服务预订仓储实现(MySQL)
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建服务预订仓储
func NewBookingRepository(db *gorm.DB) booking.BookingRepository {
	return &bookingRepository{db: db}
}

// Create 创建预订
func (r *bookingRepository) Create(ctx context.Context, b *booking.ServiceBooking) error {
	model := toBookingModel(b)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建服务预订失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据预订号查找预订
func (r *bookingRepository) FindByID(ctx context.Context, id string) (*booking.ServiceBooking, error) {
	var model ServiceBookingModel
	db := r.getDB(ctx)
	err := db.Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "查询服务预订失败")
	}

	return toBookingEntity(&model), nil
}

// Update 更新预订
func (r *bookingRepository) Update(ctx context.Context, b *booking.ServiceBooking) error {
	db := r.getDB(ctx)

	result := db.Model(&ServiceBookingModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"status":           string(b.Status),
		"before_image_url": b.BeforeImageURL,
		"after_image_url":  b.AfterImageURL,
		"updated_at":       b.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新服务预订失败")
	}

	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

// Delete 物理删除预订
// 教学要点:订单取消时直接删除记录,立刻释放预约时段
func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	db := r.getDB(ctx)
	result := db.Where("id = ?", id).Delete(&ServiceBookingModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除服务预订失败")
	}

	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

// ListByUserID 查询用户的预订列表
func (r *bookingRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*booking.ServiceBooking, int64, error) {
	var models []ServiceBookingModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ServiceBookingModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预订总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预订列表失败")
	}

	bookings := make([]*booking.ServiceBooking, len(models))
	for i, model := range models {
		bookings[i] = toBookingEntity(&model)
	}
	return bookings, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookingModel 领域实体 → GORM模型
func toBookingModel(b *booking.ServiceBooking) *ServiceBookingModel {
	return &ServiceBookingModel{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		UserID:         b.UserID,
		SlotAt:         b.SlotAt,
		Status:         string(b.Status),
		BeforeImageURL: b.BeforeImageURL,
		AfterImageURL:  b.AfterImageURL,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// toBookingEntity GORM模型 → 领域实体
func toBookingEntity(model *ServiceBookingModel) *booking.ServiceBooking {
	return &booking.ServiceBooking{
		ID:             model.ID,
		ServiceID:      model.ServiceID,
		UserID:         model.UserID,
		SlotAt:         model.SlotAt,
		Status:         booking.BookingStatus(model.Status),
		BeforeImageURL: model.BeforeImageURL,
		AfterImageURL:  model.AfterImageURL,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *bookingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
