package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// paymentOrderRepository 支付订单仓储实现(MySQL)
// 教学要点:
// 1. PaymentOrder和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type paymentOrderRepository struct {
	db *gorm.DB
}

// NewPaymentOrderRepository 创建支付订单仓储
func NewPaymentOrderRepository(db *gorm.DB) payment.OrderRepository {
	return &paymentOrderRepository{db: db}
}

// Create 创建支付订单
// 教学要点:
// 1. GORM会自动保存关联的Items(通过foreignKey)
// 2. 必须在事务中调用(通过getDB从context获取事务DB)
func (r *paymentOrderRepository) Create(ctx context.Context, o *payment.PaymentOrder) error {
	// 1. 领域实体 → GORM模型
	model := toPaymentOrderModel(o)

	// 2. 插入数据库(包含订单明细)
	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "网关订单号已存在")
		}
		return apperrors.Wrap(err, "创建支付订单失败")
	}

	// 3. 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查找订单
// 教学要点:使用Preload预加载Items,避免N+1查询
func (r *paymentOrderRepository) FindByID(ctx context.Context, id uint) (*payment.PaymentOrder, error) {
	var model PaymentOrderModel
	db := r.getDB(ctx)

	// Preload("Items")会执行:
	// 1. SELECT * FROM payment_orders WHERE id = ?
	// 2. SELECT * FROM order_items WHERE order_id IN (?)
	err := db.Preload("Items").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询支付订单失败")
	}

	return toPaymentOrderEntity(&model), nil
}

// FindByRazorpayOrderID 根据网关订单号查找订单
func (r *paymentOrderRepository) FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*payment.PaymentOrder, error) {
	var model PaymentOrderModel
	db := r.getDB(ctx)
	err := db.Preload("Items").Where("razorpay_order_id = ?", razorpayOrderID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询支付订单失败")
	}

	return toPaymentOrderEntity(&model), nil
}

// LockByID 根据ID加行锁查找订单
func (r *paymentOrderRepository) LockByID(ctx context.Context, id uint) (*payment.PaymentOrder, error) {
	var model PaymentOrderModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定支付订单失败")
	}

	return toPaymentOrderEntity(&model), nil
}

// LockByRazorpayOrderID 根据网关订单号加行锁查找订单
// 教学要点:
// 1. SELECT FOR UPDATE必须在事务中执行,否则锁立即释放
// 2. 并发回调/取消会在这里串行化,锁内复核Status防止双写
func (r *paymentOrderRepository) LockByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*payment.PaymentOrder, error) {
	var model PaymentOrderModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Where("razorpay_order_id = ?", razorpayOrderID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定支付订单失败")
	}

	return toPaymentOrderEntity(&model), nil
}

// Update 更新订单
// 教学要点:主要用于状态更新,不更新Items
func (r *paymentOrderRepository) Update(ctx context.Context, o *payment.PaymentOrder) error {
	db := r.getDB(ctx)

	// 只更新状态相关字段
	result := db.Model(&PaymentOrderModel{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":          string(o.Status),
		"booking_id":      o.BookingID,
		"subscription_id": o.SubscriptionID,
		"updated_at":      o.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新支付订单失败")
	}

	if result.RowsAffected == 0 {
		return payment.ErrOrderNotFound
	}

	return nil
}

// ListByUserID 查询用户的订单列表
func (r *paymentOrderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*payment.PaymentOrder, int64, error) {
	var models []PaymentOrderModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&PaymentOrderModel{}).Where("user_id = ?", userID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	// 分页查询(包含明细)
	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	// 转换为领域实体
	orders := make([]*payment.PaymentOrder, len(models))
	for i, model := range models {
		orders[i] = toPaymentOrderEntity(&model)
	}

	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toPaymentOrderModel 领域实体 → GORM模型
func toPaymentOrderModel(o *payment.PaymentOrder) *PaymentOrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}

	return &PaymentOrderModel{
		ID:              o.ID,
		RazorpayOrderID: o.RazorpayOrderID,
		UserID:          o.UserID,
		Amount:          o.Amount,
		Purpose:         string(o.Purpose),
		Status:          string(o.Status),
		Receipt:         o.Receipt,
		BookingID:       o.BookingID,
		SubscriptionID:  o.SubscriptionID,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// toPaymentOrderEntity GORM模型 → 领域实体
func toPaymentOrderEntity(model *PaymentOrderModel) *payment.PaymentOrder {
	items := make([]payment.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = payment.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}

	return &payment.PaymentOrder{
		ID:              model.ID,
		RazorpayOrderID: model.RazorpayOrderID,
		UserID:          model.UserID,
		Amount:          model.Amount,
		Purpose:         payment.Purpose(model.Purpose),
		Status:          payment.OrderStatus(model.Status),
		Receipt:         model.Receipt,
		BookingID:       model.BookingID,
		SubscriptionID:  model.SubscriptionID,
		Items:           items,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *paymentOrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
