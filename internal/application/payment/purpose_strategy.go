package payment

import (
	"context"

	"github.com/cleardrip/cleardrip/internal/domain/booking"
	"github.com/cleardrip/cleardrip/internal/domain/payment"
	"github.com/cleardrip/cleardrip/internal/domain/product"
	"github.com/cleardrip/cleardrip/internal/domain/subscription"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// Resolution 定价解析结果
// 教学要点:三种用途各自解析出金额与挂接信息,订单创建流程对用途无感知
type Resolution struct {
	Amount         int64               // 订单总金额(paise)
	Items          []payment.OrderItem // 商品明细(仅PRODUCT_PURCHASE)
	BookingID      *string             // 预订ID(仅SERVICE_BOOKING)
	SubscriptionID *string             // 订阅ID(仅SUBSCRIPTION)
}

// PurposeStrategy 订单用途策略接口
// 教学要点:
// 1. 每种用途实现一次创建/捕获/取消的行为,消除三份手写的switch分支,
//    三个生命周期阶段的行为对称性由类型系统保证
// 2. Resolve在创建订单时调用(saga第一步),Rollback是它的补偿
// 3. OnCaptured/OnCancelled在捕获/取消事务内调用
type PurposeStrategy interface {
	// Purpose 此策略对应的订单用途
	Purpose() payment.Purpose

	// Resolve 解析定价并创建用途实体(预订/订阅),返回金额与挂接信息
	Resolve(ctx context.Context, req CreateOrderRequest) (*Resolution, error)

	// Rollback 补偿Resolve创建的用途实体(saga补偿,网关下单失败时调用)
	Rollback(ctx context.Context, res *Resolution) error

	// OnCaptured 支付捕获事务内的副作用(推进预订/订阅状态、扣减库存)
	OnCaptured(txCtx context.Context, order *payment.PaymentOrder) error

	// OnCancelled 订单取消事务内的补偿(取消订阅、删除预订)
	OnCancelled(txCtx context.Context, order *payment.PaymentOrder) error
}

// PurposeRegistry 用途策略注册表
type PurposeRegistry struct {
	strategies map[payment.Purpose]PurposeStrategy
}

// NewPurposeRegistry 创建策略注册表
func NewPurposeRegistry(strategies ...PurposeStrategy) *PurposeRegistry {
	m := make(map[payment.Purpose]PurposeStrategy, len(strategies))
	for _, s := range strategies {
		m[s.Purpose()] = s
	}
	return &PurposeRegistry{strategies: m}
}

// Get 根据用途获取策略
func (r *PurposeRegistry) Get(p payment.Purpose) (PurposeStrategy, error) {
	s, ok := r.strategies[p]
	if !ok {
		return nil, payment.ErrInvalidPurpose
	}
	return s, nil
}

// =========================================
// 商品购买策略
// =========================================

// productPurchaseStrategy 商品购买
// 创建时只做定价快照,库存在捕获事务内才扣减
type productPurchaseStrategy struct {
	products product.Repository
}

// NewProductPurchaseStrategy 创建商品购买策略
func NewProductPurchaseStrategy(products product.Repository) PurposeStrategy {
	return &productPurchaseStrategy{products: products}
}

func (s *productPurchaseStrategy) Purpose() payment.Purpose {
	return payment.PurposeProductPurchase
}

// Resolve 解析商品定价
// 教学要点:
// 1. 价格以数据库当前价为准(快照),防止前端改价攻击
// 2. 创建时不检查也不扣减库存:库存只在捕获事务内扣减,
//    未支付的订单不应占用库存
func (s *productPurchaseStrategy) Resolve(ctx context.Context, req CreateOrderRequest) (*Resolution, error) {
	if len(req.Items) == 0 {
		return nil, payment.ErrInvalidItems
	}

	var total int64
	items := make([]payment.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if apperrors.GetAppError(err).Code == apperrors.ErrCodeProductNotFound {
				return nil, apperrors.ErrInvalidProductID
			}
			return nil, err
		}

		// 数量缺省为1(与前端checkout行为一致)
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		subtotal := p.Price * int64(quantity)
		total += subtotal
		items = append(items, payment.OrderItem{
			ProductID: p.ID,
			Quantity:  quantity,
			Price:     p.Price,
			Subtotal:  subtotal,
		})
	}

	return &Resolution{Amount: total, Items: items}, nil
}

// Rollback 商品购买在Resolve阶段不创建任何实体,无需补偿
func (s *productPurchaseStrategy) Rollback(ctx context.Context, res *Resolution) error {
	return nil
}

// OnCaptured 捕获事务内扣减库存
// 教学要点:
// 1. 先FOR UPDATE锁行再条件更新,并发捕获在此串行化
// 2. UpdateInventory内部带inventory + delta >= 0条件,
//    任何一件商品库存不足都会使整个捕获事务回滚
func (s *productPurchaseStrategy) OnCaptured(txCtx context.Context, order *payment.PaymentOrder) error {
	for _, item := range order.Items {
		if _, err := s.products.LockByID(txCtx, item.ProductID); err != nil {
			return err
		}
		if err := s.products.UpdateInventory(txCtx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// OnCancelled 商品购买取消时无需补偿
// 库存只在捕获事务内扣减,而取消仅对PENDING订单开放,
// 此时库存从未被扣减,回补反而会使库存虚高
func (s *productPurchaseStrategy) OnCancelled(txCtx context.Context, order *payment.PaymentOrder) error {
	return nil
}

// =========================================
// 服务预订策略
// =========================================

// serviceBookingStrategy 服务预订
// 创建订单时落一条PENDING预订,支付成功推进IN_PROGRESS,取消则物理删除
type serviceBookingStrategy struct {
	services booking.ServiceRepository
	bookings booking.BookingRepository
}

// NewServiceBookingStrategy 创建服务预订策略
func NewServiceBookingStrategy(services booking.ServiceRepository, bookings booking.BookingRepository) PurposeStrategy {
	return &serviceBookingStrategy{services: services, bookings: bookings}
}

func (s *serviceBookingStrategy) Purpose() payment.Purpose {
	return payment.PurposeServiceBooking
}

// Resolve 解析服务定价并创建PENDING预订
func (s *serviceBookingStrategy) Resolve(ctx context.Context, req CreateOrderRequest) (*Resolution, error) {
	if req.ServiceID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "服务ID不能为空")
	}
	if req.SlotAt.IsZero() {
		return nil, booking.ErrInvalidSlot
	}

	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	b := booking.NewBooking(svc.ID, req.UserID, req.SlotAt)
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	bookingID := b.ID
	return &Resolution{Amount: svc.Price, BookingID: &bookingID}, nil
}

// Rollback 删除Resolve创建的PENDING预订(网关下单失败的补偿)
func (s *serviceBookingStrategy) Rollback(ctx context.Context, res *Resolution) error {
	if res == nil || res.BookingID == nil {
		return nil
	}
	return s.bookings.Delete(ctx, *res.BookingID)
}

// OnCaptured 支付成功,预订进入服务流程
func (s *serviceBookingStrategy) OnCaptured(txCtx context.Context, order *payment.PaymentOrder) error {
	if order.BookingID == nil {
		return booking.ErrBookingNotFound
	}
	b, err := s.bookings.FindByID(txCtx, *order.BookingID)
	if err != nil {
		return err
	}
	if err := b.Confirm(); err != nil {
		return err
	}
	return s.bookings.Update(txCtx, b)
}

// OnCancelled 物理删除预订,立刻释放预约时段
func (s *serviceBookingStrategy) OnCancelled(txCtx context.Context, order *payment.PaymentOrder) error {
	if order.BookingID == nil {
		return nil
	}
	return s.bookings.Delete(txCtx, *order.BookingID)
}

// =========================================
// 订阅策略
// =========================================

// subscriptionStrategy 订阅购买
// 创建订单时落一条PENDING订阅,支付成功激活,取消则标记CANCELLED
type subscriptionStrategy struct {
	plans subscription.PlanRepository
	subs  subscription.Repository
}

// NewSubscriptionStrategy 创建订阅策略
func NewSubscriptionStrategy(plans subscription.PlanRepository, subs subscription.Repository) PurposeStrategy {
	return &subscriptionStrategy{plans: plans, subs: subs}
}

func (s *subscriptionStrategy) Purpose() payment.Purpose {
	return payment.PurposeSubscription
}

// Resolve 解析套餐定价并创建PENDING订阅
func (s *subscriptionStrategy) Resolve(ctx context.Context, req CreateOrderRequest) (*Resolution, error) {
	if req.PlanID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "订阅套餐ID不能为空")
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	sub := subscription.NewSubscription(plan.ID, req.UserID)
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeSubscriptionCreate, "订阅创建失败")
	}

	subID := sub.ID
	return &Resolution{Amount: plan.Price, SubscriptionID: &subID}, nil
}

// Rollback 取消Resolve创建的PENDING订阅(保留记录便于排查)
func (s *subscriptionStrategy) Rollback(ctx context.Context, res *Resolution) error {
	if res == nil || res.SubscriptionID == nil {
		return nil
	}
	sub, err := s.subs.FindByID(ctx, *res.SubscriptionID)
	if err != nil {
		return err
	}
	if err := sub.Cancel(); err != nil {
		return err
	}
	return s.subs.Update(ctx, sub)
}

// OnCaptured 支付成功,按套餐周期激活订阅
func (s *subscriptionStrategy) OnCaptured(txCtx context.Context, order *payment.PaymentOrder) error {
	if order.SubscriptionID == nil {
		return subscription.ErrSubscriptionNotFound
	}
	sub, err := s.subs.FindByID(txCtx, *order.SubscriptionID)
	if err != nil {
		return err
	}
	plan, err := s.plans.FindByID(txCtx, sub.PlanID)
	if err != nil {
		return err
	}
	if err := sub.Confirm(plan.DurationDays); err != nil {
		return err
	}
	return s.subs.Update(txCtx, sub)
}

// OnCancelled 标记订阅CANCELLED(保留记录,与预订的物理删除不同)
func (s *subscriptionStrategy) OnCancelled(txCtx context.Context, order *payment.PaymentOrder) error {
	if order.SubscriptionID == nil {
		return nil
	}
	sub, err := s.subs.FindByID(txCtx, *order.SubscriptionID)
	if err != nil {
		return err
	}
	if err := sub.Cancel(); err != nil {
		return err
	}
	return s.subs.Update(txCtx, sub)
}
