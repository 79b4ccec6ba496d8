package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
	"github.com/cleardrip/cleardrip/pkg/metrics"
	"github.com/cleardrip/cleardrip/pkg/saga"
)

// CreateOrderUseCase 创建支付订单用例
// 教学要点:
// 1. 本地库与支付网关无法共用一个事务,用Saga串联三步:
//    解析定价/创建用途实体 → 网关下单 → 落库订单
// 2. 第一步的补偿由用途策略提供(删除预订/取消订阅),
//    网关下单成功后本地落库失败会留下"孤儿网关订单",
//    网关侧未支付订单会自动过期,无需补偿
// 3. 定价全部以服务端数据为准,请求中的金额一律忽略
type CreateOrderUseCase struct {
	registry *PurposeRegistry
	gateway  razorpay.Gateway
	orders   payment.OrderRepository
}

// NewCreateOrderUseCase 创建用例实例
func NewCreateOrderUseCase(
	registry *PurposeRegistry,
	gateway razorpay.Gateway,
	orders payment.OrderRepository,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		registry: registry,
		gateway:  gateway,
		orders:   orders,
	}
}

// Execute 执行创建订单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	start := time.Now()

	// 1. 校验订单用途
	purpose, err := payment.ParsePurpose(req.Purpose)
	if err != nil {
		return nil, err
	}
	strategy, err := uc.registry.Get(purpose)
	if err != nil {
		return nil, err
	}

	// Saga步骤间通过闭包共享中间结果
	var (
		res     *Resolution
		gwOrder *razorpay.GatewayOrder
		order   *payment.PaymentOrder
	)
	receipt := payment.GenerateReceipt()

	sg := saga.NewSaga(30 * time.Second)

	// 步骤1:解析定价并创建用途实体(预订/订阅)
	// 补偿:删除预订/取消订阅(由策略提供)
	sg.AddStep("解析定价",
		func(ctx context.Context) error {
			r, err := strategy.Resolve(ctx, req)
			if err != nil {
				return err
			}
			if r.Amount <= 0 {
				return apperrors.New(apperrors.ErrCodeInvalidParams, "订单金额必须大于0")
			}
			res = r
			return nil
		},
		func(ctx context.Context) error {
			return strategy.Rollback(ctx, res)
		},
	)

	// 步骤2:网关下单(失败时触发步骤1的补偿)
	sg.AddStep("网关下单",
		func(ctx context.Context) error {
			g, err := uc.gateway.CreateOrder(ctx, res.Amount, receipt)
			if err != nil {
				return err
			}
			gwOrder = g
			return nil
		},
		nil, // 孤儿网关订单由网关侧自动过期
	)

	// 步骤3:落库本地订单(订单+明细一次插入)
	sg.AddStep("落库订单",
		func(ctx context.Context) error {
			o := payment.NewOrder(gwOrder.ID, req.UserID, res.Amount, purpose, receipt)
			o.Items = res.Items
			o.BookingID = res.BookingID
			o.SubscriptionID = res.SubscriptionID
			if err := uc.orders.Create(ctx, o); err != nil {
				return err
			}
			order = o
			return nil
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, "failure")
		metrics.ObserveHistogram(metrics.SagaExecutionDuration, time.Since(start).Seconds())
		zap.L().Warn("创建支付订单失败",
			zap.Uint("user_id", req.UserID),
			zap.String("purpose", req.Purpose),
			zap.Error(err))
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersCreatedTotal)
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, "success")
	metrics.ObserveHistogram(metrics.SagaExecutionDuration, time.Since(start).Seconds())
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())

	zap.L().Info("支付订单创建成功",
		zap.Uint("order_id", order.ID),
		zap.String("razorpay_order_id", order.RazorpayOrderID),
		zap.Uint("user_id", req.UserID),
		zap.String("purpose", req.Purpose),
		zap.Int64("amount", order.Amount))

	return &CreateOrderResponse{
		RazorpayOrderID: gwOrder.ID,
		Amount:          gwOrder.Amount,
		Currency:        gwOrder.Currency,
		Order:           toOrderDTO(order),
	}, nil
}

// =========================================
// DTO定义
// =========================================

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	UserID    uint               // 从JWT中提取,不信任请求体
	Purpose   string             // PRODUCT_PURCHASE | SERVICE_BOOKING | SUBSCRIPTION
	Items     []OrderItemRequest // 商品明细(仅PRODUCT_PURCHASE)
	ServiceID uint               // 服务ID(仅SERVICE_BOOKING)
	SlotAt    time.Time          // 预约时段(仅SERVICE_BOOKING)
	PlanID    uint               // 订阅套餐ID(仅SUBSCRIPTION)
}

// OrderItemRequest 订单商品项请求
type OrderItemRequest struct {
	ProductID uint
	Quantity  int // 缺省或非正数按1处理
}

// CreateOrderResponse 创建订单响应
// RazorpayOrderID交给前端唤起收银台,Order是本地订单快照
type CreateOrderResponse struct {
	RazorpayOrderID string    `json:"razorpay_order_id"`
	Amount          int64     `json:"amount"`   // paise
	Currency        string    `json:"currency"` // INR
	Order           *OrderDTO `json:"order"`
}

// OrderDTO 订单信息
type OrderDTO struct {
	ID              uint           `json:"id"`
	RazorpayOrderID string         `json:"razorpay_order_id"`
	Amount          int64          `json:"amount"`
	Purpose         string         `json:"purpose"`
	Status          string         `json:"status"`
	BookingID       *string        `json:"booking_id,omitempty"`
	SubscriptionID  *string        `json:"subscription_id,omitempty"`
	Items           []OrderItemDTO `json:"items,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// OrderItemDTO 订单明细项
type OrderItemDTO struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
	Subtotal  int64 `json:"subtotal"`
}

// toOrderDTO 领域实体 → DTO
func toOrderDTO(o *payment.PaymentOrder) *OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}
	return &OrderDTO{
		ID:              o.ID,
		RazorpayOrderID: o.RazorpayOrderID,
		Amount:          o.Amount,
		Purpose:         string(o.Purpose),
		Status:          string(o.Status),
		BookingID:       o.BookingID,
		SubscriptionID:  o.SubscriptionID,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}
