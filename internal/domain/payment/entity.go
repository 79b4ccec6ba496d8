package payment

import (
	"time"
)

// Purpose 订单用途
// 教学要点:
// 1. 用途决定订单挂接的业务实体(商品明细/预订/订阅),三选一
// 2. 使用string类型与网关回调、事件消息保持同一词汇
type Purpose string

const (
	PurposeProductPurchase Purpose = "PRODUCT_PURCHASE" // 商品购买
	PurposeServiceBooking  Purpose = "SERVICE_BOOKING"  // 服务预订
	PurposeSubscription    Purpose = "SUBSCRIPTION"     // 订阅
)

// ParsePurpose 解析并校验订单用途
func ParsePurpose(s string) (Purpose, error) {
	switch Purpose(s) {
	case PurposeProductPurchase, PurposeServiceBooking, PurposeSubscription:
		return Purpose(s), nil
	default:
		return "", ErrInvalidPurpose
	}
}

// OrderStatus 支付订单状态
// 教学要点:
// 1. 状态机只有三个节点:PENDING是唯一的非终态
// 2. SUCCESS和CANCELLED都是终态,互不可达
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // 待支付
	OrderStatusSuccess   OrderStatus = "SUCCESS"   // 支付成功
	OrderStatusCancelled OrderStatus = "CANCELLED" // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentOrder 支付订单实体(聚合根)
// 教学要点:
// 1. PaymentOrder是聚合根,OrderItem是子实体
// 2. Amount以paise(最小货币单位)冗余存储,创建后不可变
// 3. 按Purpose三选一挂接:Items / BookingID / SubscriptionID
type PaymentOrder struct {
	ID              uint
	RazorpayOrderID string      // 网关订单号(业务主键,全局唯一)
	UserID          uint        // 买家用户ID
	Amount          int64       // 订单总金额(paise),创建时定格
	Purpose         Purpose     // 订单用途
	Status          OrderStatus // 订单状态
	Receipt         string      // 收据号(传给网关的幂等标识)
	BookingID       *string     // 服务预订ID(仅SERVICE_BOOKING)
	SubscriptionID  *string     // 订阅ID(仅SUBSCRIPTION)
	Items           []OrderItem // 商品明细(仅PRODUCT_PURCHASE)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单商品明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过PaymentOrder访问
// 2. Price/Subtotal记录"下单时的价格"(历史价格快照),
//    商家改价后历史订单金额不变
// 3. 不直接关联Product对象,只保存ProductID(避免跨聚合引用)
type OrderItem struct {
	ID        uint
	OrderID   uint  // 所属订单ID
	ProductID uint  // 商品ID
	Quantity  int   // 购买数量
	Price     int64 // 下单时的单价(paise)
	Subtotal  int64 // 行小计(paise) = Price * Quantity
}

// NewOrder 创建新支付订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. RazorpayOrderID由网关下单后回填
// 3. 初始状态为PENDING(待支付)
func NewOrder(razorpayOrderID string, userID uint, amount int64, purpose Purpose, receipt string) *PaymentOrder {
	now := time.Now()
	return &PaymentOrder{
		RazorpayOrderID: razorpayOrderID,
		UserID:          userID,
		Amount:          amount,
		Purpose:         purpose,
		Status:          OrderStatusPending,
		Receipt:         receipt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 例如:已取消的订单不能再标记为支付成功
func (o *PaymentOrder) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusSuccess, OrderStatusCancelled}, // 待支付→成功/取消
		OrderStatusSuccess:   {},                                         // 终态
		OrderStatusCancelled: {},                                         // 终态
	}

	allowedTargets, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 转换成功更新UpdatedAt(审计追踪)
func (o *PaymentOrder) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid 标记支付成功(领域行为)
func (o *PaymentOrder) MarkPaid() error {
	return o.TransitionTo(OrderStatusSuccess)
}

// Cancel 取消订单(领域行为)
// 只有PENDING订单可以取消:已成功的订单取消需要走退款,本系统不支持
func (o *PaymentOrder) Cancel() error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotCancellable
	}
	return o.TransitionTo(OrderStatusCancelled)
}

// IsPending 是否待支付
func (o *PaymentOrder) IsPending() bool {
	return o.Status == OrderStatusPending
}

// CalculateTotal 计算订单商品总金额(paise)
// 教学要点:
// 1. 根据OrderItem列表实时计算
// 2. 用于创建订单时校验服务端算出的Amount与明细一致
func (o *PaymentOrder) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
// 教学要点:权限校验,防止用户操作他人订单
func (o *PaymentOrder) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// TransactionStatus 支付流水状态
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS" // 扣款成功
	TransactionStatusFailed  TransactionStatus = "FAILED"  // 扣款失败
)

// Transaction 支付流水实体
// 教学要点:
// 1. 一条流水对应网关的一次成功扣款
// 2. RazorpayPaymentID全局唯一(数据库唯一索引兜底并发重放)
// 3. AmountPaid记录网关实际扣款金额,与订单Amount独立存证
type Transaction struct {
	ID                uint
	TransactionNo     string // 流水号(业务主键,uuid)
	OrderID           uint   // 所属订单ID
	RazorpayPaymentID string // 网关支付ID(全局唯一)
	RazorpaySignature string // 网关签名(存证)
	Status            TransactionStatus
	Method            string // 支付方式(card/upi/netbanking...)
	AmountPaid        int64  // 实际扣款金额(paise)
	CapturedAt        time.Time
	CreatedAt         time.Time
}

// NewTransaction 创建支付流水(工厂方法)
func NewTransaction(orderID uint, paymentID, signature, method string, amountPaid int64) *Transaction {
	now := time.Now()
	return &Transaction{
		TransactionNo:     GenerateTransactionNo(),
		OrderID:           orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: signature,
		Status:            TransactionStatusSuccess,
		Method:            method,
		AmountPaid:        amountPaid,
		CapturedAt:        now,
		CreatedAt:         now,
	}
}
