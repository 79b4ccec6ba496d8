package payment

import (
	"context"
)

// OrderRepository 支付订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type OrderRepository interface {
	// Create 创建支付订单(包含商品明细,同一事务写入)
	Create(ctx context.Context, order *PaymentOrder) error

	// FindByID 根据ID查找订单(包含明细)
	FindByID(ctx context.Context, id uint) (*PaymentOrder, error)

	// FindByRazorpayOrderID 根据网关订单号查找订单
	FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*PaymentOrder, error)

	// LockByID 根据ID查找订单并加行锁(SELECT ... FOR UPDATE)
	// 教学要点:必须在事务内调用,用于取消前的状态复核
	LockByID(ctx context.Context, id uint) (*PaymentOrder, error)

	// LockByRazorpayOrderID 根据网关订单号查找订单并加行锁(SELECT ... FOR UPDATE)
	// 教学要点:必须在事务内调用,用于捕获/取消前的状态复核
	LockByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*PaymentOrder, error)

	// Update 更新订单(主要用于状态更新)
	Update(ctx context.Context, order *PaymentOrder) error

	// ListByUserID 查询用户的订单列表
	// 教学要点:支持分页,避免一次性查询大量数据
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*PaymentOrder, int64, error)
}

// TransactionRepository 支付流水仓储接口
type TransactionRepository interface {
	// Create 创建支付流水
	// razorpay_payment_id有唯一索引:并发重放时第二个插入会报重复键
	Create(ctx context.Context, txn *Transaction) error

	// FindSuccessByOrderID 查找订单的成功流水(幂等短路用)
	// 不存在时返回(nil, nil)而非错误
	FindSuccessByOrderID(ctx context.Context, orderID uint) (*Transaction, error)

	// FindByRazorpayPaymentID 根据网关支付ID查找流水(幂等短路用)
	// 不存在时返回(nil, nil)而非错误
	FindByRazorpayPaymentID(ctx context.Context, paymentID string) (*Transaction, error)
}
