package payment

import (
	"context"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
	"github.com/cleardrip/cleardrip/pkg/metrics"
)

// CancelPaymentUseCase 取消支付订单用例
// 教学要点:
// 1. 只有PENDING订单可取消:已支付订单取消属于退款流程,本系统不支持
// 2. 状态变更与用途补偿(删除预订/取消订阅)在同一事务内,
//    不存在"订单取消了但预订还挂着"的中间态
// 3. 商品订单取消无需回补库存:库存只在捕获事务内扣减,
//    PENDING订单从未占用库存
type CancelPaymentUseCase struct {
	orders   payment.OrderRepository
	registry *PurposeRegistry
	txm      TxManager
}

// NewCancelPaymentUseCase 创建用例实例
func NewCancelPaymentUseCase(orders payment.OrderRepository, registry *PurposeRegistry, txm TxManager) *CancelPaymentUseCase {
	return &CancelPaymentUseCase{
		orders:   orders,
		registry: registry,
		txm:      txm,
	}
}

// Execute 执行取消订单
func (uc *CancelPaymentUseCase) Execute(ctx context.Context, req CancelPaymentRequest) error {
	err := uc.txm.Transaction(ctx, func(txCtx context.Context) error {
		// 锁行后再做权限与状态判断,并发的回调捕获在此串行化:
		// 回调先拿到锁则订单变SUCCESS,这里的Cancel会失败
		order, err := uc.orders.LockByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}

		// 权限校验:只能取消自己的订单
		if !order.IsOwnedBy(req.UserID) {
			return apperrors.ErrForbidden
		}

		// 状态机校验:仅PENDING可取消
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := uc.orders.Update(txCtx, order); err != nil {
			return err
		}

		// 用途补偿:删除预订/取消订阅(商品订单无需动作)
		strategy, err := uc.registry.Get(order.Purpose)
		if err != nil {
			return err
		}
		return strategy.OnCancelled(txCtx, order)
	})

	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.OrdersCancelledTotal)
	zap.L().Info("支付订单已取消",
		zap.Uint("order_id", req.OrderID),
		zap.Uint("user_id", req.UserID))
	return nil
}

// CancelPaymentRequest 取消订单请求
type CancelPaymentRequest struct {
	OrderID uint // 本地订单ID
	UserID  uint // 从JWT中提取
}
