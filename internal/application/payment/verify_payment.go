package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
	"github.com/cleardrip/cleardrip/internal/domain/user"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	"github.com/cleardrip/cleardrip/internal/infrastructure/notification"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
	"github.com/cleardrip/cleardrip/pkg/metrics"
	"github.com/cleardrip/cleardrip/pkg/tracing"
)

// VerifyPaymentUseCase 支付回调核验用例
// 教学要点:
// 1. 核验顺序是安全漏斗,一层比一层贵:
//    参数完整性 → HMAC签名(纯计算) → 订单存在性 →
//    幂等短路 → 网关查证(网络) → 金额/状态核对 → 原子捕获(事务)
// 2. 金额以网关返回值为准核对,而非回调参数,
//    签名合法不代表金额未被篡改(订单创建后金额不可变)
// 3. 幂等三重保障:事务前短路、锁内状态复核、
//    razorpay_payment_id唯一索引兜底
type VerifyPaymentUseCase struct {
	orders   payment.OrderRepository
	txns     payment.TransactionRepository
	users    user.Repository
	registry *PurposeRegistry
	gateway  razorpay.Gateway
	txm      TxManager
	notifier notification.Notifier
}

// NewVerifyPaymentUseCase 创建用例实例
func NewVerifyPaymentUseCase(
	orders payment.OrderRepository,
	txns payment.TransactionRepository,
	users user.Repository,
	registry *PurposeRegistry,
	gateway razorpay.Gateway,
	txm TxManager,
	notifier notification.Notifier,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		orders:   orders,
		txns:     txns,
		users:    users,
		registry: registry,
		gateway:  gateway,
		txm:      txm,
		notifier: notifier,
	}
}

// Execute 执行支付核验与捕获
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "application/payment", "VerifyPayment")
	defer span.End()

	// 1. 参数完整性(三个字段缺一不可)
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "支付回调参数不完整")
	}

	// 2. HMAC签名校验(纯计算,签名不合法时不产生任何副作用)
	if !uc.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		zap.L().Warn("支付签名校验失败",
			zap.String("razorpay_order_id", req.RazorpayOrderID),
			zap.String("razorpay_payment_id", req.RazorpayPaymentID))
		return nil, payment.ErrInvalidSignature
	}

	// 3. 订单存在性
	order, err := uc.orders.FindByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}

	// 4. 幂等短路:订单已成功,直接返回既有流水
	if order.Status == payment.OrderStatusSuccess {
		return uc.idempotentResponse(ctx, order)
	}

	// 同一payment_id已捕获过(回调重放但订单查询落在从库等场景)
	if existing, err := uc.txns.FindByRazorpayPaymentID(ctx, req.RazorpayPaymentID); err != nil {
		return nil, err
	} else if existing != nil {
		return &VerifyPaymentResponse{Success: true, Transaction: toTransactionDTO(existing)}, nil
	}

	// 5. 网关查证:以网关侧支付详情为准
	gwPayment, err := uc.gateway.FetchPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}

	// 6. 金额核对(paise对paise的整数相等)
	if gwPayment.Amount != order.Amount {
		zap.L().Error("支付金额与订单金额不一致",
			zap.Uint("order_id", order.ID),
			zap.Int64("order_amount", order.Amount),
			zap.Int64("paid_amount", gwPayment.Amount))
		return nil, payment.ErrAmountMismatch
	}

	// 7. 扣款状态核对
	if !gwPayment.IsCaptured() {
		return nil, payment.ErrPaymentNotCaptured
	}

	strategy, err := uc.registry.Get(order.Purpose)
	if err != nil {
		return nil, err
	}

	// 8. 原子捕获事务:流水 + 订单状态 + 用途副作用,要么全有要么全无
	var txn *payment.Transaction
	err = uc.txm.Transaction(ctx, func(txCtx context.Context) error {
		// 锁行后复核状态,并发回调在此串行化
		locked, err := uc.orders.LockByRazorpayOrderID(txCtx, req.RazorpayOrderID)
		if err != nil {
			return err
		}
		if locked.Status == payment.OrderStatusSuccess {
			// 另一并发回调已完成捕获,按幂等成功处理
			txn = nil
			return nil
		}

		t := payment.NewTransaction(locked.ID, req.RazorpayPaymentID, req.RazorpaySignature, gwPayment.Method, gwPayment.Amount)
		if err := uc.txns.Create(txCtx, t); err != nil {
			return err
		}

		if err := locked.MarkPaid(); err != nil {
			return err
		}
		if err := uc.orders.Update(txCtx, locked); err != nil {
			return err
		}

		// 用途副作用:扣库存/推进预订/激活订阅
		if err := strategy.OnCaptured(txCtx, locked); err != nil {
			return err
		}

		txn = t
		order = locked
		return nil
	})

	if err != nil {
		// 唯一索引兜底:并发重放撞上razorpay_payment_id唯一键,
		// 事务已回滚,读取既有流水按幂等成功返回
		if appErr := apperrors.GetAppError(err); appErr.Code == apperrors.ErrCodeDuplicateEntry {
			if existing, ferr := uc.txns.FindByRazorpayPaymentID(ctx, req.RazorpayPaymentID); ferr == nil && existing != nil {
				return &VerifyPaymentResponse{Success: true, Transaction: toTransactionDTO(existing)}, nil
			}
		}
		return nil, err
	}

	// 锁内复核发现已被并发捕获
	if txn == nil {
		return uc.idempotentResponse(ctx, order)
	}

	metrics.IncCounter(metrics.OrdersCapturedTotal)
	zap.L().Info("支付捕获成功",
		zap.Uint("order_id", order.ID),
		zap.String("razorpay_payment_id", req.RazorpayPaymentID),
		zap.Int64("amount", txn.AmountPaid))

	// 9. 事务提交后发布通知(尽力而为,失败不影响支付结果)
	uc.publishConfirmation(ctx, order)

	return &VerifyPaymentResponse{Success: true, Transaction: toTransactionDTO(txn)}, nil
}

// idempotentResponse 幂等成功响应:返回订单的既有成功流水
func (uc *VerifyPaymentUseCase) idempotentResponse(ctx context.Context, order *payment.PaymentOrder) (*VerifyPaymentResponse, error) {
	existing, err := uc.txns.FindSuccessByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	resp := &VerifyPaymentResponse{Success: true}
	if existing != nil {
		resp.Transaction = toTransactionDTO(existing)
	}
	return resp, nil
}

// publishConfirmation 发布支付确认事件
// 收件人查询失败同样只记日志:支付已提交,通知绝不回头报错
func (uc *VerifyPaymentUseCase) publishConfirmation(ctx context.Context, order *payment.PaymentOrder) {
	u, err := uc.users.FindByID(ctx, order.UserID)
	if err != nil {
		zap.L().Error("支付通知收件人查询失败",
			zap.Uint("order_id", order.ID),
			zap.Uint("user_id", order.UserID),
			zap.Error(err))
		return
	}

	uc.notifier.PaymentConfirmed(ctx, notification.PaymentConfirmedEvent{
		OrderID:         order.ID,
		RazorpayOrderID: order.RazorpayOrderID,
		Purpose:         string(order.Purpose),
		Recipient:       u.Email,
		Nickname:        u.Nickname,
		Amount:          order.Amount,
	})
}

// =========================================
// DTO定义
// =========================================

// VerifyPaymentRequest 支付回调核验请求
type VerifyPaymentRequest struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// VerifyPaymentResponse 支付核验响应
type VerifyPaymentResponse struct {
	Success     bool            `json:"success"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

// TransactionDTO 支付流水信息
type TransactionDTO struct {
	TransactionNo     string    `json:"transaction_no"`
	OrderID           uint      `json:"order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	Status            string    `json:"status"`
	Method            string    `json:"method"`
	AmountPaid        int64     `json:"amount_paid"`
	CapturedAt        time.Time `json:"captured_at"`
}

// toTransactionDTO 领域实体 → DTO
func toTransactionDTO(t *payment.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TransactionNo:     t.TransactionNo,
		OrderID:           t.OrderID,
		RazorpayPaymentID: t.RazorpayPaymentID,
		Status:            string(t.Status),
		Method:            t.Method,
		AmountPaid:        t.AmountPaid,
		CapturedAt:        t.CapturedAt,
	}
}
