package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cleardrip/cleardrip/internal/domain/payment"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// transactionRepository 支付流水仓储实现(MySQL)
// 教学要点:
// 1. razorpay_payment_id的唯一索引是并发重放回调的最后一道防线
// 2. 幂等查询返回(nil, nil)而非错误,由应用层决定短路逻辑
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建支付流水仓储
func NewTransactionRepository(db *gorm.DB) payment.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create 创建支付流水
func (r *transactionRepository) Create(ctx context.Context, txn *payment.Transaction) error {
	model := &TransactionModel{
		TransactionNo:     txn.TransactionNo,
		OrderID:           txn.OrderID,
		RazorpayPaymentID: txn.RazorpayPaymentID,
		RazorpaySignature: txn.RazorpaySignature,
		Status:            string(txn.Status),
		Method:            txn.Method,
		AmountPaid:        txn.AmountPaid,
		CapturedAt:        txn.CapturedAt,
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 网关支付ID已有流水:并发重放,由应用层转为幂等成功
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "支付流水已存在")
		}
		return apperrors.Wrap(err, "创建支付流水失败")
	}

	txn.ID = model.ID
	txn.CreatedAt = model.CreatedAt
	return nil
}

// FindSuccessByOrderID 查找订单的成功流水
// 不存在时返回(nil, nil),调用方以nil判断是否已捕获
func (r *transactionRepository) FindSuccessByOrderID(ctx context.Context, orderID uint) (*payment.Transaction, error) {
	var model TransactionModel
	db := r.getDB(ctx)
	err := db.Where("order_id = ? AND status = ?", orderID, string(payment.TransactionStatusSuccess)).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}

	return toTransactionEntity(&model), nil
}

// FindByRazorpayPaymentID 根据网关支付ID查找流水
// 不存在时返回(nil, nil)
func (r *transactionRepository) FindByRazorpayPaymentID(ctx context.Context, paymentID string) (*payment.Transaction, error) {
	var model TransactionModel
	db := r.getDB(ctx)
	err := db.Where("razorpay_payment_id = ?", paymentID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}

	return toTransactionEntity(&model), nil
}

// toTransactionEntity GORM模型 → 领域实体
func toTransactionEntity(model *TransactionModel) *payment.Transaction {
	return &payment.Transaction{
		ID:                model.ID,
		TransactionNo:     model.TransactionNo,
		OrderID:           model.OrderID,
		RazorpayPaymentID: model.RazorpayPaymentID,
		RazorpaySignature: model.RazorpaySignature,
		Status:            payment.TransactionStatus(model.Status),
		Method:            model.Method,
		AmountPaid:        model.AmountPaid,
		CapturedAt:        model.CapturedAt,
		CreatedAt:         model.CreatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *transactionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
