package payment

import (
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 支付领域错误定义
var (
	// ErrOrderNotFound 支付订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "支付订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeBusinessError, "订单状态不允许此操作")

	// ErrOrderNotCancellable 订单状态不允许取消(仅PENDING可取消)
	ErrOrderNotCancellable = apperrors.New(apperrors.ErrCodeOrderNotCancellable, "订单状态不允许取消")

	// ErrInvalidPurpose 非法的订单用途
	ErrInvalidPurpose = apperrors.New(apperrors.ErrCodeInvalidPurpose, "非法的订单用途")

	// ErrInvalidItems 商品明细不合法
	ErrInvalidItems = apperrors.New(apperrors.ErrCodeInvalidParams, "商品明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidSignature 网关签名校验失败
	ErrInvalidSignature = apperrors.New(apperrors.ErrCodeInvalidSignature, "支付签名校验失败")

	// ErrAmountMismatch 网关扣款金额与订单金额不一致
	ErrAmountMismatch = apperrors.New(apperrors.ErrCodeAmountMismatch, "支付金额与订单金额不一致")

	// ErrPaymentNotCaptured 网关侧支付未完成扣款(非captured/authorized)
	ErrPaymentNotCaptured = apperrors.New(apperrors.ErrCodePaymentNotCaptured, "支付未完成扣款")
)
