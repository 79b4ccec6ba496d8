package subscription

import (
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 订阅领域错误定义
var (
	// ErrPlanNotFound 订阅套餐不存在
	ErrPlanNotFound = apperrors.New(apperrors.ErrCodePlanNotFound, "订阅套餐不存在")

	// ErrSubscriptionNotFound 订阅不存在
	ErrSubscriptionNotFound = apperrors.New(apperrors.ErrCodeNotFound, "订阅不存在")

	// ErrSubscriptionNotConfirmable 订阅状态不允许确认
	ErrSubscriptionNotConfirmable = apperrors.New(apperrors.ErrCodeBusinessError, "订阅状态不允许确认")

	// ErrSubscriptionCreate 订阅创建失败
	ErrSubscriptionCreate = apperrors.New(apperrors.ErrCodeSubscriptionCreate, "订阅创建失败")
)
