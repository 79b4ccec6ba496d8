package booking

import (
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 服务预订领域错误定义
var (
	// ErrServiceNotFound 服务项目不存在
	ErrServiceNotFound = apperrors.New(apperrors.ErrCodeServiceNotFound, "服务项目不存在")

	// ErrBookingNotFound 预订不存在
	ErrBookingNotFound = apperrors.New(apperrors.ErrCodeNotFound, "服务预订不存在")

	// ErrBookingNotConfirmable 预订状态不允许确认
	ErrBookingNotConfirmable = apperrors.New(apperrors.ErrCodeBusinessError, "预订状态不允许确认")

	// ErrBookingNotInProgress 预订不在服务中
	ErrBookingNotInProgress = apperrors.New(apperrors.ErrCodeBusinessError, "预订不在服务进行中")

	// ErrInvalidSlot 预约时间不合法
	ErrInvalidSlot = apperrors.New(apperrors.ErrCodeInvalidParams, "预约时间不合法")
)
