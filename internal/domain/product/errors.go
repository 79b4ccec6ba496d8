package product

import (
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrSKUDuplicate SKU已存在
	ErrSKUDuplicate = apperrors.New(apperrors.ErrCodeSKUDuplicate, "商品编码已存在")

	// ErrInvalidPrice 价格不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidPrice, "商品价格不合法")

	// ErrInvalidInventory 库存不合法
	ErrInvalidInventory = apperrors.New(apperrors.ErrCodeInvalidParams, "库存数量不合法")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInsufficientInventory 库存不足
	ErrInsufficientInventory = apperrors.New(apperrors.ErrCodeInsufficientInventory, "商品库存不足")

	// ErrInvalidSKU SKU格式不合法
	ErrInvalidSKU = apperrors.New(apperrors.ErrCodeInvalidParams, "商品编码格式不合法")

	// ErrUnauthorized 无权操作
	ErrUnauthorized = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此商品")
)
