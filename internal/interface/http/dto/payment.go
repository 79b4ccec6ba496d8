package dto

import "time"

// CreatePaymentOrderRequest HTTP创建支付订单请求
// 按purpose三选一携带items/service_id+slot_at/plan_id,
// 金额永远由服务端解析,请求中不接受金额字段
type CreatePaymentOrderRequest struct {
	Purpose   string                  `json:"purpose" binding:"required,oneof=PRODUCT_PURCHASE SERVICE_BOOKING SUBSCRIPTION" example:"PRODUCT_PURCHASE"`
	Items     []PaymentOrderItemInput `json:"items" binding:"omitempty,dive"`
	ServiceID uint                    `json:"service_id" binding:"omitempty" example:"1"`
	SlotAt    time.Time               `json:"slot_at" binding:"omitempty" example:"2026-09-01T10:00:00+05:30"`
	PlanID    uint                    `json:"plan_id" binding:"omitempty" example:"1"`
}

// PaymentOrderItemInput 下单商品项
type PaymentOrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required" example:"1"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=0,max=999" example:"2"` // 缺省按1处理
}

// CreatePaymentOrderResponse HTTP创建订单响应
// key与razorpay_order_id交给前端唤起收银台
type CreatePaymentOrderResponse struct {
	Key             string            `json:"key" example:"rzp_test_xxxxxxxx"` // 网关公钥(key_id)
	RazorpayOrderID string            `json:"razorpay_order_id" example:"order_N5X8qEyZ3kVb2m"`
	Amount          int64             `json:"amount" example:"49900"` // paise
	Currency        string            `json:"currency" example:"INR"`
	Order           *PaymentOrderView `json:"order"`
}

// PaymentOrderView 本地订单视图
type PaymentOrderView struct {
	ID              uint                   `json:"id" example:"1"`
	RazorpayOrderID string                 `json:"razorpay_order_id" example:"order_N5X8qEyZ3kVb2m"`
	Amount          int64                  `json:"amount" example:"49900"`
	AmountRupees    string                 `json:"amount_rupees" example:"₹499.00"`
	Purpose         string                 `json:"purpose" example:"PRODUCT_PURCHASE"`
	Status          string                 `json:"status" example:"PENDING"`
	BookingID       *string                `json:"booking_id,omitempty"`
	SubscriptionID  *string                `json:"subscription_id,omitempty"`
	Items           []PaymentOrderItemView `json:"items,omitempty"`
	CreatedAt       string                 `json:"created_at" example:"2026-01-15 10:30:00"`
}

// PaymentOrderItemView 订单明细视图
type PaymentOrderItemView struct {
	ProductID uint  `json:"product_id" example:"1"`
	Quantity  int   `json:"quantity" example:"2"`
	Price     int64 `json:"price" example:"49900"`
	Subtotal  int64 `json:"subtotal" example:"99800"`
}

// VerifyPaymentRequest HTTP支付回调核验请求
// 三个字段由Razorpay收银台回调提供,缺一不可
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required" example:"order_N5X8qEyZ3kVb2m"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required" example:"pay_N5X9cDw7kQx1Lp"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPaymentResponse HTTP支付核验响应
type VerifyPaymentResponse struct {
	Success     bool             `json:"success" example:"true"`
	Transaction *TransactionView `json:"transaction,omitempty"`
}

// TransactionView 支付流水视图
type TransactionView struct {
	TransactionNo     string `json:"transaction_no" example:"a3f1c9e2-7b46-4f0b-9c2a-1d8e5b6f7a90"`
	OrderID           uint   `json:"order_id" example:"1"`
	RazorpayPaymentID string `json:"razorpay_payment_id" example:"pay_N5X9cDw7kQx1Lp"`
	Status            string `json:"status" example:"SUCCESS"`
	Method            string `json:"method" example:"upi"`
	AmountPaid        int64  `json:"amount_paid" example:"49900"`
	CapturedAt        string `json:"captured_at" example:"2026-01-15 10:32:05"`
}

// CancelPaymentRequest HTTP取消订单请求
type CancelPaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required" example:"1"`
}

// CancelPaymentResponse HTTP取消订单响应
type CancelPaymentResponse struct {
	Success bool `json:"success" example:"true"`
}

// ListPaymentOrdersRequest HTTP订单列表请求
type ListPaymentOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}

// ListPaymentOrdersResponse HTTP订单列表响应
type ListPaymentOrdersResponse struct {
	List  []PaymentOrderView `json:"list"`
	Total int64              `json:"total" example:"3"`
	Page  int                `json:"page" example:"1"`
	Size  int                `json:"size" example:"10"`
}
