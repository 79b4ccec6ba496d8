package notification

// 路由键定义
const (
	// RoutingKeyPaymentConfirmed 支付确认事件
	RoutingKeyPaymentConfirmed = "payment.confirmed"
)

// PaymentConfirmedEvent 支付确认事件
// 教学要点:
// 1. 事件只携带worker发邮件所需的最小字段,不传整个订单
// 2. Amount为paise,渲染邮件时再格式化为卢比
type PaymentConfirmedEvent struct {
	OrderID         uint   `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Purpose         string `json:"purpose"`
	Recipient       string `json:"recipient"` // 收件人邮箱
	Nickname        string `json:"nickname"`  // 收件人昵称(邮件称呼)
	Amount          int64  `json:"amount"`    // 订单金额(paise)
}
