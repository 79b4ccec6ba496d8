package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/pkg/mq"
)

// Notifier 支付通知发布接口
// 教学要点:
// 1. application层依赖此接口,测试时用fake替换RabbitMQ
// 2. 通知是"尽力而为":发布失败只记日志,绝不影响已提交的支付结果
type Notifier interface {
	// PaymentConfirmed 发布支付确认事件(事务提交后调用)
	PaymentConfirmed(ctx context.Context, event PaymentConfirmedEvent)
}

// mqNotifier 基于RabbitMQ的通知发布实现
type mqNotifier struct {
	publisher *mq.Publisher
}

// NewNotifier 创建通知发布者
func NewNotifier(publisher *mq.Publisher) Notifier {
	return &mqNotifier{publisher: publisher}
}

// PaymentConfirmed 发布支付确认事件
// 设计说明:
// 1. 必须在支付捕获事务提交"之后"调用:事务内发布会导致
//    "邮件发出但事务回滚"的幽灵通知
// 2. 发布失败吞掉错误只记日志(最终一致性,邮件丢失可人工补发,
//    但支付结果绝不能因通知失败而报错)
func (n *mqNotifier) PaymentConfirmed(ctx context.Context, event PaymentConfirmedEvent) {
	if err := n.publisher.Publish(RoutingKeyPaymentConfirmed, event); err != nil {
		zap.L().Error("支付确认事件发布失败",
			zap.Uint("order_id", event.OrderID),
			zap.String("purpose", event.Purpose),
			zap.Error(err))
	}
}
