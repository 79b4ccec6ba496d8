package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
	"github.com/cleardrip/cleardrip/internal/infrastructure/notification"
	"github.com/cleardrip/cleardrip/pkg/logger"
	"github.com/cleardrip/cleardrip/pkg/metrics"
	"github.com/cleardrip/cleardrip/pkg/mq"
)

// main 通知worker入口
// 教学说明:
// 1. API进程只负责"发事件",邮件发送的慢IO全部挪到这里,
//    回调核验接口的响应时间不被SMTP拖累
// 2. 处理失败返回error → Nack requeue,RabbitMQ会重投,
//    所以handler必须幂等(重发一封确认邮件是可接受的)
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.Init(cfg.Log.Level, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		"topic",
		cfg.RabbitMQ.Queue,
		[]string{notification.RoutingKeyPaymentConfirmed},
	)
	if err != nil {
		log.Fatalf("初始化RabbitMQ消费者失败: %v", err)
	}
	defer consumer.Close() //nolint:errcheck

	mailer := notification.NewMailer(cfg.SMTP)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("通知worker启动",
		zap.String("exchange", cfg.RabbitMQ.Exchange),
		zap.String("queue", cfg.RabbitMQ.Queue),
		zap.String("routing_key", notification.RoutingKeyPaymentConfirmed))

	if err := consumer.Consume(ctx, paymentConfirmedHandler(mailer)); err != nil && ctx.Err() == nil {
		zap.L().Fatal("消费消息失败", zap.Error(err))
	}

	zap.L().Info("通知worker已停止")
}

// paymentConfirmedHandler 处理支付确认事件:渲染模板并发送确认邮件
// 返回nil → Ack;返回error → Nack重新入队(由mq.Consumer统一处理)
func paymentConfirmedHandler(mailer notification.Mailer) func([]byte) error {
	return func(body []byte) error {
		var event notification.PaymentConfirmedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			// 消息体损坏,重投也不会成功,记录后丢弃
			zap.L().Error("解析支付确认事件失败,丢弃消息",
				zap.Error(err),
				zap.ByteString("body", body))
			return nil
		}

		subject, htmlBody, err := notification.RenderEmail(event)
		if err != nil {
			zap.L().Error("渲染邮件模板失败,丢弃消息",
				zap.Error(err),
				zap.Uint("order_id", event.OrderID),
				zap.String("purpose", event.Purpose))
			return nil
		}

		// SMTP失败返回error触发requeue,等待下一轮重投
		if err := mailer.Send(event.Recipient, subject, htmlBody); err != nil {
			return fmt.Errorf("发送确认邮件失败(order_id=%d, recipient=%s): %w",
				event.OrderID, event.Recipient, err)
		}

		zap.L().Info("确认邮件已发送",
			zap.Uint("order_id", event.OrderID),
			zap.String("razorpay_order_id", event.RazorpayOrderID),
			zap.String("purpose", event.Purpose),
			zap.String("recipient", event.Recipient))
		return nil
	}
}
