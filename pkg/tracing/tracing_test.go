package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("cleardrip-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Logf("关闭Tracer: %v", err)
		}
	}()

	// 验证全局TracerProvider已设置
	tracer := otel.Tracer("test")
	if tracer == nil {
		t.Error("全局TracerProvider未设置")
	}
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("cleardrip-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		_, span := StartSpan(ctx, "payment", "VerifyPayment")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "payment", "VerifyPayment")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		_, childSpan := StartSpan(ctx, "payment", "CaptureTransaction")
		defer childSpan.End()

		childTraceID := childSpan.SpanContext().TraceID().String()

		// 子Span继承根Span的TraceID
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		// 子Span有不同的SpanID
		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	shutdown, err := InitTracer("cleardrip-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "payment", "VerifyPayment")
		defer span.End()

		traceID := ExtractTraceID(ctx)

		if traceID == "" {
			t.Error("TraceID为空")
		}

		// TraceID为32位十六进制
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}
	})

	t.Run("从无效Context提取TraceID", func(t *testing.T) {
		traceID := ExtractTraceID(context.Background())
		if traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	shutdown, err := InitTracer("cleardrip-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取SpanID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "payment", "CapturePayment")
		defer span.End()

		spanID := ExtractSpanID(ctx)

		if spanID == "" {
			t.Error("SpanID为空")
		}

		// SpanID为16位十六进制
		if len(spanID) != 16 {
			t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
		}
	})

	t.Run("从无效Context提取SpanID", func(t *testing.T) {
		spanID := ExtractSpanID(context.Background())
		if spanID != "" {
			t.Errorf("期望空字符串，实际: %s", spanID)
		}
	})
}

// TestVerifyPaymentTrace 模拟支付校验链路的Span嵌套
func TestVerifyPaymentTrace(t *testing.T) {
	shutdown, err := InitTracer("cleardrip-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()

	if err := verifyPaymentTraced(ctx, "order_Mk9zQ1", "pay_N4kLp2"); err != nil {
		t.Errorf("支付校验失败: %v", err)
	}
}

// 模拟业务函数：支付校验
func verifyPaymentTraced(ctx context.Context, orderID, paymentID string) error {
	ctx, span := StartSpan(ctx, "payment", "VerifyPayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("razorpay_order_id", orderID),
		attribute.String("razorpay_payment_id", paymentID),
	)

	// 步骤1：网关拉取支付详情
	if err := fetchPaymentTraced(ctx, paymentID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 步骤2：捕获事务
	if err := captureTraced(ctx, orderID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "支付校验成功")
	return nil
}

func fetchPaymentTraced(ctx context.Context, paymentID string) error {
	_, span := StartSpan(ctx, "payment", "FetchPayment")
	defer span.End()

	span.SetAttributes(attribute.String("razorpay_payment_id", paymentID))

	// 模拟网关调用耗时
	time.Sleep(10 * time.Millisecond)

	span.SetStatus(codes.Ok, "支付详情已获取")
	return nil
}

func captureTraced(ctx context.Context, orderID string) error {
	_, span := StartSpan(ctx, "payment", "CaptureTransaction")
	defer span.End()

	span.SetAttributes(attribute.String("razorpay_order_id", orderID))

	// 模拟事务耗时
	time.Sleep(15 * time.Millisecond)

	span.SetStatus(codes.Ok, "捕获事务已提交")
	return nil
}
