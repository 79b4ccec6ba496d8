// Package tracing 提供基于OpenTelemetry的分布式追踪
//
// 核心概念：
//
// 1. **Trace（追踪）**：一个完整的请求链路，包含多个Span
// 2. **Span（跨度）**：一个操作单元（如网关下单、捕获事务）
// 3. **SpanContext**：跨进程传递的元数据（TraceID/SpanID）
//
// 支付校验链路示例：
//
//	Trace: 支付校验（TraceID=abc123）
//	├─ Span1: VerifyPayment处理请求
//	│  ├─ Span2: 签名校验
//	│  ├─ Span3: 网关拉取支付详情 ← 外部调用，通常是瓶颈
//	│  └─ Span4: 捕获事务（订单落账+库存扣减）
//
// 使用：
//
//	shutdown, err := tracing.InitTracer("cleardrip-api", "localhost:4317")
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "payment", "VerifyPayment")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: Collector的OTLP gRPC端点（如 localhost:4317）
//
// 返回关闭函数，程序退出时调用以刷新未发送的Span。
//
// 设计要点：
// 1. 使用OTLP协议而非Jaeger原生协议（厂商中立）
// 2. 采样策略：AlwaysSample适合开发环境，
//    生产环境建议TraceIDRatioBased（如1%采样）
// 3. BatchSpanProcessor批量发送（性能优于SimpleSpanProcessor）
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	// service.name用于在Jaeger UI中标识和分组服务
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider
	// 业务代码无需传递Provider，直接用otel.Tracer()获取
	otel.SetTracerProvider(tp)

	// 5. 设置全局TextMapPropagator（跨服务传递TraceID/SpanID）
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)

	// 6. 返回关闭函数
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// Span命名规范：使用操作名（VerifyPayment），动态值放属性里。
// 必须使用返回的ctx调用下游函数，否则无法构建调用树。
//
// 示例：
//
//	ctx, span := tracing.StartSpan(ctx, "payment", "CapturePayment")
//	defer span.End()
//	span.SetAttributes(attribute.String("razorpay_order_id", orderID))
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	// ctx包含父Span时自动成为子Span，否则成为根Span
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
//
// 在日志中记录TraceID，便于从日志快速定位到Jaeger追踪。
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
