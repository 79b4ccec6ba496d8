package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
	"github.com/cleardrip/cleardrip/pkg/circuitbreaker"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
	"github.com/cleardrip/cleardrip/pkg/metrics"
)

// GatewayOrder 网关订单(下单响应)
type GatewayOrder struct {
	ID       string `json:"id"`       // 网关订单号(order_xxx)
	Amount   int64  `json:"amount"`   // 金额(paise)
	Currency string `json:"currency"` // 币种(INR)
	Receipt  string `json:"receipt"`  // 收据号(回显)
	Status   string `json:"status"`   // created | attempted | paid
}

// GatewayPayment 网关支付详情(查询响应)
type GatewayPayment struct {
	ID      string `json:"id"`       // 网关支付ID(pay_xxx)
	OrderID string `json:"order_id"` // 所属网关订单号
	Amount  int64  `json:"amount"`   // 实际扣款金额(paise)
	Status  string `json:"status"`   // created|authorized|captured|refunded|failed
	Method  string `json:"method"`   // card|upi|netbanking...
	Email   string `json:"email"`
}

// IsCaptured 支付是否已完成扣款
// 教学要点:captured和authorized都视为扣款成功,
// authorized表示已授权待自动capture,网关会自行完成
func (p *GatewayPayment) IsCaptured() bool {
	status := strings.ToLower(p.Status)
	return status == "captured" || status == "authorized"
}

// Gateway 支付网关客户端接口
// 教学要点:application层依赖此接口,测试时用fake替换真实HTTP调用
type Gateway interface {
	// CreateOrder 在网关创建订单
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*GatewayOrder, error)

	// FetchPayment 查询支付详情(回调校验时核对金额与状态)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)

	// VerifySignature 校验回调签名
	VerifySignature(orderID, paymentID, signature string) bool
}

// Client Razorpay API客户端
// 设计说明:
// 1. Basic Auth认证(key_id:key_secret)
// 2. 10秒超时,防止网关抖动拖垮整个请求链
// 3. 熔断器保护:网关连续失败时快速失败,避免雪崩
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient 创建网关客户端
func NewClient(cfg config.RazorpayConfig) *Client {
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Name:        "razorpay",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: breaker,
	}
}

// createOrderRequest 网关下单请求体
type createOrderRequest struct {
	Amount   int64  `json:"amount"`   // paise
	Currency string `json:"currency"` // INR
	Receipt  string `json:"receipt"`
}

// CreateOrder 在网关创建订单
// POST /v1/orders
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*GatewayOrder, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(createOrderRequest{
			Amount:   amountPaise,
			Currency: "INR",
			Receipt:  receipt,
		})
		if err != nil {
			return nil, apperrors.Wrap(err, "序列化下单请求失败")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
		if err != nil {
			return nil, apperrors.Wrap(err, "构建下单请求失败")
		}
		req.SetBasicAuth(c.keyID, c.keySecret)
		req.Header.Set("Content-Type", "application/json")

		var order GatewayOrder
		if err := c.do(req, &order); err != nil {
			return nil, err
		}
		return &order, nil
	})

	c.observe("create_order", start, err)

	if err != nil {
		zap.L().Error("网关下单失败",
			zap.Int64("amount_paise", amountPaise),
			zap.String("receipt", receipt),
			zap.Error(err))
		return nil, toGatewayError(err)
	}

	return result.(*GatewayOrder), nil
}

// FetchPayment 查询支付详情
// GET /v1/payments/{payment_id}
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, apperrors.Wrap(err, "构建支付查询请求失败")
		}
		req.SetBasicAuth(c.keyID, c.keySecret)

		var p GatewayPayment
		if err := c.do(req, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})

	c.observe("fetch_payment", start, err)

	if err != nil {
		zap.L().Error("网关支付查询失败",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return nil, toGatewayError(err)
	}

	return result.(*GatewayPayment), nil
}

// VerifySignature 校验回调签名
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// do 发送请求并解析JSON响应
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodePaymentGateway, "网关请求失败")
	}
	defer resp.Body.Close()

	// 限制读取大小,防御异常响应
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodePaymentGateway, "读取网关响应失败")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.New(apperrors.ErrCodePaymentGateway,
			fmt.Sprintf("网关返回异常状态: %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodePaymentGateway, "解析网关响应失败")
	}

	return nil
}

// observe 记录网关调用指标
func (c *Client) observe(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.GatewayRequestsTotal, operation, result)
	metrics.ObserveHistogramVec(metrics.GatewayRequestDuration, time.Since(start).Seconds(), operation)
}

// toGatewayError 统一转换网关错误
// 熔断开路和HTTP失败都归为ErrCodePaymentGateway(对外50003,可重试)
func toGatewayError(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.WrapWithCode(err, apperrors.ErrCodePaymentGateway, "支付网关暂不可用")
}
