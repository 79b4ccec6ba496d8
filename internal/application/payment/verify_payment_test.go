package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardrip/cleardrip/internal/domain/booking"
	"github.com/cleardrip/cleardrip/internal/domain/payment"
	"github.com/cleardrip/cleardrip/internal/domain/product"
	"github.com/cleardrip/cleardrip/internal/domain/subscription"
	"github.com/cleardrip/cleardrip/internal/domain/user"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// verifyFixture 支付核验测试夹具
// 预置:商品1(库存10)、服务1、套餐1、用户1
type verifyFixture struct {
	uc       *VerifyPaymentUseCase
	gateway  *fakeGateway
	orders   *fakeOrderRepo
	txns     *fakeTxnRepo
	products *fakeProductRepo
	bookings *fakeBookingRepo
	subs     *fakeSubRepo
	notifier *fakeNotifier
}

func newVerifyFixture() *verifyFixture {
	products := newFakeProductRepo(
		&product.Product{ID: 1, SKU: "RO-FILTER-01", Name: "RO滤芯", Price: 49900, Inventory: 10},
	)
	services := newFakeServiceRepo(
		&booking.ServiceDefinition{ID: 1, Name: "滤芯更换", Price: 69900},
	)
	plans := newFakePlanRepo(
		&subscription.Plan{ID: 1, Name: "季度保养", Price: 99900, DurationDays: 90},
	)
	bookings := newFakeBookingRepo()
	subs := newFakeSubRepo()
	orders := newFakeOrderRepo()
	txns := newFakeTxnRepo()
	users := newFakeUserRepo(
		&user.User{ID: 1, Email: "ravi@example.com", Nickname: "Ravi"},
	)
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}

	registry := NewPurposeRegistry(
		NewProductPurchaseStrategy(products),
		NewServiceBookingStrategy(services, bookings),
		NewSubscriptionStrategy(plans, subs),
	)
	txm := newFakeTxManager(orders, txns, products, bookings, subs)

	return &verifyFixture{
		uc:       NewVerifyPaymentUseCase(orders, txns, users, registry, gateway, txm, notifier),
		gateway:  gateway,
		orders:   orders,
		txns:     txns,
		products: products,
		bookings: bookings,
		subs:     subs,
		notifier: notifier,
	}
}

// seedProductOrder 预置一个PENDING的商品订单(2件商品1,金额99800)
func (f *verifyFixture) seedProductOrder(t *testing.T) *payment.PaymentOrder {
	t.Helper()
	order := payment.NewOrder("order_seed01", 1, 99800, payment.PurposeProductPurchase, payment.GenerateReceipt())
	order.Items = []payment.OrderItem{
		{ProductID: 1, Quantity: 2, Price: 49900, Subtotal: 99800},
	}
	require.NoError(t, f.orders.Create(context.Background(), order))
	f.gateway.payment = &razorpay.GatewayPayment{
		OrderID: order.RazorpayOrderID,
		Amount:  99800,
		Status:  "captured",
		Method:  "upi",
	}
	return order
}

func validVerifyRequest() VerifyPaymentRequest {
	return VerifyPaymentRequest{
		RazorpayOrderID:   "order_seed01",
		RazorpayPaymentID: "pay_abc123",
		RazorpaySignature: "sig_valid",
	}
}

func TestVerifyPayment_CapturesOrder(t *testing.T) {
	f := newVerifyFixture()
	order := f.seedProductOrder(t)

	resp, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, "pay_abc123", resp.Transaction.RazorpayPaymentID)
	assert.Equal(t, int64(99800), resp.Transaction.AmountPaid)
	assert.Equal(t, "upi", resp.Transaction.Method)

	// 订单推进SUCCESS
	saved, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.OrderStatusSuccess, saved.Status)

	// 库存在捕获事务内扣减:10 - 2 = 8
	assert.Equal(t, 8, f.products.inventory(1))

	// 事务提交后发布通知
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, "ravi@example.com", f.notifier.events[0].Recipient)
	assert.Equal(t, int64(99800), f.notifier.events[0].Amount)
}

func TestVerifyPayment_MissingParams(t *testing.T) {
	f := newVerifyFixture()
	f.seedProductOrder(t)

	for _, req := range []VerifyPaymentRequest{
		{RazorpayPaymentID: "pay_x", RazorpaySignature: "sig"},
		{RazorpayOrderID: "order_seed01", RazorpaySignature: "sig"},
		{RazorpayOrderID: "order_seed01", RazorpayPaymentID: "pay_x"},
	} {
		_, err := f.uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	}
}

func TestVerifyPayment_InvalidSignature(t *testing.T) {
	f := newVerifyFixture()
	order := f.seedProductOrder(t)
	f.gateway.signatureValid = false

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidSignature, apperrors.GetAppError(err).Code)

	// 签名不合法时零副作用
	saved, _ := f.orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, payment.OrderStatusPending, saved.Status)
	assert.Equal(t, 10, f.products.inventory(1))
	assert.Empty(t, f.txns.txns)
	assert.Empty(t, f.notifier.events)
}

func TestVerifyPayment_OrderNotFound(t *testing.T) {
	f := newVerifyFixture()

	_, err := f.uc.Execute(context.Background(), VerifyPaymentRequest{
		RazorpayOrderID:   "order_unknown",
		RazorpayPaymentID: "pay_abc123",
		RazorpaySignature: "sig_valid",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeOrderNotFound, apperrors.GetAppError(err).Code)
}

func TestVerifyPayment_Idempotent(t *testing.T) {
	f := newVerifyFixture()
	f.seedProductOrder(t)

	first, err := f.uc.Execute(context.Background(), validVerifyRequest())
	require.NoError(t, err)

	// 重放同一回调
	second, err := f.uc.Execute(context.Background(), validVerifyRequest())
	require.NoError(t, err)

	assert.True(t, second.Success)
	require.NotNil(t, second.Transaction)
	assert.Equal(t, first.Transaction.TransactionNo, second.Transaction.TransactionNo)

	// 库存只扣一次,流水只有一条,通知只发一次
	assert.Equal(t, 8, f.products.inventory(1))
	assert.Len(t, f.txns.txns, 1)
	assert.Len(t, f.notifier.events, 1)
}

func TestVerifyPayment_AmountMismatch(t *testing.T) {
	f := newVerifyFixture()
	order := f.seedProductOrder(t)
	// 网关实际扣款少1 paise
	f.gateway.payment.Amount = 99799

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAmountMismatch, apperrors.GetAppError(err).Code)

	// 订单保持PENDING,无任何副作用
	saved, _ := f.orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, payment.OrderStatusPending, saved.Status)
	assert.Equal(t, 10, f.products.inventory(1))
	assert.Empty(t, f.txns.txns)
}

func TestVerifyPayment_NotCaptured(t *testing.T) {
	f := newVerifyFixture()
	order := f.seedProductOrder(t)
	f.gateway.payment.Status = "failed"

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePaymentNotCaptured, apperrors.GetAppError(err).Code)

	saved, _ := f.orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, payment.OrderStatusPending, saved.Status)
}

func TestVerifyPayment_GatewayError(t *testing.T) {
	f := newVerifyFixture()
	f.seedProductOrder(t)
	f.gateway.fetchPaymentErr = apperrors.New(apperrors.ErrCodePaymentGateway, "网关超时")

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.Error(t, err)
	// 网关错误(500类)与"支付未扣款"(400类)是不同错误
	assert.Equal(t, apperrors.ErrCodePaymentGateway, apperrors.GetAppError(err).Code)
}

func TestVerifyPayment_InsufficientInventoryAbortsCapture(t *testing.T) {
	f := newVerifyFixture()
	order := f.seedProductOrder(t)
	// 把库存压到不足(订单要2件)
	require.NoError(t, f.products.UpdateInventory(context.Background(), 1, -9))

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInsufficientInventory, apperrors.GetAppError(err).Code)

	// 事务整体回滚:订单仍PENDING,流水不存在,库存不变
	saved, _ := f.orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, payment.OrderStatusPending, saved.Status)
	assert.Empty(t, f.txns.txns)
	assert.Equal(t, 1, f.products.inventory(1))
	assert.Empty(t, f.notifier.events)
}

func TestVerifyPayment_ConfirmsBooking(t *testing.T) {
	f := newVerifyFixture()

	// 预置服务预订订单
	b := booking.NewBooking(1, 1, time.Now().Add(24*time.Hour))
	require.NoError(t, f.bookings.Create(context.Background(), b))
	order := payment.NewOrder("order_seed01", 1, 69900, payment.PurposeServiceBooking, payment.GenerateReceipt())
	order.BookingID = &b.ID
	require.NoError(t, f.orders.Create(context.Background(), order))
	f.gateway.payment = &razorpay.GatewayPayment{Amount: 69900, Status: "captured", Method: "card"}

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())
	require.NoError(t, err)

	// 预订推进IN_PROGRESS
	saved, err := f.bookings.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingStatusInProgress, saved.Status)
}

func TestVerifyPayment_ActivatesSubscription(t *testing.T) {
	f := newVerifyFixture()

	sub := subscription.NewSubscription(1, 1)
	require.NoError(t, f.subs.Create(context.Background(), sub))
	order := payment.NewOrder("order_seed01", 1, 99900, payment.PurposeSubscription, payment.GenerateReceipt())
	order.SubscriptionID = &sub.ID
	require.NoError(t, f.orders.Create(context.Background(), order))
	f.gateway.payment = &razorpay.GatewayPayment{Amount: 99900, Status: "authorized", Method: "card"}

	_, err := f.uc.Execute(context.Background(), validVerifyRequest())
	require.NoError(t, err)

	saved, err := f.subs.FindByID(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.SubscriptionStatusConfirmed, saved.Status)
	// 有效期 = 套餐周期90天
	assert.WithinDuration(t, saved.StartsAt.AddDate(0, 0, 90), saved.EndsAt, time.Second)
	assert.True(t, saved.IsActive(time.Now()))
}

func TestVerifyPayment_DuplicatePaymentIDIsIdempotent(t *testing.T) {
	f := newVerifyFixture()
	f.seedProductOrder(t)

	// 预置同payment_id的既有流水,但订单还是PENDING
	// (模拟并发窗口:另一实例已插入流水而本实例读到旧订单状态)
	existing := payment.NewTransaction(999, "pay_abc123", "sig_valid", "upi", 99800)
	require.NoError(t, f.txns.Create(context.Background(), existing))

	resp, err := f.uc.Execute(context.Background(), validVerifyRequest())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, existing.TransactionNo, resp.Transaction.TransactionNo)
	// 未重复扣库存
	assert.Equal(t, 10, f.products.inventory(1))
}
