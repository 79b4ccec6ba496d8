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
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 测试夹具:三种用途的策略注册表与依赖仓储
type createOrderFixture struct {
	uc       *CreateOrderUseCase
	gateway  *fakeGateway
	orders   *fakeOrderRepo
	products *fakeProductRepo
	bookings *fakeBookingRepo
	subs     *fakeSubRepo
}

func newCreateOrderFixture() *createOrderFixture {
	products := newFakeProductRepo(
		&product.Product{ID: 1, SKU: "RO-FILTER-01", Name: "RO滤芯", Price: 49900, Inventory: 10},
		&product.Product{ID: 2, SKU: "UV-LAMP-02", Name: "UV灯管", Price: 129900, Inventory: 5},
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
	gateway := newFakeGateway()

	registry := NewPurposeRegistry(
		NewProductPurchaseStrategy(products),
		NewServiceBookingStrategy(services, bookings),
		NewSubscriptionStrategy(plans, subs),
	)

	return &createOrderFixture{
		uc:       NewCreateOrderUseCase(registry, gateway, orders),
		gateway:  gateway,
		orders:   orders,
		products: products,
		bookings: bookings,
		subs:     subs,
	}
}

func TestCreateOrder_ProductPurchase(t *testing.T) {
	f := newCreateOrderFixture()

	resp, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  1,
		Purpose: "PRODUCT_PURCHASE",
		Items: []OrderItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})

	require.NoError(t, err)
	// 金额 = 2×49900 + 1×129900,以服务端价格为准
	assert.Equal(t, int64(229700), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "PENDING", resp.Order.Status)
	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, int64(99800), resp.Order.Items[0].Subtotal)

	// 创建阶段不动库存
	assert.Equal(t, 10, f.products.inventory(1))
	assert.Equal(t, 5, f.products.inventory(2))

	// 本地订单已落库,挂接网关订单号
	saved, err := f.orders.FindByRazorpayOrderID(context.Background(), resp.RazorpayOrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.OrderStatusPending, saved.Status)
	assert.Equal(t, int64(229700), saved.Amount)
}

func TestCreateOrder_QuantityDefaultsToOne(t *testing.T) {
	f := newCreateOrderFixture()

	resp, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  1,
		Purpose: "PRODUCT_PURCHASE",
		Items:   []OrderItemRequest{{ProductID: 1, Quantity: 0}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(49900), resp.Amount)
	assert.Equal(t, 1, resp.Order.Items[0].Quantity)
}

func TestCreateOrder_InvalidPurpose(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  1,
		Purpose: "GIFT_CARD",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidPurpose, apperrors.GetAppError(err).Code)
	// 校验失败前不触网关
	assert.Empty(t, f.gateway.createdOrders)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  1,
		Purpose: "PRODUCT_PURCHASE",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  1,
		Purpose: "PRODUCT_PURCHASE",
		Items:   []OrderItemRequest{{ProductID: 999, Quantity: 1}},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidProductID, apperrors.GetAppError(err).Code)
	assert.Empty(t, f.gateway.createdOrders)
}

func TestCreateOrder_ServiceBooking(t *testing.T) {
	f := newCreateOrderFixture()
	slot := time.Now().Add(48 * time.Hour)

	resp, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:    7,
		Purpose:   "SERVICE_BOOKING",
		ServiceID: 1,
		SlotAt:    slot,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(69900), resp.Amount)
	require.NotNil(t, resp.Order.BookingID)

	// 预订已创建且处于PENDING
	b, err := f.bookings.FindByID(context.Background(), *resp.Order.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingStatusPending, b.Status)
	assert.Equal(t, uint(7), b.UserID)
}

func TestCreateOrder_ServiceBooking_MissingSlot(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:    7,
		Purpose:   "SERVICE_BOOKING",
		ServiceID: 1,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}

func TestCreateOrder_Subscription(t *testing.T) {
	f := newCreateOrderFixture()

	resp, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  3,
		Purpose: "SUBSCRIPTION",
		PlanID:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(99900), resp.Amount)
	require.NotNil(t, resp.Order.SubscriptionID)

	sub, err := f.subs.FindByID(context.Background(), *resp.Order.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.SubscriptionStatusPending, sub.Status)
	assert.True(t, sub.StartsAt.IsZero(), "生效时间应在支付确认时才定格")
}

func TestCreateOrder_GatewayFailureCompensatesBooking(t *testing.T) {
	f := newCreateOrderFixture()
	f.gateway.createOrderErr = apperrors.New(apperrors.ErrCodePaymentGateway, "网关不可用")

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:    7,
		Purpose:   "SERVICE_BOOKING",
		ServiceID: 1,
		SlotAt:    time.Now().Add(24 * time.Hour),
	})

	require.Error(t, err)
	// errors.As穿透saga包装提取业务错误
	assert.Equal(t, apperrors.ErrCodePaymentGateway, apperrors.GetAppError(err).Code)
	// 补偿已删除PENDING预订,时段释放
	assert.Empty(t, f.bookings.bookings)
	// 订单未落库
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrder_GatewayFailureCompensatesSubscription(t *testing.T) {
	f := newCreateOrderFixture()
	f.gateway.createOrderErr = apperrors.New(apperrors.ErrCodePaymentGateway, "网关不可用")

	_, err := f.uc.Execute(context.Background(), CreateOrderRequest{
		UserID:  3,
		Purpose: "SUBSCRIPTION",
		PlanID:  1,
	})

	require.Error(t, err)
	// 订阅补偿为标记CANCELLED(保留记录)
	require.Len(t, f.subs.subs, 1)
	for _, sub := range f.subs.subs {
		assert.Equal(t, subscription.SubscriptionStatusCancelled, sub.Status)
	}
	assert.Empty(t, f.orders.orders)
}
