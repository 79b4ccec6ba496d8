package payment

import (
	"context"
	"fmt"

	"github.com/cleardrip/cleardrip/internal/domain/booking"
	"github.com/cleardrip/cleardrip/internal/domain/payment"
	"github.com/cleardrip/cleardrip/internal/domain/product"
	"github.com/cleardrip/cleardrip/internal/domain/subscription"
	"github.com/cleardrip/cleardrip/internal/domain/user"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	"github.com/cleardrip/cleardrip/internal/infrastructure/notification"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// 内存仓储fake:模拟数据库语义(返回副本、唯一索引、事务回滚)
// 教学要点:
// 1. 读取返回副本,调用方修改实体不会影响"库里"的数据,
//    只有显式Update才落库,与真实仓储行为一致
// 2. fakeTxManager在事务失败时恢复快照,
//    用于验证"捕获事务整体回滚"这类属性

// snapshotter 支持快照/恢复的fake仓储
type snapshotter interface {
	snapshot()
	restore()
}

// fakeTxManager 内存事务管理器
// fn返回错误时恢复所有仓储的快照,模拟数据库回滚
type fakeTxManager struct {
	stores []snapshotter
}

func newFakeTxManager(stores ...snapshotter) *fakeTxManager {
	return &fakeTxManager{stores: stores}
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	for _, s := range m.stores {
		s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for _, s := range m.stores {
			s.restore()
		}
		return err
	}
	return nil
}

// =========================================
// 支付订单仓储fake
// =========================================

type fakeOrderRepo struct {
	orders map[uint]*payment.PaymentOrder
	nextID uint
	saved  map[uint]*payment.PaymentOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*payment.PaymentOrder), nextID: 1}
}

func cloneOrder(o *payment.PaymentOrder) *payment.PaymentOrder {
	c := *o
	c.Items = append([]payment.OrderItem(nil), o.Items...)
	if o.BookingID != nil {
		v := *o.BookingID
		c.BookingID = &v
	}
	if o.SubscriptionID != nil {
		v := *o.SubscriptionID
		c.SubscriptionID = &v
	}
	return &c
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *payment.PaymentOrder) error {
	for _, existing := range r.orders {
		if existing.RazorpayOrderID == o.RazorpayOrderID {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "网关订单号已存在")
		}
	}
	o.ID = r.nextID
	r.nextID++
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*payment.PaymentOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, payment.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*payment.PaymentOrder, error) {
	for _, o := range r.orders {
		if o.RazorpayOrderID == razorpayOrderID {
			return cloneOrder(o), nil
		}
	}
	return nil, payment.ErrOrderNotFound
}

func (r *fakeOrderRepo) LockByID(ctx context.Context, id uint) (*payment.PaymentOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) LockByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*payment.PaymentOrder, error) {
	return r.FindByRazorpayOrderID(ctx, razorpayOrderID)
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *payment.PaymentOrder) error {
	if _, ok := r.orders[o.ID]; !ok {
		return payment.ErrOrderNotFound
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*payment.PaymentOrder, int64, error) {
	var result []*payment.PaymentOrder
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, cloneOrder(o))
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) snapshot() {
	r.saved = make(map[uint]*payment.PaymentOrder, len(r.orders))
	for id, o := range r.orders {
		r.saved[id] = cloneOrder(o)
	}
}

func (r *fakeOrderRepo) restore() {
	r.orders = r.saved
	r.saved = nil
}

// =========================================
// 支付流水仓储fake
// =========================================

type fakeTxnRepo struct {
	txns   []*payment.Transaction
	nextID uint
	saved  []*payment.Transaction
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{nextID: 1}
}

func (r *fakeTxnRepo) Create(ctx context.Context, t *payment.Transaction) error {
	// 模拟razorpay_payment_id唯一索引
	for _, existing := range r.txns {
		if existing.RazorpayPaymentID == t.RazorpayPaymentID {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "支付流水已存在")
		}
	}
	t.ID = r.nextID
	r.nextID++
	c := *t
	r.txns = append(r.txns, &c)
	return nil
}

func (r *fakeTxnRepo) FindSuccessByOrderID(ctx context.Context, orderID uint) (*payment.Transaction, error) {
	for _, t := range r.txns {
		if t.OrderID == orderID && t.Status == payment.TransactionStatusSuccess {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) FindByRazorpayPaymentID(ctx context.Context, paymentID string) (*payment.Transaction, error) {
	for _, t := range r.txns {
		if t.RazorpayPaymentID == paymentID {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) snapshot() {
	r.saved = make([]*payment.Transaction, len(r.txns))
	for i, t := range r.txns {
		c := *t
		r.saved[i] = &c
	}
}

func (r *fakeTxnRepo) restore() {
	r.txns = r.saved
	r.saved = nil
}

// =========================================
// 商品仓储fake
// =========================================

type fakeProductRepo struct {
	products map[uint]*product.Product
	saved    map[uint]*product.Product
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	m := make(map[uint]*product.Product)
	for _, p := range products {
		c := *p
		m[p.ID] = &c
	}
	return &fakeProductRepo{products: m}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var result []*product.Product
	for _, p := range r.products {
		c := *p
		result = append(result, &c)
	}
	return result, int64(len(result)), nil
}

func (r *fakeProductRepo) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) UpdateInventory(ctx context.Context, id uint, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.Inventory+delta < 0 {
		return product.ErrInsufficientInventory
	}
	p.Inventory += delta
	return nil
}

func (r *fakeProductRepo) inventory(id uint) int {
	return r.products[id].Inventory
}

func (r *fakeProductRepo) snapshot() {
	r.saved = make(map[uint]*product.Product, len(r.products))
	for id, p := range r.products {
		c := *p
		r.saved[id] = &c
	}
}

func (r *fakeProductRepo) restore() {
	r.products = r.saved
	r.saved = nil
}

// =========================================
// 服务与预订仓储fake
// =========================================

type fakeServiceRepo struct {
	services map[uint]*booking.ServiceDefinition
}

func newFakeServiceRepo(services ...*booking.ServiceDefinition) *fakeServiceRepo {
	m := make(map[uint]*booking.ServiceDefinition)
	for _, s := range services {
		c := *s
		m[s.ID] = &c
	}
	return &fakeServiceRepo{services: m}
}

func (r *fakeServiceRepo) Create(ctx context.Context, s *booking.ServiceDefinition) error {
	c := *s
	r.services[s.ID] = &c
	return nil
}

func (r *fakeServiceRepo) FindByID(ctx context.Context, id uint) (*booking.ServiceDefinition, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, booking.ErrServiceNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeServiceRepo) List(ctx context.Context, page, pageSize int) ([]*booking.ServiceDefinition, int64, error) {
	var result []*booking.ServiceDefinition
	for _, s := range r.services {
		c := *s
		result = append(result, &c)
	}
	return result, int64(len(result)), nil
}

type fakeBookingRepo struct {
	bookings map[string]*booking.ServiceBooking
	saved    map[string]*booking.ServiceBooking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*booking.ServiceBooking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *booking.ServiceBooking) error {
	c := *b
	r.bookings[b.ID] = &c
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id string) (*booking.ServiceBooking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	c := *b
	return &c, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *booking.ServiceBooking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	c := *b
	r.bookings[b.ID] = &c
	return nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, id string) error {
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*booking.ServiceBooking, int64, error) {
	var result []*booking.ServiceBooking
	for _, b := range r.bookings {
		if b.UserID == userID {
			c := *b
			result = append(result, &c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepo) snapshot() {
	r.saved = make(map[string]*booking.ServiceBooking, len(r.bookings))
	for id, b := range r.bookings {
		c := *b
		r.saved[id] = &c
	}
}

func (r *fakeBookingRepo) restore() {
	r.bookings = r.saved
	r.saved = nil
}

// =========================================
// 订阅仓储fake
// =========================================

type fakePlanRepo struct {
	plans map[uint]*subscription.Plan
}

func newFakePlanRepo(plans ...*subscription.Plan) *fakePlanRepo {
	m := make(map[uint]*subscription.Plan)
	for _, p := range plans {
		c := *p
		m[p.ID] = &c
	}
	return &fakePlanRepo{plans: m}
}

func (r *fakePlanRepo) Create(ctx context.Context, p *subscription.Plan) error {
	c := *p
	r.plans[p.ID] = &c
	return nil
}

func (r *fakePlanRepo) FindByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, subscription.ErrPlanNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePlanRepo) List(ctx context.Context, page, pageSize int) ([]*subscription.Plan, int64, error) {
	var result []*subscription.Plan
	for _, p := range r.plans {
		c := *p
		result = append(result, &c)
	}
	return result, int64(len(result)), nil
}

type fakeSubRepo struct {
	subs  map[string]*subscription.Subscription
	saved map[string]*subscription.Subscription
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: make(map[string]*subscription.Subscription)}
}

func (r *fakeSubRepo) Create(ctx context.Context, s *subscription.Subscription) error {
	c := *s
	r.subs[s.ID] = &c
	return nil
}

func (r *fakeSubRepo) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	s, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeSubRepo) Update(ctx context.Context, s *subscription.Subscription) error {
	if _, ok := r.subs[s.ID]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	c := *s
	r.subs[s.ID] = &c
	return nil
}

func (r *fakeSubRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*subscription.Subscription, int64, error) {
	var result []*subscription.Subscription
	for _, s := range r.subs {
		if s.UserID == userID {
			c := *s
			result = append(result, &c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeSubRepo) snapshot() {
	r.saved = make(map[string]*subscription.Subscription, len(r.subs))
	for id, s := range r.subs {
		c := *s
		r.saved[id] = &c
	}
}

func (r *fakeSubRepo) restore() {
	r.subs = r.saved
	r.saved = nil
}

// =========================================
// 用户仓储fake
// =========================================

type fakeUserRepo struct {
	users map[uint]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	m := make(map[uint]*user.User)
	for _, u := range users {
		c := *u
		m[u.ID] = &c
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

// =========================================
// 网关与通知fake
// =========================================

type fakeGateway struct {
	createOrderErr  error
	fetchPaymentErr error
	payment         *razorpay.GatewayPayment
	signatureValid  bool
	orderSeq        int
	createdOrders   []int64 // 记录每次下单的金额
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{signatureValid: true}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*razorpay.GatewayOrder, error) {
	if g.createOrderErr != nil {
		return nil, g.createOrderErr
	}
	g.orderSeq++
	g.createdOrders = append(g.createdOrders, amountPaise)
	return &razorpay.GatewayOrder{
		ID:       fmt.Sprintf("order_fake%03d", g.orderSeq),
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) FetchPayment(ctx context.Context, paymentID string) (*razorpay.GatewayPayment, error) {
	if g.fetchPaymentErr != nil {
		return nil, g.fetchPaymentErr
	}
	if g.payment != nil {
		c := *g.payment
		c.ID = paymentID
		return &c, nil
	}
	return &razorpay.GatewayPayment{ID: paymentID, Status: "captured"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.signatureValid
}

type fakeNotifier struct {
	events []notification.PaymentConfirmedEvent
}

func (n *fakeNotifier) PaymentConfirmed(ctx context.Context, event notification.PaymentConfirmedEvent) {
	n.events = append(n.events, event)
}
