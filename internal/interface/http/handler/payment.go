package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/cleardrip/cleardrip/internal/application/payment"
	"github.com/cleardrip/cleardrip/internal/interface/http/dto"
	"github.com/cleardrip/cleardrip/internal/interface/http/middleware"
	"github.com/cleardrip/cleardrip/pkg/money"
	"github.com/cleardrip/cleardrip/pkg/response"
)

// PaymentHandler 支付HTTP处理器
// 教学说明:支付一致性的核心入口
// 本模块演示如何在"本地订单库"与"外部支付网关"两套
// 无法共享事务的系统之间保证资金与商品状态的一致:
// 1. 创建订单用Saga补偿(网关下单失败回滚预订/订阅)
// 2. 回调核验用安全漏斗(签名→查证→金额→原子捕获)
// 3. 重放靠三重幂等(短路/行锁复核/唯一索引)
type PaymentHandler struct {
	razorpayKeyID string // 网关公钥,随下单响应下发给前端收银台
	createUseCase *apppayment.CreateOrderUseCase
	verifyUseCase *apppayment.VerifyPaymentUseCase
	cancelUseCase *apppayment.CancelPaymentUseCase
	listUseCase   *apppayment.ListOrdersUseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(
	razorpayKeyID string,
	createUseCase *apppayment.CreateOrderUseCase,
	verifyUseCase *apppayment.VerifyPaymentUseCase,
	cancelUseCase *apppayment.CancelPaymentUseCase,
	listUseCase *apppayment.ListOrdersUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		razorpayKeyID: razorpayKeyID,
		createUseCase: createUseCase,
		verifyUseCase: verifyUseCase,
		cancelUseCase: cancelUseCase,
		listUseCase:   listUseCase,
	}
}

// CreateOrder 创建支付订单
// @Summary      创建支付订单
// @Description  按用途(商品/服务预订/订阅)创建网关订单,金额由服务端定价
// @Tags         支付
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePaymentOrderRequest true "下单信息"
// @Success      201 {object} response.Response{data=dto.CreatePaymentOrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误/非法用途/金额为0"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "服务或套餐不存在"
// @Failure      500 {object} response.Response "支付网关不可用"
// @Router       /api/v1/payment/order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	items := make([]apppayment.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = apppayment.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apppayment.CreateOrderRequest{
		UserID:    userID,
		Purpose:   req.Purpose,
		Items:     items,
		ServiceID: req.ServiceID,
		SlotAt:    req.SlotAt,
		PlanID:    req.PlanID,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.CreatePaymentOrderResponse{
		Key:             h.razorpayKeyID,
		RazorpayOrderID: result.RazorpayOrderID,
		Amount:          result.Amount,
		Currency:        result.Currency,
		Order:           toPaymentOrderView(result.Order),
	})
}

// VerifyPayment 支付回调核验
// @Summary      支付回调核验
// @Description  校验收银台回调签名,向网关查证后原子捕获支付;可安全重放(幂等)
// @Tags         支付
// @Accept       json
// @Produce      json
// @Param        request body dto.VerifyPaymentRequest true "回调参数"
// @Success      200 {object} response.Response{data=dto.VerifyPaymentResponse} "捕获成功(或幂等成功)"
// @Failure      400 {object} response.Response "签名非法/金额不一致/未扣款/库存不足"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      500 {object} response.Response "支付网关不可用"
// @Router       /api/v1/payment/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.verifyUseCase.Execute(c.Request.Context(), apppayment.VerifyPaymentRequest{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	resp := &dto.VerifyPaymentResponse{Success: result.Success}
	if result.Transaction != nil {
		resp.Transaction = &dto.TransactionView{
			TransactionNo:     result.Transaction.TransactionNo,
			OrderID:           result.Transaction.OrderID,
			RazorpayPaymentID: result.Transaction.RazorpayPaymentID,
			Status:            result.Transaction.Status,
			Method:            result.Transaction.Method,
			AmountPaid:        result.Transaction.AmountPaid,
			CapturedAt:        result.Transaction.CapturedAt.Format("2006-01-02 15:04:05"),
		}
	}
	response.Success(c, resp)
}

// CancelPayment 取消支付订单
// @Summary      取消支付订单
// @Description  取消本人的PENDING订单,同事务删除预订/取消订阅
// @Tags         支付
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CancelPaymentRequest true "取消参数"
// @Success      200 {object} response.Response{data=dto.CancelPaymentResponse} "取消成功"
// @Failure      400 {object} response.Response "订单状态不允许取消"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非本人订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/payment/cancel [post]
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.cancelUseCase.Execute(c.Request.Context(), apppayment.CancelPaymentRequest{
		OrderID: req.OrderID,
		UserID:  userID,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CancelPaymentResponse{Success: true})
}

// ListOrders 我的订单列表
// @Summary      我的订单列表
// @Description  分页查询当前用户的支付订单(含明细)
// @Tags         支付
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认10)"
// @Success      200 {object} response.Response{data=dto.ListPaymentOrdersResponse} "查询成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/payment/orders [get]
func (h *PaymentHandler) ListOrders(c *gin.Context) {
	var req dto.ListPaymentOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.listUseCase.Execute(c.Request.Context(), apppayment.ListOrdersRequest{
		UserID:   userID,
		Page:     req.Page,
		PageSize: req.PageSize,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.PaymentOrderView, len(result.Orders))
	for i, o := range result.Orders {
		list[i] = *toPaymentOrderView(o)
	}

	response.Success(c, &dto.ListPaymentOrdersResponse{
		List:  list,
		Total: result.Total,
		Page:  result.Page,
		Size:  result.PageSize,
	})
}

// toPaymentOrderView 应用层DTO → HTTP视图
func toPaymentOrderView(o *apppayment.OrderDTO) *dto.PaymentOrderView {
	items := make([]dto.PaymentOrderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = dto.PaymentOrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}
	return &dto.PaymentOrderView{
		ID:              o.ID,
		RazorpayOrderID: o.RazorpayOrderID,
		Amount:          o.Amount,
		AmountRupees:    money.FormatPaise(o.Amount),
		Purpose:         o.Purpose,
		Status:          o.Status,
		BookingID:       o.BookingID,
		SubscriptionID:  o.SubscriptionID,
		Items:           items,
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
