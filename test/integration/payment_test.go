package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：支付模块集成测试
//
// 支付模块是本项目的核心，这里验证的是不依赖真实扣款就能
// 覆盖的部分：
// 1. 创建订单（服务端定价、网关下单、PENDING落库）
// 2. 回调核验的安全漏斗（伪造签名必须被拒绝）
// 3. 取消订单（状态机 + 归属校验）
// 4. 订单列表（用户隔离、分页）
//
// 真实的"支付成功→捕获"路径需要收银台产生合法签名，
// 无法在自动化测试中触发，由应用层单元测试用网关替身覆盖

// TestPaymentCreateOrder 测试创建支付订单
func TestPaymentCreateOrder(t *testing.T) {
	_, token := RegisterTestUser(t, "pay_creator")

	t.Run("正常创建商品购买订单", func(t *testing.T) {
		productID := PublishTestProduct(t, token, "支付测试滤芯", 49900, 10)

		orderData := CreateTestProductOrder(t, token, productID, 2)

		// 服务端定价：49900 × 2 = 99800
		assert.Equal(t, int64(99800), orderData.Amount, "金额应该由服务端按单价×数量计算")
		assert.Equal(t, "INR", orderData.Currency)
		assert.NotEmpty(t, orderData.Key, "应该下发网关公钥供前端唤起收银台")
		assert.NotEmpty(t, orderData.RazorpayOrderID, "应该返回网关订单号")
		assert.Equal(t, "PENDING", orderData.Order.Status, "本地订单应该是PENDING状态")
		assert.Equal(t, "PRODUCT_PURCHASE", orderData.Order.Purpose)

		t.Logf("✓ 下单成功，网关订单: %s, 金额: %s",
			orderData.RazorpayOrderID, orderData.Order.AmountRupees)
	})

	t.Run("下单不扣库存", func(t *testing.T) {
		// 库存只在支付捕获时扣减，PENDING订单不占库存
		productID := PublishTestProduct(t, token, "库存检查滤芯", 10000, 5)
		CreateTestProductOrder(t, token, productID, 3)

		resp := GetJSON(t, BaseURL+"/products?keyword=库存检查滤芯", "")
		require.Equal(t, 0, resp.Code)

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		require.NotEmpty(t, data.List)
		assert.Equal(t, 5, data.List[0].Inventory, "下单后库存应该保持不变")
	})

	t.Run("非法用途应失败", func(t *testing.T) {
		orderReq := map[string]interface{}{
			"purpose": "GIFT_CARD",
			"items":   []map[string]interface{}{{"product_id": 1, "quantity": 1}},
		}
		resp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
		assert.NotEqual(t, 0, resp.Code, "未知用途应该被拒绝")
	})

	t.Run("商品购买缺少items应失败", func(t *testing.T) {
		orderReq := map[string]interface{}{
			"purpose": "PRODUCT_PURCHASE",
		}
		resp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
		assert.NotEqual(t, 0, resp.Code, "空购物车应该被拒绝")
	})

	t.Run("不存在的商品应失败", func(t *testing.T) {
		orderReq := map[string]interface{}{
			"purpose": "PRODUCT_PURCHASE",
			"items":   []map[string]interface{}{{"product_id": 99999999, "quantity": 1}},
		}
		resp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
		assert.NotEqual(t, 0, resp.Code, "不存在的商品应该被拒绝")
	})

	t.Run("服务预订缺少时段应失败", func(t *testing.T) {
		orderReq := map[string]interface{}{
			"purpose":    "SERVICE_BOOKING",
			"service_id": 1,
			// 缺少slot_at
		}
		resp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
		assert.NotEqual(t, 0, resp.Code, "缺少预约时段应该被拒绝")
	})

	t.Run("未登录下单应失败", func(t *testing.T) {
		orderReq := map[string]interface{}{
			"purpose": "PRODUCT_PURCHASE",
			"items":   []map[string]interface{}{{"product_id": 1, "quantity": 1}},
		}
		resp := PostJSON(t, BaseURL+"/payment/order", orderReq, "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})
}

// TestPaymentCreateServiceBookingOrder 测试服务预订下单
//
// 说明：服务项目由种子数据提供，环境里没有时跳过
func TestPaymentCreateServiceBookingOrder(t *testing.T) {
	_, token := RegisterTestUser(t, "pay_booker")

	listResp := GetJSON(t, BaseURL+"/services", "")
	require.Equal(t, 0, listResp.Code, "服务列表查询失败")

	var services struct {
		List []struct {
			ID    uint  `json:"id"`
			Price int64 `json:"price"`
		} `json:"list"`
	}
	err := json.Unmarshal(listResp.Data, &services)
	require.NoError(t, err)

	if len(services.List) == 0 {
		t.Skip("环境中没有可预订的服务项目")
	}

	svc := services.List[0]
	orderReq := map[string]interface{}{
		"purpose":    "SERVICE_BOOKING",
		"service_id": svc.ID,
		"slot_at":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}

	resp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
	require.Equal(t, 0, resp.Code, "服务预订下单失败: %s", resp.Message)

	var orderData PaymentOrderData
	err = json.Unmarshal(resp.Data, &orderData)
	require.NoError(t, err)

	assert.Equal(t, svc.Price, orderData.Amount, "金额应该等于服务定价")
	assert.Equal(t, "SERVICE_BOOKING", orderData.Order.Purpose)
	require.NotNil(t, orderData.Order.BookingID, "应该创建PENDING预订并回填booking_id")

	t.Logf("✓ 预订下单成功，booking_id: %s", *orderData.Order.BookingID)
}

// TestPaymentVerify 测试回调核验的安全漏斗
//
// 教学要点：核验接口是公开的（收银台回调无法带JWT），
// 安全性完全依赖HMAC签名，所以伪造签名必须被坚决拒绝
func TestPaymentVerify(t *testing.T) {
	_, token := RegisterTestUser(t, "pay_verifier")
	productID := PublishTestProduct(t, token, "核验测试滤芯", 29900, 10)
	orderData := CreateTestProductOrder(t, token, productID, 1)

	t.Run("伪造签名应被拒绝", func(t *testing.T) {
		verifyReq := map[string]string{
			"razorpay_order_id":   orderData.RazorpayOrderID,
			"razorpay_payment_id": "pay_forged000000001",
			"razorpay_signature":  "deadbeefdeadbeefdeadbeefdeadbeef",
		}

		resp := PostJSON(t, BaseURL+"/payment/verify", verifyReq, "")
		assert.NotEqual(t, 0, resp.Code, "伪造签名必须被拒绝")

		t.Logf("✓ 伪造签名正确被拒绝: %s", resp.Message)
	})

	t.Run("伪造签名后订单仍是PENDING", func(t *testing.T) {
		listResp := GetJSON(t, BaseURL+"/payment/orders?page=1&page_size=50", token)
		require.Equal(t, 0, listResp.Code)

		var list PaymentOrderListData
		err := json.Unmarshal(listResp.Data, &list)
		require.NoError(t, err)

		for _, o := range list.List {
			if o.ID == orderData.Order.ID {
				assert.Equal(t, "PENDING", o.Status, "被拒绝的核验不应该改变订单状态")
				return
			}
		}
		t.Fatal("订单列表中找不到刚创建的订单")
	})

	t.Run("缺少回调参数应被拒绝", func(t *testing.T) {
		verifyReq := map[string]string{
			"razorpay_order_id": orderData.RazorpayOrderID,
			// 缺payment_id和signature
		}
		resp := PostJSON(t, BaseURL+"/payment/verify", verifyReq, "")
		assert.NotEqual(t, 0, resp.Code, "参数不全应该被拒绝")
	})
}

// TestPaymentCancel 测试取消订单
func TestPaymentCancel(t *testing.T) {
	_, token := RegisterTestUser(t, "pay_canceller")
	productID := PublishTestProduct(t, token, "取消测试滤芯", 19900, 10)

	t.Run("取消PENDING订单", func(t *testing.T) {
		orderData := CreateTestProductOrder(t, token, productID, 1)

		cancelReq := map[string]interface{}{"order_id": orderData.Order.ID}
		resp := PostJSON(t, BaseURL+"/payment/cancel", cancelReq, token)
		require.Equal(t, 0, resp.Code, "取消应该成功: %s", resp.Message)

		// 列表中确认状态翻转
		listResp := GetJSON(t, BaseURL+"/payment/orders?page=1&page_size=50", token)
		require.Equal(t, 0, listResp.Code)

		var list PaymentOrderListData
		err := json.Unmarshal(listResp.Data, &list)
		require.NoError(t, err)

		found := false
		for _, o := range list.List {
			if o.ID == orderData.Order.ID {
				assert.Equal(t, "CANCELLED", o.Status)
				found = true
			}
		}
		assert.True(t, found, "取消后的订单应该仍在列表中")

		t.Logf("✓ 取消成功，订单%d已是CANCELLED", orderData.Order.ID)
	})

	t.Run("重复取消应失败", func(t *testing.T) {
		orderData := CreateTestProductOrder(t, token, productID, 1)

		cancelReq := map[string]interface{}{"order_id": orderData.Order.ID}
		resp1 := PostJSON(t, BaseURL+"/payment/cancel", cancelReq, token)
		require.Equal(t, 0, resp1.Code, "第一次取消应该成功")

		resp2 := PostJSON(t, BaseURL+"/payment/cancel", cancelReq, token)
		assert.NotEqual(t, 0, resp2.Code, "已取消的订单不能再次取消")
	})

	t.Run("取消他人订单应被拒绝", func(t *testing.T) {
		orderData := CreateTestProductOrder(t, token, productID, 1)

		// 换一个用户尝试取消
		_, otherToken := RegisterTestUser(t, "pay_intruder")
		cancelReq := map[string]interface{}{"order_id": orderData.Order.ID}
		resp := PostJSON(t, BaseURL+"/payment/cancel", cancelReq, otherToken)
		assert.NotEqual(t, 0, resp.Code, "不能取消他人的订单")

		t.Logf("✓ 越权取消正确被拒绝: %s", resp.Message)
	})

	t.Run("取消不存在的订单应失败", func(t *testing.T) {
		cancelReq := map[string]interface{}{"order_id": 99999999}
		resp := PostJSON(t, BaseURL+"/payment/cancel", cancelReq, token)
		assert.NotEqual(t, 0, resp.Code, "不存在的订单应该返回错误")
	})
}

// TestPaymentOrderListIsolation 测试订单列表的用户隔离
func TestPaymentOrderListIsolation(t *testing.T) {
	_, tokenA := RegisterTestUser(t, "pay_user_a")
	_, tokenB := RegisterTestUser(t, "pay_user_b")

	productID := PublishTestProduct(t, tokenA, "隔离测试滤芯", 9900, 10)
	orderData := CreateTestProductOrder(t, tokenA, productID, 1)

	// 用户B的列表里不应该出现用户A的订单
	listResp := GetJSON(t, BaseURL+"/payment/orders?page=1&page_size=50", tokenB)
	require.Equal(t, 0, listResp.Code)

	var list PaymentOrderListData
	err := json.Unmarshal(listResp.Data, &list)
	require.NoError(t, err)

	for _, o := range list.List {
		assert.NotEqual(t, orderData.Order.ID, o.ID, "用户B不应该看到用户A的订单")
	}
}
