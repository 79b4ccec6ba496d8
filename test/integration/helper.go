package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	PriceRupees string `json:"price_rupees"`
	Inventory   int    `json:"inventory"`
	Description string `json:"description"`
}

// ProductListData 商品列表响应数据
type ProductListData struct {
	List  []ProductItem `json:"list"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// ProductItem 商品列表项
type ProductItem struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	PriceRupees string `json:"price_rupees"`
	Inventory   int    `json:"inventory"`
}

// PaymentOrderData 创建支付订单响应数据
type PaymentOrderData struct {
	Key             string `json:"key"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Order           struct {
		ID             uint    `json:"id"`
		Amount         int64   `json:"amount"`
		AmountRupees   string  `json:"amount_rupees"`
		Purpose        string  `json:"purpose"`
		Status         string  `json:"status"`
		BookingID      *string `json:"booking_id"`
		SubscriptionID *string `json:"subscription_id"`
	} `json:"order"`
}

// PaymentOrderListData 订单列表响应数据
type PaymentOrderListData struct {
	List []struct {
		ID      uint   `json:"id"`
		Amount  int64  `json:"amount"`
		Purpose string `json:"purpose"`
		Status  string `json:"status"`
	} `json:"list"`
	Total int64 `json:"total"`
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestSKU 生成唯一的测试SKU
//
// 教学说明：
// SKU有唯一索引，使用时间戳后10位避免测试重复运行时冲突
func GenerateTestSKU() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("IT-SKU-%010d", timestamp%10000000000)
}

// RegisterTestUser 注册测试用户并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	// 1. 注册
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 登录
	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// PublishTestProduct 上架测试商品并返回商品ID
//
// 教学说明：
// 封装了商品上架流程，返回productID供支付测试使用
func PublishTestProduct(t *testing.T, token string, name string, price int64, inventory int) uint {
	productReq := map[string]interface{}{
		"sku":         GenerateTestSKU(),
		"name":        name,
		"price":       price, // paise
		"inventory":   inventory,
		"description": "集成测试用商品",
	}

	productResp := PostJSON(t, BaseURL+"/products", productReq, token)
	require.Equal(t, 0, productResp.Code, "商品上架失败: %s", productResp.Message)

	var productData ProductData
	err := json.Unmarshal(productResp.Data, &productData)
	require.NoError(t, err, "解析商品响应失败")

	return productData.ID
}

// CreateTestProductOrder 创建商品购买订单并返回订单数据
//
// 说明：依赖Razorpay测试密钥（网关test mode），下单会真实调用网关
func CreateTestProductOrder(t *testing.T, token string, productID uint, quantity int) *PaymentOrderData {
	orderReq := map[string]interface{}{
		"purpose": "PRODUCT_PURCHASE",
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": quantity},
		},
	}

	orderResp := PostJSON(t, BaseURL+"/payment/order", orderReq, token)
	require.Equal(t, 0, orderResp.Code, "创建支付订单失败: %s", orderResp.Message)

	var orderData PaymentOrderData
	err := json.Unmarshal(orderResp.Data, &orderData)
	require.NoError(t, err, "解析订单响应失败")

	return &orderData
}
