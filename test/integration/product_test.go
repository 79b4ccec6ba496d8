package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：商品模块集成测试
//
// 测试场景覆盖：
// 1. 商品上架（需要认证）
// 2. 商品列表查询（公开接口）
// 3. 分页、排序、搜索功能
// 4. 参数验证（SKU长度、价格范围、库存）

// TestProductPublish 测试商品上架功能
func TestProductPublish(t *testing.T) {
	// 准备测试数据：注册并登录用户
	_, token := RegisterTestUser(t, "product_publisher")

	t.Run("正常上架商品", func(t *testing.T) {
		sku := GenerateTestSKU()
		productReq := map[string]interface{}{
			"sku":         sku,
			"name":        "RO反渗透滤芯",
			"price":       49900, // ₹499.00
			"inventory":   100,
			"description": "适配全系净水器，0.0001微米过滤精度",
		}

		resp := PostJSON(t, BaseURL+"/products", productReq, token)
		require.Equal(t, 0, resp.Code, "上架应该成功: %s", resp.Message)

		var data ProductData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "商品ID应该大于0")
		assert.Equal(t, sku, data.SKU, "返回的SKU应该与请求一致")
		assert.Equal(t, int64(49900), data.Price, "价格应该以paise原样返回")
		assert.Equal(t, "₹499.00", data.PriceRupees, "应该返回格式化的卢比价格")
		assert.Equal(t, 100, data.Inventory, "库存应该与请求一致")

		t.Logf("✓ 上架成功，商品ID: %d, 价格: %s", data.ID, data.PriceRupees)
	})

	t.Run("重复SKU上架应失败", func(t *testing.T) {
		sku := GenerateTestSKU()
		productReq := map[string]interface{}{
			"sku":       sku,
			"name":      "UV杀菌灯",
			"price":     129900,
			"inventory": 5,
		}

		resp1 := PostJSON(t, BaseURL+"/products", productReq, token)
		require.Equal(t, 0, resp1.Code, "第一次上架应该成功")

		resp2 := PostJSON(t, BaseURL+"/products", productReq, token)
		assert.NotEqual(t, 0, resp2.Code, "重复SKU应该失败")

		t.Logf("✓ 重复SKU正确返回错误: %s", resp2.Message)
	})

	t.Run("未登录上架应失败", func(t *testing.T) {
		productReq := map[string]interface{}{
			"sku":       GenerateTestSKU(),
			"name":      "匿名商品",
			"price":     100,
			"inventory": 1,
		}

		resp := PostJSON(t, BaseURL+"/products", productReq, "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})

	t.Run("价格为0应失败", func(t *testing.T) {
		productReq := map[string]interface{}{
			"sku":       GenerateTestSKU(),
			"name":      "免费商品",
			"price":     0,
			"inventory": 1,
		}

		resp := PostJSON(t, BaseURL+"/products", productReq, token)
		assert.NotEqual(t, 0, resp.Code, "价格为0应该失败")
	})

	t.Run("负库存应失败", func(t *testing.T) {
		productReq := map[string]interface{}{
			"sku":       GenerateTestSKU(),
			"name":      "负库存商品",
			"price":     100,
			"inventory": -1,
		}

		resp := PostJSON(t, BaseURL+"/products", productReq, token)
		assert.NotEqual(t, 0, resp.Code, "负库存应该失败")
	})
}

// TestProductList 测试商品列表查询
func TestProductList(t *testing.T) {
	_, token := RegisterTestUser(t, "product_lister")

	// 准备数据：上架3个商品
	for i := 1; i <= 3; i++ {
		PublishTestProduct(t, token, fmt.Sprintf("列表测试滤芯%d号", i), int64(i)*10000, i*10)
	}

	t.Run("公开查询列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?page=1&page_size=10", "")
		require.Equal(t, 0, resp.Code, "列表查询应该成功: %s", resp.Message)

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析列表响应失败")

		assert.GreaterOrEqual(t, data.Total, int64(3), "总数应该至少包含刚上架的3个商品")
		assert.NotEmpty(t, data.List, "列表不应该为空")
		for _, item := range data.List {
			assert.NotEmpty(t, item.PriceRupees, "每项都应该带格式化价格")
		}

		t.Logf("✓ 列表查询成功，总数: %d", data.Total)
	})

	t.Run("价格升序排序", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?page=1&page_size=50&sort_by=price_asc", "")
		require.Equal(t, 0, resp.Code, "排序查询应该成功")

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		for i := 1; i < len(data.List); i++ {
			assert.LessOrEqual(t, data.List[i-1].Price, data.List[i].Price,
				"价格应该按升序排列")
		}
	})

	t.Run("关键字搜索", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?keyword=列表测试滤芯", "")
		require.Equal(t, 0, resp.Code, "搜索应该成功")

		var data ProductListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, data.Total, int64(3), "应该搜到刚上架的商品")
	})

	t.Run("非法排序字段应失败", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/products?sort_by=evil_field", "")
		assert.NotEqual(t, 0, resp.Code, "非法排序字段应该被拒绝")
	})
}
