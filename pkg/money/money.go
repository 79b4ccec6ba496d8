// Package money 金额换算工具
//
// 设计说明：
// 1. 系统内部所有金额统一用int64存储最小货币单位（paise），
//    比较和累加都是整数运算，不存在浮点误差
// 2. 对外接口（请求参数、展示）使用十进制卢比，
//    进出边界用shopspring/decimal做一次换算
// 3. 卢比转paise使用四舍五入（round half up），与网关的取整方式一致
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// paisePerRupee 1卢比 = 100 paise
var paisePerRupee = decimal.NewFromInt(100)

// RupeesToPaise 十进制卢比转paise（四舍五入）
//
// 示例：
//
//	RupeesToPaise("499.99")  => 49999
//	RupeesToPaise("10.005")  => 1001
func RupeesToPaise(rupees decimal.Decimal) int64 {
	return rupees.Mul(paisePerRupee).Round(0).IntPart()
}

// ParseRupees 解析字符串形式的卢比金额并转为paise
func ParseRupees(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("非法的金额格式: %q", s)
	}
	return RupeesToPaise(d), nil
}

// PaiseToRupees paise转十进制卢比（精确，无舍入）
func PaiseToRupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(paisePerRupee)
}

// FormatPaise 格式化paise为卢比展示字符串，如 "₹499.99"
func FormatPaise(paise int64) string {
	return "₹" + PaiseToRupees(paise).StringFixed(2)
}
