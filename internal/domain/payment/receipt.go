package payment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateReceipt 生成收据号(传给网关的幂等标识)
// 教学要点:收据号设计原则
// 1. 全局唯一(网关按receipt去重)
// 2. 时间有序(便于排查)
// 3. 不可预测(防止恶意遍历)
//
// 格式:rcpt + 时间戳(秒) + 6位随机数
// 示例:rcpt1699248000123456
func GenerateReceipt() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("rcpt%d%06d", timestamp, random)
}

// GenerateTransactionNo 生成支付流水号
// 流水号对账时会暴露给外部系统,用uuid避免泄露业务量
func GenerateTransactionNo() string {
	return uuid.NewString()
}
