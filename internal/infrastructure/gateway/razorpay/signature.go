package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// VerifySignature 校验Razorpay回调签名
// 教学要点:
// 1. 签名算法:HMAC-SHA256(key_secret, "{order_id}|{payment_id}"),hex编码
// 2. 必须使用常数时间比较(subtle.ConstantTimeCompare),
//    普通字符串比较会在首个不匹配字节处提前返回,可被时序攻击逐字节猜出签名
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := ComputeSignature(orderID, paymentID, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ComputeSignature 计算回调签名(测试和本地联调用)
func ComputeSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
