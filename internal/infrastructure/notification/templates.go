package notification

import (
	"bytes"
	"html/template"

	"github.com/cleardrip/cleardrip/pkg/money"
)

// 各用途的邮件主题
const (
	subjectProductPurchase = "Order Confirmation - Thank You for Your Purchase!"
	subjectServiceBooking  = "Service Booking Confirmed"
	subjectSubscription    = "Subscription Activated - Welcome!"
	subjectDefault         = "Payment Confirmed"
)

// emailData 模板渲染数据
type emailData struct {
	Nickname        string
	RazorpayOrderID string
	Amount          string // 已格式化("₹499.00")
	Headline        string
	Detail          string
}

// emailTemplate 通用HTML外壳,各用途只替换Headline/Detail
var emailTemplate = template.Must(template.New("payment_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background: #0077b6; padding: 20px; text-align: center;">
    <h1 style="color: #fff; margin: 0;">ClearDrip</h1>
  </div>
  <div style="padding: 24px;">
    <h2>{{.Headline}}</h2>
    <p>Hi {{.Nickname}},</p>
    <p>{{.Detail}}</p>
    <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;">Order ID</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.RazorpayOrderID}}</td>
      </tr>
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;">Amount Paid</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Amount}}</td>
      </tr>
    </table>
    <p>If you have any questions, just reply to this email.</p>
  </div>
  <div style="background: #f4f4f4; padding: 12px; text-align: center; font-size: 12px; color: #888;">
    ClearDrip Water Solutions · cleardrip.solutions@gmail.com
  </div>
</body>
</html>`))

// RenderEmail 根据事件渲染邮件主题与HTML正文
func RenderEmail(event PaymentConfirmedEvent) (subject, body string, err error) {
	data := emailData{
		Nickname:        event.Nickname,
		RazorpayOrderID: event.RazorpayOrderID,
		Amount:          money.FormatPaise(event.Amount),
	}
	if data.Nickname == "" {
		data.Nickname = "there"
	}

	switch event.Purpose {
	case "PRODUCT_PURCHASE":
		subject = subjectProductPurchase
		data.Headline = "Thank you for your purchase!"
		data.Detail = "Your payment has been received and your order is confirmed. We will ship your items shortly."
	case "SERVICE_BOOKING":
		subject = subjectServiceBooking
		data.Headline = "Your service booking is confirmed"
		data.Detail = "Our technician will arrive at your selected time slot. You will receive before and after photos once the service is complete."
	case "SUBSCRIPTION":
		subject = subjectSubscription
		data.Headline = "Welcome to your ClearDrip subscription!"
		data.Detail = "Your subscription is now active. Scheduled deliveries and maintenance visits will begin as per your plan."
	default:
		subject = subjectDefault
		data.Headline = "Payment confirmed"
		data.Detail = "We have received your payment successfully."
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
