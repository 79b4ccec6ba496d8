package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Plan 订阅套餐实体
// 周期性滤芯配送/保养套餐,价格为paise
type Plan struct {
	ID           uint
	Name         string // 套餐名称
	Price        int64  // 套餐价格(paise)
	DurationDays int    // 订阅周期(天)
	Description  string // 套餐描述
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubscriptionStatus 订阅状态
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"   // 待支付
	SubscriptionStatusConfirmed SubscriptionStatus = "CONFIRMED" // 已生效
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED" // 已取消
)

// Subscription 用户订阅实体(聚合根)
// 教学要点:
// 1. 创建订单时先落PENDING订阅,支付确认后推进到CONFIRMED
// 2. 订单取消时订阅标记CANCELLED(保留记录,便于运营分析流失)
//    这与服务预订的物理删除策略不同:订阅不占用共享资源
type Subscription struct {
	ID        string // 订阅号(uuid)
	PlanID    uint   // 套餐ID
	UserID    uint   // 订阅用户ID
	Status    SubscriptionStatus
	StartsAt  time.Time // 生效时间(支付确认时定格)
	EndsAt    time.Time // 到期时间 = StartsAt + DurationDays
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription 创建新订阅(工厂方法)
// 初始状态PENDING,StartsAt/EndsAt在支付确认时回填
func NewSubscription(planID, userID uint) *Subscription {
	now := time.Now()
	return &Subscription{
		ID:        uuid.NewString(),
		PlanID:    planID,
		UserID:    userID,
		Status:    SubscriptionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm 支付成功后激活订阅,按套餐周期定格起止时间
func (s *Subscription) Confirm(durationDays int) error {
	if s.Status != SubscriptionStatusPending {
		return ErrSubscriptionNotConfirmable
	}
	now := time.Now()
	s.Status = SubscriptionStatusConfirmed
	s.StartsAt = now
	s.EndsAt = now.AddDate(0, 0, durationDays)
	s.UpdatedAt = now
	return nil
}

// Cancel 取消订阅(订单取消时的补偿动作)
func (s *Subscription) Cancel() error {
	if s.Status == SubscriptionStatusCancelled {
		return nil // 幂等:重复取消不报错
	}
	s.Status = SubscriptionStatusCancelled
	s.UpdatedAt = time.Now()
	return nil
}

// IsActive 订阅是否在有效期内
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusConfirmed && now.Before(s.EndsAt)
}

// IsOwnedBy 检查订阅是否属于指定用户
func (s *Subscription) IsOwnedBy(userID uint) bool {
	return s.UserID == userID
}

// GenerateSubscriptionID 生成订阅号
func GenerateSubscriptionID() string {
	return uuid.NewString()
}
