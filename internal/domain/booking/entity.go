package booking

import (
	"time"

	"github.com/google/uuid"
)

// ServiceDefinition 服务项目实体
// 可预订的上门服务(如滤芯更换、水质检测),价格为paise
type ServiceDefinition struct {
	ID          uint
	Name        string // 服务名称
	Price       int64  // 服务价格(paise)
	Description string // 服务描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingStatus 服务预订状态
// 教学要点:
// 1. PENDING在支付确认前创建,支付成功后推进到IN_PROGRESS
// 2. 订单取消时预订被物理删除,CANCELLED仅用于运营侧手工关单
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"     // 待支付
	BookingStatusInProgress BookingStatus = "IN_PROGRESS" // 服务进行中
	BookingStatusCompleted  BookingStatus = "COMPLETED"   // 服务完成
	BookingStatusCancelled  BookingStatus = "CANCELLED"   // 已取消
)

// ServiceBooking 服务预订实体(聚合根)
// 教学要点:
// 1. ID使用uuid字符串,预订号会出现在短信/邮件里,避免自增ID泄露业务量
// 2. 支付订单通过BookingID反向引用,预订本身不知道订单的存在
type ServiceBooking struct {
	ID             string // 预订号(uuid)
	ServiceID      uint   // 服务项目ID
	UserID         uint   // 预订用户ID
	SlotAt         time.Time
	Status         BookingStatus
	BeforeImageURL string // 服务前照片(技师上传)
	AfterImageURL  string // 服务后照片(技师上传)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBooking 创建新预订(工厂方法)
// 初始状态PENDING,等待支付确认
func NewBooking(serviceID, userID uint, slotAt time.Time) *ServiceBooking {
	now := time.Now()
	return &ServiceBooking{
		ID:        uuid.NewString(),
		ServiceID: serviceID,
		UserID:    userID,
		SlotAt:    slotAt,
		Status:    BookingStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm 支付成功后确认预订,进入服务流程
func (b *ServiceBooking) Confirm() error {
	if b.Status != BookingStatusPending {
		return ErrBookingNotConfirmable
	}
	b.Status = BookingStatusInProgress
	b.UpdatedAt = time.Now()
	return nil
}

// Complete 服务完成(技师上传服务前后照片后调用)
func (b *ServiceBooking) Complete(beforeImageURL, afterImageURL string) error {
	if b.Status != BookingStatusInProgress {
		return ErrBookingNotInProgress
	}
	b.Status = BookingStatusCompleted
	b.BeforeImageURL = beforeImageURL
	b.AfterImageURL = afterImageURL
	b.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy 检查预订是否属于指定用户
func (b *ServiceBooking) IsOwnedBy(userID uint) bool {
	return b.UserID == userID
}
