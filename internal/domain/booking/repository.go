package booking

import (
	"context"
)

// ServiceRepository 服务项目仓储接口
type ServiceRepository interface {
	// Create 创建服务项目
	Create(ctx context.Context, svc *ServiceDefinition) error

	// FindByID 根据ID查找服务项目
	FindByID(ctx context.Context, id uint) (*ServiceDefinition, error)

	// List 查询服务项目列表
	List(ctx context.Context, page, pageSize int) ([]*ServiceDefinition, int64, error)
}

// BookingRepository 服务预订仓储接口
type BookingRepository interface {
	// Create 创建预订
	Create(ctx context.Context, booking *ServiceBooking) error

	// FindByID 根据预订号查找预订
	FindByID(ctx context.Context, id string) (*ServiceBooking, error)

	// Update 更新预订(状态推进、照片上传)
	Update(ctx context.Context, booking *ServiceBooking) error

	// Delete 物理删除预订
	// 教学要点:订单取消时预订直接删除而非软删除,
	// 该时段要立刻释放给其他用户重新预约
	Delete(ctx context.Context, id string) error

	// ListByUserID 查询用户的预订列表
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*ServiceBooking, int64, error)
}
