package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UserModel{},
		&ProductModel{},
		&ServiceDefinitionModel{},
		&ServiceBookingModel{},
		&PlanModel{},
		&SubscriptionModel{},
		&PaymentOrderModel{},
		&OrderItemModel{},
		&TransactionModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Phone     string         `gorm:"size:20;comment:联系电话"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储paise为单位(避免浮点数精度问题)
// 2. SKU有唯一索引,防止重复
// 3. PublisherID关联用户表,支持查询某用户发布的所有商品
type ProductModel struct {
	ID          uint           `gorm:"primaryKey"`
	SKU         string         `gorm:"uniqueIndex;size:64;not null;comment:商品编码"`
	Name        string         `gorm:"index:idx_search;size:200;not null;comment:商品名称"` // 搜索索引
	Price       int64          `gorm:"index:idx_list;not null;comment:价格(paise)"`       // 排序索引
	Inventory   int            `gorm:"default:0;comment:库存数量"`
	ImageURL    string         `gorm:"size:500;comment:商品图片URL"`
	Description string         `gorm:"type:text;comment:商品描述"`
	PublisherID uint           `gorm:"index;not null;comment:上架者用户ID"`
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// ServiceDefinitionModel GORM服务项目模型
type ServiceDefinitionModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:200;not null;comment:服务名称"`
	Price       int64     `gorm:"not null;comment:服务价格(paise)"`
	Description string    `gorm:"type:text;comment:服务描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ServiceDefinitionModel) TableName() string {
	return "services"
}

// ServiceBookingModel GORM服务预订模型
// 教学要点:
// 1. 主键使用uuid字符串(预订号对外暴露,避免自增ID泄露业务量)
// 2. 订单取消时物理删除(Unscoped),释放预约时段
type ServiceBookingModel struct {
	ID             string    `gorm:"primaryKey;size:36;comment:预订号(uuid)"`
	ServiceID      uint      `gorm:"index;not null;comment:服务项目ID"`
	UserID         uint      `gorm:"index;not null;comment:预订用户ID"`
	SlotAt         time.Time `gorm:"index;not null;comment:预约时段"`
	Status         string    `gorm:"index;size:20;not null;default:PENDING;comment:预订状态"`
	BeforeImageURL string    `gorm:"size:500;comment:服务前照片URL"`
	AfterImageURL  string    `gorm:"size:500;comment:服务后照片URL"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ServiceBookingModel) TableName() string {
	return "service_bookings"
}

// PlanModel GORM订阅套餐模型
type PlanModel struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:200;not null;comment:套餐名称"`
	Price        int64     `gorm:"not null;comment:套餐价格(paise)"`
	DurationDays int       `gorm:"not null;comment:订阅周期(天)"`
	Description  string    `gorm:"type:text;comment:套餐描述"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PlanModel) TableName() string {
	return "plans"
}

// SubscriptionModel GORM用户订阅模型
type SubscriptionModel struct {
	ID        string     `gorm:"primaryKey;size:36;comment:订阅号(uuid)"`
	PlanID    uint       `gorm:"index;not null;comment:套餐ID"`
	UserID    uint       `gorm:"index;not null;comment:订阅用户ID"`
	Status    string     `gorm:"index;size:20;not null;default:PENDING;comment:订阅状态"`
	StartsAt  *time.Time `gorm:"comment:生效时间"`
	EndsAt    *time.Time `gorm:"comment:到期时间"`
	CreatedAt time.Time  `gorm:"comment:创建时间"`
	UpdatedAt time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// PaymentOrderModel GORM支付订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. RazorpayOrderID有唯一索引(业务主键,回调按它定位订单)
// 3. Status使用字符串存储(与网关回调、事件消息同一词汇)
type PaymentOrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	RazorpayOrderID string           `gorm:"uniqueIndex;size:64;not null;comment:网关订单号"`
	UserID          uint             `gorm:"index;not null;comment:买家用户ID"`
	Amount          int64            `gorm:"not null;comment:订单总金额(paise)"`
	Purpose         string           `gorm:"index;size:32;not null;comment:订单用途"`
	Status          string           `gorm:"index;size:20;not null;default:PENDING;comment:订单状态"`
	Receipt         string           `gorm:"size:64;not null;comment:收据号"`
	BookingID       *string          `gorm:"size:36;comment:服务预订ID"`
	SubscriptionID  *string          `gorm:"size:36;comment:订阅ID"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt       time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PaymentOrderModel) TableName() string {
	return "payment_orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的价格快照(Price字段)
// 2. OrderID外键关联payment_orders表
type OrderItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"index;not null;comment:订单ID"`
	ProductID uint  `gorm:"index;not null;comment:商品ID"`
	Quantity  int   `gorm:"not null;comment:购买数量"`
	Price     int64 `gorm:"not null;comment:下单时单价(paise)"`
	Subtotal  int64 `gorm:"not null;comment:行小计(paise)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// TransactionModel GORM支付流水模型
// 教学要点:
// 1. RazorpayPaymentID有唯一索引:并发重放回调时第二个INSERT报重复键,
//    应用层捕获后转为幂等成功
// 2. 签名原文存证,便于对账与审计
type TransactionModel struct {
	ID                uint      `gorm:"primaryKey"`
	TransactionNo     string    `gorm:"uniqueIndex;size:36;not null;comment:流水号"`
	OrderID           uint      `gorm:"index;not null;comment:订单ID"`
	RazorpayPaymentID string    `gorm:"uniqueIndex;size:64;not null;comment:网关支付ID"`
	RazorpaySignature string    `gorm:"size:128;not null;comment:网关签名(存证)"`
	Status            string    `gorm:"index;size:20;not null;comment:流水状态"`
	Method            string    `gorm:"size:32;comment:支付方式"`
	AmountPaid        int64     `gorm:"not null;comment:实际扣款金额(paise)"`
	CapturedAt        time.Time `gorm:"comment:扣款时间"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "transactions"
}
