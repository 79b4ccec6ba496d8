package product

import (
	"time"
)

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. Product是商品聚合的根实体,包含商品的核心属性
// 2. 价格使用int64存储paise为单位(避免浮点数精度问题)
// 3. SKU作为业务唯一标识(数据库层保证唯一性)
// 4. PublisherID关联上架商品的管理员用户
type Product struct {
	ID          uint
	SKU         string // 商品编码(业务唯一标识)
	Name        string // 商品名称
	Price       int64  // 价格(单位:paise,1卢比=100paise)
	Inventory   int    // 库存数量
	ImageURL    string // 商品图片URL
	Description string // 商品描述
	PublisherID uint   // 上架者用户ID(关联User表)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct 创建新商品(工厂方法)
func NewProduct(sku, name string, price int64, inventory int, imageURL, description string, publisherID uint) *Product {
	now := time.Now()
	return &Product{
		SKU:         sku,
		Name:        name,
		Price:       price,
		Inventory:   inventory,
		ImageURL:    imageURL,
		Description: description,
		PublisherID: publisherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (p *Product) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	p.Price = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

// DecrInventory 扣减库存(用于支付捕获)
// 业务规则:扣减后库存不能为负数
func (p *Product) DecrInventory(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Inventory < quantity {
		return ErrInsufficientInventory
	}
	p.Inventory -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IncrInventory 增加库存(用于订单取消回补、补货)
func (p *Product) IncrInventory(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Inventory += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新商品基本信息
func (p *Product) UpdateInfo(name, description string) {
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = time.Now()
}

// IsOwnedBy 检查商品是否由指定用户上架
func (p *Product) IsOwnedBy(userID uint) bool {
	return p.PublisherID == userID
}
