package product

import (
	"context"
	"regexp"
)

// Service 商品领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// PublishProduct 发布商品(上架)
	// 业务规则:
	// - SKU格式必须合法(3-64位大写字母/数字/短横线)
	// - 价格必须在1-99999999paise之间
	// - 库存必须>=0
	// - SKU不能重复
	PublishProduct(ctx context.Context, sku, name string, price int64, inventory int, imageURL, description string, publisherID uint) (*Product, error)

	// GetProductByID 根据ID获取商品详情
	GetProductByID(ctx context.Context, id uint) (*Product, error)

	// GetProductBySKU 根据SKU获取商品
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)

	// UpdateProductInfo 更新商品信息
	// 业务规则:只有发布者本人可以修改
	UpdateProductInfo(ctx context.Context, id uint, userID uint, name, description string) error

	// UpdateProductPrice 更新商品价格
	// 业务规则:只有发布者本人可以修改,且价格必须合法
	UpdateProductPrice(ctx context.Context, id uint, userID uint, newPrice int64) error

	// RestockProduct 补充库存
	// 业务规则:只有发布者本人可以补货,数量必须>0
	RestockProduct(ctx context.Context, id uint, userID uint, quantity int) error

	// DeleteProduct 删除商品
	// 业务规则:只有发布者本人可以删除
	DeleteProduct(ctx context.Context, id uint, userID uint) error

	// ListProducts 分页查询商品列表
	// 公开接口,不需要权限校验
	ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishProduct 发布商品
func (s *service) PublishProduct(ctx context.Context, sku, name string, price int64, inventory int, imageURL, description string, publisherID uint) (*Product, error) {
	// 1. SKU格式校验
	if !isValidSKU(sku) {
		return nil, ErrInvalidSKU
	}

	// 2. 价格范围校验(1paise-999999.99卢比)
	if price < 1 || price > 99999999 {
		return nil, ErrInvalidPrice
	}

	// 3. 库存校验
	if inventory < 0 {
		return nil, ErrInvalidInventory
	}

	// 4. 检查SKU是否已存在(Repository会处理重复错误)
	existingProduct, err := s.repo.FindBySKU(ctx, sku)
	if err == nil && existingProduct != nil {
		return nil, ErrSKUDuplicate
	}
	// 如果是ErrProductNotFound以外的错误,返回
	if err != nil && err != ErrProductNotFound {
		return nil, err
	}

	// 5. 创建商品实体
	product := NewProduct(sku, name, price, inventory, imageURL, description, publisherID)

	// 6. 持久化
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProductByID 根据ID获取商品
func (s *service) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductBySKU 根据SKU获取商品
func (s *service) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	if !isValidSKU(sku) {
		return nil, ErrInvalidSKU
	}
	return s.repo.FindBySKU(ctx, sku)
}

// UpdateProductInfo 更新商品信息
func (s *service) UpdateProductInfo(ctx context.Context, id uint, userID uint, name, description string) error {
	// 1. 查询商品
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查:只有发布者可以修改
	if !product.IsOwnedBy(userID) {
		return ErrUnauthorized
	}

	// 3. 更新信息
	product.UpdateInfo(name, description)

	// 4. 持久化
	return s.repo.Update(ctx, product)
}

// UpdateProductPrice 更新商品价格
func (s *service) UpdateProductPrice(ctx context.Context, id uint, userID uint, newPrice int64) error {
	// 1. 价格范围校验
	if newPrice < 1 || newPrice > 99999999 {
		return ErrInvalidPrice
	}

	// 2. 查询商品
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 3. 权限检查
	if !product.IsOwnedBy(userID) {
		return ErrUnauthorized
	}

	// 4. 更新价格
	if err := product.UpdatePrice(newPrice); err != nil {
		return err
	}

	// 5. 持久化
	return s.repo.Update(ctx, product)
}

// RestockProduct 补充库存
func (s *service) RestockProduct(ctx context.Context, id uint, userID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !product.IsOwnedBy(userID) {
		return ErrUnauthorized
	}

	// 原子增加库存,避免读改写竞争
	return s.repo.UpdateInventory(ctx, id, quantity)
}

// DeleteProduct 删除商品
func (s *service) DeleteProduct(ctx context.Context, id uint, userID uint) error {
	// 1. 查询商品
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查
	if !product.IsOwnedBy(userID) {
		return ErrUnauthorized
	}

	// 3. 执行删除(软删除)
	return s.repo.Delete(ctx, id)
}

// ListProducts 分页查询商品列表
func (s *service) ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error) {
	return s.repo.List(ctx, params)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// isValidSKU 校验SKU格式
// 规则:3-64位,大写字母/数字/短横线,如"CD-FILTER-001"
func isValidSKU(sku string) bool {
	if len(sku) < 3 || len(sku) > 64 {
		return false
	}
	re := regexp.MustCompile(`^[A-Z0-9-]+$`)
	return re.MatchString(sku)
}
