package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cleardrip/cleardrip/internal/domain/product"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如SKU重复),转换为业务错误
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	// 1. 领域实体 → GORM模型
	model := &ProductModel{
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Inventory:   p.Inventory,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		PublisherID: p.PublisherID,
	}

	// 2. 插入数据库
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 检查是否为SKU重复错误
		if isDuplicateError(err) {
			return product.ErrSKUDuplicate
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	// 3. 回填自增ID
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// FindBySKU 根据SKU查找商品
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// Update 更新商品信息
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	model := &ProductModel{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Inventory:   p.Inventory,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		PublisherID: p.PublisherID,
	}

	// 使用Save更新所有字段
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新商品失败")
	}

	p.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除商品(软删除)
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// List 分页查询商品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	// 构建查询
	query := r.db.WithContext(ctx).Model(&ProductModel{})

	// 关键词搜索(搜索名称、描述)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", keyword, keyword)
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	// 排序
	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC") // 默认按创建时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	// 查询数据
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	// 转换为领域实体
	products := make([]*product.Product, len(models))
	for i, model := range models {
		products[i] = toProductEntity(&model)
	}

	return products, total, nil
}

// LockByID 悲观锁查询商品(用于支付捕获时校验库存)
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	// SELECT FOR UPDATE锁定行
	// 教学要点:必须使用getDB(ctx)从context获取事务DB
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}

	return toProductEntity(&model), nil
}

// UpdateInventory 更新库存(原子操作)
func (r *productRepository) UpdateInventory(ctx context.Context, id uint, delta int) error {
	// 使用UPDATE语句原子性更新库存
	// UPDATE products SET inventory = inventory + delta WHERE id = ? AND inventory + delta >= 0
	// 教学要点:必须使用getDB(ctx)参与事务
	db := r.getDB(ctx)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("inventory + ? >= 0", delta). // 防止库存为负
		Update("inventory", gorm.Expr("inventory + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是商品不存在,或者库存不足
		// 再查一次确定原因
		var model ProductModel
		db := r.getDB(ctx)
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		// 商品存在,说明是库存不足
		return product.ErrInsufficientInventory
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toProductEntity GORM模型 → 领域实体
func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:          model.ID,
		SKU:         model.SKU,
		Name:        model.Name,
		Price:       model.Price,
		Inventory:   model.Inventory,
		ImageURL:    model.ImageURL,
		Description: model.Description,
		PublisherID: model.PublisherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
