package product

import (
	"errors"
	"testing"
)

func TestProduct_DecrInventory(t *testing.T) {
	p := NewProduct("CD-FILTER-001", "RO滤芯", 49900, 10, "", "反渗透滤芯", 1)

	// 正常扣减
	if err := p.DecrInventory(3); err != nil {
		t.Fatalf("扣减3件应成功: %v", err)
	}
	if p.Inventory != 7 {
		t.Errorf("库存应为7,实际: %d", p.Inventory)
	}

	// 库存不足
	if err := p.DecrInventory(8); !errors.Is(err, ErrInsufficientInventory) {
		t.Errorf("超量扣减应返回ErrInsufficientInventory,实际: %v", err)
	}
	if p.Inventory != 7 {
		t.Errorf("扣减失败后库存不应变化,实际: %d", p.Inventory)
	}

	// 非法数量
	if err := p.DecrInventory(0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("数量0应返回ErrInvalidQuantity,实际: %v", err)
	}
	if err := p.DecrInventory(-1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("负数量应返回ErrInvalidQuantity,实际: %v", err)
	}
}

func TestProduct_IncrInventory(t *testing.T) {
	p := NewProduct("CD-FILTER-002", "UV滤芯", 29900, 0, "", "", 1)

	if err := p.IncrInventory(5); err != nil {
		t.Fatalf("补货5件应成功: %v", err)
	}
	if p.Inventory != 5 {
		t.Errorf("库存应为5,实际: %d", p.Inventory)
	}

	if err := p.IncrInventory(0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("数量0应返回ErrInvalidQuantity,实际: %v", err)
	}
}

func TestProduct_UpdatePrice(t *testing.T) {
	p := NewProduct("CD-FILTER-003", "沉淀滤芯", 9900, 100, "", "", 1)

	if err := p.UpdatePrice(12900); err != nil {
		t.Fatalf("改价应成功: %v", err)
	}
	if p.Price != 12900 {
		t.Errorf("价格应为12900,实际: %d", p.Price)
	}

	if err := p.UpdatePrice(0); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("价格0应返回ErrInvalidPrice,实际: %v", err)
	}
}

func TestIsValidSKU(t *testing.T) {
	valid := []string{"CD-FILTER-001", "ABC", "A1B2C3", "X-9"}
	for _, sku := range valid {
		if !isValidSKU(sku) {
			t.Errorf("SKU %q 应合法", sku)
		}
	}

	invalid := []string{"ab", "cd-filter-001", "CD_FILTER", "CD FILTER", ""}
	for _, sku := range invalid {
		if isValidSKU(sku) {
			t.Errorf("SKU %q 应不合法", sku)
		}
	}
}
