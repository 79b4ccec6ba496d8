package payment

import (
	"context"
)

// TxManager 事务管理器接口
// 教学要点:
// 1. application层只依赖接口,mysql.TxManager是它的实现
// 2. fn内通过context拿到同一事务,任一步出错整体回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
