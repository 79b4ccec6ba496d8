// Package logger 进程级结构化日志
//
// 设计说明：
// 1. 统一使用zap，禁止在业务代码中fmt.Println
// 2. Init后通过zap.L()全局获取，避免到处传logger
// 3. 生产环境JSON输出，开发环境console输出（便于阅读）
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init 初始化全局logger
//
// 参数：
//
//	level: debug / info / warn / error
//	mode:  debug模式用console编码，release模式用JSON编码
func Init(level, mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		lv = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lv)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	// 替换全局logger，之后zap.L()即可使用
	zap.ReplaceGlobals(logger)
	return logger, nil
}
