package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，未初始化时为 Nop，避免各处判空
var Log = zap.NewNop()

// Init 根据运行环境初始化日志
// dev/debug 使用可读的 console 编码，其余环境输出 JSON
func Init(env string, debug bool) error {
	var cfg zap.Config
	if env == "dev" || debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}

	Log = l.With(zap.String("env", env))
	zap.ReplaceGlobals(Log)
	return nil
}

// Sync 刷新缓冲区，在进程退出前调用
func Sync() {
	_ = Log.Sync()
}
