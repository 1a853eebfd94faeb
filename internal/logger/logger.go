package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log 전역 로거 인스턴스
	Log *zap.Logger

	mu sync.Mutex
)

// Init 로거 초기화. production은 JSON, 그 외는 콘솔 포맷
func Init(env string) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	level := zapcore.InfoLevel
	switch env {
	case "production":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "test":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = zapcore.WarnLevel
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)

	mu.Lock()
	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	mu.Unlock()
}

// GetLogger 이름이 지정된 로거 반환
func GetLogger(name string) *zap.SugaredLogger {
	mu.Lock()
	l := Log
	mu.Unlock()

	if l == nil {
		Init(os.Getenv("SERVER_ENV"))
		mu.Lock()
		l = Log
		mu.Unlock()
	}
	return l.Named(name).Sugar()
}

// Sync 로거 버퍼 플러시
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if Log != nil {
		_ = Log.Sync()
	}
}
