package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu           sync.RWMutex
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init はグローバルな zerolog ロガーを構成します。filePath が空でなければ標準出力と併せてファイルにも書き込みます。
// 返却される close 関数でログファイルを閉じます。
func Init(level, filePath string) (func() error, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: parse level %q: %w", level, err)
	}

	writers := []io.Writer{os.Stdout}
	closer := func() error { return nil }

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", filePath, err)
		}
		writers = append(writers, file)
		closer = file.Close
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	Set(l)
	return closer, nil
}

// Set はグローバルロガーを差し替えます。
func Set(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l
	log.Logger = l
}

// WithRequestID はリクエスト ID を付与したロガーをコンテキストに格納します。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := get(ctx).With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// FromContext はコンテキストのロガーを返します。存在しない場合はグローバルロガーを返します。
func FromContext(ctx context.Context) *zerolog.Logger {
	return get(ctx)
}

func get(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	mu.RLock()
	defer mu.RUnlock()
	l := globalLogger
	return &l
}

// Debug はデバッグレベルのログを出力します。
func Debug(ctx context.Context, msg string, args ...any) {
	get(ctx).Debug().Msgf(msg, args...)
}

// Info は情報レベルのログを出力します。
func Info(ctx context.Context, msg string, args ...any) {
	get(ctx).Info().Msgf(msg, args...)
}

// Warn は警告レベルのログを出力します。
func Warn(ctx context.Context, err error, msg string, args ...any) {
	get(ctx).Warn().Err(err).Msgf(msg, args...)
}

// Error はエラーレベルのログを出力します。
func Error(ctx context.Context, err error, msg string, args ...any) {
	get(ctx).Error().Err(err).Msgf(msg, args...)
}
