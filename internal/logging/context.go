package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const passIDKey ctxKey = iota

// WithPassID tags ctx so every log line of a pass carries its ID.
func WithPassID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, passIDKey, id)
}

func PassID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(passIDKey).(string)
	return id
}

// ContextFields extracts the log fields carried by ctx.
func ContextFields(ctx context.Context) []zap.Field {
	if id := PassID(ctx); id != "" {
		return []zap.Field{zap.String("pass_id", id)}
	}
	return nil
}
