// Package ctxstore keeps typed request-scoped values in a context.
package ctxstore

import "context"

type Key string

func (k Key) String() string {
	return string(k)
}

func With[T any](ctx context.Context, key Key, value T) context.Context {
	return context.WithValue(ctx, key, value)
}

func From[T any](ctx context.Context, key Key) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// FromOr returns def when the key is missing or holds another type.
func FromOr[T any](ctx context.Context, key Key, def T) T {
	if value, ok := From[T](ctx, key); ok {
		return value
	}
	return def
}

func MustFrom[T any](ctx context.Context, key Key) T {
	value, ok := From[T](ctx, key)
	if !ok {
		panic("ctxstore: missing value for key " + key.String())
	}
	return value
}
