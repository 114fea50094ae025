package service

import (
	"time"
)

// Option 服务可选项
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
