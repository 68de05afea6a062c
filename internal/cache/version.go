package cache

import (
	"context"
	"sync/atomic"
)

type AtomicVersion struct {
	v atomic.Int64
}

func NewAtomicVersion() *AtomicVersion {
	return &AtomicVersion{}
}

func (a *AtomicVersion) Current(context.Context) (int64, error) {
	return a.v.Load(), nil
}

func (a *AtomicVersion) Bump(context.Context) (int64, error) {
	return a.v.Add(1), nil
}

var _ VersionSource = (*AtomicVersion)(nil)
