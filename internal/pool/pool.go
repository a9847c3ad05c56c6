// Package pool provides type-safe generic wrappers around sync.Pool.
//
// The recovery buffers used by the erasure codec are the main user:
//
//	buffers := pool.New(func() *recoveryBuffers {
//	    return newRecoveryBuffers(size)
//	})
//
//	buf, err := buffers.Get()
//	if err != nil {
//	    return err
//	}
//	defer buffers.Put(buf)
package pool

import (
	"fmt"
	"sync"
)

// Pool is a sync.Pool that only hands out values of type T.
type Pool[T any] struct {
	inner sync.Pool
}

// New returns a Pool that allocates with newFn when empty.
func New[T any](newFn func() T) *Pool[T] {
	p := &Pool[T]{}
	p.inner.New = func() any {
		return newFn()
	}
	return p
}

// Get retrieves a value from the pool.
func (p *Pool[T]) Get() (T, error) {
	if p == nil {
		var zero T
		return zero, ErrPoolIsNil
	}
	return Get[T](&p.inner)
}

// Put returns a value to the pool. A nil pool is ignored so that Put is
// safe in defer statements.
func (p *Pool[T]) Put(v T) {
	if p == nil {
		return
	}
	Put(&p.inner, v)
}

// Get retrieves a value from a raw sync.Pool with type safety.
// Returns an error if:
//   - the pool is nil
//   - the pool returns nil
//   - the pool returns a value of the wrong type
func Get[T any](p *sync.Pool) (T, error) {
	var zero T

	if p == nil {
		return zero, ErrPoolIsNil
	}

	v := p.Get()
	if v == nil {
		return zero, ErrPoolReturnedNil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %T, got %T",
			ErrPoolWrongType, zero, v)
	}

	return typed, nil
}

// Put returns a value to a raw sync.Pool.
func Put[T any](p *sync.Pool, v T) {
	if p == nil {
		return
	}
	p.Put(v)
}
