package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBuffer struct {
	data []int
}

func TestPool_HappyPath(t *testing.T) {
	p := New(func() *testBuffer {
		return &testBuffer{data: make([]int, 10)}
	})

	buf, err := p.Get()
	require.NoError(t, err)
	require.NotNil(t, buf)
	require.Len(t, buf.data, 10)

	p.Put(buf)
}

func TestPool_Concurrent(t *testing.T) {
	p := New(func() *testBuffer {
		return &testBuffer{data: make([]int, 4)}
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := p.Get()
			assert.NoError(t, err)
			assert.Len(t, buf.data, 4)
			p.Put(buf)
		}()
	}
	wg.Wait()
}

func TestPool_NilTypedPool(t *testing.T) {
	var p *Pool[*testBuffer]
	_, err := p.Get()
	require.ErrorIs(t, err, ErrPoolIsNil)
	require.NotPanics(t, func() {
		p.Put(nil)
	})
}

func TestRawPool_WrongType(t *testing.T) {
	p := &sync.Pool{
		New: func() any {
			return "wrong type"
		},
	}

	_, err := Get[*int](p)
	require.ErrorIs(t, err, ErrPoolWrongType)
	require.ErrorContains(t, err, "expected *int, got string")
}

func TestRawPool_ReturnsNil(t *testing.T) {
	p := &sync.Pool{
		New: func() any {
			return nil
		},
	}

	_, err := Get[*int](p)
	require.ErrorIs(t, err, ErrPoolReturnedNil)
}

func TestRawPool_NilPool(t *testing.T) {
	_, err := Get[*int](nil)
	require.ErrorIs(t, err, ErrPoolIsNil)

	require.NotPanics(t, func() {
		Put[*int](nil, nil)
	})
}
