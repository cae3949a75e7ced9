package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddSymbolIsIdempotent(t *testing.T) {
	obs := &CountingObserver{}
	r := NewBookRegistry(obs)

	b1 := r.AddSymbol(5)
	b2 := r.AddSymbol(5)
	assert.Same(t, b1, b2)
	assert.Equal(t, 1, obs.AddSymbol)
	assert.Equal(t, 1, obs.AddBook)
}

func TestRegistryDispatchUnknownSymbol(t *testing.T) {
	r := NewBookRegistry(nil)
	err := r.Dispatch(99, func(b *Book) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestRegistryDispatchRoutesToCorrectBook(t *testing.T) {
	r := NewBookRegistry(nil)
	r.AddSymbol(1)
	r.AddSymbol(2)

	require.NoError(t, r.Dispatch(1, func(b *Book) error {
		return b.AddOrder(10, Buy, 100, 5)
	}))

	b1, _ := r.Book(1)
	b2, _ := r.Book(2)
	_, ok := b1.Order(10)
	assert.True(t, ok)
	_, ok = b2.Order(10)
	assert.False(t, ok)
}
