package handler

import (
	"context"
	"testing"

	assert2 "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listPetsArgs struct {
	Limit   int      `arg:"limit"`
	Tags    []string `arg:"tags"`
	OrderBy string   `arg:"order_by"`
	Verbose bool
	Ignored string `arg:"-"`
	hidden  string
}

type searchArgs struct {
	Query string         `arg:"q"`
	Rest  map[string]any `arg:",remain"`
}

func TestTypedSignature(t *testing.T) {
	assert := assert2.New(t)

	h := Typed("list_pets", func(_ context.Context, args listPetsArgs) (any, error) {
		return args, nil
	})
	assert.Equal("list_pets", h.Name)
	assert.Equal(Signature{Args: []string{"limit", "tags", "order_by", "verbose"}}, h.Signature)

	search := Typed("search", func(_ context.Context, args searchArgs) (any, error) {
		return args, nil
	})
	assert.Equal(Signature{Args: []string{"q"}, AcceptsExtra: true}, search.Signature)

	untyped := Typed("any", func(_ context.Context, args map[string]any) (any, error) {
		return args, nil
	})
	assert.True(untyped.Signature.AcceptsExtra)
}

func TestTypedCall(t *testing.T) {
	assert := assert2.New(t)

	t.Run("decodes arguments", func(t *testing.T) {
		h := Typed("list_pets", func(_ context.Context, args listPetsArgs) (any, error) {
			return args, nil
		})
		res, err := h.Call(context.Background(), Arguments{
			"limit":    int64(10),
			"tags":     []any{"a", "b"},
			"order_by": "name",
			"verbose":  "true",
		})
		require.NoError(t, err)
		assert.Equal(listPetsArgs{Limit: 10, Tags: []string{"a", "b"}, OrderBy: "name", Verbose: true}, res)
	})

	t.Run("collects extra arguments", func(t *testing.T) {
		h := Typed("search", func(_ context.Context, args searchArgs) (any, error) {
			return args, nil
		})
		res, err := h.Call(context.Background(), Arguments{"q": "rex", "user": "alice"})
		require.NoError(t, err)
		assert.Equal(searchArgs{Query: "rex", Rest: map[string]any{"user": "alice"}}, res)
	})

	t.Run("rejects unknown arguments", func(t *testing.T) {
		h := Typed("list_pets", func(_ context.Context, args listPetsArgs) (any, error) {
			return args, nil
		})
		_, err := h.Call(context.Background(), Arguments{"limit": 1, "page": 2})
		assert.ErrorIs(err, ErrArgumentMismatch)
	})

	t.Run("decoding failure", func(t *testing.T) {
		h := Typed("list_pets", func(_ context.Context, args listPetsArgs) (any, error) {
			return args, nil
		})
		_, err := h.Call(context.Background(), Arguments{"limit": map[string]any{"a": 1}})
		assert.ErrorContains(err, "decoding arguments of list_pets()")
	})
}
