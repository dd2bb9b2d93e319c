package handler

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const argTag = "arg"

// Typed creates a handler from a function taking a struct of arguments.
// The signature is derived once from the struct fields: a field named by its
// `arg` tag (or its lower-cased name) is a bound argument, and a
// map[string]any field tagged `arg:",remain"` collects any extra keyword
// arguments.
//
//	type listPetsArgs struct {
//	    Limit int    `arg:"limit"`
//	    Tag   string `arg:"tag"`
//	}
func Typed[T any](name string, fn func(ctx context.Context, args T) (any, error)) *Handler {
	var zero T
	sig := signatureOf(reflect.TypeOf(zero))

	return &Handler{
		Name:      name,
		Signature: sig,
		fn: func(ctx context.Context, args Arguments) (any, error) {
			var target T
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				TagName:          argTag,
				WeaklyTypedInput: true,
				Result:           &target,
			})
			if err != nil {
				return nil, err
			}
			if err := decoder.Decode(map[string]any(args)); err != nil {
				return nil, fmt.Errorf("decoding arguments of %s(): %w", name, err)
			}
			return fn(ctx, target)
		},
	}
}

func signatureOf(typ reflect.Type) Signature {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return Signature{AcceptsExtra: true}
	}

	var sig Signature
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(argTag)
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if opts == "remain" {
			sig.AcceptsExtra = true
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		sig.Args = append(sig.Args, name)
	}
	return sig
}
