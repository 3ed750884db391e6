package main

import (
	"context"
	"fmt"

	mdpages "github.com/alnah/go-mdpages"
)

// CLIConverter is the part of mdpages.Converter the batch runner needs.
type CLIConverter interface {
	Convert(ctx context.Context, input mdpages.Input) (*mdpages.ConvertResult, error)
}

var _ CLIConverter = (*mdpages.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// converterPool adapts mdpages.ConverterPool to Pool.
type converterPool struct {
	*mdpages.ConverterPool
}

var _ Pool = converterPool{}

func (p converterPool) Acquire() (CLIConverter, error) {
	c, err := p.ConverterPool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics on a converter this pool did not hand out.
func (p converterPool) Release(c CLIConverter) {
	conv, ok := c.(*mdpages.Converter)
	if !ok {
		panic(fmt.Sprintf("converterPool.Release: unexpected type %T", c))
	}
	p.ConverterPool.Release(conv)
}
