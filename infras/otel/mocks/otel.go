// Package mocks provides a tracer that records span names and discards everything else.
package mocks

import (
	"context"
	"slices"
	"sync"

	"hotel/infras/otel"
)

type Otel struct {
	mu    sync.Mutex
	spans []string
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	o.spans = append(o.spans, spanName)
	o.mu.Unlock()

	return ctx, NewScope()
}

// Spans lists the span names opened so far, in order.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return slices.Clone(o.spans)
}

func NewOtel() *Otel {
	return &Otel{}
}

type scope struct{}

func (scope) AddEvent(string)              {}
func (scope) End()                         {}
func (scope) SetAttribute(string, any)     {}
func (scope) SetAttributes(map[string]any) {}
func (scope) TraceError(error)             {}
func (scope) TraceIfError(error)           {}

func NewScope() otel.Scope {
	return scope{}
}
