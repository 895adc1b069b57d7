// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Context of the analysis of one query. Wraps the caller's context.Context
// and carries the logger and tracer used across the analysis.
type Context struct {
	context.Context
	id     uuid.UUID
	logger *logrus.Entry
	tracer opentracing.Tracer
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger entry of the Context.
func WithLogger(l *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// WithTracer sets the tracer of the Context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// NewContext creates a Context from the given parent context.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		id:      uuid.NewV4(),
		tracer:  opentracing.NoopTracer{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c.logger = c.logger.WithField("analysis_id", c.id.String())

	return c
}

// NewEmptyContext returns a default Context with a background parent.
func NewEmptyContext() *Context {
	return NewContext(context.Background())
}

// ID returns the unique id of this analysis context.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// GetLogger returns the logger entry of this context.
func (c *Context) GetLogger() *logrus.Entry {
	return c.logger
}

// SetLogger replaces the logger entry of this context.
func (c *Context) SetLogger(l *logrus.Entry) {
	c.logger = l
}

// Span starts an operation span as a child of the context's current span,
// if any, and returns it along with a Context carrying the new span. The
// caller must Finish the returned span.
func (c *Context) Span(opName string, opts ...opentracing.StartSpanOption) (opentracing.Span, *Context) {
	if parent := opentracing.SpanFromContext(c.Context); parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}

	span := c.tracer.StartSpan(opName, opts...)

	nctx := *c
	nctx.Context = opentracing.ContextWithSpan(c.Context, span)
	return span, &nctx
}
