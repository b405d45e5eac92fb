package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel/infras/otel"
	"hotel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	otl := otel.NewWithProvider(provider)

	_, scope := otl.NewScope(context.Background(), "service", "service.Test")
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attr(span trace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		httpStatus int64
	}{
		{name: "server error", err: errors.New("connection reset"), wantStatus: codes.Error, httpStatus: 500},
		{name: "conflict stays unset", err: failure.Conflict("room already booked"), wantStatus: codes.Unset, httpStatus: 409},
		{name: "not found stays unset", err: failure.NotFound("booking not found"), wantStatus: codes.Unset, httpStatus: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceIfError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)

			value, ok := attr(span, "error.http_status")
			require.True(t, ok)
			assert.Equal(t, tt.httpStatus, value.AsInt64())
		})
	}
}

func TestScope_TraceIfErrorNil(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Empty(t, span.Events())
}

func TestScope_SetAttributes(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"booking.id":     "bk-1",
			"booking.nights": 3,
			"booking.total":  decimal.RequireFromString("7500"),
			"booking.vip":    true,
			"booking.in":     checkIn,
			"room.amenities": []string{"wifi", "tv"},
		})
		scope.AddEvent("priced")
	})

	total, ok := attr(span, "booking.total")
	require.True(t, ok)
	assert.Equal(t, "7500.00", total.AsString())

	nights, _ := attr(span, "booking.nights")
	assert.Equal(t, int64(3), nights.AsInt64())

	in, _ := attr(span, "booking.in")
	assert.Equal(t, "2025-03-10T00:00:00Z", in.AsString())

	amenities, _ := attr(span, "room.amenities")
	assert.Equal(t, []string{"wifi", "tv"}, amenities.AsStringSlice())

	require.Len(t, span.Events(), 1)
	assert.Equal(t, "priced", span.Events()[0].Name)
}
