package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/avolkov/go-messager/internal/config"
)

func TestSetupOTel_DisabledIsNoOp(t *testing.T) {
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("shutdown must not be nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_ExporterError(t *testing.T) {
	prev := newOTLPExporterFn
	t.Cleanup(func() { newOTLPExporterFn = prev })

	wantErr := errors.New("exporter boom")
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, wantErr
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "test",
		SampleRatio: 1,
	}, "test")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected exporter error, got %v", err)
	}
}

func TestClampRatio(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{7, 1},
	}
	for _, c := range cases {
		if got := clampRatio(c.in); got != c.want {
			t.Fatalf("clampRatio(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSetupOTel_ResourceError(t *testing.T) {
	prevExp := newOTLPExporterFn
	prevRes := newServiceResourceFn
	t.Cleanup(func() {
		newOTLPExporterFn = prevExp
		newServiceResourceFn = prevRes
	})

	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return &otlptrace.Exporter{}, nil
	}
	wantErr := errors.New("resource boom")
	newServiceResourceFn = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return nil, wantErr
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "test",
		SampleRatio: 1,
	}, "test")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected resource error, got %v", err)
	}
}
