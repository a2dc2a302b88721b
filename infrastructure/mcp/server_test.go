package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/protocol"

	"github.com/felixgeelhaar/time-server/application"
	"github.com/felixgeelhaar/time-server/domain/chrono"
	"github.com/felixgeelhaar/time-server/domain/tool"
	"github.com/felixgeelhaar/time-server/infrastructure/storage/memory"
	"github.com/felixgeelhaar/time-server/pack/datetime"
)

func newTestDispatcher(t *testing.T, tools ...tool.Tool) *application.Dispatcher {
	t.Helper()
	registry := memory.NewToolRegistry()
	for _, tl := range tools {
		if err := registry.Register(tl); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	d, err := application.NewDispatcher(application.DispatcherConfig{Registry: registry})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func TestNewTimeServer(t *testing.T) {
	t.Parallel()

	t.Run("requires dispatcher", func(t *testing.T) {
		t.Parallel()

		if _, err := NewTimeServer(TimeServerConfig{Name: "time-server"}); err == nil {
			t.Error("expected error when dispatcher is nil")
		}
	})

	t.Run("registers every catalog tool", func(t *testing.T) {
		t.Parallel()

		p := datetime.New()
		srv, err := NewTimeServer(TimeServerConfig{
			Name:         "time-server",
			Version:      "1.0.0",
			Instructions: "Use these tools for date and time questions",
			Dispatcher:   newTestDispatcher(t, p.Tools...),
		})
		if err != nil {
			t.Fatalf("NewTimeServer() error = %v", err)
		}
		if srv.Server() == nil {
			t.Fatal("Server() returned nil")
		}

		got := srv.Tools()
		want := p.ToolNames()
		if len(got) != len(want) {
			t.Fatalf("Tools() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Tools()[%d] = %s, want %s", i, got[i], want[i])
			}
		}
		if srv.Info().Name != "time-server" || !srv.Info().Capabilities.Tools {
			t.Errorf("Info() = %+v", srv.Info())
		}
	})
}

func TestTimeServer_Handler(t *testing.T) {
	t.Parallel()

	p := datetime.New()
	srv, err := NewTimeServer(TimeServerConfig{
		Name:       "time-server",
		Version:    "1.0.0",
		Dispatcher: newTestDispatcher(t, p.Tools...),
	})
	if err != nil {
		t.Fatalf("NewTimeServer() error = %v", err)
	}

	t.Run("success returns JSON text", func(t *testing.T) {
		t.Parallel()

		out, err := srv.handler(datetime.ToolTimeDiff)(context.Background(),
			json.RawMessage(`{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:30:00Z","unit":"minutes"}`))
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		var res struct {
			Difference float64 `json:"difference"`
			Unit       string  `json:"unit"`
		}
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if res.Difference != 90 || res.Unit != "minutes" {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("validation error is returned verbatim", func(t *testing.T) {
		t.Parallel()

		_, err := srv.handler(datetime.ToolAddTime)(context.Background(),
			json.RawMessage(`{"amount":1,"unit":"fortnights"}`))
		if !errors.Is(err, chrono.ErrUnknownUnit) {
			t.Fatalf("handler error = %v, want ErrUnknownUnit", err)
		}
		if !strings.Contains(err.Error(), "fortnights") {
			t.Errorf("error %q should name the offending value", err)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		t.Parallel()

		_, err := srv.handler("get_weather")(context.Background(), nil)
		if !errors.Is(err, tool.ErrToolNotFound) {
			t.Errorf("handler error = %v, want ErrToolNotFound", err)
		}
	})
}

func TestTimeServer_Middleware(t *testing.T) {
	t.Parallel()

	srv, err := NewTimeServer(TimeServerConfig{
		Name:       "time-server",
		Version:    "1.0.0",
		Dispatcher: newTestDispatcher(t),
	})
	if err != nil {
		t.Fatalf("NewTimeServer() error = %v", err)
	}

	if got := len(srv.Middleware()); got != 2 {
		t.Fatalf("Middleware() has %d entries, want 2", got)
	}
	if got := len(srv.serveOptions([]ServeOption{WithMiddleware()})); got != 2 {
		t.Errorf("serveOptions() has %d entries, want middleware option plus caller option", got)
	}

	var seenID string
	chain := mcpgo.Chain(srv.Middleware()...)

	t.Run("panics become internal errors", func(t *testing.T) {
		h := chain(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic("boom")
		})
		resp, err := h(context.Background(), &protocol.Request{Method: "tools/call"})
		if err == nil || resp != nil {
			t.Fatalf("handler = %v, %v; want recovered error", resp, err)
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("error %q should carry the panic value", err)
		}
	})

	t.Run("request id injected", func(t *testing.T) {
		h := chain(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			seenID = mcpgo.RequestIDFromContext(ctx)
			return &protocol.Response{}, nil
		})
		if _, err := h(context.Background(), &protocol.Request{Method: "tools/call"}); err != nil {
			t.Fatalf("handler error = %v", err)
		}
		if seenID == "" {
			t.Error("request id was not injected")
		}
	})

	t.Run("use appends", func(t *testing.T) {
		srv.Use(mcpgo.Timeout(time.Second))
		if got := len(srv.Middleware()); got != 3 {
			t.Errorf("Middleware() has %d entries after Use, want 3", got)
		}
	})
}

func TestTimeServer_ToolAnnotations(t *testing.T) {
	t.Parallel()

	p := datetime.New()
	srv, err := NewTimeServer(TimeServerConfig{
		Name:       "time-server",
		Version:    "1.0.0",
		Dispatcher: newTestDispatcher(t, p.Tools...),
	})
	if err != nil {
		t.Fatalf("NewTimeServer() error = %v", err)
	}

	infos := srv.Server().Tools()
	if len(infos) != len(p.Tools) {
		t.Fatalf("Server().Tools() has %d entries, want %d", len(infos), len(p.Tools))
	}
	for _, info := range infos {
		a := info.Annotations
		if a == nil || a.ReadOnlyHint == nil || !*a.ReadOnlyHint {
			t.Errorf("%s: missing read-only hint", info.Name)
			continue
		}
		wantIdempotent := info.Name != datetime.ToolCurrentTime &&
			info.Name != datetime.ToolTimestamp &&
			info.Name != datetime.ToolListTimezones
		gotIdempotent := a.IdempotentHint != nil && *a.IdempotentHint
		if gotIdempotent != wantIdempotent {
			t.Errorf("%s: idempotent = %v, want %v", info.Name, gotIdempotent, wantIdempotent)
		}
	}
}

func TestTimeServer_HandlerReusesTransportRequestID(t *testing.T) {
	t.Parallel()

	var got string
	echo := tool.NewBuilder("echo_request").
		WithDescription("Echoes the request id").
		WithHandler(func(ctx context.Context, _ json.RawMessage) (tool.Result, error) {
			got = application.RequestIDFrom(ctx)
			return tool.JSONResult(map[string]string{"id": got})
		}).
		MustBuild()

	srv, err := NewTimeServer(TimeServerConfig{
		Name:       "time-server",
		Version:    "1.0.0",
		Dispatcher: newTestDispatcher(t, echo),
	})
	if err != nil {
		t.Fatalf("NewTimeServer() error = %v", err)
	}

	chain := mcpgo.Chain(mcpgo.RequestID())
	var transportID string
	h := chain(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		transportID = mcpgo.RequestIDFromContext(ctx)
		_, err := srv.handler("echo_request")(ctx, json.RawMessage(`{}`))
		return &protocol.Response{}, err
	})
	if _, err := h(context.Background(), &protocol.Request{Method: "tools/call"}); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if transportID == "" || got != transportID {
		t.Errorf("dispatcher request id = %q, want transport id %q", got, transportID)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	withSchema := tool.NewBuilder("with_schema").
		WithDescription("Has arguments").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"unit": tool.Property("string", "Unit"),
		}, []string{"unit"})).
		WithHandler(func(context.Context, json.RawMessage) (tool.Result, error) { return tool.Result{}, nil }).
		MustBuild()

	got := describe(withSchema)
	if !strings.HasPrefix(got, "Has arguments") || !strings.Contains(got, `"required":["unit"]`) {
		t.Errorf("describe() = %q", got)
	}

	bare := tool.NewBuilder("bare").
		WithDescription("No arguments").
		WithInputSchema(tool.NewSchema(nil)).
		WithHandler(func(context.Context, json.RawMessage) (tool.Result, error) { return tool.Result{}, nil }).
		MustBuild()
	if got := describe(bare); got != "No arguments" {
		t.Errorf("describe() = %q, want plain description", got)
	}
}

func TestTimeServer_ServeStdioCancelled(t *testing.T) {
	t.Parallel()

	srv, err := NewTimeServer(TimeServerConfig{
		Name:       "time-server",
		Version:    "1.0.0",
		Dispatcher: newTestDispatcher(t),
	})
	if err != nil {
		t.Fatalf("NewTimeServer() error = %v", err)
	}

	// A cancelled context makes ServeStdio return promptly.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Logf("ServeStdio returned error (expected with cancelled context): %v", err)
	}
}
