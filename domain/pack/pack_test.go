package pack_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/felixgeelhaar/time-server/domain/pack"
	"github.com/felixgeelhaar/time-server/domain/tool"
)

// mockTool implements tool.Tool for testing
type mockTool struct {
	name string
}

func (m mockTool) Name() string                  { return m.name }
func (m mockTool) Description() string           { return "mock tool" }
func (m mockTool) Annotations() tool.Annotations { return tool.Annotations{} }
func (m mockTool) InputSchema() tool.Schema      { return tool.Schema{} }
func (m mockTool) Execute(context.Context, json.RawMessage) (tool.Result, error) {
	return tool.Result{}, nil
}

func TestPack_ToolNames(t *testing.T) {
	t.Parallel()

	t.Run("returns empty slice for pack with no tools", func(t *testing.T) {
		t.Parallel()

		p := &pack.Pack{}
		if names := p.ToolNames(); len(names) != 0 {
			t.Errorf("ToolNames() len = %d, want 0", len(names))
		}
	})

	t.Run("returns names in catalog order", func(t *testing.T) {
		t.Parallel()

		p := &pack.Pack{
			Tools: []tool.Tool{
				mockTool{name: "get_current_time"},
				mockTool{name: "add_time"},
				mockTool{name: "time_diff"},
			},
		}
		want := []string{"get_current_time", "add_time", "time_diff"}
		if got := p.ToolNames(); !reflect.DeepEqual(got, want) {
			t.Errorf("ToolNames() = %v, want %v", got, want)
		}
	})
}

func TestPack_GetTool(t *testing.T) {
	t.Parallel()

	p := &pack.Pack{
		Tools: []tool.Tool{mockTool{name: "add_time"}, mockTool{name: "time_diff"}},
	}

	found, ok := p.GetTool("time_diff")
	if !ok || found.Name() != "time_diff" {
		t.Errorf("GetTool(time_diff) = %v, %v", found, ok)
	}
	if _, ok := p.GetTool("missing"); ok {
		t.Error("GetTool() should not find missing tool")
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	p := pack.NewBuilder("datetime").
		WithDescription("Time tools").
		WithVersion("1.0.0").
		AddTool(mockTool{name: "add_time"}).
		AddTools(mockTool{name: "time_diff"}, mockTool{name: "list_timezones"}).
		WithMetadata("category", "time").
		Build()

	if p.Name != "datetime" || p.Description != "Time tools" || p.Version != "1.0.0" {
		t.Errorf("pack = %+v", p)
	}
	if len(p.Tools) != 3 {
		t.Errorf("Tools len = %d, want 3", len(p.Tools))
	}
	if p.Metadata["category"] != "time" {
		t.Errorf("Metadata = %v", p.Metadata)
	}
}

func TestFilter_Allows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter pack.Filter
		tool   string
		want   bool
	}{
		{name: "empty filter allows all", tool: "add_time", want: true},
		{name: "enabled list allows member", filter: pack.Filter{Enabled: []string{"add_time"}}, tool: "add_time", want: true},
		{name: "enabled list rejects others", filter: pack.Filter{Enabled: []string{"add_time"}}, tool: "time_diff", want: false},
		{name: "disabled rejects", filter: pack.Filter{Disabled: []string{"time_diff"}}, tool: "time_diff", want: false},
		{name: "disabled wins over enabled", filter: pack.Filter{Enabled: []string{"time_diff"}, Disabled: []string{"time_diff"}}, tool: "time_diff", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.filter.Allows(tt.tool); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.tool, got, tt.want)
			}
		})
	}
}

func TestFilter_Unknown(t *testing.T) {
	t.Parallel()

	f := pack.Filter{
		Enabled:  []string{"add_time", "add_tme"},
		Disabled: []string{"add_tme", "sleep"},
	}
	got := f.Unknown([]string{"add_time", "time_diff"})
	want := []string{"add_tme", "sleep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unknown() = %v, want %v", got, want)
	}

	if got := (pack.Filter{}).Unknown(nil); got != nil {
		t.Errorf("Unknown() on empty filter = %v", got)
	}
}
