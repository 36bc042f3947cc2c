package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(s *server.MCPServer, p *planner.Planner) {
	s.AddTool(mcp.NewTool("weekend_window",
		mcp.WithDescription("Resolve \"this weekend\": the next Friday strictly after the reference date and the Sunday two days later. A Friday reference yields the following Friday."),
		mcp.WithString("reference",
			mcp.Description("Reference date (YYYY-MM-DD). Defaults to today in the server's calendar timezone."),
		),
	), weekendWindowHandler(p))

	s.AddTool(mcp.NewTool("date_presets",
		mcp.WithDescription("Expand date presets (weekend, next-weekend, next-week, flexible) into departure and return dates with allowed time windows."),
		mcp.WithArray("presets",
			mcp.Required(),
			mcp.Description("Preset keys, e.g. [\"weekend\", \"next-weekend\"]"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("reference",
			mcp.Description("Reference date (YYYY-MM-DD). Defaults to today."),
		),
	), datePresetsHandler(p))
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func weekendWindowHandler(p *planner.Planner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, _ := arguments(request)["reference"].(string)
		reference, err := p.Reference(strings.TrimSpace(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		window, _, err := p.Weekend(ctx, reference)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]interface{}{
			"reference": reference,
			"start":     window.Start,
			"end":       window.End,
			"start_day": window.Start.Weekday().String(),
			"end_day":   window.End.Weekday().String(),
		})
	}
}

func datePresetsHandler(p *planner.Planner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)

		var values []string
		switch v := args["presets"].(type) {
		case []interface{}:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return mcp.NewToolResultError("presets must be an array of strings"), nil
				}
				values = append(values, s)
			}
		case string:
			values = strings.Split(v, ",")
		}
		if len(values) == 0 {
			return mcp.NewToolResultError("presets is required"), nil
		}

		keys, err := presets.ParseKeys(values)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, _ := args["reference"].(string)
		reference, err := p.Reference(strings.TrimSpace(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		plan, _, err := p.Plan(ctx, reference, keys)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(plan)
	}
}
