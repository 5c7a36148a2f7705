package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// stringArg returns the trimmed string argument name, or "" when absent.
func stringArg(request mcp.CallToolRequest, name string) string {
	s, _ := request.Params.Arguments[name].(string)
	return strings.TrimSpace(s)
}

// intArg reads a whole-number argument. JSON numbers arrive as float64;
// numeric strings are accepted too since some clients send them that way.
func intArg(request mcp.CallToolRequest, name string) (int, bool, error) {
	raw, ok := request.Params.Arguments[name]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("'%s' must be a whole number, got %v", name, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("'%s' must be a whole number, got %q", name, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("'%s' must be a number", name)
	}
}

// jsonResult serializes v as the text content of a tool result.
func jsonResult(v interface{}, what string) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err))
	}
	return mcp.NewToolResultText(string(data))
}
