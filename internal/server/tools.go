package server

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// tools declares the JSON Schema for every core operation's params,
// in the teacher's own literal mcp.Tool style
// (internal/mcp/server.go's registerTools). Unlike the teacher, these
// aren't registered against an mcp.Server — "tools.list" below just
// hands the declarations to the client so it can validate params
// before sending them over whichever framing Reader detected.
var tools = []*mcp.Tool{
	{
		Name:        "index.add_code_unit",
		Description: "Index a single, already-extracted code unit and return its derived entry (graph hash, fingerprint, node count).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name":              {Type: "string"},
				"code":              {Type: "string", Description: "Source text of the unit"},
				"file_path":         {Type: "string"},
				"line_start":        {Type: "integer"},
				"line_end":          {Type: "integer"},
				"unit_type":         {Type: "string", Description: "function | method | class | block"},
				"parent_name":       {Type: "string"},
				"block_type":        {Type: "string"},
				"nesting_depth":     {Type: "integer"},
				"parent_block_name": {Type: "string"},
			},
			Required: []string{"name", "code", "file_path", "line_start", "line_end", "unit_type"},
		},
	},
	{
		Name:        "index.add_file",
		Description: "Extract every code unit from a file's source text and index them. Returns the count of units added.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":           {Type: "string"},
				"source_text":    {Type: "string"},
				"include_blocks": {Type: "boolean"},
			},
			Required: []string{"path", "source_text"},
		},
	},
	{
		Name:        "index.find_all_duplicates",
		Description: "List every duplicate group with at least two entries whose average node count meets min_node_count.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"min_node_count": {Type: "integer"}},
			Required:   []string{"min_node_count"},
		},
	},
	{
		Name:        "index.find_similar",
		Description: "Parse source_text (best-effort) and return fingerprint-compatible hits from the index.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"source_text":    {Type: "string"},
				"min_node_count": {Type: "integer"},
			},
			Required: []string{"source_text", "min_node_count"},
		},
	},
	{
		Name:        "verify",
		Description: "Decide whether two code snippets are structurally isomorphic, bounded by a time budget.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"source_a":      {Type: "string"},
				"source_b":      {Type: "string"},
				"time_budget_ms": {Type: "integer"},
			},
			Required: []string{"source_a", "source_b"},
		},
	},
	{
		Name:        "recommend",
		Description: "Run the Recommendation Engine over the current duplicate groups.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"min_node_count": {Type: "integer"}},
			Required:   []string{"min_node_count"},
		},
	},
	{
		Name:        "classify",
		Description: "Classify the duplicate group identified by wl_hash.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"wl_hash": {Type: "string"}},
			Required:   []string{"wl_hash"},
		},
	},
	{
		Name:        "suppressions.add",
		Description: "Suppress a duplicate group by its wl_hash.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"wl_hash": {Type: "string"}},
			Required:   []string{"wl_hash"},
		},
	},
	{
		Name:        "suppressions.remove",
		Description: "Remove a wl_hash from the suppression set.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"wl_hash": {Type: "string"}},
			Required:   []string{"wl_hash"},
		},
	},
	{
		Name:        "suppressions.list",
		Description: "List every suppressed wl_hash.",
		InputSchema: &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}},
	},
	{
		Name:        "suppressions.contains",
		Description: "Report whether a wl_hash is currently suppressed.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"wl_hash": {Type: "string"}},
			Required:   []string{"wl_hash"},
		},
	},
}
