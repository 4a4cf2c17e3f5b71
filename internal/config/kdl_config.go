package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ConfigFileName is the KDL config file astograph looks for at the
// project root, named after the teacher's own .lci.kdl convention.
const ConfigFileName = ".astograph.kdl"

// LoadKDL overlays projectRoot/.astograph.kdl onto Default(projectRoot).
// A missing file is not an error: the defaults stand as-is.
func LoadKDL(projectRoot string) (*Config, error) {
	cfg := Default(projectRoot)

	path := filepath.Join(projectRoot, ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("astograph: reading %s: %w", ConfigFileName, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("astograph: parsing %s: %w", ConfigFileName, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			applyProjectSection(cfg, n.Children)
		case "extraction":
			applyExtractionSection(cfg, n.Children)
		case "index":
			applyIndexSection(cfg, n.Children)
		case "server":
			applyServerSection(cfg, n.Children)
		case "watch":
			applyWatchSection(cfg, n.Children)
		}
	}
	return cfg, nil
}

func applyProjectSection(cfg *Config, children []*document.Node) {
	for _, cn := range children {
		switch nodeName(cn) {
		case "root":
			if s, ok := firstStringArg(cn); ok {
				cfg.Project.Root = s
			}
		case "include":
			if vs := collectStringArgs(cn); len(vs) > 0 {
				cfg.Project.Include = vs
			}
		case "exclude":
			if vs := collectStringArgs(cn); len(vs) > 0 {
				cfg.Project.Exclude = vs
			}
		}
	}
}

func applyExtractionSection(cfg *Config, children []*document.Node) {
	for _, cn := range children {
		switch nodeName(cn) {
		case "include_blocks":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Extraction.IncludeBlocks = b
			}
		case "max_block_depth":
			if i, ok := firstIntArg(cn); ok {
				cfg.Extraction.MaxBlockDepth = i
			}
		}
	}
}

func applyIndexSection(cfg *Config, children []*document.Node) {
	for _, cn := range children {
		switch nodeName(cn) {
		case "wl_iterations":
			if i, ok := firstIntArg(cn); ok {
				cfg.Index.WLIterations = i
			}
		case "min_node_count":
			if i, ok := firstIntArg(cn); ok {
				cfg.Index.MinNodeCount = i
			}
		case "persist_path":
			if s, ok := firstStringArg(cn); ok {
				cfg.Index.PersistPath = s
			}
		}
	}
}

func applyServerSection(cfg *Config, children []*document.Node) {
	for _, cn := range children {
		if nodeName(cn) == "metrics_addr" {
			if s, ok := firstStringArg(cn); ok {
				cfg.Server.MetricsAddr = s
			}
		}
	}
}

func applyWatchSection(cfg *Config, children []*document.Node) {
	for _, cn := range children {
		switch nodeName(cn) {
		case "enabled":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Watch.Enabled = b
			}
		case "debounce_ms":
			if i, ok := firstIntArg(cn); ok {
				cfg.Watch.DebounceMs = i
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads a node's string values either from its
// inline arguments (`include "a" "b"`) or, in block form
// (`exclude { "a"; "b" }`), from its children's node names.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
