package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	asterrors "github.com/Thaylo/astograph/internal/errors"
	"github.com/Thaylo/astograph/internal/classify"
	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/recommend"
	"github.com/Thaylo/astograph/internal/types"
	"github.com/Thaylo/astograph/internal/verify"
)

const defaultVerifyBudget = 5 * time.Second

// Server dispatches the eight core operations of spec.md §6 over the
// dual-framing transport. The zero value is not usable; build with
// New.
type Server struct {
	Index        *index.Index
	Suppressions *index.SuppressionSet
}

// New builds a Server backed by idx and suppressions.
func New(idx *index.Index, suppressions *index.SuppressionSet) *Server {
	return &Server{Index: idx, Suppressions: suppressions}
}

// Run reads requests from r and writes responses to w until r is
// exhausted or ctx is done, auto-detecting framing from the first
// message and echoing it for every response per spec.md §6.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := NewReader(r)
	var writer *Writer

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		body, err := reader.ReadMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if writer == nil {
			writer = NewWriter(w, reader.Mode())
		}
		if len(body) == 0 {
			continue
		}

		resp := s.handle(ctx, body)
		out, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("astograph: server: marshaling response: %w", err)
		}
		if err := writer.WriteMessage(out); err != nil {
			return err
		}
	}
}

func (s *Server) handle(ctx context.Context, body []byte) Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Response{Error: &RPCError{Code: codeParseError, Message: err.Error()}}
	}

	result, err := s.dispatch(ctx, req.Method, req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: toRPCError(err)}
	}
	return Response{ID: req.ID, Result: result}
}

func toRPCError(err error) *RPCError {
	var astErr *asterrors.Error
	if e, ok := err.(*asterrors.Error); ok {
		astErr = e
	}
	if astErr != nil && astErr.Kind == asterrors.KindInvalidInput {
		return &RPCError{Code: codeInvalidInput, Message: err.Error()}
	}
	return &RPCError{Code: codeInvalidParams, Message: err.Error()}
}

func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "tools.list":
		return tools, nil
	case "index.add_code_unit":
		return s.addCodeUnit(params)
	case "index.add_file":
		return s.addFile(params)
	case "index.find_all_duplicates":
		return s.findAllDuplicates(params)
	case "index.find_similar":
		return s.findSimilar(params)
	case "verify":
		return s.verify(ctx, params)
	case "recommend":
		return s.recommend(params)
	case "classify":
		return s.classify(params)
	case "suppressions.add":
		return s.suppressionsAdd(params)
	case "suppressions.remove":
		return s.suppressionsRemove(params)
	case "suppressions.list":
		return s.Suppressions.List(), nil
	case "suppressions.contains":
		return s.suppressionsContains(params)
	default:
		return nil, fmt.Errorf("astograph: server: unknown method %q", method)
	}
}

type addCodeUnitParams struct {
	Name            string          `json:"name"`
	Code            string          `json:"code"`
	FilePath        string          `json:"file_path"`
	LineStart       int             `json:"line_start"`
	LineEnd         int             `json:"line_end"`
	UnitType        types.UnitType  `json:"unit_type"`
	ParentName      string          `json:"parent_name"`
	BlockType       types.BlockType `json:"block_type"`
	NestingDepth    int             `json:"nesting_depth"`
	ParentBlockName string          `json:"parent_block_name"`
}

func (s *Server) addCodeUnit(params json.RawMessage) (any, error) {
	var p addCodeUnitParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	unit := types.CodeUnit{
		Name:            p.Name,
		Code:            p.Code,
		FilePath:        p.FilePath,
		LineStart:       p.LineStart,
		LineEnd:         p.LineEnd,
		UnitType:        p.UnitType,
		ParentName:      p.ParentName,
		BlockType:       p.BlockType,
		NestingDepth:    p.NestingDepth,
		ParentBlockName: p.ParentBlockName,
	}
	return s.Index.AddCodeUnit(unit), nil
}

type addFileParams struct {
	Path          string `json:"path"`
	SourceText    string `json:"source_text"`
	IncludeBlocks *bool  `json:"include_blocks,omitempty"`
}

func (s *Server) addFile(params json.RawMessage) (any, error) {
	var p addFileParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	opts := pyast.DefaultExtractOptions()
	if p.IncludeBlocks != nil {
		opts.IncludeBlocks = *p.IncludeBlocks
	}
	count := s.Index.AddFile(p.Path, []byte(p.SourceText), opts)
	return map[string]int{"count": count}, nil
}

func (s *Server) findAllDuplicates(params json.RawMessage) (any, error) {
	var p struct {
		MinNodeCount int `json:"min_node_count"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	return s.Index.FindAllDuplicates(p.MinNodeCount)
}

func (s *Server) findSimilar(params json.RawMessage) (any, error) {
	var p struct {
		SourceText   string `json:"source_text"`
		MinNodeCount int    `json:"min_node_count"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	return s.Index.FindSimilar(p.SourceText, p.MinNodeCount)
}

func (s *Server) verify(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		SourceA      string `json:"source_a"`
		SourceB      string `json:"source_b"`
		TimeBudgetMs int    `json:"time_budget_ms"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	budget := defaultVerifyBudget
	if p.TimeBudgetMs > 0 {
		budget = time.Duration(p.TimeBudgetMs) * time.Millisecond
	}
	vctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	ga := pyast.BuildGraph(p.SourceA)
	gb := pyast.BuildGraph(p.SourceB)
	return verify.Verify(vctx, ga, gb).String(), nil
}

func (s *Server) recommend(params json.RawMessage) (any, error) {
	var p struct {
		MinNodeCount int `json:"min_node_count"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	groups, err := s.Index.FindAllDuplicates(p.MinNodeCount)
	if err != nil {
		return nil, err
	}
	verifyFn := recommend.VerifyFunc(func(a, b index.IndexEntry) bool {
		ctx, cancel := context.WithTimeout(context.Background(), defaultVerifyBudget)
		defer cancel()
		return verify.Verify(ctx, a.Graph, b.Graph) == verify.Isomorphic
	})
	return recommend.Recommend(groups, verifyFn), nil
}

func (s *Server) classify(params json.RawMessage) (any, error) {
	var p struct {
		WLHash string `json:"wl_hash"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	group, ok := s.Index.Group(p.WLHash)
	if !ok {
		return classify.Classification{}, nil
	}
	return classify.Classify(group), nil
}

func (s *Server) suppressionsAdd(params json.RawMessage) (any, error) {
	h, err := hashParam(params)
	if err != nil {
		return nil, err
	}
	s.Suppressions.Add(h)
	return map[string]bool{"ok": true}, nil
}

func (s *Server) suppressionsRemove(params json.RawMessage) (any, error) {
	h, err := hashParam(params)
	if err != nil {
		return nil, err
	}
	s.Suppressions.Remove(h)
	return map[string]bool{"ok": true}, nil
}

func (s *Server) suppressionsContains(params json.RawMessage) (any, error) {
	h, err := hashParam(params)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"contains": s.Suppressions.Contains(h)}, nil
}

func hashParam(params json.RawMessage) (string, error) {
	var p struct {
		WLHash string `json:"wl_hash"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return "", err
	}
	return p.WLHash, nil
}

