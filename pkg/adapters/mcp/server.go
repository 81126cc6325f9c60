package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/committer"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSessionID is used when a tool call does not name a session.
const DefaultSessionID = "mcp"

// TraceResponse is returned by tools that generate a trace.
type TraceResponse struct {
	SessionID string         `json:"session_id" jsonschema_description:"Session the trace belongs to"`
	Trace     domain.Trace   `json:"trace" jsonschema_description:"Every step of the operation, in order"`
	Outcome   domain.Outcome `json:"outcome" jsonschema_description:"Outcome carried by the terminal step"`
	Pending   bool           `json:"pending" jsonschema_description:"True until resolve_operation or abort_operation is called"`
}

// ResolveResponse is returned by tools that commit a trace.
type ResolveResponse struct {
	SessionID string         `json:"session_id"`
	Outcome   domain.Outcome `json:"outcome" jsonschema_description:"Outcome of the committed operation"`
	Mutated   bool           `json:"mutated" jsonschema_description:"Whether the structure changed"`
}

// Engine defines the interface required by the MCP server to drive Stepwise.
type Engine interface {
	Families() []stepwise.FamilyInfo
	Begin(ctx context.Context, sessionID string, req domain.Request) (domain.Trace, error)
	Resolve(ctx context.Context, sessionID string) (committer.Result, error)
	Abort(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID, family string) (structure.Snapshot, error)
	Reset(ctx context.Context, sessionID, family string) error
}

// Server wraps the Stepwise Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("stepwise-mcp", strings.TrimSpace(stepwise.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func operationOptions(desc string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(desc),
		mcp.WithString("family", mcp.Required(), mcp.Description("Algorithm family: bst, avl, heap, graph, sorting, stack or queue")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Operation kind"),
			mcp.Enum(string(domain.KindInsert), string(domain.KindSearch), string(domain.KindExtract),
				string(domain.KindTraverse), string(domain.KindSort))),
		mcp.WithString("operand", mcp.Description("Numeric value, or an edge \"A-B\" for graph inserts")),
		mcp.WithString("start_vertex", mcp.Description("Start vertex for graph traversals")),
		mcp.WithString("algorithm", mcp.Description("bfs|dfs for traversals, bubble|quick for sorts")),
		mcp.WithString("session_id", mcp.Description("Session holding the structures"), mcp.DefaultString(DefaultSessionID)),
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_families",
		mcp.WithDescription("List the algorithm families and the operations each supports."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Families())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	begin := append(operationOptions("Generate the step-by-step trace of an operation without changing the structure. "+
		"Call resolve_operation to commit it or abort_operation to discard it."),
		mcp.WithOutputSchema[TraceResponse]())
	s.mcpServer.AddTool(mcp.NewTool("begin_operation", begin...), mcp.NewStructuredToolHandler(s.handleBegin))

	apply := append(operationOptions("Generate the trace of an operation and commit it immediately."),
		mcp.WithOutputSchema[TraceResponse]())
	s.mcpServer.AddTool(mcp.NewTool("apply_operation", apply...), mcp.NewStructuredToolHandler(s.handleApply))

	s.mcpServer.AddTool(mcp.NewTool("resolve_operation",
		mcp.WithDescription("Commit the pending trace of a session to its structure."),
		mcp.WithString("session_id", mcp.Description("Session with a pending trace"), mcp.DefaultString(DefaultSessionID)),
		mcp.WithOutputSchema[ResolveResponse](),
	), mcp.NewStructuredToolHandler(s.handleResolve))

	s.mcpServer.AddTool(mcp.NewTool("abort_operation",
		mcp.WithDescription("Discard the pending trace of a session."),
		mcp.WithString("session_id", mcp.Description("Session with a pending trace"), mcp.DefaultString(DefaultSessionID)),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := sessionOf(request.GetArguments())
		if err := s.engine.Abort(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("abort failed: %v", err)), nil
		}
		return mcp.NewToolResultText("aborted"), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_structure",
		mcp.WithDescription("Return a family's committed structure as JSON or as a Mermaid diagram."),
		mcp.WithString("family", mcp.Required(), mcp.Description("Algorithm family")),
		mcp.WithString("format", mcp.Description("json or mermaid"), mcp.Enum("json", "mermaid"), mcp.DefaultString("json")),
		mcp.WithString("session_id", mcp.Description("Session holding the structure"), mcp.DefaultString(DefaultSessionID)),
	), s.handleGetStructure)

	s.mcpServer.AddTool(mcp.NewTool("reset_structure",
		mcp.WithDescription("Empty a family's structure, or every structure when family is omitted."),
		mcp.WithString("family", mcp.Description("Algorithm family (optional)")),
		mcp.WithString("session_id", mcp.Description("Session holding the structure"), mcp.DefaultString(DefaultSessionID)),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		family, _ := args["family"].(string)
		if err := s.engine.Reset(ctx, sessionOf(args), family); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
		}
		return mcp.NewToolResultText("reset"), nil
	})
}

func sessionOf(args map[string]interface{}) string {
	if id, ok := args["session_id"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	return DefaultSessionID
}

func decodeOperation(args map[string]interface{}) (domain.Request, error) {
	req, err := domain.DecodeRequest(args)
	if err != nil {
		return domain.Request{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if req.Operand, err = runner.SanitizeInput(req.Operand); err != nil {
		return domain.Request{}, fmt.Errorf("input rejected: %w", err)
	}
	return req, nil
}

// Handler methods for structured tools

func (s *Server) handleBegin(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResponse, error) {
	req, err := decodeOperation(args)
	if err != nil {
		return TraceResponse{}, err
	}
	sessionID := sessionOf(args)

	tr, err := s.engine.Begin(ctx, sessionID, req)
	if err != nil {
		s.logger.Warn("MCP begin_operation rejected", "error", err, "session_id", sessionID)
		return TraceResponse{}, fmt.Errorf("begin failed: %w", err)
	}
	return TraceResponse{SessionID: sessionID, Trace: tr, Outcome: tr.Outcome(), Pending: true}, nil
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResponse, error) {
	resp, err := s.handleBegin(ctx, request, args)
	if err != nil {
		return TraceResponse{}, err
	}
	if _, err := s.engine.Resolve(ctx, resp.SessionID); err != nil {
		return TraceResponse{}, fmt.Errorf("commit failed: %w", err)
	}
	resp.Pending = false
	return resp, nil
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ResolveResponse, error) {
	sessionID := sessionOf(args)
	res, err := s.engine.Resolve(ctx, sessionID)
	if err != nil {
		return ResolveResponse{}, fmt.Errorf("resolve failed: %w", err)
	}
	return ResolveResponse{SessionID: sessionID, Outcome: res.Outcome, Mutated: res.Mutated}, nil
}

func (s *Server) handleGetStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	family, err := request.RequireString("family")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.engine.Snapshot(ctx, sessionOf(args), family)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}

	if request.GetString("format", "json") == "mermaid" {
		diagram, err := graph.GenerateMermaid(snap, nil)
		if errors.Is(err, graph.ErrNotDrawable) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(diagram), nil
	}

	env, err := structure.EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	jsonBytes, _ := json.Marshal(env)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("stepwise://families", "Algorithm Families",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.engine.Families())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stepwise://families",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
