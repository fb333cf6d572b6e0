// Package mcp exposes the machine registry to language models over the
// Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/internal/presentation/graph"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
	"github.com/arvholm/espalier/pkg/ports"
)

// RegisterResult reports a successful registration, mirroring the HTTP
// adapter payload so both transports agree on field names.
type RegisterResult struct {
	Name     string        `json:"name" jsonschema_description:"Name the machine was registered under"`
	Revision string        `json:"revision" jsonschema_description:"Revision stamped on this save"`
	Warnings []dfa.Warning `json:"warnings,omitempty" jsonschema_description:"Non-fatal diagnostics emitted during construction"`
}

// MachineInfo is a stored definition plus the properties derived from its
// compiled machine.
type MachineInfo struct {
	Definition definition.Definition `json:"definition" jsonschema_description:"The machine definition document"`
	Revision   string                `json:"revision" jsonschema_description:"Revision of the stored document"`
	UpdatedAt  time.Time             `json:"updated_at" jsonschema_description:"When the document was last saved"`
	Sinks      []string              `json:"sinks" jsonschema_description:"States no input can leave, derived from the table"`
}

// VerdictResult reports a membership verdict.
type VerdictResult struct {
	Input    string `json:"input" jsonschema_description:"The input string that was tested"`
	Accepted bool   `json:"accepted" jsonschema_description:"Whether the machine ended in an accepting state"`
}

// ReadResult reports the state a read ended in.
type ReadResult struct {
	Input string `json:"input" jsonschema_description:"The input string that was read"`
	State string `json:"state" jsonschema_description:"State the machine ended in"`
}

// GraphResult carries rendered diagram source.
type GraphResult struct {
	Format string `json:"format" jsonschema_description:"The rendered format, mermaid or dot"`
	Source string `json:"source" jsonschema_description:"Diagram source text"`
}

// Server wraps a machine registry and exposes it as an MCP server.
type Server struct {
	registry  ports.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance over the registry.
func NewServer(reg ports.Registry, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("espalier-mcp", espalier.Version),
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

// ServeSSE starts the server on the given port using SSE.
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

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of all registered machines."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.registry.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: describe_machine
	describeTool := mcp.NewTool("describe_machine",
		mcp.WithDescription("Fetch a registered machine's definition, revision and derived sink states."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name assigned at registration")),
		mcp.WithOutputSchema[MachineInfo](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribeMachine))

	// TOOL: register_machine
	registerTool := mcp.NewTool("register_machine",
		mcp.WithDescription("Compile and register a machine definition. The document must declare name, states, alphabet, initial, accepting and a transitions table."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Machine definition as a JSON document")),
		mcp.WithOutputSchema[RegisterResult](),
	)
	s.mcpServer.AddTool(registerTool, mcp.NewStructuredToolHandler(s.handleRegisterMachine))

	// TOOL: test_string
	testTool := mcp.NewTool("test_string",
		mcp.WithDescription("Report whether a machine accepts an input string. Inputs with symbols outside the alphabet are rejected, never errors."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string to test")),
		mcp.WithOutputSchema[VerdictResult](),
	)
	s.mcpServer.AddTool(testTool, mcp.NewStructuredToolHandler(s.handleTestString))

	// TOOL: read_string
	readTool := mcp.NewTool("read_string",
		mcp.WithDescription("Run a machine over an input string and report the state it ends in. Fails if the input contains a symbol outside the alphabet."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string to read")),
		mcp.WithOutputSchema[ReadResult](),
	)
	s.mcpServer.AddTool(readTool, mcp.NewStructuredToolHandler(s.handleReadString))

	// TOOL: get_graph
	graphTool := mcp.NewTool("get_graph",
		mcp.WithDescription("Render a machine as diagram source text."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("format", mcp.Description("Output format: mermaid (default) or dot")),
		mcp.WithOutputSchema[GraphResult](),
	)
	s.mcpServer.AddTool(graphTool, mcp.NewStructuredToolHandler(s.handleGetGraph))
}

// Handler methods for structured tools

func (s *Server) handleDescribeMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineInfo, error) {
	name, _ := args["name"].(string)

	stored, err := s.registry.Definition(ctx, name)
	if err != nil {
		return MachineInfo{}, fmt.Errorf("machine %q: %w", name, err)
	}
	m, err := s.registry.Machine(ctx, name)
	if err != nil {
		return MachineInfo{}, fmt.Errorf("machine %q: %w", name, err)
	}

	sinks := make([]string, 0, len(m.Sinks()))
	for _, state := range m.Sinks() {
		sinks = append(sinks, string(state))
	}

	return MachineInfo{
		Definition: stored.Definition,
		Revision:   stored.Revision,
		UpdatedAt:  stored.UpdatedAt,
		Sinks:      sinks,
	}, nil
}

func (s *Server) handleRegisterMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RegisterResult, error) {
	document, _ := args["document"].(string)

	var def definition.Definition
	if err := json.Unmarshal([]byte(document), &def); err != nil {
		return RegisterResult{}, fmt.Errorf("invalid document: %w", err)
	}

	stored, warnings, err := s.registry.Register(ctx, &def)
	if err != nil {
		s.logger.Warn("MCP register: definition rejected", "name", def.Name, "error", err)
		return RegisterResult{}, fmt.Errorf("register failed: %w", err)
	}

	return RegisterResult{
		Name:     stored.Definition.Name,
		Revision: stored.Revision,
		Warnings: warnings,
	}, nil
}

func (s *Server) handleTestString(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (VerdictResult, error) {
	name, _ := args["name"].(string)
	input, _ := args["input"].(string)

	accepted, err := s.registry.Test(ctx, name, input)
	if err != nil {
		return VerdictResult{}, fmt.Errorf("machine %q: %w", name, err)
	}

	return VerdictResult{Input: input, Accepted: accepted}, nil
}

func (s *Server) handleReadString(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ReadResult, error) {
	name, _ := args["name"].(string)
	input, _ := args["input"].(string)

	state, err := s.registry.Read(ctx, name, input)
	if err != nil {
		return ReadResult{}, fmt.Errorf("machine %q: %w", name, err)
	}

	return ReadResult{Input: input, State: string(state)}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GraphResult, error) {
	name, _ := args["name"].(string)
	format, _ := args["format"].(string)
	if format == "" {
		format = "mermaid"
	}

	m, err := s.registry.Machine(ctx, name)
	if err != nil {
		return GraphResult{}, fmt.Errorf("machine %q: %w", name, err)
	}

	switch format {
	case "mermaid":
		return GraphResult{Format: format, Source: graph.GenerateMermaid(m, nil)}, nil
	case "dot":
		return GraphResult{Format: format, Source: graph.GenerateDOT(m)}, nil
	default:
		return GraphResult{}, fmt.Errorf("unknown format %q, want mermaid or dot", format)
	}
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://machines
	s.mcpServer.AddResource(mcp.NewResource("espalier://machines", "Registered Machines",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.registry.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}

		records := make([]*definition.Stored, 0, len(names))
		for _, name := range names {
			stored, err := s.registry.Definition(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to load machine %q: %w", name, err)
			}
			records = append(records, stored)
		}
		jsonBytes, _ := json.Marshal(records)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
