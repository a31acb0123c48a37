package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/schema"
)

// ServerConfig configures an MCP server.
type ServerConfig struct {
	Registry *registry.Registry
	Info     ServerInfo
	Logger   *slog.Logger
}

// Server dispatches MCP requests into a tool registry. Requests are read and
// served strictly one at a time, which together with the registry's own
// serialization guarantees no two handlers interleave.
type Server struct {
	reg    *registry.Registry
	info   ServerInfo
	logger *slog.Logger
}

// NewServer creates an MCP server over a registry.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("mcp: registry is required")
	}
	if cfg.Info.Name == "" {
		cfg.Info.Name = "blockbridge"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{reg: cfg.Registry, info: cfg.Info, logger: cfg.Logger}, nil
}

// Serve reads JSON-RPC messages from r and writes responses to w until r is
// exhausted or ctx is canceled. Notifications (messages without an id) are
// accepted and dropped per JSON-RPC 2.0.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	decoder := json.NewDecoder(r)
	encoder := json.NewEncoder(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Error("decode request", "error", err)
			if err := encoder.Encode(errorMessage(nil, codeParseError, "parse error")); err != nil {
				return fmt.Errorf("mcp: write response: %w", err)
			}
			return nil
		}

		reply := s.handle(ctx, msg)
		if reply == nil {
			continue
		}
		if err := encoder.Encode(reply); err != nil {
			return fmt.Errorf("mcp: write response: %w", err)
		}
	}
}

func (s *Server) handle(ctx context.Context, msg Message) *Message {
	if msg.Method == "" {
		return errorMessage(msg.ID, codeInvalidRequest, "missing method")
	}
	// Notifications get no reply.
	if msg.ID == nil {
		return nil
	}

	switch msg.Method {
	case "initialize":
		return resultMessage(msg.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      s.info,
		})
	case "ping":
		return resultMessage(msg.ID, map[string]any{})
	case "tools/list":
		return resultMessage(msg.ID, ToolsListResult{Tools: s.listTools()})
	case "tools/call":
		return s.handleCall(ctx, msg)
	default:
		return errorMessage(msg.ID, codeMethodNotFound, fmt.Sprintf("method %q is not supported", msg.Method))
	}
}

func (s *Server) handleCall(ctx context.Context, msg Message) *Message {
	var params ToolsCallParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorMessage(msg.ID, codeInvalidParams, "invalid tools/call params")
	}

	out, err := s.reg.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		var unknown *registry.UnknownToolError
		if errors.As(err, &unknown) {
			return errorMessage(msg.ID, codeInvalidParams, unknown.Error())
		}
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return resultMessage(msg.ID, ToolsCallResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}
	return resultMessage(msg.ID, ToolsCallResult{
		Content: []ContentBlock{{Type: "text", Text: out}},
	})
}

func (s *Server) listTools() []Tool {
	descriptors := s.reg.List()
	tools := make([]Tool, 0, len(descriptors))
	for _, desc := range descriptors {
		tools = append(tools, Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: inputSchemaJSON(desc.InputSchema),
			Annotations: map[string]any{
				"title":           desc.Annotations.Title,
				"readOnlyHint":    desc.Annotations.ReadOnly,
				"destructiveHint": desc.Annotations.Destructive,
				"openWorldHint":   desc.Annotations.OpenWorld,
			},
		})
	}
	return tools
}

// inputSchemaJSON renders a parameter set as a JSON Schema object.
func inputSchemaJSON(specs schema.Object) map[string]any {
	properties := make(map[string]any, len(specs))
	required := make([]string, 0)
	for _, name := range specs.ParamNames() {
		spec := specs[name]
		properties[name] = paramJSON(spec)
		if spec.Required {
			required = append(required, name)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func paramJSON(spec schema.ParamSpec) map[string]any {
	out := map[string]any{"type": jsonSchemaType(spec.Type)}
	if spec.Description != "" {
		out["description"] = spec.Description
	}
	if spec.Default != nil {
		out["default"] = spec.Default
	}
	if len(spec.Enum) > 0 {
		out["enum"] = spec.Enum
	}
	if spec.Items != nil {
		out["items"] = paramJSON(*spec.Items)
	}
	return out
}

func jsonSchemaType(t string) string {
	switch t {
	case schema.TypeFloat:
		return "number"
	default:
		return t
	}
}

func resultMessage(id *json.RawMessage, result any) *Message {
	data, err := json.Marshal(result)
	if err != nil {
		return errorMessage(id, codeInternalError, "marshal result")
	}
	return &Message{JSONRPC: jsonRPCVersion, ID: id, Result: data}
}

func errorMessage(id *json.RawMessage, code int, message string) *Message {
	return &Message{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
}
