package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/schema"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := registry.New()
	err := reg.Register(registry.ToolDescriptor{
		Name:        "echo",
		Description: "Echo text back",
		InputSchema: schema.Object{
			"text": {Type: schema.TypeString, Required: true},
		},
		Annotations: registry.Annotations{Title: "Echo", ReadOnly: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer(ServerConfig{
		Registry: reg,
		Info:     ServerInfo{Name: "blockbridge-test", Version: "0.0.1"},
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func serve(t *testing.T, srv *Server, requests ...string) []Message {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(requests, "\n"))
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	var replies []Message
	decoder := json.NewDecoder(&out)
	for decoder.More() {
		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			t.Fatalf("decode reply: %v", err)
		}
		replies = append(replies, msg)
	}
	return replies
}

func TestServeInitialize(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replies))
	}

	var result InitializeResult
	if err := json.Unmarshal(replies[0].Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.ServerInfo.Name != "blockbridge-test" {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
	if result.ProtocolVersion == "" {
		t.Error("missing protocol version")
	}
}

func TestServeToolsList(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var result ToolsListResult
	if err := json.Unmarshal(replies[0].Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "echo" {
		t.Fatalf("tools = %+v", result.Tools)
	}

	inputSchema := result.Tools[0].InputSchema
	if inputSchema["type"] != "object" {
		t.Errorf("inputSchema.type = %v", inputSchema["type"])
	}
	required, _ := inputSchema["required"].([]any)
	if len(required) != 1 || required[0] != "text" {
		t.Errorf("inputSchema.required = %v", required)
	}
}

func TestServeToolsCall(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}`)

	var result ToolsCallResult
	if err := json.Unmarshal(replies[0].Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result.Content)
	}
	if len(result.Content) != 1 || result.Content[0].Text != "hi" {
		t.Errorf("content = %+v", result.Content)
	}
}

func TestServeToolsCallValidationFailure(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)

	var result ToolsCallResult
	if err := json.Unmarshal(replies[0].Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.IsError {
		t.Fatal("validation failure not flagged as tool error")
	}
	if !strings.Contains(result.Content[0].Text, "text") {
		t.Errorf("error text %q does not name the parameter", result.Content[0].Text)
	}
}

func TestServeUnknownToolIsRPCError(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"missing"}}`)
	if replies[0].Error == nil {
		t.Fatal("unknown tool did not produce an RPC error")
	}
	if replies[0].Error.Code != codeInvalidParams {
		t.Errorf("error code = %d, want %d", replies[0].Error.Code, codeInvalidParams)
	}
}

func TestServeUnknownMethod(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)
	if replies[0].Error == nil || replies[0].Error.Code != codeMethodNotFound {
		t.Fatalf("reply = %+v, want method-not-found error", replies[0])
	}
}

func TestServeNotificationGetsNoReply(t *testing.T) {
	srv := testServer(t)
	replies := serve(t, srv,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":7,"method":"ping"}`)
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1 (notification must be dropped)", len(replies))
	}
}
