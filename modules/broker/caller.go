package broker

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Caller - 툴 서버 호출 채널
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	ListTools(ctx context.Context) ([]string, error)
	Close() error
}

// ToolError - 툴이 isError=true로 응답한 경우 (텍스트 그대로 전달)
type ToolError struct {
	Text string
}

func (e *ToolError) Error() string { return e.Text }

// MCPCaller - mcp-go 클라이언트 기반 Caller
type MCPCaller struct {
	client *client.Client
}

// NewMCPCaller - 툴 서버 프로세스를 stdio로 띄우고 initialize까지 수행
func NewMCPCaller(ctx context.Context, command string, args []string, env []string) (*MCPCaller, error) {
	log.Printf("🔌 [Broker] Starting tool server: %s %v", command, args)

	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start tool server: %w", err)
	}
	return NewMCPCallerFromClient(ctx, c)
}

// NewMCPCallerFromClient - 이미 시작된 mcp-go 클라이언트로 Caller 구성
func NewMCPCallerFromClient(ctx context.Context, c *client.Client) (*MCPCaller, error) {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "marketing-creator-broker",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	log.Printf("✅ [Broker] Connected to %s %s", result.ServerInfo.Name, result.ServerInfo.Version)
	return &MCPCaller{client: c}, nil
}

func (m *MCPCaller) ListTools(ctx context.Context) ([]string, error) {
	res, err := m.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

// CallTool - 첫 텍스트 컨텐츠 반환, isError면 *ToolError
func (m *MCPCaller) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := m.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool call %s failed: %w", name, err)
	}

	text := ""
	for _, content := range res.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			text = tc.Text
			break
		}
	}

	if res.IsError {
		return "", &ToolError{Text: text}
	}
	return text, nil
}

func (m *MCPCaller) Close() error {
	return m.client.Close()
}
