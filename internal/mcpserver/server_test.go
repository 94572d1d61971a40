package mcpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askiada/camp-builder/internal/mcpserver"
	"github.com/askiada/camp-builder/internal/tools"
)

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func send(t *testing.T, handle func(ctx context.Context, raw json.RawMessage) any, request string) rpcResponse {
	t.Helper()

	res := handle(context.Background(), json.RawMessage(request))
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	resp := rpcResponse{}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Nil(t, resp.Error, string(raw))

	return resp
}

func newHandle(t *testing.T) func(ctx context.Context, raw json.RawMessage) any {
	t.Helper()

	srv, err := mcpserver.New(tools.NewDispatcher(), "test")
	require.NoError(t, err)

	handle := func(ctx context.Context, raw json.RawMessage) any {
		return srv.HandleMessage(ctx, raw)
	}

	send(t, handle, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)

	return handle
}

func TestListTools(t *testing.T) {
	t.Parallel()

	handle := newHandle(t)
	resp := send(t, handle, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	list := struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}{}
	require.NoError(t, json.Unmarshal(resp.Result, &list))

	names := map[string]map[string]any{}
	for _, tool := range list.Tools {
		names[tool.Name] = tool.InputSchema
	}

	assert.Len(t, names, len(tools.NewDispatcher().Tools()))
	require.Contains(t, names, "assemble_pipeline")
	assert.Equal(t, []any{"name", "steps"}, names["assemble_pipeline"]["required"])
}

func TestCallTool(t *testing.T) {
	t.Parallel()

	handle := newHandle(t)
	resp := send(t, handle, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"explain_modes","arguments":{"mode":"batch"}}}`)

	res := toolResult{}
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.Equal(t, "**batch:** Batch execution - Queues for later processing, cost-efficient for production\n", res.Content[0].Text)
}

func TestCallToolError(t *testing.T) {
	t.Parallel()

	handle := newHandle(t)
	resp := send(t, handle, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"extract","arguments":{"attribute_name":"abv"}}}`)

	res := toolResult{}
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, "missing required argument")
	assert.Contains(t, res.Content[0].Text, "prompt")
}

const assembleRequest = `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"assemble_pipeline",` +
	`"arguments":{"name":"abv","steps":[{"query":"SELECT a & b FROM <t>","limit":12345678901234567,"useDeduplication":true}]}}}`

const assembledStep = "```json\n" + `{
  "query": "SELECT a & b FROM <t>",
  "limit": 12345678901234567,
  "useDeduplication": true
}` + "\n```"

func TestCallAssemblePipelineKeepsStepConfigs(t *testing.T) {
	t.Parallel()

	handle := newHandle(t)
	resp := send(t, handle, assembleRequest)

	res := toolResult{}
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, assembledStep)
}

func TestServe(t *testing.T) {
	t.Parallel()

	srv, err := mcpserver.New(tools.NewDispatcher(), "test")
	require.NoError(t, err)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		assembleRequest,
	}, "\n")
	out := &bytes.Buffer{}

	require.NoError(t, srv.Serve(context.Background(), strings.NewReader(in), out, zap.NewNop()))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2, "notifications get no response")

	resp := rpcResponse{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.Equal(t, 5, resp.ID)

	res := toolResult{}
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, assembledStep)
}

func TestServeCancelled(t *testing.T) {
	t.Parallel()

	srv, err := mcpserver.New(tools.NewDispatcher(), "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader, writer := io.Pipe()
	defer writer.Close()

	assert.NoError(t, srv.Serve(ctx, reader, &bytes.Buffer{}, zap.NewNop()))
}
