// Package mcpserver serves the tools over the Model Context Protocol.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/camp-builder/internal/tools"
)

// Name is the server name announced to MCP clients.
const Name = "camp-pipeline-builder"

const callToolMethod = "tools/call"

type argumentsKey struct{}

// Server is the MCP transport of the dispatcher.
type Server struct {
	mcp *server.MCPServer
}

// New registers every tool of the dispatcher on a MCP server.
func New(dispatcher *tools.Dispatcher, version string) (*Server, error) {
	srv := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, tool := range dispatcher.Tools() {
		schema, err := tool.InputSchemaJSON()
		if err != nil {
			return nil, err
		}

		srv.AddTool(mcp.NewToolWithRawSchema(tool.Name, tool.Description, schema), handler(dispatcher, tool.Name))
	}

	return &Server{mcp: srv}, nil
}

// HandleMessage answers one JSON-RPC message. Notifications get a nil response.
// The arguments of a tool call reach the dispatcher as sent by the client.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	if args, ok := callArguments(raw); ok {
		ctx = context.WithValue(ctx, argumentsKey{}, args)
	}

	return s.mcp.HandleMessage(ctx, raw)
}

// callArguments returns the raw arguments of a tools/call request.
func callArguments(raw json.RawMessage) (json.RawMessage, bool) {
	envelope := struct {
		Method string `json:"method"`
		Params struct {
			Arguments json.RawMessage `json:"arguments"`
		} `json:"params"`
	}{}

	err := json.Unmarshal(raw, &envelope)
	if err != nil || envelope.Method != callToolMethod {
		return nil, false
	}

	return envelope.Params.Arguments, true
}

// handler reports tool failures as tool results so the client can show them to the model.
func handler(dispatcher *tools.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := ctx.Value(argumentsKey{}).(json.RawMessage)
		if !ok {
			var err error

			args, err = encode(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(errors.Wrap(err, "unable to encode arguments").Error()), nil
			}
		}

		text, err := dispatcher.Call(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(text), nil
	}
}

func encode(v any) (json.RawMessage, error) {
	buf := &bytes.Buffer{}

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Serve reads newline delimited messages from in and writes the responses to out until ctx is
// done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer, logger *zap.Logger) error {
	logger.Info("serving MCP on stdio", zap.String("server", Name))

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}

			if err != nil {
				readErr <- err

				return
			}
		}
	}()

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return errors.Wrap(err, "unable to read mcp message")
		case line := <-lines:
			res := s.HandleMessage(ctx, bytes.TrimSpace(line))
			if res == nil {
				continue
			}

			err := enc.Encode(res)
			if err != nil {
				return errors.Wrap(err, "unable to write mcp response")
			}
		}
	}
}
