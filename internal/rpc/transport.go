package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/logging"
)

// Request is a JSON-RPC 2.0 request. A request without an ID is a
// notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Error is a JSON-RPC error object. Handlers return it to pick the code;
// any other error becomes InternalError.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func newError(code int, message string, data interface{}) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

var nullID = json.RawMessage("null")

// Transport speaks line-delimited JSON-RPC 2.0 over a reader and writer,
// one request per line.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	server *Server
	logger *logging.Logger
	mu     sync.Mutex
}

func NewTransport(r io.Reader, w io.Writer, server *Server, logger *logging.Logger) *Transport {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
		server: server,
		logger: logger.Named("rpc"),
	}
}

type readResult struct {
	line []byte
	err  error
}

// Serve handles requests until the reader hits EOF, a shutdown request
// arrives, or ctx is cancelled.
func (t *Transport) Serve(ctx context.Context) error {
	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		for {
			line, err := t.reader.ReadBytes('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return ctx.Err()
			}
			if len(bytes.TrimSpace(res.line)) > 0 {
				stop, err := t.handleLine(ctx, res.line)
				if err != nil {
					if isDisconnect(err) {
						t.logger.Info(ctx, "client disconnected", zap.Error(err))
						return nil
					}
					return fmt.Errorf("failed to send response: %w", err)
				}
				if stop {
					return nil
				}
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					t.logger.Info(ctx, "client disconnected")
					return nil
				}
				return fmt.Errorf("failed to read request: %w", res.err)
			}
		}
	}
}

// handleLine processes one request and writes its response. stop is true
// after a shutdown request.
func (t *Transport) handleLine(ctx context.Context, line []byte) (stop bool, err error) {
	var req Request
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error(ctx, "panic recovered", zap.Any("panic", r), zap.String("method", req.Method))
			err = t.send(&Response{
				JSONRPC: "2.0",
				ID:      responseID(req.ID),
				Error:   newError(InternalError, "Internal server error", nil),
			})
		}
	}()

	if jsonErr := json.Unmarshal(line, &req); jsonErr != nil {
		return false, t.send(&Response{
			JSONRPC: "2.0",
			ID:      nullID,
			Error:   newError(ParseError, "Parse error", jsonErr.Error()),
		})
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return false, t.send(&Response{
			JSONRPC: "2.0",
			ID:      responseID(req.ID),
			Error:   newError(InvalidRequest, "Invalid Request - JSON-RPC 2.0 required", nil),
		})
	}

	if req.Method == "shutdown" {
		t.logger.Info(ctx, "shutdown requested")
		if req.ID != nil {
			err = t.send(&Response{JSONRPC: "2.0", ID: req.ID, Result: struct{}{}})
		}
		return true, err
	}

	result, callErr := t.server.HandleCommand(ctx, req.Method, req.Params)
	if req.ID == nil {
		if callErr != nil {
			t.logger.Warn(ctx, "notification failed", zap.String("method", req.Method), zap.Error(callErr))
		}
		return false, nil
	}

	resp := &Response{JSONRPC: "2.0", ID: req.ID}
	if callErr != nil {
		var rpcErr *Error
		if errors.As(callErr, &rpcErr) {
			resp.Error = rpcErr
		} else {
			resp.Error = newError(InternalError, callErr.Error(), nil)
		}
	} else {
		resp.Result = result
	}
	return false, t.send(resp)
}

func (t *Transport) send(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(&Response{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   newError(InternalError, "failed to encode result", err.Error()),
		})
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = t.writer.Write(append(data, '\n'))
	return err
}

func responseID(id json.RawMessage) json.RawMessage {
	if id == nil {
		return nullID
	}
	return id
}

func isDisconnect(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset")
}
