package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, input string) []Response {
	t.Helper()
	server, _ := newTestServer(t)
	var out bytes.Buffer

	transport := NewTransport(strings.NewReader(input), &out, server, nil)
	require.NoError(t, transport.Serve(context.Background()))

	var responses []Response
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestTransport_RequestResponse(t *testing.T) {
	responses := serve(t, `{"jsonrpc":"2.0","id":1,"method":"pattern.presets"}`+"\n"+
		`{"jsonrpc":"2.0","id":"two","method":"timeline.refresh"}`+"\n")

	require.Len(t, responses, 2)
	assert.JSONEq(t, `1`, string(responses[0].ID))
	assert.Nil(t, responses[0].Error)
	assert.NotNil(t, responses[0].Result)
	assert.JSONEq(t, `"two"`, string(responses[1].ID))
	assert.Nil(t, responses[1].Error)
}

func TestTransport_Errors(t *testing.T) {
	responses := serve(t, "not json\n"+
		`{"jsonrpc":"1.0","id":2,"method":"timeline.refresh"}`+"\n"+
		`{"jsonrpc":"2.0","id":3,"method":"nope"}`+"\n")

	require.Len(t, responses, 3)
	assert.Equal(t, ParseError, responses[0].Error.Code)
	assert.JSONEq(t, `null`, string(responses[0].ID))
	assert.Equal(t, InvalidRequest, responses[1].Error.Code)
	assert.Equal(t, MethodNotFound, responses[2].Error.Code)
}

func TestTransport_NotificationsGetNoResponse(t *testing.T) {
	responses := serve(t, `{"jsonrpc":"2.0","method":"tags.reset"}`+"\n"+
		"\n"+
		`{"jsonrpc":"2.0","id":1,"method":"tags.reset"}`+"\n")

	require.Len(t, responses, 1)
	assert.JSONEq(t, `1`, string(responses[0].ID))
}

func TestTransport_ShutdownStopsServing(t *testing.T) {
	responses := serve(t, `{"jsonrpc":"2.0","id":1,"method":"shutdown"}`+"\n"+
		`{"jsonrpc":"2.0","id":2,"method":"pattern.presets"}`+"\n")

	require.Len(t, responses, 1)
	assert.JSONEq(t, `1`, string(responses[0].ID))
	assert.Nil(t, responses[0].Error)
}

func TestTransport_LastLineWithoutNewline(t *testing.T) {
	responses := serve(t, `{"jsonrpc":"2.0","id":7,"method":"pattern.presets"}`)

	require.Len(t, responses, 1)
	assert.JSONEq(t, `7`, string(responses[0].ID))
}
