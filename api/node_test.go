package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcHandler func(params []json.RawMessage) (interface{}, error)

// fakeNode is an in-process JSON-RPC endpoint answering from handlers.
type fakeNode struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string][][]json.RawMessage
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	n := &fakeNode{
		t:        t,
		handlers: make(map[string]rpcHandler),
		calls:    make(map[string][][]json.RawMessage),
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.server.Close)
	return n
}

func (n *fakeNode) handle(method string, h rpcHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

func (n *fakeNode) result(method string, v interface{}) {
	n.handle(method, func([]json.RawMessage) (interface{}, error) { return v, nil })
}

func (n *fakeNode) paramsOf(method string) [][]json.RawMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method] = append(n.calls[req.Method], req.Params)
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found: " + req.Method}
	} else if result, err := h(req.Params); err != nil {
		resp["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	assert.NoError(n.t, json.NewEncoder(w).Encode(resp))
}

func (n *fakeNode) dial(t *testing.T) *Client {
	t.Helper()
	client, err := Dial(context.Background(), n.server.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

var errUnderpriced = errors.New("gas price below minimum: max fee per gas less than block base fee")
