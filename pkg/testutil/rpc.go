package testutil

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/governance-client/pkg/solana"
)

// RPCHandler serves one JSON-RPC method. Returning a non-nil error sends it
// as the JSON-RPC error object.
type RPCHandler func(params []json.RawMessage) (interface{}, *jsonrpc.RPCError)

// RPCServer is an in-process fake of the Solana JSON-RPC API. It serves
// getAccountInfo from an in-memory account table and hands out a fresh
// blockhash per getLatestBlockhash call. Other methods are registered per
// test with Handle.
type RPCServer struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	handlers   map[string]RPCHandler
	counts     map[string]int
	accounts   map[string]solana.AccountInfo
	blockhashN uint64
}

func NewRPCServer(t *testing.T) *RPCServer {
	s := &RPCServer{
		t:        t,
		handlers: make(map[string]RPCHandler),
		counts:   make(map[string]int),
		accounts: make(map[string]solana.AccountInfo),
	}
	s.handlers["getAccountInfo"] = s.getAccountInfo
	s.handlers["getLatestBlockhash"] = s.getLatestBlockhash

	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

func (s *RPCServer) URL() string {
	return s.server.URL
}

// Client returns a solana.Client pointed at the server.
func (s *RPCServer) Client() solana.Client {
	return solana.New(s.server.URL)
}

// Handle registers or replaces the handler for method.
func (s *RPCServer) Handle(method string, handler RPCHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[method] = handler
}

// Calls returns how many requests were received for method.
func (s *RPCServer) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counts[method]
}

// SetAccount stores an account served by getAccountInfo.
func (s *RPCServer) SetAccount(address, owner ed25519.PublicKey, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[base58.Encode(address)] = solana.AccountInfo{
		Data:     data,
		Owner:    owner,
		Lamports: 1_000_000,
	}
}

func (s *RPCServer) DeleteAccount(address ed25519.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.accounts, base58.Encode(address))
}

// Blockhash returns the n-th blockhash handed out, starting at 1.
func Blockhash(n uint64) solana.Blockhash {
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], n)
	return sha256.Sum256(seed[:])
}

// UnmarshalParam decodes the i-th positional parameter, failing the test on
// error.
func (s *RPCServer) UnmarshalParam(params []json.RawMessage, i int, dst interface{}) {
	require.True(s.t, i < len(params), "missing param %d", i)
	require.NoError(s.t, json.Unmarshal(params[i], dst))
}

func (s *RPCServer) getAccountInfo(params []json.RawMessage) (interface{}, *jsonrpc.RPCError) {
	var address string
	s.UnmarshalParam(params, 0, &address)

	s.mu.Lock()
	info, ok := s.accounts[address]
	s.mu.Unlock()

	if !ok {
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   nil,
		}, nil
	}

	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value": map[string]interface{}{
			"lamports":   info.Lamports,
			"owner":      base58.Encode(info.Owner),
			"data":       []string{base64.StdEncoding.EncodeToString(info.Data), "base64"},
			"executable": info.Executable,
			"rentEpoch":  0,
		},
	}, nil
}

func (s *RPCServer) getLatestBlockhash(_ []json.RawMessage) (interface{}, *jsonrpc.RPCError) {
	s.mu.Lock()
	s.blockhashN++
	n := s.blockhashN
	s.mu.Unlock()

	hash := Blockhash(n)
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": n},
		"value": map[string]interface{}{
			"blockhash":            base58.Encode(hash[:]),
			"lastValidBlockHeight": n + 150,
		},
	}, nil
}

func (s *RPCServer) serve(w http.ResponseWriter, req *http.Request) {
	var request struct {
		ID     int               `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.counts[request.Method]++
	handler, ok := s.handlers[request.Method]
	s.mu.Unlock()

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
	}
	if !ok {
		response["error"] = &jsonrpc.RPCError{Code: -32601, Message: "method not found"}
	} else {
		result, rpcErr := handler(request.Params)
		if rpcErr != nil {
			response["error"] = rpcErr
		} else {
			response["result"] = result
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.t.Errorf("failed to encode rpc response: %v", err)
	}
}
