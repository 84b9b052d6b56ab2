package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"balance_aggregator/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []any           `json:"params"`
}

// newRPCServer answers eth_getBalance with result, or with a JSON-RPC error when result is empty.
func newRPCServer(t *testing.T, result string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, "eth_getBalance", req.Method)

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if result == "" {
			resp["error"] = map[string]any{"code": -32000, "message": "header not found"}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testNetwork(rpcURL string) entity.NetworkDefinition {
	return entity.NetworkDefinition{
		Name:          "Local Chain",
		Currency:      "ETH",
		Kind:          entity.NetworkKindEVM,
		Decimals:      18,
		PrimaryRPCURL: rpcURL,
	}
}

func TestEVMBalanceClient_GetBalance(t *testing.T) {
	// 1.5 ETH
	srv := newRPCServer(t, "0x14d1120d7b160000")
	c, err := NewEVMBalanceClient(testNetwork(srv.URL), time.Second, time.Second, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	balance, err := c.GetBalance(t.Context(), "0x00000000219ab540356cBB839Cbe05303d7705Fa")
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.True(t, decimal.RequireFromString("1.5").Equal(*balance), "got %s", balance)
	assert.Equal(t, "ETH", c.Currency())
}

func TestEVMBalanceClient_RPCError(t *testing.T) {
	srv := newRPCServer(t, "")
	c, err := NewEVMBalanceClient(testNetwork(srv.URL), time.Second, time.Second, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetBalance(t.Context(), "0x00000000219ab540356cBB839Cbe05303d7705Fa")
	assert.Error(t, err)
}

func TestEVMBalanceClient_IsValidAddress(t *testing.T) {
	c := &EVMBalanceClient{netDef: testNetwork("")}

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "checksummed", address: "0x00000000219ab540356cBB839Cbe05303d7705Fa", want: true},
		{name: "lower case without prefix", address: "00000000219ab540356cbb839cbe05303d7705fa", want: true},
		{name: "too short", address: "0x1234", want: false},
		{name: "not hex", address: "0xZZ000000219ab540356cBB839Cbe05303d7705Fa", want: false},
		{name: "bitcoin address", address: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsValidAddress(tt.address))
		})
	}

	_, err := c.GetBalance(t.Context(), "0x1234")
	assert.Error(t, err, "invalid address is rejected before any RPC call")
}

func TestEVMClientProvider_CachesPerCurrency(t *testing.T) {
	srv := newRPCServer(t, "0x0")
	p := &EVMClientProvider{
		clients:           make(map[string]*EVMBalanceClient),
		logger:            zap.NewNop(),
		connectionTimeout: time.Second,
		rpcCallTimeout:    time.Second,
	}
	defer p.Close()

	first, err := p.GetClient(testNetwork(srv.URL))
	require.NoError(t, err)
	second, err := p.GetClient(testNetwork(srv.URL))
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = p.GetClient(entity.NetworkDefinition{Name: "Bitcoin", Currency: "BTC", Kind: entity.NetworkKindBitcoin})
	assert.Error(t, err)
}
