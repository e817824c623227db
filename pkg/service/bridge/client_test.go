package bridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/bridge"
	"github.com/m-mizutani/gt"
)

func TestClient_PersistBatch(t *testing.T) {
	var gotIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotIDs = req.IDs

		_ = json.NewEncoder(w).Encode(map[string]int{"ok": 2, "fail": 1})
	}))
	defer srv.Close()

	c, err := bridge.New(srv.URL)
	gt.NoError(t, err).Required()

	result, err := c.PersistBatch(context.Background(), []types.GameID{"1", "2", "3"})
	gt.NoError(t, err).Required()

	gt.Value(t, gotIDs).Equal([]string{"1", "2", "3"})
	gt.Value(t, result.OK).Equal(2)
	gt.Value(t, result.Failed).Equal(1)
}

func TestClient_BridgeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := bridge.New(srv.URL)
	gt.NoError(t, err).Required()

	_, err = c.PersistBatch(context.Background(), []types.GameID{"1"})
	gt.Value(t, err).NotNil()
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := bridge.New(srv.URL)
	gt.NoError(t, err).Required()

	_, err = c.PersistBatch(context.Background(), []types.GameID{"1"})
	gt.Value(t, err).NotNil()
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := bridge.New("")
	gt.Value(t, err).NotNil()
}
