package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/m-mizutani/gt"
)

func TestRegistry(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(types.SourceTypeCuratedList, provider.NewFile())

	p, err := reg.Get(types.SourceTypeCuratedList)
	gt.NoError(t, err).Required()
	gt.Value(t, p).NotNil()

	_, err = reg.Get(types.SourceTypeCompany)
	gt.Value(t, err).NotNil()
}

func TestHTTPProvider_Pagination(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.RequestURI() {
		case "/list":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ids":  []string{"1", "2"},
				"next": "http://" + r.Host + "/list?page=2",
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ids": []string{"2", "3"},
			})
		}
	}))
	defer srv.Close()

	p := provider.NewHTTP()
	ctx := context.Background()

	var details []string
	ids, err := p.Fetch(ctx, srv.URL+"/list", interfaces.FetchOptions{}, func(detail string) {
		details = append(details, detail)
	})
	gt.NoError(t, err).Required()

	// provider returns the raw sequence; dedup happens downstream
	gt.Array(t, ids).Length(4)
	gt.Value(t, hits).Equal(2)
	gt.Array(t, details).Length(2)
}

func TestHTTPProvider_CacheAndForceRefresh(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{"ids": []string{"1"}})
	}))
	defer srv.Close()

	p := provider.NewHTTP()
	ctx := context.Background()

	_, err := p.Fetch(ctx, srv.URL, interfaces.FetchOptions{}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, hits).Equal(1)

	// second fetch served from cache
	ids, err := p.Fetch(ctx, srv.URL, interfaces.FetchOptions{}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, hits).Equal(1)
	gt.Array(t, ids).Length(1)

	// force refresh bypasses the cache
	_, err = p.Fetch(ctx, srv.URL, interfaces.FetchOptions{ForceRefresh: true}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, hits).Equal(2)
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := provider.NewHTTP()
	_, err := p.Fetch(context.Background(), srv.URL, interfaces.FetchOptions{}, nil)
	gt.Value(t, err).NotNil()
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gems.toml")
	content := "name = \"Hidden Gems\"\nids = [\"10\", \"20\", \"30\"]\n"
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()

	p := provider.NewFile()
	ids, err := p.Fetch(context.Background(), path, interfaces.FetchOptions{}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, ids).Equal([]types.GameID{"10", "20", "30"})
}

func TestFileProvider_MissingFile(t *testing.T) {
	p := provider.NewFile()
	_, err := p.Fetch(context.Background(), "/no/such/file.toml", interfaces.FetchOptions{}, nil)
	gt.Value(t, err).NotNil()
}
