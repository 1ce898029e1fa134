package kvconf

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeKV implements just enough of the store's HTTP surface: PUT stores
// raw bodies, GET answers with base64-encoded values, DELETE ?recurse
// drops the subtree.
type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}}
}

func (kv *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/v1/kv/")
	kv.mu.Lock()
	defer kv.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		kv.data[key] = body
		_, _ = w.Write([]byte("true"))
	case http.MethodGet:
		val, ok := kv.data[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		resp := []map[string]string{{
			"Key":   key,
			"Value": base64.StdEncoding.EncodeToString(val),
		}}
		_ = json.NewEncoder(w).Encode(resp)
	case http.MethodDelete:
		if r.URL.Query().Get("recurse") != "" {
			for k := range kv.data {
				if strings.HasPrefix(k, key) {
					delete(kv.data, k)
				}
			}
		} else {
			delete(kv.data, key)
		}
		_, _ = w.Write([]byte("true"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type routePayload struct {
	Name     string `json:"name"`
	Upstream string `json:"upstream"`
}

func TestPutGetRoundTrip(t *testing.T) {
	kv := newFakeKV()
	srv := httptest.NewServer(kv)
	defer srv.Close()

	c := New(srv.URL, "app/config")
	in := routePayload{Name: "api", Upstream: "http://10.0.0.5:8080"}
	if err := c.Put("proxy/routes/api", in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out routePayload
	if err := c.Get("proxy/routes/api", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestGetMissingKey(t *testing.T) {
	srv := httptest.NewServer(newFakeKV())
	defer srv.Close()

	c := New(srv.URL, "app/config")
	var out routePayload
	err := c.Get("proxy/routes/nope", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTree(t *testing.T) {
	kv := newFakeKV()
	srv := httptest.NewServer(kv)
	defer srv.Close()

	c := New(srv.URL, "app/config")
	if err := c.Put("services/api", routePayload{Name: "api"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.DeleteTree(); err != nil {
		t.Fatalf("delete tree: %v", err)
	}

	var out routePayload
	if err := c.Get("services/api", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPutRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "app/config")
	if err := c.Put("services/api", routePayload{Name: "api"}); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}
