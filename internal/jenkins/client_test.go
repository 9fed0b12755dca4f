package jenkins

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server, token string) *Client {
	c := NewClient(srv.URL+"/", "ci", token)
	c.pollInterval = 5 * time.Millisecond
	return c
}

func TestIsBuilding(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/job/queued/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"queueItem":{"id":3},"lastBuild":null}`))
	})
	mux.HandleFunc("/job/running/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"queueItem":null,"lastBuild":{"url":"` + srvURL + `/job/running/12/"}}`))
	})
	mux.HandleFunc("/job/running/12/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"building":true}`))
	})
	mux.HandleFunc("/job/fresh/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"queueItem":null,"lastBuild":null}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL
	c := newTestClient(srv, "")

	tests := []struct {
		job  string
		want bool
	}{
		{"queued", true},
		{"running", true},
		{"fresh", false},
	}
	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			got, err := c.IsBuilding(t.Context(), tt.job)
			if err != nil {
				t.Fatalf("IsBuilding: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsBuilding(%q) = %v, want %v", tt.job, got, tt.want)
			}
		})
	}

	if _, err := c.IsBuilding(t.Context(), "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestRequestBuild(t *testing.T) {
	var polls atomic.Int32
	var form url.Values
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/job/client/buildWithParameters", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Location", srvURL+"/queue/item/7/")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/queue/item/7/api/json", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"executable":null}`))
			return
		}
		w.Write([]byte(`{"executable":{"number":42}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c := newTestClient(srv, "s3cret")
	n, err := c.RequestBuild(t.Context(), "client", url.Values{"BRANCH": {"main"}}, time.Second)
	if err != nil {
		t.Fatalf("RequestBuild: %v", err)
	}
	if n != 42 {
		t.Errorf("build number = %d, want 42", n)
	}
	if polls.Load() != 3 {
		t.Errorf("polls = %d, want 3", polls.Load())
	}
	if form.Get("token") != "s3cret" || form.Get("BRANCH") != "main" {
		t.Errorf("form = %v", form)
	}
}

func TestRequestBuildTimeout(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/job/client/build", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srvURL+"/queue/item/8")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/queue/item/8/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c := newTestClient(srv, "")
	_, err := c.RequestBuild(t.Context(), "client", nil, 30*time.Millisecond)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Job != "client" {
		t.Errorf("job = %q", te.Job)
	}
}

func TestRequestBuildRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv, "")
	if _, err := c.RequestBuild(t.Context(), "client", nil, time.Second); err == nil {
		t.Fatal("expected error")
	}
}
