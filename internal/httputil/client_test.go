package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestStandardClient_Wraps(t *testing.T) {
	customClient := &http.Client{}
	client := NewStandardClient(customClient)

	if client.Client != customClient {
		t.Error("expected custom client to be wrapped")
	}
	if NewStandardClient(nil).Client != http.DefaultClient {
		t.Error("expected nil to fall back to http.DefaultClient")
	}
}

func TestStandardClient_GetContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept header = %q", r.Header.Get("Accept"))
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	resp, err := GetContext(context.Background(), NewStandardClient(srv.Client()), srv.URL+"/api/leaderboards")
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("got body %q", body)
	}
}

func TestGetContext_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetContext(ctx, NewStandardClient(srv.Client()), srv.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMockHTTPClient_QueuedResponses(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.AddResponse(http.StatusOK, "first").AddResponse(http.StatusNotFound, "second")

	for i, want := range []struct {
		status int
		body   string
	}{{200, "first"}, {404, "second"}, {200, ""}} {
		resp, err := GetContext(context.Background(), mock, "http://example.com/x")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != want.status || string(body) != want.body {
			t.Errorf("request %d = %d %q, want %d %q", i, resp.StatusCode, body, want.status, want.body)
		}
	}

	if mock.RequestCount() != 3 {
		t.Errorf("got %d requests, want 3", mock.RequestCount())
	}
}

func TestMockHTTPClient_Routes(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.AddRoute("/api/pvb-stats", http.StatusOK, `{"hits":3}`)
	mock.AddRouteError("/api/leaderboards", errors.New("connection refused"))
	mock.AddResponse(http.StatusTeapot, "queued")

	resp, err := GetContext(context.Background(), mock, "http://example.com/api/pvb-stats?pitcher=A&batter=B")
	if err != nil {
		t.Fatalf("route request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"hits":3}` {
		t.Errorf("route body = %q", body)
	}

	if _, err := GetContext(context.Background(), mock, "http://example.com/api/leaderboards"); err == nil {
		t.Error("expected route error")
	}

	// unrouted paths consume the queue
	resp, err = GetContext(context.Background(), mock, "http://example.com/other")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("queued status = %d, want 418", resp.StatusCode)
	}

	paths := mock.RequestedPaths()
	if len(paths) != 3 || paths[0] != "/api/pvb-stats" {
		t.Errorf("RequestedPaths() = %v", paths)
	}
}

func TestMockHTTPClient_DoFuncNotSerialised(t *testing.T) {
	mock := NewMockHTTPClient()

	const n = 4
	var arrived sync.WaitGroup
	arrived.Add(n)
	release := make(chan struct{})
	mock.DoFunc = func(req *http.Request) (*http.Response, error) {
		arrived.Done()
		<-release
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
	}

	var done sync.WaitGroup
	for i := 0; i < n; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			resp, err := GetContext(context.Background(), mock, "http://example.com/")
			if err == nil {
				resp.Body.Close()
			}
		}()
	}

	// every request must be inside DoFunc at the same time
	arrived.Wait()
	close(release)
	done.Wait()
}

func TestMockHTTPClient_DefaultErrorAndReset(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.DefaultError = errors.New("boom")
	if _, err := GetContext(context.Background(), mock, "http://example.com/"); err == nil {
		t.Fatal("expected default error")
	}

	mock.Reset()
	if mock.RequestCount() != 0 || mock.DefaultError != nil || len(mock.Routes) != 0 {
		t.Error("Reset did not clear state")
	}
	if mock.GetRequest(0) != nil {
		t.Error("GetRequest on empty mock should return nil")
	}
}
