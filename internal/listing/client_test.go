package listing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func testClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, Token: token}, nil)
}

func TestAllFilesSuccess(t *testing.T) {
	var gotPath, gotAuth string
	client := testClient(t, "secret-token", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"files":["src/a.ts","docs/readme.md"]}`))
	})

	files, err := client.AllFiles(context.Background(), "42")
	if err != nil {
		t.Fatalf("AllFiles returned error: %v", err)
	}
	if want := []string{"src/a.ts", "docs/readme.md"}; !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
	if gotPath != "/api/stack-analysis/repository/42/all-files" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header = %q, want Bearer secret-token", gotAuth)
	}
}

func TestAllFilesNoTokenSkipsAuthHeader(t *testing.T) {
	var sawAuth bool
	client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"success":true,"files":[]}`))
	})

	if _, err := client.AllFiles(context.Background(), "42"); err != nil {
		t.Fatalf("AllFiles returned error: %v", err)
	}
	if sawAuth {
		t.Error("Authorization header sent without a token")
	}
}

func TestAllFilesMissingRepoID(t *testing.T) {
	requests := 0
	client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := client.AllFiles(context.Background(), "")
	if !errors.Is(err, ErrMissingRepoID) {
		t.Fatalf("error = %v, want ErrMissingRepoID", err)
	}
	if requests != 0 {
		t.Errorf("client issued %d requests before the precondition check", requests)
	}
}

func TestAllFilesTransportError(t *testing.T) {
	client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	})

	_, err := client.AllFiles(context.Background(), "42")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not mention the status code", err)
	}
}

func TestAllFilesApplicationError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"server message", `{"success":false,"message":"repository not indexed"}`, "repository not indexed"},
		{"missing message", `{"success":false}`, "file listing rejected by server"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			_, err := client.AllFiles(context.Background(), "42")
			if err == nil {
				t.Fatal("expected error for success=false")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestAllFilesMalformedBody(t *testing.T) {
	client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	if _, err := client.AllFiles(context.Background(), "42"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAllFilesEscapesRepoID(t *testing.T) {
	var gotPath string
	client := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"success":true,"files":[]}`))
	})
	if _, err := client.AllFiles(context.Background(), "a/b"); err != nil {
		t.Fatalf("AllFiles returned error: %v", err)
	}
	if gotPath != "/api/stack-analysis/repository/a%2Fb/all-files" {
		t.Errorf("escaped path = %q", gotPath)
	}
}
