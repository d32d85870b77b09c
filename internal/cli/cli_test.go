package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateEnvironment keeps host configuration out of command runs.
func isolateEnvironment(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REPOLENS_API_URL", "")
	t.Setenv("REPOLENS_API_TOKEN", "")
	t.Setenv("REPOLENS_LOG_FILE", "")
}

func listingServer(t *testing.T, files []string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !strings.HasPrefix(request.URL.Path, "/api/stack-analysis/repository/") {
			http.NotFound(writer, request)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		payload := map[string]any{"success": true, "files": files}
		if err := json.NewEncoder(writer).Encode(payload); err != nil {
			t.Errorf("encode payload: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func runCommand(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	rootCommand := createRootCommand()
	output := &bytes.Buffer{}
	rootCommand.SetOut(output)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs(arguments)
	err := rootCommand.Execute()
	return output.String(), err
}

func TestRootListsSubcommands(t *testing.T) {
	isolateEnvironment(t)

	output, err := runCommand(t)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, name := range []string{"view", "report"} {
		if !strings.Contains(output, name) {
			t.Errorf("help output missing %q:\n%s", name, output)
		}
	}
}

func TestReportCommandRaw(t *testing.T) {
	isolateEnvironment(t)
	server := listingServer(t, []string{"src/app.ts", "src/app.test.ts", "readme.md"})

	output, err := runCommand(t, "report", "--api-url", server.URL, "42=acme/widget")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, fragment := range []string{"acme/widget", "└──", "3 files", "ts"} {
		if !strings.Contains(output, fragment) {
			t.Errorf("report output missing %q:\n%s", fragment, output)
		}
	}
}

func TestReportCommandJSON(t *testing.T) {
	isolateEnvironment(t)
	server := listingServer(t, []string{"src/app.ts"})

	output, err := runCommand(t, "report", "--format", "json", "--api-url", server.URL, "42=acme/widget")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var documents []map[string]any
	if err := json.Unmarshal([]byte(output), &documents); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, output)
	}
	if len(documents) != 1 {
		t.Fatalf("len(documents) = %d, want 1", len(documents))
	}
	if documents[0]["repository"] != "acme/widget" {
		t.Errorf("repository = %v, want acme/widget", documents[0]["repository"])
	}
}

func TestReportCommandRejectsUnknownFormat(t *testing.T) {
	isolateEnvironment(t)

	_, err := runCommand(t, "report", "--format", "yaml", "42=acme/widget")
	if err == nil {
		t.Fatal("Execute() expected format error")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("error = %v, want mention of rejected format", err)
	}
}

func TestReportCommandFailsWhenAllRepositoriesFail(t *testing.T) {
	isolateEnvironment(t)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := runCommand(t, "report", "--api-url", server.URL, "42=acme/widget")
	if err == nil {
		t.Fatal("Execute() expected error when every repository fails")
	}
}

func TestViewCommandRequiresRepository(t *testing.T) {
	isolateEnvironment(t)

	_, err := runCommand(t, "view")
	if err == nil {
		t.Fatal("Execute() expected missing argument error")
	}
}

func TestFlagOverridesConfigFile(t *testing.T) {
	isolateEnvironment(t)
	server := listingServer(t, []string{"main.go"})

	configPath := filepath.Join(t.TempDir(), "repolens.yaml")
	configBody := "api:\n  base_url: http://config.invalid\n"
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	output, err := runCommand(t, "report", "--config", configPath, "--api-url", server.URL, "42=acme/widget")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "1 files") {
		t.Errorf("report output missing listing from flag URL:\n%s", output)
	}
}
