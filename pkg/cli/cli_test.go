package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/config"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
)

// isolateEnv clears every WIKIMCP_* variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvPort, config.EnvPath, config.EnvAllowRemote, config.EnvLogLevel,
		config.EnvLogFormat, config.EnvLogFile, config.EnvTimeout, config.EnvRESTBaseURL,
		config.EnvActionAPIURL, config.EnvUserAgent, config.EnvConfig,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wikimcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, code := execute("version", "--json")
	require.Equal(t, 0, code)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, mcp.ProtocolVersion, info.ProtocolVersion)

	stdout, _, code = execute("version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "wikimcp "+Version))
}

func TestToolsCommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, code := execute("tools", "--json")
	require.Equal(t, 0, code)

	var list mcp.ToolsListResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &list))
	require.Len(t, list.Tools, 3)
	assert.Equal(t, mcp.ToolSearch, list.Tools[0].Name)
	assert.Equal(t, mcp.ToolSections, list.Tools[1].Name)
	assert.Equal(t, mcp.ToolSectionContent, list.Tools[2].Name)

	stdout, _, code = execute("tools")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "topic,section_title,sectionTitle")
}

func TestConfigCommand_Sources(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "port: 9100\nlogLevel: debug\n")
	t.Setenv(config.EnvTimeout, "12")

	stdout, _, code := execute("config", "--json", "--config", path, "--log-format", "json")
	require.Equal(t, 0, code)

	var got struct {
		ConfigFile string        `json:"configFile"`
		Values     []configEntry `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, path, got.ConfigFile)
	require.Len(t, got.Values, len(config.Keys))

	byKey := make(map[string]configEntry, len(got.Values))
	for _, e := range got.Values {
		byKey[e.Key] = e
	}
	assert.Equal(t, config.SourceFile, byKey["port"].Source)
	assert.EqualValues(t, 9100, byKey["port"].Value)
	assert.Equal(t, config.SourceFile, byKey["logLevel"].Source)
	assert.Equal(t, config.SourceEnv, byKey["timeout"].Source)
	assert.EqualValues(t, 12, byKey["timeout"].Value)
	assert.Equal(t, config.SourceFlag, byKey["logFormat"].Source)
	assert.Equal(t, "json", byKey["logFormat"].Value)
	assert.Equal(t, config.SourceDefault, byKey["path"].Source)
}

func TestConfigCommand_Table(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "port: 0\n")

	stdout, _, code := execute("config", "--config", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "# Resolved configuration from "+path)
	assert.Contains(t, stdout, "KEY")
	assert.Contains(t, stdout, "logFile")
}

func TestConfigCommand_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, stderr, code := execute("config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config file not found")
}

func TestLookupCommands(t *testing.T) {
	isolateEnv(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/page/summary/Go":
			_, _ = w.Write([]byte(`{"title":"Go","extract":"A language.","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Go"}}}`))
		case r.URL.Query().Get("prop") == "sections":
			_, _ = w.Write([]byte(`{"parse":{"title":"Go","sections":[{"line":"History","index":"1"},{"line":"Design","index":"2"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	path := writeConfig(t, "restBaseUrl: "+upstream.URL+"\nactionApiUrl: "+upstream.URL+"/w/api.php\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "search found",
			args: []string{"search", "Go"},
			want: "**Go**\n\nA language.\n\nURL: https://en.wikipedia.org/wiki/Go\n",
		},
		{
			name: "search absent",
			args: []string{"search", "Nope"},
			want: "No Wikipedia article found for 'Nope'.\n",
		},
		{
			name: "search blank",
			args: []string{"search", "   "},
			want: "No Wikipedia article found for '   '.\n",
		},
		{
			name: "sections",
			args: []string{"sections", "Go"},
			want: "Sections for 'Go':\n\nHistory\nDesign\n\nURL: https://en.wikipedia.org/wiki/Go\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := execute(append(tt.args, "--config", path)...)
			require.Equal(t, 0, code)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestLookupCommands_ArgCount(t *testing.T) {
	isolateEnv(t)

	tests := [][]string{
		{"search"},
		{"sections", "a", "b"},
		{"section", "only-topic"},
	}
	for _, args := range tests {
		_, stderr, code := execute(args...)
		assert.Equal(t, 1, code, "args %v", args)
		assert.Contains(t, stderr, "Error:")
	}
}

func TestMCPCommand_Stdio(t *testing.T) {
	isolateEnv(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","clientInfo":{"name":"test","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"mcp", "--log-level", "error"})
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var initResp mcp.JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &initResp))
	assert.Nil(t, initResp.Error)

	var listResp struct {
		Result mcp.ToolsListResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &listResp))
	assert.Len(t, listResp.Result.Tools, 3)
}

func TestApplyServeFlags(t *testing.T) {
	t.Parallel()

	cmd := newServeCmd(&rootOptions{})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9001", "--allow-remote"}))

	cfg := config.NewDefault()
	f := &serveFlags{port: 9001, allowRemote: true}
	applyServeFlags(cmd, f, cfg)

	assert.Equal(t, 9001, cfg.Port)
	assert.True(t, cfg.AllowRemote)
	assert.Equal(t, config.DefaultPath, cfg.Path)
	assert.Equal(t, config.SourceFlag, cfg.Sources["port"])
	assert.Equal(t, config.SourceFlag, cfg.Sources["allowRemote"])
	assert.Equal(t, config.SourceDefault, cfg.Sources["path"])
}

func TestNewServeStack_SharesGateway(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	agents := map[string]int{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents[r.Header.Get("User-Agent")]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Go","extract":"A language."}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.NewDefault()
	cfg.RESTBaseURL = upstream.URL
	cfg.UserAgent = "stack-test/1.0"

	stack := newServeStack(cfg, logging.Nop())
	require.NotNil(t, stack.gateway)
	assert.Same(t, stack.gateway, stack.server.Gateway())

	rec := httptest.NewRecorder()
	stack.rest.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wikipedia/search?query=Go", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	res := stack.server.Gateway().Search(context.Background(), "Go")
	require.NotNil(t, res)
	assert.Equal(t, "Go", res.Title)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"stack-test/1.0": 2}, agents)
}

func TestLoadConfig_EnvConfigFile(t *testing.T) {
	isolateEnv(t)
	envFile := writeConfig(t, "port: 9500\n")
	flagFile := writeConfig(t, "port: 9600\n")
	t.Setenv(config.EnvConfig, envFile)

	stdout, _, code := execute("config", "--json")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"configFile": "`+envFile+`"`)

	stdout, _, code = execute("config", "--json", "--config", flagFile)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"configFile": "`+flagFile+`"`)
}

func TestMCPConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefault()
	cfg.Port = 9200
	cfg.SessionTimeout = 60
	cfg.AllowedOrigins = nil

	got := mcpConfig(cfg)
	assert.Equal(t, 9200, got.Port)
	assert.Equal(t, cfg.SessionTTL(), got.SessionTimeout)
	assert.Equal(t, []string{"*"}, got.AllowedOrigins)
	assert.NoError(t, got.Validate())
}

func TestSchemaArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema map[string]interface{}
		want   string
	}{
		{
			name:   "empty",
			schema: map[string]interface{}{},
			want:   "",
		},
		{
			name: "optional only, sorted bytewise",
			schema: map[string]interface{}{
				"properties": map[string]interface{}{"b": map[string]interface{}{}, "a": map[string]interface{}{}},
			},
			want: "a,b",
		},
		{
			name: "required first in declared order",
			schema: map[string]interface{}{
				"properties": map[string]interface{}{
					"topic":         map[string]interface{}{},
					"section_title": map[string]interface{}{},
					"sectionTitle":  map[string]interface{}{},
				},
				"required": []string{"topic", "section_title"},
			},
			want: "topic,section_title,sectionTitle",
		},
		{
			name: "required key without property is skipped",
			schema: map[string]interface{}{
				"properties": map[string]interface{}{"q": map[string]interface{}{}},
				"required":   []string{"missing", "q"},
			},
			want: "q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, schemaArguments(tt.schema))
		})
	}
}
