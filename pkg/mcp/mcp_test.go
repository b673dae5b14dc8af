package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// fakeGateway serves canned results and records the arguments it saw.
type fakeGateway struct {
	mu       sync.Mutex
	search   map[string]*wikipedia.SearchResult
	sections map[string]*wikipedia.SectionOutline
	content  map[string]*wikipedia.SectionContent // keyed by topic + "#" + title
	calls    []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		search: map[string]*wikipedia.SearchResult{
			"Go (programming language)": {
				Title:   "Go (programming language)",
				Summary: "Go is a statically typed, compiled language.",
				URL:     "https://en.wikipedia.org/wiki/Go_(programming_language)",
			},
			"Stub": {Title: "Stub", Summary: wikipedia.NoSummaryText},
		},
		sections: map[string]*wikipedia.SectionOutline{
			"Go (programming language)": {
				Title:    "Go (programming language)",
				Sections: []string{"History", "  Early years", "Design"},
				URL:      "https://en.wikipedia.org/wiki/Go%20%28programming%20language%29",
			},
		},
		content: map[string]*wikipedia.SectionContent{
			"Go (programming language)#History": {SectionTitle: "History", Content: "Go was designed at Google in 2007."},
		},
	}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Search(_ context.Context, query string) *wikipedia.SearchResult {
	f.record("search:" + query)
	return f.search[query]
}

func (f *fakeGateway) GetSections(_ context.Context, topic string) *wikipedia.SectionOutline {
	f.record("sections:" + topic)
	return f.sections[topic]
}

func (f *fakeGateway) GetSectionContent(_ context.Context, topic, sectionTitle string) *wikipedia.SectionContent {
	f.record("content:" + topic + "#" + sectionTitle)
	return f.content[topic+"#"+sectionTitle]
}

func newTestServer(t *testing.T) (*Server, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	return NewServer(DefaultConfig(), gw), gw
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *ToolResult {
	t.Helper()
	params, err := json.Marshal(ToolCallParams{Name: name, Arguments: args})
	require.NoError(t, err)

	result, rpcErr := s.dispatch(context.Background(), NewStatelessSession(), &JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.Nil(t, rpcErr)
	tr, ok := result.(*ToolResult)
	require.True(t, ok, "result type %T", result)
	require.Len(t, tr.Content, 1)
	return tr
}

func TestNegotiateProtocolVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested string
		want      string
	}{
		{requested: "2025-06-18", want: "2025-06-18"},
		{requested: "2024-11-05", want: "2024-11-05"},
		{requested: "2025-11-25", want: "2025-11-25"},
		{requested: "1999-01-01", want: ProtocolVersion},
		{requested: "", want: ProtocolVersion},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NegotiateProtocolVersion(tt.requested))
		})
	}
}

func TestDispatch_Initialize(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	s.SetVersion("1.2.3")
	session := NewSession()

	result, rpcErr := s.dispatch(context.Background(), session, &JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params:  json.RawMessage(`{"protocolVersion":"2024-11-05","clientInfo":{"name":"inspector","version":"0.1"}}`),
	})
	require.Nil(t, rpcErr)

	init, ok := result.(*InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", init.ProtocolVersion)
	assert.Equal(t, ServerName, init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", init.ServerInfo.Version)
	require.NotNil(t, init.Capabilities.Tools)
	assert.NotNil(t, init.Capabilities.Logging)
	assert.Equal(t, SessionStateInitialized, session.GetState())
	assert.Equal(t, "inspector", session.GetClientInfo().Name)

	_, rpcErr = s.dispatch(context.Background(), session, &JSONRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	require.Nil(t, rpcErr)
	assert.Equal(t, SessionStateReady, session.GetState())
}

func TestDispatch_InitializeUnknownVersionFallsBack(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	result, rpcErr := s.dispatch(context.Background(), NewSession(), &JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      "a",
		Method:  "initialize",
		Params:  json.RawMessage(`{"protocolVersion":"2030-01-01"}`),
	})
	require.Nil(t, rpcErr)
	assert.Equal(t, ProtocolVersion, result.(*InitializeResult).ProtocolVersion)
}

func TestDispatch_Errors(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		session  *MCPSession
		method   string
		params   string
		wantCode int
	}{
		{name: "unknown method", session: NewStatelessSession(), method: "resources/list", wantCode: ErrCodeMethodNotFound},
		{name: "tools/list before initialize", session: NewSession(), method: "tools/list", wantCode: ErrCodeNotInitialized},
		{name: "initialized before initialize", session: NewSession(), method: "initialized", wantCode: ErrCodeNotInitialized},
		{name: "tools/call without params", session: NewStatelessSession(), method: "tools/call", wantCode: ErrCodeInvalidParams},
		{name: "tools/call without name", session: NewStatelessSession(), method: "tools/call", params: `{"arguments":{}}`, wantCode: ErrCodeInvalidParams},
		{name: "tools/call bad params", session: NewStatelessSession(), method: "tools/call", params: `[1,2]`, wantCode: ErrCodeInvalidParams},
		{name: "initialize bad params", session: NewSession(), method: "initialize", params: `"x"`, wantCode: ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := &JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: tt.method}
			if tt.params != "" {
				req.Params = json.RawMessage(tt.params)
			}
			_, rpcErr := s.dispatch(context.Background(), tt.session, req)
			require.NotNil(t, rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
		})
	}
}

func TestDispatch_Ping(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	result, rpcErr := s.dispatch(context.Background(), NewSession(), &JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "ping"})
	require.Nil(t, rpcErr)
	assert.Equal(t, map[string]interface{}{}, result)
}

func TestToolsList_Order(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	result, rpcErr := s.dispatch(context.Background(), NewStatelessSession(), &JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	require.Nil(t, rpcErr)

	list := result.(*ToolsListResult)
	names := make([]string, 0, len(list.Tools))
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
	assert.Equal(t, []string{ToolSearch, ToolSections, ToolSectionContent}, names)
}

func TestToolsCall_Search(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "found",
			query: "Go (programming language)",
			want: "**Go (programming language)**\n\nGo is a statically typed, compiled language.\n\n" +
				"URL: https://en.wikipedia.org/wiki/Go_(programming_language)",
		},
		{
			name:  "placeholder summary without url",
			query: "Stub",
			want:  "**Stub**\n\nNo summary available",
		},
		{
			name:  "absent",
			query: "Nonexistent Article 12345",
			want:  "No Wikipedia article found for 'Nonexistent Article 12345'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := callTool(t, s, ToolSearch, map[string]interface{}{"query": tt.query})
			assert.False(t, res.IsError)
			assert.Equal(t, "text", res.Content[0].Type)
			assert.Equal(t, tt.want, res.Content[0].Text)
		})
	}
}

func TestToolsCall_Sections(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	res := callTool(t, s, ToolSections, map[string]interface{}{"topic": "Go (programming language)"})
	assert.False(t, res.IsError)
	assert.Equal(t,
		"Sections for 'Go (programming language)':\n\nHistory\n  Early years\nDesign\n\n"+
			"URL: https://en.wikipedia.org/wiki/Go%20%28programming%20language%29",
		res.Content[0].Text)

	res = callTool(t, s, ToolSections, map[string]interface{}{"topic": "Nope"})
	assert.False(t, res.IsError)
	assert.Equal(t, "No sections found for 'Nope'.", res.Content[0].Text)
}

func TestToolsCall_SectionContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     map[string]interface{}
		want     string
		wantCall string
	}{
		{
			name:     "snake case",
			args:     map[string]interface{}{"topic": "Go (programming language)", "section_title": "History"},
			want:     "**History**\n\nGo was designed at Google in 2007.",
			wantCall: "content:Go (programming language)#History",
		},
		{
			name:     "camel case alias",
			args:     map[string]interface{}{"topic": "Go (programming language)", "sectionTitle": "History"},
			want:     "**History**\n\nGo was designed at Google in 2007.",
			wantCall: "content:Go (programming language)#History",
		},
		{
			name:     "snake case wins",
			args:     map[string]interface{}{"topic": "Go (programming language)", "section_title": "History", "sectionTitle": "Design"},
			want:     "**History**\n\nGo was designed at Google in 2007.",
			wantCall: "content:Go (programming language)#History",
		},
		{
			name:     "empty snake case falls back to alias",
			args:     map[string]interface{}{"topic": "Go (programming language)", "section_title": "", "sectionTitle": "History"},
			want:     "**History**\n\nGo was designed at Google in 2007.",
			wantCall: "content:Go (programming language)#History",
		},
		{
			name:     "absent",
			args:     map[string]interface{}{"topic": "Go (programming language)", "section_title": "Nope"},
			want:     "No content found for section 'Nope' in 'Go (programming language)'.",
			wantCall: "content:Go (programming language)#Nope",
		},
		{
			name:     "missing arguments render as absence",
			args:     map[string]interface{}{},
			want:     "No content found for section '' in ''.",
			wantCall: "content:#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, gw := newTestServer(t)

			res := callTool(t, s, ToolSectionContent, tt.args)
			assert.False(t, res.IsError)
			assert.Equal(t, tt.want, res.Content[0].Text)
			assert.Equal(t, []string{tt.wantCall}, gw.Calls())
		})
	}
}

func TestToolsCall_NotifiesSessionStream(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	session := NewSession()
	session.SetState(SessionStateReady)

	params, err := json.Marshal(ToolCallParams{Name: ToolSearch, Arguments: map[string]interface{}{"query": "Stub"}})
	require.NoError(t, err)
	_, rpcErr := s.dispatch(context.Background(), session, &JSONRPCRequest{JSONRPC: "2.0", ID: 7, Method: "tools/call", Params: params})
	require.Nil(t, rpcErr)

	select {
	case notif := <-session.EventChannel:
		assert.Equal(t, MethodLogMessage, notif.Method)
		msg, ok := notif.Params.(LogMessageParams)
		require.True(t, ok)
		assert.Equal(t, "info", msg.Level)
		assert.Equal(t, map[string]interface{}{"tool": ToolSearch, "found": true}, msg.Data)
	default:
		t.Fatal("expected a notification on the session stream")
	}
}

func TestToolsCall_NullArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{
			name: "null query reads as blank",
			tool: ToolSearch,
			args: map[string]interface{}{"query": nil},
			want: "No Wikipedia article found for ''.",
		},
		{
			name: "null topic reads as blank",
			tool: ToolSections,
			args: map[string]interface{}{"topic": nil},
			want: "No sections found for ''.",
		},
		{
			name: "null section_title falls back to alias",
			tool: ToolSectionContent,
			args: map[string]interface{}{"topic": "Go (programming language)", "section_title": nil, "sectionTitle": "History"},
			want: "Go was designed at Google in 2007.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newTestServer(t)
			res := callTool(t, s, tt.tool, tt.args)
			assert.False(t, res.IsError)
			assert.Contains(t, res.Content[0].Text, tt.want)
		})
	}
}

func TestToolsCall_ArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		contains string
	}{
		{name: "unknown tool", tool: "wikipedia_random", args: nil, contains: "tool not found: wikipedia_random"},
		{name: "numeric query", tool: ToolSearch, args: map[string]interface{}{"query": 42}, contains: "query"},
		{name: "boolean topic", tool: ToolSections, args: map[string]interface{}{"topic": true}, contains: "topic"},
		{name: "object section title", tool: ToolSectionContent, args: map[string]interface{}{"topic": "Go", "section_title": map[string]interface{}{}}, contains: "section_title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, gw := newTestServer(t)

			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Content[0].Text, tt.contains)
			assert.Empty(t, gw.Calls(), "gateway must not be called")
		})
	}
}

func TestToolResultHelpers(t *testing.T) {
	t.Parallel()

	ok := ToolResultText("hello")
	assert.False(t, ok.IsError)
	assert.Equal(t, "hello", ok.Content[0].Text)

	bad := ToolResultErrorf("bad %s %d", "thing", 3)
	assert.True(t, bad.IsError)
	assert.Equal(t, "bad thing 3", bad.Content[0].Text)

	assert.Equal(t, "100% done", ToolResultErrorf("%d%% done", 100).Content[0].Text)
}

func TestToolResult_MarshalsIsErrorFalse(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ToolResultText("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"x"}],"isError":false}`, string(data))
}

func TestParseRequestBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantCode int
	}{
		{name: "valid", data: `{"jsonrpc":"2.0","id":1,"method":"ping"}`},
		{name: "bad json", data: `{"jsonrpc":`, wantCode: ErrCodeParseError},
		{name: "wrong version", data: `{"jsonrpc":"1.0","id":1,"method":"ping"}`, wantCode: ErrCodeInvalidRequest},
		{name: "missing method", data: `{"jsonrpc":"2.0","id":1}`, wantCode: ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, rpcErr := ParseRequestBytes([]byte(tt.data))
			if tt.wantCode == 0 {
				require.Nil(t, rpcErr)
				assert.Equal(t, "ping", req.Method)
				assert.False(t, req.IsNotification())
				return
			}
			require.NotNil(t, rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
		})
	}
}

func TestJSONRPCError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Session not initialized (-32007)", NotInitializedError().Error())
	assert.Contains(t, SessionExpiredError("abc").Error(), "abc")
	assert.Equal(t, "Unknown error", NewJSONRPCError(-1, nil).Message)
}
