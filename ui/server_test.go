package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mangata/asciidoc"
	"github.com/dhamidi/mangata/workspace"
)

func newTestServer(t *testing.T, ws *workspace.Workspace, opts ...asciidoc.Option) *Server {
	t.Helper()
	s, err := NewServer(ws, opts...)
	require.NoError(t, err)
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(newTestServer(t, nil), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<textarea name="source"`)
	assert.Contains(t, rec.Body.String(), `<option value="tree" selected>`)
	assert.NotContains(t, rec.Body.String(), "browse workspace")
}

func TestRenderForm(t *testing.T) {
	form := url.Values{"source": {"== Title\n\n----\nx"}, "format": {"tree"}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(newTestServer(t, nil), req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Section [1:0-4:1] level=1 &#34;Title&#34;")
	assert.Contains(t, body, "unterminated listing block")
	assert.Contains(t, body, `class="warning"`)
}

func TestRenderFormUnknownFormat(t *testing.T) {
	form := url.Values{"source": {"text"}, "format": {"xml"}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(newTestServer(t, nil), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")
}

func TestAPIParseJSON(t *testing.T) {
	body := `{"source": "Hello {who}\n\n====\nopen", "attributes": {"who": "world"}}`
	req := httptest.NewRequest("POST", "/api/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	rec := do(newTestServer(t, nil), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Document struct {
			Type     string `json:"type"`
			Children []struct {
				Type     string `json:"type"`
				Children []struct {
					Value string `json:"value"`
				} `json:"children"`
			} `json:"children"`
		} `json:"document"`
		Diagnostics []DiagnosticJSON  `json:"diagnostics"`
		Attributes  map[string]string `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Document", resp.Document.Type)
	require.Len(t, resp.Document.Children, 2)
	assert.Equal(t, "Hello world", resp.Document.Children[0].Children[0].Value)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "warning", resp.Diagnostics[0].Severity)
	assert.Equal(t, 3, resp.Diagnostics[0].Loc.Start.Line)
	assert.Equal(t, "world", resp.Attributes["who"])
}

func TestAPIParsePlainText(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/parse?format=outline", strings.NewReader("== One\n\n== Two\n"))
	req.Header.Set("Content-Type", "text/plain")

	rec := do(newTestServer(t, nil), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "section\t1:0\t1\tOne\nsection\t3:0\t1\tTwo\n", rec.Body.String())
}

func TestAPIParseErrors(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/api/parse", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, do(s, req).Code)

	req = httptest.NewRequest("POST", "/api/parse", strings.NewReader(`{"source": "====\n****\n", "maxDepth": 1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(s, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "maximum block nesting depth exceeded")
}

func TestFiles(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(newTestServer(t, nil), httptest.NewRequest("GET", "/files", nil)).Code)

	ws := workspace.New("docs")
	ws.UpdateFile("docs/guide.adoc", []byte("= Guide\n\n....\nliteral\n"))
	s := newTestServer(t, ws)

	rec := do(s, httptest.NewRequest("GET", "/files", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/files/docs/guide.adoc">docs/guide.adoc</a>`)

	rec = do(s, httptest.NewRequest("GET", "/files/docs/guide.adoc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "DelimitedBlock [3:0-4:8] literal unterminated")

	rec = do(s, httptest.NewRequest("GET", "/files/docs/missing.adoc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatic(t *testing.T) {
	rec := do(newTestServer(t, nil), httptest.NewRequest("GET", "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pre.output")
}
