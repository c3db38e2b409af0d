// Package ui serves a small web playground for the parser: paste a
// document, see its node tree and the recovery diagnostics, and browse the
// files of a workspace.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mangata/asciidoc"
	"github.com/dhamidi/mangata/format"
	"github.com/dhamidi/mangata/workspace"
)

var log = commonlog.GetLogger("mangata.ui")

//go:embed static templates templates/_layout.html
var embeddedFS embed.FS

const maxSourceSize = 8 << 20

type Server struct {
	workspace  *workspace.Workspace
	opts       []asciidoc.Option
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

// NewServer returns a playground server. ws may be nil, in which case the
// file browser is disabled. opts are applied to every parse.
func NewServer(ws *workspace.Workspace, opts ...asciidoc.Option) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"warning": func(d asciidoc.Diagnostic) bool {
			return d.Severity == asciidoc.SeverityWarning
		},
		"fileURL": func(path string) string {
			return "/files/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
		},
	}

	// parse once up front so broken templates fail at startup
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		workspace:  ws,
		opts:       opts,
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /api/parse", s.handleAPIParse)
	s.mux.HandleFunc("GET /files", s.handleFiles)
	s.mux.HandleFunc("GET /files/{path...}", s.handleFile)
	s.mux.HandleFunc("POST /{$}", s.handleRender)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %v", name, err)
	}
}

// PageData feeds index.html.
type PageData struct {
	Source      string
	Format      string
	Formats     []string
	Output      string
	Diagnostics []asciidoc.Diagnostic
	Error       string
	Browse      bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", PageData{
		Format:  "tree",
		Formats: format.Names,
		Browse:  s.workspace != nil,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	data := PageData{
		Source:  r.FormValue("source"),
		Format:  r.FormValue("format"),
		Formats: format.Names,
		Browse:  s.workspace != nil,
	}
	if data.Format == "" {
		data.Format = "tree"
	}

	doc, err := asciidoc.Parse(data.Source, s.opts...)
	if err != nil {
		data.Error = err.Error()
		s.render(w, "index.html", data)
		return
	}
	data.Diagnostics = doc.Diagnostics

	output, err := encode(data.Format, doc)
	if err != nil {
		data.Error = err.Error()
	}
	data.Output = output
	s.render(w, "index.html", data)
}

func encode(name string, doc *asciidoc.Document) (string, error) {
	var buf bytes.Buffer
	enc, err := format.New(name, &buf)
	if err != nil {
		return "", err
	}
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseRequest is the body of POST /api/parse. A request that is not JSON
// is taken as the document source itself.
type ParseRequest struct {
	Source     string            `json:"source"`
	Attributes map[string]string `json:"attributes,omitempty"`
	MaxDepth   int               `json:"maxDepth,omitempty"`
	// Format selects a text encoder instead of the JSON response.
	Format string `json:"format,omitempty"`
}

type ParseResponse struct {
	Document    *asciidoc.Document `json:"document,omitempty"`
	Diagnostics []DiagnosticJSON   `json:"diagnostics"`
	Attributes  map[string]string  `json:"attributes,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type DiagnosticJSON struct {
	Severity string            `json:"severity"`
	Message  string            `json:"message"`
	Range    asciidoc.Range    `json:"range"`
	Loc      asciidoc.Location `json:"loc"`
}

func (s *Server) handleAPIParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)

	var req ParseRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Source = string(body)
		req.Format = r.URL.Query().Get("format")
	}

	opts := append([]asciidoc.Option(nil), s.opts...)
	if req.Attributes != nil {
		opts = append(opts, asciidoc.WithAttributes(req.Attributes))
	}
	if req.MaxDepth > 0 {
		opts = append(opts, asciidoc.WithMaxDepth(req.MaxDepth))
	}

	doc, err := asciidoc.Parse(req.Source, opts...)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ParseResponse{Diagnostics: []DiagnosticJSON{}, Error: err.Error()})
		return
	}

	if req.Format != "" && req.Format != "json" {
		output, err := encode(req.Format, doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, output)
		return
	}

	resp := ParseResponse{
		Document:    doc,
		Diagnostics: make([]DiagnosticJSON, 0, len(doc.Diagnostics)),
		Attributes:  doc.Attributes,
	}
	for _, d := range doc.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Message:  d.Message,
			Range:    d.Range,
			Loc:      d.Loc,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warningf("write response: %v", err)
	}
}

type FilesData struct {
	Root  string
	Files []string
}

type FileData struct {
	Path        string
	Output      string
	Diagnostics []asciidoc.Diagnostic
	Error       string
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if s.workspace == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "files.html", FilesData{
		Root:  s.workspace.RootDir(),
		Files: s.workspace.Paths(),
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if s.workspace == nil {
		http.NotFound(w, r)
		return
	}
	path := "/" + r.PathValue("path")
	f := s.workspace.GetFile(path)
	if f == nil {
		f = s.workspace.GetFile(r.PathValue("path"))
	}
	if f == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	data := FileData{Path: f.Path}
	if err := f.Err(); err != nil {
		data.Error = err.Error()
	}
	if f.Doc != nil {
		data.Diagnostics = f.Doc.Diagnostics
		data.Output, _ = encode("tree", f.Doc)
	}
	s.render(w, "file.html", data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS serves files from primaryPath on disk when present, falling
// back to secondary. Templates can be edited without rebuilding.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
