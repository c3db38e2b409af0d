package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/mangata/asciidoc"
)

const lsName = "mangata"

type LSPServer struct {
	workspace *Workspace
	watcher   *FileWatcher
	handler   protocol.Handler
	server    *server.Server
	version   string
	opts      []asciidoc.Option

	// PollInterval is how often the workspace root is checked for changes
	// made outside the editor. Zero disables polling.
	PollInterval time.Duration

	mu     sync.Mutex
	notify glsp.NotifyFunc
}

func NewLSPServer(version string, opts ...asciidoc.Option) *LSPServer {
	ls := &LSPServer{
		version:      version,
		opts:         opts,
		PollInterval: 2 * time.Second,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(addr string) error {
	return ls.server.RunTCP(addr)
}

func (ls *LSPServer) RunWebSocket(addr string) error {
	return ls.server.RunWebSocket(addr)
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = New(rootDir, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scan %s: %v", ls.workspace.RootDir(), err)
	}
	log.Infof("workspace %s: %d files", ls.workspace.RootDir(), len(ls.workspace.Paths()))

	if ls.PollInterval > 0 {
		ls.watcher = NewFileWatcher(ls.workspace, ls.PollInterval)
		ls.watcher.OnChange = ls.fileChanged
		ls.watcher.Start()
	}
	return nil
}

func (ls *LSPServer) fileChanged(path string, f *File) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	if f == nil {
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: []protocol.Diagnostic{},
		})
		return
	}
	publishDiagnostics(notify, pathToURI(path), f)
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	publishDiagnostics(ctx.Notify, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			f := ls.workspace.UpdateFile(path, []byte(textChange.Text))
			publishDiagnostics(ctx.Notify, params.TextDocument.URI, f)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		return nil
	}
	if f := ls.workspace.GetFile(path); f != nil {
		publishDiagnostics(ctx.Notify, params.TextDocument.URI, f)
	}
	return nil
}

func (ls *LSPServer) file(uri protocol.DocumentUri) *File {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.workspace.GetFile(path)
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return documentSymbols(f), nil
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return foldingRanges(f), nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return hoverAt(f, params.Position), nil
}

func publishDiagnostics(notify glsp.NotifyFunc, uri protocol.DocumentUri, f *File) {
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(f),
	})
}

// diagnostics reports the recovery diagnostics of the parse, a failed parse
// and any provenance violations.
func diagnostics(f *File) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	source := lsName
	add := func(sev protocol.DiagnosticSeverity, loc asciidoc.Location, message string) {
		out = append(out, protocol.Diagnostic{
			Range:    f.protocolRange(loc),
			Severity: &sev,
			Source:   &source,
			Message:  message,
		})
	}

	if f.ParseErr != nil {
		first := asciidoc.Position{Line: 1}
		add(protocol.DiagnosticSeverityError, asciidoc.Location{Start: first, End: first}, f.ParseErr.Error())
		return out
	}
	for _, d := range f.Doc.Diagnostics {
		sev := protocol.DiagnosticSeverityWarning
		if d.Severity == asciidoc.SeverityInfo {
			sev = protocol.DiagnosticSeverityInformation
		}
		add(sev, d.Loc, d.Message)
	}
	for _, v := range f.Violations {
		var invariant *asciidoc.InvariantError
		if errors.As(v, &invariant) {
			add(protocol.DiagnosticSeverityError, invariant.Node.Bounds().Loc, invariant.Message)
		}
	}
	return out
}

// documentSymbols outlines the header, sections and titled blocks.
func documentSymbols(f *File) []protocol.DocumentSymbol {
	if f.Doc == nil {
		return nil
	}
	return symbols(f, f.Doc.Children)
}

func symbols(f *File, nodes []asciidoc.Node) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, n := range nodes {
		switch n := n.(type) {
		case *asciidoc.Header:
			out = append(out, f.symbol(n, n.Title, "document", protocol.SymbolKindFile, nil))
		case *asciidoc.Section:
			detail := fmt.Sprintf("level %d", n.Level)
			out = append(out, f.symbol(n, n.Title, detail, protocol.SymbolKindNamespace, symbols(f, n.Children)))
		case *asciidoc.Block:
			children := symbols(f, n.Children)
			if n.Title == "" {
				out = append(out, children...)
				continue
			}
			out = append(out, f.symbol(n, n.Title, string(n.EnclosureType), protocol.SymbolKindObject, children))
		case *asciidoc.BlockMacro:
			out = append(out, f.symbol(n, n.Name+"::"+n.Target, n.Title, protocol.SymbolKindConstant, nil))
		}
	}
	return out
}

func (f *File) symbol(n asciidoc.Node, name, detail string, kind protocol.SymbolKind, children []protocol.DocumentSymbol) protocol.DocumentSymbol {
	loc := n.Bounds().Loc
	selection := loc
	if nodes := n.Nodes(); len(nodes) > 0 {
		if title, ok := nodes[0].(*asciidoc.Title); ok {
			selection = title.Loc
		}
	}
	s := protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          f.protocolRange(loc),
		SelectionRange: f.protocolRange(selection),
		Children:       children,
	}
	if detail != "" {
		s.Detail = &detail
	}
	return s
}

// foldingRanges returns a range for every multi-line section, block, list
// and comment.
func foldingRanges(f *File) []protocol.FoldingRange {
	if f.Doc == nil {
		return nil
	}
	var out []protocol.FoldingRange
	asciidoc.Inspect(f.Doc, func(n asciidoc.Node) bool {
		kind := string(protocol.FoldingRangeKindRegion)
		switch n := n.(type) {
		case *asciidoc.Document:
			return true
		case *asciidoc.Header, *asciidoc.Section, *asciidoc.UnorderedList:
		case *asciidoc.Block:
			if n.EnclosureType == asciidoc.EnclosureComment {
				kind = string(protocol.FoldingRangeKindComment)
			}
		case *asciidoc.Comment:
			kind = string(protocol.FoldingRangeKindComment)
		default:
			return false
		}
		loc := n.Bounds().Loc
		if loc.End.Line > loc.Start.Line {
			out = append(out, protocol.FoldingRange{
				StartLine: protocol.UInteger(loc.Start.Line - 1),
				EndLine:   protocol.UInteger(loc.End.Line - 1),
				Kind:      &kind,
			})
		}
		return true
	})
	return out
}

// hoverAt describes the nodes under the cursor and the resolved text of the
// innermost one.
func hoverAt(f *File, pos protocol.Position) *protocol.Hover {
	path := f.NodesAt(f.position(pos))
	if len(path) < 2 {
		return nil
	}

	names := make([]string, len(path))
	for i, n := range path {
		names[i] = n.Type().String()
	}
	inner := path[len(path)-1]

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", strings.Join(names, " > "))
	if text := resolvedText(inner); text != "" {
		fmt.Fprintf(&sb, "\n\n```\n%s\n```", text)
	}

	r := f.protocolRange(inner.Bounds().Loc)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sb.String(),
		},
		Range: &r,
	}
}

func resolvedText(n asciidoc.Node) string {
	switch n := n.(type) {
	case *asciidoc.Str:
		return n.Value
	case *asciidoc.ListItem:
		return n.Value
	case *asciidoc.Section:
		return n.Title
	case *asciidoc.BlockMacro:
		return n.Target
	case *asciidoc.AttributeEntry:
		if n.Value != nil {
			return *n.Value
		}
	}
	return ""
}

// position converts an editor position, counted in UTF-16 code units, to a
// byte column.
func (f *File) position(p protocol.Position) asciidoc.Position {
	pos := asciidoc.Position{Line: int(p.Line) + 1}
	line := f.Line(pos.Line)
	if line == nil {
		return pos
	}
	pos.Column = len(line.Text)
	units := 0
	for i, r := range line.Text {
		if units >= int(p.Character) {
			pos.Column = i
			break
		}
		units += utf16.RuneLen(r)
	}
	return pos
}

func (f *File) protocolPosition(p asciidoc.Position) protocol.Position {
	out := protocol.Position{Line: protocol.UInteger(max(p.Line-1, 0))}
	line := f.Line(p.Line)
	if line == nil {
		return out
	}
	col := min(p.Column, len(line.Text))
	units := 0
	for _, r := range line.Text[:col] {
		units += utf16.RuneLen(r)
	}
	out.Character = protocol.UInteger(units)
	return out
}

func (f *File) protocolRange(loc asciidoc.Location) protocol.Range {
	return protocol.Range{
		Start: f.protocolPosition(loc.Start),
		End:   f.protocolPosition(loc.End),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
