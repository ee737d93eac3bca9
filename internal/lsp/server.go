// Package lsp provides a minimal Language Server Protocol server for
// hipify: didOpen/didChange run the translator in no-output mode over the
// in-memory buffer and publish one diagnostic per unsupported or
// unrecognized reference; hover on a SRC identifier shows its DST mapping.
// Structurally grounded line-for-line on pkg/uast/lsp/server.go's
// DocumentStore/Handler shape.
package lsp

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/internal/stats"
	"github.com/hipifygo/hipify/internal/translate"
)

// DocumentStore is a thread-safe store for document contents keyed by URI.
type DocumentStore struct {
	documents map[string]string
	mu        sync.RWMutex
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]string)}
}

func (ds *DocumentStore) Set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

func (ds *DocumentStore) Get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Server implements the hipify LSP server.
type Server struct {
	store      *DocumentStore
	handler    protocol.Handler
	tables     *rename.Tables
	parser     *frontend.Parser
	dispatcher *translate.Dispatcher
}

// NewServer creates a hipify LSP server with default handlers.
func NewServer(tables *rename.Tables, parser *frontend.Parser) *Server {
	srv := &Server{
		store:      NewDocumentStore(),
		tables:     tables,
		parser:     parser,
		dispatcher: translate.New(tables),
	}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
		TextDocumentHover:     srv.hover,
	}

	return srv
}

// Run starts the LSP server on stdio.
func (srv *Server) Run() {
	lspServer := server.NewServer(&srv.handler, "hipify", false)

	if err := lspServer.RunStdio(); err != nil {
		log.Printf("LSP server error: %v", err)
	}
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	version := "0.1.0"

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "hipify",
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) > 0 {
		if change, ok := params.ContentChanges[0].(map[string]any); ok {
			if text, ok := change["text"].(string); ok {
				srv.store.Set(uri, text)
				srv.publishDiagnostics(ctx, uri)
			}
		}
	}

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.Delete(params.TextDocument.URI)

	return nil
}

// publishDiagnostics runs the translator over the buffer in analysis-only
// mode (no edits are ever written back) and reports one LSP diagnostic per
// warning the Reporter collects.
func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	src := []byte(text)

	sink := &collectingReporter{}
	diag := diagnose.New(sink, true)

	tree, err := srv.parser.Parse(context.Background(), src)
	if err == nil {
		rs := edit.New()
		counters := stats.NewCounters(uri, nil)
		srv.dispatcher.Run(tree, uri, rs, counters, diag)
		tree.Close()
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(sink.lines))

	for _, l := range sink.lines {
		diagnostics = append(diagnostics, l.toProtocol())
	}

	ctx.Notify("textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	pos := params.Position

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, nil //nolint:nilnil // LSP protocol expects nil hover when no document found.
	}

	word := extractWordAtPosition(text, int(pos.Line), int(pos.Character))
	if word == "" {
		return nil, nil //nolint:nilnil
	}

	if entry, ok := srv.tables.LookupIdent(word); ok {
		return hoverForEntry(word, entry), nil
	}

	if entry, ok := srv.tables.LookupType(word); ok {
		return hoverForEntry(word, entry), nil
	}

	return nil, nil //nolint:nilnil
}

func hoverForEntry(name string, entry rename.Entry) *protocol.Hover {
	value := name + " -> " + entry.DSTName + " (" + entry.ConvType.String() + "/" + entry.APIFamily.String() + ")"
	if entry.Unsupported {
		value = name + " is recognized but unsupported in the target API"
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: value},
	}
}

func extractWordAtPosition(text string, line, character int) string {
	lines := strings.Split(text, "\n")
	if line >= len(lines) {
		return ""
	}

	lineText := lines[line]
	if character > len(lineText) {
		character = len(lineText)
	}

	start := character
	for start > 0 && isWordChar(lineText[start-1]) {
		start--
	}

	end := character
	for end < len(lineText) && isWordChar(lineText[end]) {
		end++
	}

	return lineText[start:end]
}

func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}
