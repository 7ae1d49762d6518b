/*
Package lsp serves grammar completions over the Language Server Protocol.

Documents are synchronized in full. A completion request computes the
suggestions for the document text up to the cursor.
*/
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/suggest"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "ahi"

var log = commonlog.GetLogger("ahi.lsp")

// Options tune completion requests.
type Options struct {
	// MaxResults caps the number of items per request. Zero means no cap.
	MaxResults int

	// Timeout bounds one completion request. Zero means no bound.
	Timeout time.Duration

	Version string
	Debug   bool
}

// Server is a language server for one grammar.
type Server struct {
	grammar   *grammar.Grammar
	suggester *suggest.Suggester
	options   Options

	handler protocol.Handler
	server  *server.Server

	mu        sync.RWMutex
	documents map[protocol.DocumentUri]string
}

// NewServer returns a server completing documents with s.
func NewServer(g *grammar.Grammar, s *suggest.Suggester, options Options) *Server {
	ls := &Server{
		grammar:   g,
		suggester: s,
		options:   options,
		documents: make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, options.Debug)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: triggerCharacters(ls.grammar.Literals()),
	}

	version := ls.options.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving grammar with start production %s", ls.grammar.Start())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := ls.document(params.TextDocument.URI)
	if !ok {
		path, _ := uriToPath(params.TextDocument.URI)
		log.Debugf("completion for unknown document %s", path)
		return nil, nil
	}

	items, err := ls.Complete(context.Background(), text, params.Position)
	if err != nil {
		log.Errorf("completion: %v", err)
		return nil, nil
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// Complete returns completion items for text at pos.
func (ls *Server) Complete(ctx context.Context, text string, pos protocol.Position) ([]protocol.CompletionItem, error) {
	offset := offsetAt(text, pos)
	prefix := text[:offset]

	if ls.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ls.options.Timeout)
		defer cancel()
	}

	suggestions, err := ls.suggester.SuggestContext(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if n := ls.options.MaxResults; n > 0 && len(suggestions) > n {
		suggestions = suggestions[:n]
	}

	partial := ls.suggester.Partial(prefix)
	var replace *protocol.Range
	if !strings.Contains(partial, "\n") {
		start := pos
		start.Character -= protocol.UInteger(utf16Len(partial))
		replace = &protocol.Range{Start: start, End: pos}
	}

	items := make([]protocol.CompletionItem, 0, len(suggestions))
	for _, tail := range suggestions {
		items = append(items, ls.item(partial, tail, replace))
	}
	return items, nil
}

// item builds the completion item for one suggestion. The label is the whole
// token, the inserted text is the part not yet typed.
func (ls *Server) item(partial, tail string, replace *protocol.Range) protocol.CompletionItem {
	label := partial + tail
	kind := protocol.CompletionItemKindText
	detail := "token"
	if k, ok := ls.grammar.LiteralKind(label); ok {
		kind = protocol.CompletionItemKindKeyword
		detail = ls.grammar.TokenName(k)
	}
	format := protocol.InsertTextFormatPlainText
	insertText := tail

	item := protocol.CompletionItem{
		Label:            label,
		Kind:             &kind,
		Detail:           &detail,
		InsertText:       &insertText,
		InsertTextFormat: &format,
	}
	if replace != nil {
		item.TextEdit = protocol.TextEdit{Range: *replace, NewText: label}
	}
	return item
}

func (ls *Server) update(uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()
}

func (ls *Server) document(uri protocol.DocumentUri) (string, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	text, ok := ls.documents[uri]
	return text, ok
}

// offsetAt converts an LSP position, counted in UTF-16 code units, to a byte
// offset into text. Positions past the end of a line or the text clamp.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := protocol.UInteger(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// triggerCharacters returns the punctuation literals of length one.
func triggerCharacters(literals []string) []string {
	var out []string
	for _, lit := range literals {
		r, size := utf8.DecodeRuneInString(lit)
		if size != len(lit) || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		out = append(out, lit)
	}
	return out
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

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
