// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the vocabulary vault to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkraus/slovnik/internal/batch"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/noteservice"
)

// Server wraps the MCP server with slovnik tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *noteservice.Service
	db       *index.DB
	analyzer batch.Analyzer
}

// New creates a new MCP server with all slovnik tools registered.
// analyzer may be nil; the analyze_word tool then reports an error.
func New(svc *noteservice.Service, db *index.DB, analyzer batch.Analyzer) *Server {
	s := &Server{svc: svc, db: db, analyzer: analyzer}

	s.mcp = server.NewMCPServer(
		"Slovnik",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_word",
		mcp.WithDescription("Look up the indexed note(s) for a Czech headword."),
		mcp.WithString("headword", mcp.Required(), mcp.Description("Dictionary form of the word, e.g. an infinitive or noun lemma")),
	), s.lookupWord)

	s.mcp.AddTool(mcp.NewTool("search_words",
		mcp.WithDescription("Substring search over headwords, translations, and themes."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchWords)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full Markdown content of a word note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note (e.g. words/kniha.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("ingest_page",
		mcp.WithDescription("Run the vocabulary pipeline over a Markdown page in the vault: "+
			"every table row becomes or updates a word note. Slow: the remote grammar "+
			"analyzer is rate limited, so large tables take minutes."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Vault-relative path of the page containing vocabulary tables")),
	), s.ingestPage)

	s.mcp.AddTool(mcp.NewTool("analyze_word",
		mcp.WithDescription("Fetch the grammar analysis for a single headword from the remote analyzer without writing any note."),
		mcp.WithString("headword", mcp.Required(), mcp.Description("Word to analyze")),
	), s.analyzeWord)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) lookupWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	headword, err := req.RequireString("headword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := s.db.FindByHeadword(headword)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no note for %q", headword)), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetWord(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) ingestPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := req.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.IngestPage(ctx, page)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"processed":   report.Processed,
		"failed":      report.Failed,
		"no_analysis": report.NoAnalysis,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) analyzeWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	headword, err := req.RequireString("headword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.analyzer == nil {
		return mcp.NewToolResultError("no analyzer configured"), nil
	}
	g, err := s.analyzer.Analyze(ctx, headword)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(g, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
