package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"whitespace-separated terms, matched as AND-combined prefixes; empty lists all documents"`
}

// SearchOutput is the output schema for the search and list tools.
type SearchOutput struct {
	Results []DocumentInfo `json:"results"`
	Count   int            `json:"count"`
}

// DocumentInfo represents one document in tool output.
type DocumentInfo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt string `json:"created_at"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	ID int64 `json:"id" jsonschema:"the document id"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	DocumentInfo
	SourceText string `json:"source_text"`
}

// SummarizeInput is the input schema for the summarize_document tool.
type SummarizeInput struct {
	ID      int64 `json:"id" jsonschema:"the document id to summarize"`
	Bullets int   `json:"bullets,omitempty" jsonschema:"maximum bullet points in the summary (default 6)"`
}

// SummarizeOutput is the output schema for the summarize_document tool.
type SummarizeOutput struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the document library by title, source text, and summary",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Retrieve a document including its full source text",
	}, s.handleGetDocument)

	if s.ports.Scan != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_document",
			Description: "Run AI summarization for a stored document and return the result",
		}, s.handleSummarize)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	items, err := s.ports.Library.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]DocumentInfo, len(items)),
		Count:   len(items),
	}
	for i := range items {
		output.Results[i] = documentInfo(items[i].Document)
	}
	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	doc, err := s.ports.Library.Get(ctx, input.ID)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	return nil, GetDocumentOutput{
		DocumentInfo: documentInfo(*doc),
		SourceText:   doc.SourceText,
	}, nil
}

// handleSummarize handles the summarize_document tool invocation.
func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	if err := s.ports.Scan.StartSummaryFor(ctx, input.ID, input.Bullets); err != nil {
		return nil, SummarizeOutput{}, err
	}

	doc, err := s.ports.Library.Get(ctx, input.ID)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	return nil, SummarizeOutput{
		ID:      doc.ID,
		Status:  string(doc.Status),
		Summary: doc.SummaryText,
	}, nil
}

// documentInfo converts a domain document to tool output.
func documentInfo(doc domain.Document) DocumentInfo {
	return DocumentInfo{
		ID:        doc.ID,
		Title:     doc.Title,
		Status:    string(doc.Status),
		Summary:   doc.SummaryText,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
}
