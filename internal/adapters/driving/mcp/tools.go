package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

const defaultListLimit = 20

// ParseInput is the input schema for the parse_document tool.
type ParseInput struct {
	Filename string `json:"filename" jsonschema:"file name, used for form detection when form is empty"`
	Content  string `json:"content" jsonschema:"document content, plain text or base64"`
	Encoding string `json:"encoding,omitempty" jsonschema:"content encoding: text (default) or base64; use base64 for PDF and windows-874 CSV"`
	Form     string `json:"form,omitempty" jsonschema:"markup, delimited or plain-text; detected when empty"`
	Store    bool   `json:"store,omitempty" jsonschema:"persist the record so it can be fetched later"`
}

// GetInput is the input schema for the get_document tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"record id returned by parse_document or list_documents"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	Type         string `json:"type,omitempty" jsonschema:"quotation or sales_order"`
	FailedOnly   bool   `json:"failed_only,omitempty" jsonschema:"only records whose extraction did not succeed"`
	CustomerCode string `json:"customer_code,omitempty" jsonschema:"filter by customer code"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of records (default 20)"`
}

// DocumentOutput is a parsed or stored document.
type DocumentOutput struct {
	RecordID      string                  `json:"record_id"`
	Filename      string                  `json:"filename"`
	Form          string                  `json:"form"`
	SHA256        string                  `json:"sha256"`
	Stored        bool                    `json:"stored"`
	Success       bool                    `json:"success"`
	Meta          domain.DocumentMeta     `json:"meta"`
	Items         []domain.LineItem       `json:"items"`
	Summary       domain.FinancialSummary `json:"summary"`
	Stats         domain.Stats            `json:"stats"`
	Diagnostics   []domain.Diagnostic     `json:"diagnostics"`
	ParserVersion string                  `json:"parser_version"`
	ProcessedAt   string                  `json:"processed_at"`
}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []SummaryOutput `json:"documents"`
	Count     int             `json:"count"`
}

// SummaryOutput is one listed record.
type SummaryOutput struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	Type         string   `json:"type"`
	Number       string   `json:"number"`
	CustomerCode string   `json:"customer_code"`
	CustomerName string   `json:"customer_name"`
	Total        *float64 `json:"total"`
	ItemCount    int      `json:"item_count"`
	Success      bool     `json:"success"`
	CreatedAt    string   `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_document",
		Description: "Extract header fields, line items and totals from an ERP quotation or sales order",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List stored parse records, newest first",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch a stored parse record by id",
	}, s.handleGet)
}

func (s *Server) handleParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	data, err := decodeContent(input.Content, input.Encoding)
	if err != nil {
		return nil, DocumentOutput{}, toolError("parse_document", err)
	}

	opts := driving.ParseOptions{Store: input.Store}
	if input.Form != "" {
		if opts.Form, err = domain.ParseForm(input.Form); err != nil {
			return nil, DocumentOutput{}, toolError("parse_document", err)
		}
	}

	rec, err := s.ports.Parse.ParseBytes(ctx, input.Filename, data, opts)
	if err != nil {
		return nil, DocumentOutput{}, toolError("parse_document", err)
	}
	return nil, toOutput(rec, input.Store), nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if s.ports.Records == nil {
		return nil, DocumentOutput{}, toolError("get_document", domain.ErrNotConfigured)
	}
	rec, err := s.ports.Records.Get(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, DocumentOutput{}, toolError("get_document", err)
	}
	return nil, toOutput(rec, true), nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	if s.ports.Records == nil {
		return nil, ListOutput{}, toolError("list_documents", domain.ErrNotConfigured)
	}

	filter := domain.RecordFilter{
		DocType:      domain.DocType(input.Type),
		FailedOnly:   input.FailedOnly,
		CustomerCode: input.CustomerCode,
		Limit:        input.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	list, err := s.ports.Records.List(ctx, filter)
	if err != nil {
		return nil, ListOutput{}, toolError("list_documents", err)
	}

	out := ListOutput{Documents: make([]SummaryOutput, len(list)), Count: len(list)}
	for i, r := range list {
		out.Documents[i] = SummaryOutput{
			ID:           r.ID,
			Filename:     r.Filename,
			Type:         string(r.DocType),
			Number:       r.Number,
			CustomerCode: r.CustomerCode,
			CustomerName: r.CustomerName,
			Total:        r.Total,
			ItemCount:    r.ItemCount,
			Success:      r.Success,
			CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

func decodeContent(content, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "text", "utf-8", "utf8":
		return []byte(content), nil
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
		if err != nil {
			return nil, fmt.Errorf("%w: content is not valid base64", domain.ErrInvalidInput)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown content encoding %q", domain.ErrInvalidInput, encoding)
	}
}

func toOutput(rec *domain.Record, stored bool) DocumentOutput {
	res := rec.Result
	items := res.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	diags := res.Diagnostics
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	return DocumentOutput{
		RecordID:      rec.ID,
		Filename:      rec.Filename,
		Form:          string(rec.Form),
		SHA256:        rec.SHA256,
		Stored:        stored,
		Success:       res.Success,
		Meta:          res.Meta,
		Items:         items,
		Summary:       res.Summary,
		Stats:         res.Stats,
		Diagnostics:   diags,
		ParserVersion: res.ParserVersion,
		ProcessedAt:   res.ProcessedAt.UTC().Format(time.RFC3339Nano),
	}
}
