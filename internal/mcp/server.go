package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// KeywordMCPServer exposes the keyword pattern engine as MCP tools so
// agents and editors can validate and dry-run patterns without a running
// bot
type KeywordMCPServer struct {
	server *mcp.Server
}

// NewServer creates a new keyword MCP server
func NewServer() *KeywordMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "keyword-tools",
		Version: "v1.0.0",
	}, nil)

	s := &KeywordMCPServer{server: server}
	s.registerTools()
	return s
}

func (s *KeywordMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "keyword_validate",
		Description: "Validate a keyword pattern. Returns the canonical form on success, or the error kind and byte offset on failure.",
	}, handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "keyword_test",
		Description: "Test a keyword pattern against a message text. Reports whether the pattern matches.",
	}, handleTest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "keyword_explain",
		Description: "Explain the structure of a keyword pattern as an indented tree.",
	}, handleExplain)
}

// Run starts the MCP server with stdio transport
func (s *KeywordMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// ValidateInput is the input for keyword_validate
type ValidateInput struct {
	Pattern string `json:"pattern" jsonschema:"description=The keyword pattern to validate"`
}

// ValidateOutput is the output for keyword_validate
type ValidateOutput struct {
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	Error     string `json:"error,omitempty"`
}

func handleValidate(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
	entry, err := domain.ParseKeyword(input.Pattern)
	if err != nil {
		out := ValidateOutput{Valid: false, Error: err.Error()}
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			out.ErrorKind = string(parseErr.Kind)
			out.Offset = parseErr.Offset
		}
		return nil, out, nil
	}
	return nil, ValidateOutput{Valid: true, Canonical: entry.Canonical()}, nil
}

// TestInput is the input for keyword_test
type TestInput struct {
	Pattern string `json:"pattern" jsonschema:"description=The keyword pattern to test"`
	Text    string `json:"text" jsonschema:"description=The message text to match against"`
}

// TestOutput is the output for keyword_test
type TestOutput struct {
	Matched   bool   `json:"matched"`
	Canonical string `json:"canonical,omitempty"`
	Error     string `json:"error,omitempty"`
}

func handleTest(ctx context.Context, req *mcp.CallToolRequest, input TestInput) (*mcp.CallToolResult, TestOutput, error) {
	entry, err := domain.ParseKeyword(input.Pattern)
	if err != nil {
		return nil, TestOutput{Error: err.Error()}, nil
	}
	msg := domain.NormalizeMessage(input.Text)
	return nil, TestOutput{
		Matched:   entry.Matches(msg),
		Canonical: entry.Canonical(),
	}, nil
}

// ExplainInput is the input for keyword_explain
type ExplainInput struct {
	Pattern string `json:"pattern" jsonschema:"description=The keyword pattern to explain"`
}

// ExplainOutput is the output for keyword_explain
type ExplainOutput struct {
	Required bool   `json:"required"`
	Tree     string `json:"tree,omitempty"`
	Error    string `json:"error,omitempty"`
}

func handleExplain(ctx context.Context, req *mcp.CallToolRequest, input ExplainInput) (*mcp.CallToolResult, ExplainOutput, error) {
	entry, err := domain.ParseKeyword(input.Pattern)
	if err != nil {
		return nil, ExplainOutput{Error: err.Error()}, nil
	}

	var b strings.Builder
	explainPattern(&b, entry.Pattern, 0)
	return nil, ExplainOutput{Required: entry.Required, Tree: b.String()}, nil
}

func explainPattern(b *strings.Builder, p domain.Pattern, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := p.(type) {
	case *domain.Literal:
		fmt.Fprintf(b, "%sword %q\n", indent, v.Word)
	case *domain.Wildcard:
		fmt.Fprintf(b, "%sprefix %q\n", indent, v.Prefix)
	case *domain.ExactPhrase:
		fmt.Fprintf(b, "%sphrase\n", indent)
		for _, w := range v.Words {
			if w.Wildcard {
				fmt.Fprintf(b, "%s  prefix %q\n", indent, w.Text)
			} else {
				fmt.Fprintf(b, "%s  word %q\n", indent, w.Text)
			}
		}
	case *domain.AndGroup:
		fmt.Fprintf(b, "%sall of\n", indent)
		for _, child := range v.Children {
			explainPattern(b, child, depth+1)
		}
	case *domain.OrGroup:
		fmt.Fprintf(b, "%sany of\n", indent)
		for _, child := range v.Children {
			explainPattern(b, child, depth+1)
		}
	}
}
