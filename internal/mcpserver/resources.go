package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
)

const (
	entriesURIPrefix = "symptom://entries/"
	schemaURI        = "symptom://schema"
)

func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: entriesURIPrefix + "{limit}",
		Name:        "list_symptom_entries",
		Description: "Most recent symptom entries, timestamp descending.",
		MIMEType:    "application/json",
	}, s.readEntries)

	s.mcp.AddResource(&mcp.Resource{
		URI:         schemaURI,
		Name:        "symptom_schema",
		Description: "JSON schema of a stored symptom entry document.",
		MIMEType:    "application/json",
	}, s.readSchema)
}

func (s *Server) readEntries(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	raw := strings.TrimPrefix(req.Params.URI, entriesURIPrefix)
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return nil, fmt.Errorf("invalid entries limit %q", raw)
	}

	items, err := s.tracker.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := make([]storedEntry, 0, len(items))
	for _, item := range items {
		results = append(results, storedEntry{EventID: item.ID, Entry: item.Entry})
	}
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, errs.Wrap(err, "encode entries resource")
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		}},
	}, nil
}

func (s *Server) readSchema(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	schema := reflector.Reflect(&symptom.Entry{})

	payload, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errs.Wrap(err, "encode schema resource")
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		}},
	}, nil
}
