package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
)

// RegisterResources registers MCP resources that expose journal data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("moodsphere://entries/recent").
		Name("Recent Entries").
		Description("Journal entries from the last 7 days").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListEntriesHandler == nil {
				return nil, errJournalUnavailable
			}
			result, err := app.ListEntriesHandler.Handle(ctx, queries.ListEntriesQuery{
				UserID: app.CurrentUserID,
				Range:  "7d",
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, result)
		})

	srv.Resource("moodsphere://insights/month").
		Name("Monthly Insights").
		Description("Mood trend and top keywords for the last 30 days").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.GetInsightsHandler == nil {
				return nil, errJournalUnavailable
			}
			trends, err := app.GetInsightsHandler.Handle(ctx, queries.GetInsightsQuery{
				UserID: app.CurrentUserID,
				Range:  "30d",
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, trends)
		})

	srv.Resource("moodsphere://streak").
		Name("Streak").
		Description("Current journaling streak").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.GetStreakHandler == nil {
				return nil, errJournalUnavailable
			}
			streak, err := app.GetStreakHandler.Handle(ctx, queries.GetStreakQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, streak)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
