package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
)

type entrySaveInput struct {
	Text     string `json:"text" jsonschema:"required"`
	Mood     string `json:"mood,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

type entryRangeInput struct {
	Range string `json:"range,omitempty"`
}

type entryIDInput struct {
	EntryID string `json:"entry_id" jsonschema:"required"`
}

var errJournalUnavailable = errors.New("journal tools require an entry store")

// journalTools implements the journal.* tools over the CLI app.
type journalTools struct {
	app *cli.App
}

func registerJournalTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := journalTools{app: deps.App}

	srv.Tool("journal.save").
		Description("Analyze and save a journal entry. Mood is optional (happy, calm, neutral, sad, angry); datetime is ISO-8601 and defaults to now.").
		Handler(tools.save)

	srv.Tool("journal.list").
		Description("List journal entries, newest first. Range is 7d, 30d (default), 90d, all, or search:<term>.").
		Handler(tools.list)

	srv.Tool("journal.delete").
		Description("Delete a journal entry by id").
		Handler(tools.delete)

	srv.Tool("journal.insights").
		Description("Mood score trend and top keywords over a range").
		Handler(tools.insights)

	srv.Tool("journal.streak").
		Description("Current journaling streak in days").
		Handler(tools.streak)

	srv.Tool("journal.prompt").
		Description("Get a journaling prompt").
		Handler(tools.prompt)

	return nil
}

func (t journalTools) save(ctx context.Context, input entrySaveInput) (*commands.SaveEntryResult, error) {
	if t.app == nil || t.app.SaveEntryHandler == nil {
		return nil, errJournalUnavailable
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("text is required")
	}

	return t.app.SaveEntryHandler.Handle(ctx, commands.SaveEntryCommand{
		UserID:   t.app.CurrentUserID,
		Text:     input.Text,
		Mood:     input.Mood,
		Prompt:   input.Prompt,
		Datetime: input.Datetime,
	})
}

func (t journalTools) list(ctx context.Context, input entryRangeInput) (*queries.ListEntriesResult, error) {
	if t.app == nil || t.app.ListEntriesHandler == nil {
		return nil, errJournalUnavailable
	}
	return t.app.ListEntriesHandler.Handle(ctx, queries.ListEntriesQuery{
		UserID: t.app.CurrentUserID,
		Range:  input.Range,
	})
}

func (t journalTools) delete(ctx context.Context, input entryIDInput) (map[string]any, error) {
	if t.app == nil || t.app.DeleteEntryHandler == nil {
		return nil, errJournalUnavailable
	}
	if input.EntryID == "" {
		return nil, errors.New("entry_id is required")
	}

	if err := t.app.DeleteEntryHandler.Handle(ctx, commands.DeleteEntryCommand{
		EntryID: input.EntryID,
		UserID:  t.app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"entry_id": input.EntryID, "deleted": true}, nil
}

func (t journalTools) insights(ctx context.Context, input entryRangeInput) (*services.Trends, error) {
	if t.app == nil || t.app.GetInsightsHandler == nil {
		return nil, errJournalUnavailable
	}
	return t.app.GetInsightsHandler.Handle(ctx, queries.GetInsightsQuery{
		UserID: t.app.CurrentUserID,
		Range:  input.Range,
	})
}

func (t journalTools) streak(ctx context.Context, _ struct{}) (*queries.GetStreakResult, error) {
	if t.app == nil || t.app.GetStreakHandler == nil {
		return nil, errJournalUnavailable
	}
	return t.app.GetStreakHandler.Handle(ctx, queries.GetStreakQuery{UserID: t.app.CurrentUserID})
}

func (t journalTools) prompt(_ context.Context, _ struct{}) (map[string]string, error) {
	if t.app == nil || t.app.TextAnalyzer == nil {
		return nil, errors.New("prompts require the text analyzer")
	}
	return map[string]string{"prompt": t.app.TextAnalyzer.Prompt()}, nil
}
