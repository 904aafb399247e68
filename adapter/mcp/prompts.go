package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common journaling workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("journal_reflection").
		Description("Guided end-of-day reflection that ends with a saved journal entry.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			prompt := "What stood out to you today?"
			if deps.App != nil && deps.App.TextAnalyzer != nil {
				prompt = deps.App.TextAnalyzer.Prompt()
			}
			return &mcp.PromptResult{
				Description: "Daily Reflection",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me reflect on my day. Start with this prompt:

"%s"

Ask me one follow-up question at a time. When I am done:
1. Summarize what I wrote in my own words
2. Save it with the journal.save tool, passing the prompt above
3. Tell me my current streak and the suggestion from the saved entry`, prompt),
						},
					},
				},
			}, nil
		})

	srv.Prompt("weekly_mood_review").
		Description("Review the last week of entries, mood trend and recurring themes.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly Mood Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Let's review my week. Please:

1. Read my recent entries using the moodsphere://entries/recent resource
2. Get my mood trend with the journal.insights tool and range 7d
3. Check my streak using the moodsphere://streak resource

Then tell me:
- How my mood moved over the week and on which days it dipped
- Which keywords keep coming back and what they might point to
- One small thing to try next week

Keep it warm and brief.`,
						},
					},
				},
			}, nil
		})

	return nil
}
