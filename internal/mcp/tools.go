package mcp

import "github.com/mark3labs/mcp-go/mcp"

var generateToolDef = mcp.NewTool("post_generate",
	mcp.WithDescription("Draft an SEO blog post for a keyword, score it, and save it as a draft when the score is at least 80. Low-scoring drafts are discarded and reported with status \"discarded\"."),
	mcp.WithString("keyword",
		mcp.Required(),
		mcp.Description("Target search keyword"),
	),
)

var draftsToolDef = mcp.NewTool("post_drafts",
	mcp.WithDescription("List saved draft posts, newest first."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows (default 20, max 50)"),
	),
)

var fetchToolDef = mcp.NewTool("post_fetch",
	mcp.WithDescription("Fetch one post by id with its body and hashtags split apart."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Post id"),
	),
	mcp.WithBoolean("include_html",
		mcp.Description("Also render the body as HTML"),
	),
)

var enqueueToolDef = mcp.NewTool("queue_enqueue",
	mcp.WithDescription("Schedule a keyword for publishing. Only records the request."),
	mcp.WithString("keyword",
		mcp.Required(),
		mcp.Description("Keyword to publish"),
	),
	mcp.WithString("platform",
		mcp.Description("Target platform (default naver)"),
		mcp.Enum("naver", "tistory"),
	),
	mcp.WithString("scheduled_at",
		mcp.Required(),
		mcp.Description("Publish time as YYYY-MM-DD HH:MM:SS"),
	),
)

var queueListToolDef = mcp.NewTool("queue_list",
	mcp.WithDescription("List scheduled publish requests in schedule order."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("status",
		mcp.Description("Status filter (default queued, \"all\" for every status)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows (default 50, max 200)"),
	),
)

var healthToolDef = mcp.NewTool("health_check",
	mcp.WithDescription("Check that the post store answers."),
	mcp.WithReadOnlyHintAnnotation(true),
)
