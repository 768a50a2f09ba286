package ops

import (
	"context"

	"github.com/hpungsan/seodraft/internal/content"
	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
)

// GetPostInput contains parameters for the GetPost operation.
type GetPostInput struct {
	ID          string // required, decimal post id
	IncludeHTML bool   // render body as HTML
}

// GetPostOutput is a stored post plus fields derived from its content.
type GetPostOutput struct {
	db.Post
	Body     string `json:"body"`
	Hashtags string `json:"hashtags"`
	BodyHTML string `json:"body_html,omitempty"`
}

// GetPost retrieves a post and splits its content into body and hashtags.
func GetPost(ctx context.Context, store *db.Store, input GetPostInput) (*GetPostOutput, error) {
	id, err := ParseID(input.ID)
	if err != nil {
		return nil, err
	}

	p, err := store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	body, hashtags := content.SplitHashtags(p.Content)
	out := &GetPostOutput{
		Post:     *p,
		Body:     body,
		Hashtags: hashtags,
	}

	if input.IncludeHTML {
		html, err := content.RenderHTML(body)
		if err != nil {
			return nil, errors.NewUnknown(err)
		}
		out.BodyHTML = html
	}

	return out, nil
}
