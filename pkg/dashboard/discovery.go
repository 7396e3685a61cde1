package dashboard

import (
	"context"
	"net/http"
)

// Discovery document paths. The llms.txt and SKILL.md documents are also
// mirrored under /api/v1 with identical content.
const (
	LLMsTxtPath     = "/llms.txt"
	OpenAPIPath     = "/openapi.json"
	SkillsIndexPath = "/.well-known/skills/index.json"
	SkillMDPath     = "/.well-known/skills/private-dashboard/SKILL.md"
)

// LLMsTxt fetches the plain-text API summary.
func (c *Client) LLMsTxt(ctx context.Context) (string, error) {
	return c.transport.Text(ctx, LLMsTxtPath)
}

// OpenAPI fetches the OpenAPI 3.x document.
func (c *Client) OpenAPI(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.transport.JSON(ctx, http.MethodGet, OpenAPIPath, nil, nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SkillsIndex fetches the skills discovery index.
func (c *Client) SkillsIndex(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.transport.JSON(ctx, http.MethodGet, SkillsIndexPath, nil, nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SkillMD fetches the integration skill document.
func (c *Client) SkillMD(ctx context.Context) (string, error) {
	return c.transport.Text(ctx, SkillMDPath)
}
