package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ListAgents fetches system agents plus the user's own.
func (c *Client) ListAgents(ctx context.Context) (AgentList, error) {
	var out AgentList
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		return AgentList{}, err
	}
	return out, nil
}

// CreateAgent creates a user agent.
func (c *Client) CreateAgent(ctx context.Context, in AgentCreate) (Agent, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return Agent{}, fmt.Errorf("agent name and slug required")
	}
	var out Agent
	if err := c.do(ctx, http.MethodPost, "/api/agents", in, &out); err != nil {
		return Agent{}, err
	}
	return out, nil
}

// UpdateAgent applies a partial update to a user agent.
func (c *Client) UpdateAgent(ctx context.Context, id string, in AgentUpdate) (Agent, error) {
	if id == "" {
		return Agent{}, fmt.Errorf("agent id required")
	}
	var out Agent
	if err := c.do(ctx, http.MethodPut, "/api/agents/"+escape(id), in, &out); err != nil {
		return Agent{}, err
	}
	return out, nil
}

// DeleteAgent removes a user agent.
func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("agent id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/agents/"+escape(id), nil, nil)
}

// AgentTools lists the tools available to an agent.
func (c *Client) AgentTools(ctx context.Context, slug string) ([]ToolInfo, error) {
	if slug == "" {
		return nil, fmt.Errorf("agent slug required")
	}
	var out AgentTools
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+escape(slug)+"/tools", nil, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}
