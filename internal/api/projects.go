package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListProjects fetches one page of the user's projects.
func (c *Client) ListProjects(ctx context.Context, page, perPage int) (ProjectList, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		values.Set("per_page", strconv.Itoa(perPage))
	}
	rel := &url.URL{Path: "/api/projects", RawQuery: values.Encode()}
	var out ProjectList
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &out); err != nil {
		return ProjectList{}, err
	}
	return out, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, in ProjectCreate) (Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Project{}, fmt.Errorf("project name required")
	}
	var out Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", in, &out); err != nil {
		return Project{}, err
	}
	return out, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectUpdate) (Project, error) {
	if id == "" {
		return Project{}, fmt.Errorf("project id required")
	}
	var out Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+escape(id), in, &out); err != nil {
		return Project{}, err
	}
	return out, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("project id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/projects/"+escape(id), nil, nil)
}
