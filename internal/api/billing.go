package api

import (
	"context"
	"fmt"
	"net/http"
)

// Plans lists the available billing plans.
func (c *Client) Plans(ctx context.Context) ([]BillingPlan, error) {
	var plans []BillingPlan
	if err := c.do(ctx, http.MethodGet, "/api/billing/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateCheckout opens a hosted checkout session for the given plan.
func (c *Client) CreateCheckout(ctx context.Context, in CheckoutRequest) (CheckoutResponse, error) {
	switch in.BillingInterval {
	case "":
		in.BillingInterval = IntervalMonthly
	case IntervalMonthly, IntervalYearly:
	default:
		return CheckoutResponse{}, fmt.Errorf("unknown billing interval %q", in.BillingInterval)
	}
	if in.PlanID == "" {
		return CheckoutResponse{}, fmt.Errorf("plan id required")
	}
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/billing/checkout", in, &out); err != nil {
		return CheckoutResponse{}, err
	}
	return out, nil
}

// CreatePortalSession opens a hosted customer portal session.
func (c *Client) CreatePortalSession(ctx context.Context, returnURL string) (PortalResponse, error) {
	body := struct {
		ReturnURL string `json:"return_url,omitempty"`
	}{ReturnURL: returnURL}
	var out PortalResponse
	if err := c.do(ctx, http.MethodPost, "/api/billing/portal", body, &out); err != nil {
		return PortalResponse{}, err
	}
	return out, nil
}
