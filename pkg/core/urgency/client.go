// Package urgency forwards the urgency-prediction form to the external
// prediction service. No inference happens here; request and response bodies
// pass through untouched.
package urgency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	apperrors "samaajseva/pkg/common/errors"
)

const (
	schemaPath  = "/api/urgency/schema"
	predictPath = "/api/predict_urgency"
)

// Response is the upstream answer, relayed as-is.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type Client struct {
	baseURL string
	timeout time.Duration
	hc      *client.Client
}

// NewClient returns a client that reports KindUnavailable for every call when
// baseURL is empty.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc, err := client.NewClient(
		client.WithDialTimeout(timeout),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create urgency client: %w", err)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, hc: hc}, nil
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) Schema(ctx context.Context) (Response, error) {
	return c.do(ctx, consts.MethodGet, schemaPath, nil)
}

func (c *Client) Predict(ctx context.Context, body []byte) (Response, error) {
	return c.do(ctx, consts.MethodPost, predictPath, body)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (Response, error) {
	if !c.Configured() {
		return Response{}, apperrors.Unavailable("Urgency prediction service is not configured.", nil)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.baseURL + path)
	req.SetMethod(method)
	if body != nil {
		req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationJSON))
		req.SetBody(body)
	}

	if err := c.hc.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		hlog.CtxWarnf(ctx, "urgency upstream %s %s failed: %v", method, path, err)
		return Response{}, apperrors.Unavailable("Urgency prediction service is unreachable.", err)
	}

	out := Response{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}
	if out.ContentType == "" {
		out.ContentType = consts.MIMEApplicationJSON
	}
	return out, nil
}
