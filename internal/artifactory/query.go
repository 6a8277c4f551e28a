package artifactory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// QueryEntry is one item of an AQL result.
type QueryEntry struct {
	Repo       string `json:"repo"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	Created    string `json:"created"`
	CreatedBy  string `json:"created_by"`
	Modified   string `json:"modified"`
	ModifiedBy string `json:"modified_by"`
	Updated    string `json:"updated"`
}

// QueryRange is the paging block of an AQL result.
type QueryRange struct {
	StartPos int64 `json:"start_pos"`
	EndPos   int64 `json:"end_pos"`
	Total    int64 `json:"total"`
}

// QueryResponse is the body returned by the AQL endpoint.
type QueryResponse struct {
	Results []QueryEntry `json:"results"`
	Range   *QueryRange  `json:"range,omitempty"`
}

// Names returns the result names in server order.
func (r *QueryResponse) Names() []string {
	names := make([]string, 0, len(r.Results))
	for _, e := range r.Results {
		names = append(names, e.Name)
	}
	return names
}

// Query POSTs an AQL query verbatim and decodes the response.
func (c *Client) Query(ctx context.Context, aql string) (*QueryResponse, error) {
	endpoint := c.locator.QueryEndpoint()
	c.log.WithField("query", aql).Debugf("querying %s", endpoint)

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, strings.NewReader(aql))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if IsFailure(resp.StatusCode) {
		return nil, &QueryFailedError{Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: endpoint, Err: fmt.Errorf("reading response body: %w", err)}
	}
	var out QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &QueryFailedError{Status: resp.StatusCode, Body: fmt.Sprintf("parsing query JSON: %v", err)}
	}
	return &out, nil
}

// FindLatest runs the latest-artifact query for name and returns names
// newest first, exactly as the store ordered them. An empty arch matches
// every artifact of the name.
func (c *Client) FindLatest(ctx context.Context, name, arch, dist string) ([]string, error) {
	resp, err := c.Query(ctx, c.locator.LatestQuery(name, arch, dist))
	if err != nil {
		return nil, err
	}
	return resp.Names(), nil
}
