package wikipedia

import (
	"context"
	"encoding/json"
	"net/url"
)

const opSearch = "search"

// Search looks up the page summary whose title matches query exactly.
// It returns nil when the query is blank, the page does not exist, or the
// upstream call fails.
func (c *Client) Search(ctx context.Context, query string) *SearchResult {
	res, err := c.LookupSearch(ctx, query)
	if err != nil {
		c.report(err, "query", query)
		return nil
	}
	return res
}

// LookupSearch is Search with the reason for an absent result.
// The returned error, when non-nil, is always an *Error.
func (c *Client) LookupSearch(ctx context.Context, query string) (*SearchResult, error) {
	if isBlank(query) {
		return nil, newError(opSearch, KindInvalidInput, nil)
	}

	body, e := c.get(ctx, opSearch, c.restBaseURL+"/page/summary/"+url.PathEscape(query))
	if e != nil {
		return nil, e
	}

	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, newError(opSearch, KindParse, err)
	}

	res := &SearchResult{
		Title:   summary.Title,
		Summary: summary.Extract,
	}
	if res.Summary == "" {
		res.Summary = NoSummaryText
	}
	if summary.ContentURLs != nil && summary.ContentURLs.Desktop != nil {
		res.URL = summary.ContentURLs.Desktop.Page
	}
	return res, nil
}
