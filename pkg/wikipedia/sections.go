package wikipedia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

const opSections = "sections"

// outlineEntry is one row of action=parse&prop=sections.
type outlineEntry struct {
	TocLevel int          `json:"toclevel"`
	Line     string       `json:"line"`
	Index    sectionIndex `json:"index"`
}

// sectionIndex is the opaque section id from the outline. MediaWiki sends
// it as a string ("1", "T-3") but numbers are accepted too.
type sectionIndex string

func (s *sectionIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = sectionIndex(str)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	*s = sectionIndex(data)
	return nil
}

// indentLine pads a heading by two spaces per level below the top.
func indentLine(e outlineEntry) string {
	depth := e.TocLevel - 1
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat(" ", depth*2) + e.Line
}

// GetSections returns the section outline of topic, or nil when the page
// cannot be parsed or the upstream call fails.
func (c *Client) GetSections(ctx context.Context, topic string) *SectionOutline {
	res, err := c.LookupSections(ctx, topic)
	if err != nil {
		c.report(err, "topic", topic)
		return nil
	}
	return res
}

// LookupSections is GetSections with the reason for an absent result.
func (c *Client) LookupSections(ctx context.Context, topic string) (*SectionOutline, error) {
	if isBlank(topic) {
		return nil, newError(opSections, KindInvalidInput, nil)
	}

	parsed, e := c.fetchOutline(ctx, opSections, topic)
	if e != nil {
		return nil, e
	}

	lines := make([]string, 0, len(parsed.Sections))
	for _, entry := range parsed.Sections {
		if entry.Line == "" {
			continue
		}
		lines = append(lines, indentLine(entry))
	}
	if len(lines) == 0 {
		lines = append(lines, NoSectionsText)
	}

	title := parsed.Title
	if title == "" {
		title = topic
	}

	return &SectionOutline{
		Title:    title,
		Sections: lines,
		URL:      c.pageURL(topic),
	}, nil
}

// outline is the decoded parse object of a sections response.
type outline struct {
	Title    string
	Sections []outlineEntry
	// HasSections is false when the parse object carried no sections key.
	HasSections bool
}

// fetchOutline calls action=parse&prop=sections for topic.
// A response without a parse object is reported as KindNotFound.
func (c *Client) fetchOutline(ctx context.Context, op, topic string) (*outline, *Error) {
	params := url.Values{}
	params.Set("page", topic)
	params.Set("prop", "sections")

	body, e := c.get(ctx, op, c.actionURL(params))
	if e != nil {
		return nil, e
	}

	var resp sectionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newError(op, KindParse, err)
	}
	if resp.Parse == nil {
		return nil, newError(op, KindNotFound, errors.New("response has no parse object"))
	}

	return &outline{
		Title:       resp.Parse.Title,
		Sections:    resp.Parse.Sections,
		HasSections: resp.Parse.Sections != nil,
	}, nil
}
