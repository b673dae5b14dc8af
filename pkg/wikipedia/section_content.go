package wikipedia

import (
	"context"
	"errors"
	"net/url"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

const opSectionContent = "section_content"

var (
	parseObjectPath = jp.R().C("parse")
	sectionHTMLPath = jp.R().C("parse").C("text").C("*")
)

// GetSectionContent resolves sectionTitle against the outline of topic and
// returns that section as plain text.
//
// An unknown title or an empty section yields a populated result whose
// Content explains the situation. nil is returned for blank input and for
// any upstream or decoding failure.
func (c *Client) GetSectionContent(ctx context.Context, topic, sectionTitle string) *SectionContent {
	res, err := c.LookupSectionContent(ctx, topic, sectionTitle)
	if err != nil {
		c.report(err, "topic", topic, "section", sectionTitle)
		return nil
	}
	return res
}

// LookupSectionContent is GetSectionContent with the reason for an absent result.
func (c *Client) LookupSectionContent(ctx context.Context, topic, sectionTitle string) (*SectionContent, error) {
	if isBlank(topic) || isBlank(sectionTitle) {
		return nil, newError(opSectionContent, KindInvalidInput, nil)
	}

	parsed, e := c.fetchOutline(ctx, opSectionContent, topic)
	if e != nil {
		return nil, e
	}
	if !parsed.HasSections {
		return nil, newError(opSectionContent, KindNotFound, errors.New("response has no sections"))
	}

	pos := matchSection(parsed.Sections, sectionTitle)
	if pos < 0 {
		return &SectionContent{
			SectionTitle: sectionTitle,
			Content:      notFoundMessage(parsed.Sections, sectionTitle),
		}, nil
	}

	html, e := c.fetchSectionHTML(ctx, topic, string(parsed.Sections[pos].Index))
	if e != nil {
		return nil, e
	}

	text := ToPlainText(html)
	if isBlank(text) {
		return &SectionContent{
			SectionTitle: sectionTitle,
			Content:      NoContentText,
		}, nil
	}
	return &SectionContent{
		SectionTitle: sectionTitle,
		Content:      text,
	}, nil
}

// fetchSectionHTML calls action=parse&section=N&prop=text and returns
// parse.text["*"]. A missing "*" key yields empty HTML.
func (c *Client) fetchSectionHTML(ctx context.Context, topic, index string) (string, *Error) {
	params := url.Values{}
	params.Set("page", topic)
	params.Set("section", index)
	params.Set("prop", "text")

	body, e := c.get(ctx, opSectionContent, c.actionURL(params))
	if e != nil {
		return "", e
	}

	doc, err := oj.Parse(body)
	if err != nil {
		return "", newError(opSectionContent, KindParse, err)
	}
	if _, ok := parseObjectPath.First(doc).(map[string]any); !ok {
		return "", newError(opSectionContent, KindNotFound, errors.New("response has no parse object"))
	}

	html, _ := sectionHTMLPath.First(doc).(string)
	return html, nil
}
