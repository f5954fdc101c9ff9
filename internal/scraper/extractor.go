package scraper

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"substackscraper/logger"
)

const (
	// articlePathMarker identifies archive anchors that point at articles
	articlePathMarker = "/p/"
	// discussionSuffix identifies the comment page of an article
	discussionSuffix = "/comments"
	// minTitleLength is the shortest anchor text accepted as a title
	minTitleLength = 5
)

// Parser extracts article records from rendered archive markup
type Parser struct {
	log *logger.Logger
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{log: logger.ForParser()}
}

// ParseArticles extracts a deduplicated list of articles in first-seen order.
// Malformed fragments yield fewer candidates, never an error; the only error
// path is a failing reader.
func (p *Parser) ParseArticles(markup io.Reader, baseURL string) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var articles []Article

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, articlePathMarker) || strings.HasSuffix(href, discussionSuffix) {
			return
		}

		fullURL := resolveArticleURL(baseURL, href)
		if _, dup := seen[fullURL]; dup {
			return
		}
		seen[fullURL] = struct{}{}

		articles = append(articles, Article{
			URL:   fullURL,
			Date:  extractDate(s),
			Title: extractTitle(s),
		})
	})

	p.log.Info().Int("count", len(articles)).Msg("extracted unique articles")
	return articles, nil
}

// resolveArticleURL resolves an anchor target against the base URL. Absolute
// targets pass through; relative ones are appended to the base with its
// trailing slashes stripped. The concatenation deliberately mirrors the
// archive's own link shape and does not guard against double slashes.
func resolveArticleURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimRight(baseURL, "/") + href
}

// extractDate finds the nearest preceding <time> element in document order,
// falling back to the nearest following one. A parseable long-form date is
// normalized to DD.MM.YYYY; unparseable text is kept verbatim; no <time>
// element at all yields the unknown-date sentinel.
func extractDate(s *goquery.Selection) string {
	anchor := s.Get(0)

	timeNode := findTimeElement(anchor, precedingNode)
	if timeNode == nil {
		timeNode = findTimeElement(anchor, followingNode)
	}
	if timeNode == nil {
		return UnknownDate
	}

	text := strings.TrimSpace(nodeText(timeNode))
	if t, err := time.Parse(longDateLayout, text); err == nil {
		return t.Format(storedDateLayout)
	}
	return text
}

// extractTitle uses the anchor's visible text when long enough, then the
// title attribute. An empty result means no usable title.
func extractTitle(s *goquery.Selection) string {
	text := strings.TrimSpace(s.Text())
	if utf8.RuneCountInString(text) > minTitleLength {
		return text
	}
	if attr, ok := s.Attr("title"); ok && attr != "" {
		return attr
	}
	return ""
}

// findTimeElement walks the document in one direction from n and returns the
// first <time> element, or nil when the walk runs off the document.
func findTimeElement(n *html.Node, step func(*html.Node) *html.Node) *html.Node {
	for cur := step(n); cur != nil; cur = step(cur) {
		if cur.Type == html.ElementNode && cur.Data == "time" {
			return cur
		}
	}
	return nil
}

// precedingNode returns the node immediately before n in document order:
// the deepest last descendant of the previous sibling, else the parent.
func precedingNode(n *html.Node) *html.Node {
	if n.PrevSibling != nil {
		n = n.PrevSibling
		for n.LastChild != nil {
			n = n.LastChild
		}
		return n
	}
	return n.Parent
}

// followingNode returns the node immediately after n in document order:
// the first child, else the next sibling of the closest ancestor that has one.
func followingNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// nodeText concatenates all text content beneath n
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return sb.String()
}
