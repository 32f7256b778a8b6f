package bgg

import (
	"encoding/xml"
	"iter"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/dboots/bg-broadcast/internal/domain"
)

// parseDocument builds a goquery document from BGG XML. The HTML5 parser
// would rewrite XML-only tags such as <image>, so the tree is assembled from
// encoding/xml tokens instead. Reading stops at the first syntax error and
// whatever was read up to that point is kept.
func parseDocument(src string) *goquery.Document {
	root := &html.Node{Type: html.DocumentNode}

	dec := xml.NewDecoder(strings.NewReader(src))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	cur := root
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &html.Node{Type: html.ElementNode, Data: t.Name.Local}
			for _, attr := range t.Attr {
				node.Attr = append(node.Attr, html.Attribute{Key: attr.Name.Local, Val: attr.Value})
			}
			cur.AppendChild(node)
			cur = node
		case xml.EndElement:
			if cur.Parent != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}

	return goquery.NewDocumentFromNode(root)
}

// ParseSearchResults returns the search hits in document order. The XML is
// parsed on first iteration; the sequence can be ranged over any number of
// times.
func ParseSearchResults(src string) iter.Seq[domain.GameRecord] {
	doc := sync.OnceValue(func() *goquery.Document {
		return parseDocument(src)
	})

	return func(yield func(domain.GameRecord) bool) {
		games := doc().Find("boardgame")
		for i := range games.Nodes {
			game := games.Eq(i)
			record := domain.GameRecord{
				ID:            game.AttrOr("objectid", ""),
				Name:          primaryName(game),
				YearPublished: firstText(game, "yearpublished"),
			}
			if !yield(record) {
				return
			}
		}
	}
}

// ParseGameDetails normalizes the first boardgame element of a details
// response. It returns nil when the document holds no boardgame at all.
func ParseGameDetails(src string) *domain.GameDetails {
	game := parseDocument(src).Find("boardgame").First()
	if game.Length() == 0 {
		return nil
	}

	return &domain.GameDetails{
		ID:            game.AttrOr("objectid", ""),
		Name:          primaryName(game),
		YearPublished: firstText(game, "yearpublished"),
		Description:   StripTags(firstText(game, "description")),
		Image:         firstText(game, "image"),
		Thumbnail:     firstText(game, "thumbnail"),
		MinPlayers:    firstText(game, "minplayers"),
		MaxPlayers:    firstText(game, "maxplayers"),
		PlayingTime:   firstText(game, "playingtime"),
		MinAge:        firstText(game, "age"),
		Designers:     allTexts(game, "boardgamedesigner"),
		Categories:    allTexts(game, "boardgamecategory"),
		Mechanics:     allTexts(game, "boardgamemechanic"),
		Publishers:    allTexts(game, "boardgamepublisher"),
	}
}

// primaryName picks the name flagged primary="true", else the first name.
func primaryName(game *goquery.Selection) string {
	names := game.Find("name")
	if names.Length() == 0 {
		return ""
	}

	primary := names.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("primary", "") == "true"
	})
	if primary.Length() > 0 {
		return primary.First().Text()
	}
	return names.First().Text()
}

func firstText(game *goquery.Selection, tag string) string {
	match := game.Find(tag)
	if match.Length() == 0 {
		return ""
	}
	return match.First().Text()
}

func allTexts(game *goquery.Selection, tag string) []string {
	texts := []string{}
	game.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}
