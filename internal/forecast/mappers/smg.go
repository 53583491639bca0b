package mappers

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// SMG maps the Macao SMG seven-day forecast feed. The feed has shipped
// in several shapes over time, so parsing is an ordered strategy chain,
// first success wins:
//
//  1. XML day blocks with typed temperature fields
//  2. structured RSS/Atom parse
//  3. regex extraction of item blocks
//  4. plain-text line scan
type SMG struct{}

func (SMG) Provider() string { return "smg" }

func (SMG) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	text, ok := raw.Text()
	if !ok || strings.TrimSpace(text) == "" {
		return nil, errNoData
	}

	strategies := []func(string) []forecast.DailyRecord{
		smgDayBlocks,
		smgFeed,
		smgItemRegex,
		smgPlainText,
	}
	for _, strategy := range strategies {
		if recs := strategy(text); len(recs) > 0 {
			return capDays(recs), nil
		}
	}
	return nil, nil
}

type smgDay struct {
	Date         string `xml:"date"`
	Forecast     string `xml:"forecast"`
	MinTemp      string `xml:"minTemp"`
	MaxTemp      string `xml:"maxTemp"`
	Temperatures []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:",chardata"`
	} `xml:"temperature"`
}

// smgDayBlocks walks the document for <day> blocks at any depth.
// Temperatures appear either as minTemp/maxTemp elements or as typed
// <temperature> fields (type 1 = daily maximum, type 2 = daily minimum).
func smgDayBlocks(text string) []forecast.DailyRecord {
	dec := xml.NewDecoder(strings.NewReader(text))
	var out []forecast.DailyRecord
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "day" {
			continue
		}
		var day smgDay
		if err := dec.DecodeElement(&day, &se); err != nil {
			continue
		}
		tmin, tmax := day.MinTemp, day.MaxTemp
		for _, t := range day.Temperatures {
			switch strings.ToLower(strings.TrimSpace(t.Type)) {
			case "1", "max":
				if tmax == "" {
					tmax = strings.TrimSpace(t.Value)
				}
			case "2", "min":
				if tmin == "" {
					tmin = strings.TrimSpace(t.Value)
				}
			}
		}
		if rec, ok := forecast.NewDailyRecord(day.Date, day.Forecast, tmin, tmax, "smg"); ok {
			out = append(out, rec)
		}
	}
	return dedupeByDate(out)
}

// smgFeed parses the payload as an RSS/Atom feed, one record per entry.
func smgFeed(text string) []forecast.DailyRecord {
	feed, err := gofeed.NewParser().ParseString(text)
	if err != nil || feed == nil {
		return nil
	}
	var out []forecast.DailyRecord
	for _, item := range feed.Items {
		date := item.Published
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.Format("2006-01-02")
		} else if item.UpdatedParsed != nil {
			date = item.UpdatedParsed.Format("2006-01-02")
		}
		desc := item.Title
		if item.Description != "" {
			if desc != "" {
				desc += " "
			}
			desc += item.Description
		}
		if rec, ok := forecast.NewDailyRecord(date, desc, nil, nil, "smg"); ok {
			out = append(out, rec)
		}
		if len(out) >= forecast.MaxLookahead {
			break
		}
	}
	return out
}

var (
	itemBlockRe = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	titleRe     = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	descRe      = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	pubDateRe   = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
	cdataRe     = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	dateLikeRe  = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}|\b\d{8}\b`)
)

func stripMarkup(s string) string {
	if m := cdataRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return tagRe.ReplaceAllString(s, " ")
}

// smgItemRegex extracts item/title/description/pubDate blocks when the
// payload is feed-shaped but not parseable as a feed.
func smgItemRegex(text string) []forecast.DailyRecord {
	var out []forecast.DailyRecord
	for _, m := range itemBlockRe.FindAllStringSubmatch(text, forecast.MaxLookahead) {
		block := m[1]
		date := ""
		if pm := pubDateRe.FindStringSubmatch(block); pm != nil {
			date = strings.TrimSpace(stripMarkup(pm[1]))
		}
		desc := ""
		if tm := titleRe.FindStringSubmatch(block); tm != nil {
			desc = strings.TrimSpace(stripMarkup(tm[1]))
		}
		if dm := descRe.FindStringSubmatch(block); dm != nil {
			body := strings.TrimSpace(stripMarkup(dm[1]))
			if desc != "" && body != "" {
				desc += " "
			}
			desc += body
		}
		if rec, ok := forecast.NewDailyRecord(date, desc, nil, nil, "smg"); ok {
			out = append(out, rec)
		}
	}
	return out
}

// smgPlainText scans lines for date-like substrings, taking the next
// non-blank line as that day's description.
func smgPlainText(text string) []forecast.DailyRecord {
	lines := strings.Split(text, "\n")
	var out []forecast.DailyRecord
	for i := 0; i < len(lines) && len(out) < forecast.MaxLookahead; i++ {
		date := dateLikeRe.FindString(lines[i])
		if date == "" {
			continue
		}
		desc := ""
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) != "" {
				desc = lines[j]
				i = j
				break
			}
		}
		if rec, ok := forecast.NewDailyRecord(date, desc, nil, nil, "smg"); ok {
			out = append(out, rec)
		}
	}
	return dedupeByDate(out)
}
