package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Markers delimiting the caption JSON inside the watch page.
const (
	captionsStart = `"captions":`
	captionsEnd   = `,"videoDetails`
)

// ErrParse is wrapped by errors in watch page or caption parsing.
var ErrParse = errors.New("youtube: parse")

// Segment is one caption line.
type Segment struct {
	Text     string        `json:"text"`
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Transcript is the caption track of a video in display order.
type Transcript []Segment

// Text joins the segments with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t))
	for _, s := range t {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionsBlock struct {
	CaptionTracks []captionTrack `json:"captionTracks"`
	Renderer      struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// Transcript fetches the caption track of videoID in the configured
// language. A video without a matching track yields an empty transcript.
func (c *Client) Transcript(ctx context.Context, videoID string) (Transcript, error) {
	page, status, err := c.get(ctx, c.watchBase+"/watch?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Message: "watch page"}
	}
	tracks, err := captionTracks(string(page))
	if err != nil {
		return nil, err
	}
	track, ok := pickTrack(tracks, c.lang)
	if !ok {
		c.log.Debug().Str("video", videoID).Str("lang", c.lang).Int("tracks", len(tracks)).Msg("no caption track")
		return Transcript{}, nil
	}
	u, err := c.resolve(track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: caption url: %v", ErrParse, err)
	}
	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Message: "caption track"}
	}
	return parseTimedText(body)
}

func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.watchBase + "/")
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(r).String(), nil
}

// captionTracks extracts the advertised caption tracks from a watch page.
// The player response lives in one of the page's inline scripts; a page
// without a captions block has no tracks.
func captionTracks(page string) ([]captionTrack, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: watch page: %v", ErrParse, err)
	}
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := s.Text(); strings.Contains(t, captionsStart) {
			script = t
			return false
		}
		return true
	})
	if script == "" {
		return nil, nil
	}
	_, rest, _ := strings.Cut(script, captionsStart)
	raw, _, ok := strings.Cut(rest, captionsEnd)
	if !ok {
		return nil, fmt.Errorf("%w: unterminated captions block", ErrParse)
	}
	var blk captionsBlock
	if err := json.Unmarshal([]byte(raw), &blk); err != nil {
		return nil, fmt.Errorf("%w: captions json: %v", ErrParse, err)
	}
	if len(blk.CaptionTracks) > 0 {
		return blk.CaptionTracks, nil
	}
	return blk.Renderer.CaptionTracks, nil
}

func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	for _, t := range tracks {
		if t.BaseURL == "" {
			continue
		}
		if lang == "" || strings.EqualFold(t.LanguageCode, lang) {
			return t, true
		}
	}
	return captionTrack{}, false
}

type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText decodes a caption track body: <text start="s" dur="s">
// elements under a transcript root. Entities escaped twice by YouTube are
// unescaped again.
func parseTimedText(b []byte) (Transcript, error) {
	var tt timedText
	if err := xml.Unmarshal(b, &tt); err != nil {
		return nil, fmt.Errorf("%w: caption xml: %v", ErrParse, err)
	}
	out := make(Transcript, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		start, err := seconds(t.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: start %q", ErrParse, t.Start)
		}
		dur, err := seconds(t.Dur)
		if err != nil {
			return nil, fmt.Errorf("%w: dur %q", ErrParse, t.Dur)
		}
		text := strings.Join(strings.Fields(html.UnescapeString(t.Body)), " ")
		out = append(out, Segment{Text: text, Start: start, Duration: dur})
	}
	return out, nil
}

func seconds(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, errors.New("bad seconds")
	}
	return time.Duration(f * float64(time.Second)), nil
}

// plainText strips markup from Data API display strings.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(s)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	return strings.TrimSpace(doc.Text())
}
