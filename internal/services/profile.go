package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SectionScorer ranks a candidate page fragment by how likely it is to
// carry professional-profile content. Swappable so markup changes on
// degraded sites only require a new scorer, not a new pipeline.
type SectionScorer interface {
	Score(text string) int
}

var profileKeywords = []string{
	"experience",
	"education",
	"skills",
	"certification",
	"projects",
	"about",
	"summary",
	"activity",
	"languages",
	"honors",
	"awards",
	"volunteer",
}

// keywordScorer counts each vocabulary keyword once per fragment and
// adds a length bonus of min(len/200, 5).
type keywordScorer struct{}

func (keywordScorer) Score(text string) int {
	lower := strings.ToLower(text)

	score := 0
	for _, kw := range profileKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}

	bonus := len(text) / 200
	if bonus > 5 {
		bonus = 5
	}

	return score + bonus
}

// blockMarkers signal a sign-in wall, CAPTCHA, or a page that refuses
// to render without JavaScript. Matching any of them means the fetch
// degrades to empty output.
var blockMarkers = []string{"signin", "login", "captcha", "enable javascript"}

type FetcherConfig struct {
	// Domain is the substring a URL must contain to be fetched at all.
	Domain            string
	Timeout           time.Duration
	UserAgent         string
	AcceptLanguage    string
	SectionTags       []string
	MaxSections       int
	MinSectionLen     int
	MaxOutputLen      int
	RequestsPerSecond float64
	Scorer            SectionScorer
}

// ProfileFetcher extracts best-effort profile text from a public page.
// Every failure path degrades to empty output so the caller can
// proceed with whatever other sources are available.
type ProfileFetcher struct {
	config  FetcherConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewProfileFetcher(config FetcherConfig, logger *zap.Logger) *ProfileFetcher {
	if config.Domain == "" {
		config.Domain = "linkedin.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	}
	if config.AcceptLanguage == "" {
		config.AcceptLanguage = "en-US,en;q=0.9"
	}
	if len(config.SectionTags) == 0 {
		config.SectionTags = []string{"section", "main", "div"}
	}
	if config.MaxSections == 0 {
		config.MaxSections = 12
	}
	if config.MinSectionLen == 0 {
		config.MinSectionLen = 200
	}
	if config.MaxOutputLen == 0 {
		config.MaxOutputLen = 30000
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}
	if config.Scorer == nil {
		config.Scorer = keywordScorer{}
	}

	return &ProfileFetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:  logger,
	}
}

// FetchProfileText fetches the page and extracts the fragments most
// likely to carry profile content. It never returns an error.
func (f *ProfileFetcher) FetchProfileText(ctx context.Context, url string) string {
	if url == "" || !strings.Contains(url, f.config.Domain) {
		return ""
	}

	body, ok := f.fetch(ctx, url)
	if !ok {
		return ""
	}

	lower := strings.ToLower(string(body))
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			f.logger.Debug("profile page blocked or requires auth", zap.String("marker", marker))
			return ""
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		f.logger.Debug("profile page parse failed", zap.Error(err))
		return ""
	}

	var extracted []string

	if title := collapseWhitespace(doc.Find("title").First().Text()); title != "" {
		extracted = append(extracted, "Title: "+title)
	}
	if desc, exists := doc.Find(`meta[property="og:description"]`).First().Attr("content"); exists {
		if desc = collapseWhitespace(desc); desc != "" {
			extracted = append(extracted, "About: "+desc)
		}
	}

	for _, text := range f.topSections(doc) {
		cleaned := cleanSectionText(text)
		if len(cleaned) > f.config.MinSectionLen {
			extracted = append(extracted, cleaned)
		}
	}

	combined := strings.Join(dedupeSections(extracted, f.config.MinSectionLen), "\n\n")
	if len(combined) > f.config.MaxOutputLen {
		cut := f.config.MaxOutputLen
		// Back up so the cap never splits a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(combined[cut]) {
			cut--
		}
		combined = combined[:cut]
	}

	return combined
}

func (f *ProfileFetcher) fetch(ctx context.Context, url string) ([]byte, bool) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept-Language", f.config.AcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("profile fetch failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("profile fetch returned non-200", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}

	return body, true
}

// topSections scores every element matching the structural tag set and
// keeps the highest-scoring MaxSections, preserving document order on
// ties.
func (f *ProfileFetcher) topSections(doc *goquery.Document) []string {
	type scoredSection struct {
		text  string
		score int
	}

	var candidates []scoredSection
	for _, tag := range f.config.SectionTags {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			text := collapseWhitespace(sel.Text())
			candidates = append(candidates, scoredSection{
				text:  text,
				score: f.config.Scorer.Score(text),
			})
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > f.config.MaxSections {
		candidates = candidates[:f.config.MaxSections]
	}

	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.text)
	}
	return texts
}

var uiArtifacts = regexp.MustCompile(`(?i)See more|Show more|See less|Show less`)

func cleanSectionText(text string) string {
	text = collapseWhitespace(text)
	text = uiArtifacts.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// dedupeSections drops fragments whose first keyLen characters match a
// fragment already seen, preserving first-seen order.
func dedupeSections(items []string, keyLen int) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		key := item
		if len(key) > keyLen {
			key = key[:keyLen]
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}

	return result
}
