// Package photo finds, scores, and tracks executive photo candidates.
package photo

import (
	"strings"

	"github.com/yuhsinlo/execprofile/internal/search"
)

// companyPageHints mark corporate "about us" style pages, a strong sign
// the photo is an official headshot.
var companyPageHints = []string{
	"company", "corporate", "about", "team", "leadership", "management",
}

// newsAllowList holds outlets whose article photos are usually usable.
var newsAllowList = []string{
	"reuters", "bloomberg", "forbes", "businessweek",
	"cna.com", "udn.com", "ltn.com", "chinatimes",
	"ettoday", "setn.com", "bnext", "technews",
}

// urlBlockList marks image URLs that are never an executive photo.
var urlBlockList = []string{
	"logo", "icon", "banner", "placeholder", "avatar", "default",
	"stock", "shutterstock", "istockphoto", "gettyimages", "dreamstime",
	"thumbnail", "sprite", "emoji", "badge", "button",
}

// Score rates one image candidate for the named person. Deterministic,
// no I/O. Higher is better; heavily negative means certain junk.
func Score(c search.ImageResult, name, company string) int {
	score := 0

	imageURL := strings.ToLower(c.ImageURL)
	sourceURL := strings.ToLower(c.SourceURL)
	title := strings.ToLower(c.Title)

	// source rules are independent and stack: a LinkedIn company page
	// earns both the LinkedIn and the company-page bonus
	if strings.Contains(sourceURL, "linkedin.com") || strings.Contains(imageURL, "linkedin") {
		score += 50
	}
	for _, hint := range companyPageHints {
		if strings.Contains(sourceURL, hint) {
			score += 40
			break
		}
	}
	for _, outlet := range newsAllowList {
		if strings.Contains(sourceURL, outlet) {
			score += 20
			break
		}
	}

	if c.Width >= 150 && c.Height >= 150 {
		score += 15
	}
	if c.Height > 0 {
		aspect := float64(c.Width) / float64(c.Height)
		if aspect >= 0.6 && aspect <= 1.2 {
			score += 10
		} else if aspect > 2.0 {
			score -= 20
		}
	}

	// a name token in the image URL beats one in the title; every token
	// gets a shot at the URL before the title is consulted at all
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(name)) {
		if len([]rune(token)) > 1 {
			tokens = append(tokens, token)
		}
	}
	nameBonus := 0
	for _, token := range tokens {
		if strings.Contains(imageURL, token) {
			nameBonus = 10
			break
		}
	}
	if nameBonus == 0 {
		for _, token := range tokens {
			if strings.Contains(title, token) {
				nameBonus = 5
				break
			}
		}
	}
	score += nameBonus

	for _, bad := range urlBlockList {
		if strings.Contains(imageURL, bad) {
			score -= 100
			break
		}
	}
	if strings.Contains(imageURL, "default") &&
		(strings.Contains(imageURL, "profile") || strings.Contains(imageURL, "avatar")) {
		score -= 100
	}

	return score
}
