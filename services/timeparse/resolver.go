// Package timeparse turns spoken date/time phrases into concrete instants.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	minYear = 1900
	maxYear = 9999
	// minMatchLen rejects stray one-character matches inside otherwise unparsed text.
	minMatchLen = 2
)

// Resolver resolves free text against a reference clock. It holds no mutable
// state after construction and is safe for concurrent use.
type Resolver struct {
	parser *when.Parser
	loc    *time.Location
	now    func() time.Time
}

// NewResolver builds a resolver interpreting zone-less text in loc. A nil now uses time.Now.
func NewResolver(loc *time.Location, now func() time.Time) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Resolver{parser: w, loc: loc, now: now}
}

// Location is the zone used for zone-less input.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve returns the instant described by text, or false when the text does
// not describe a valid calendar instant.
func (r *Resolver) Resolve(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	// Explicit timestamps ("2024-03-20 14:00", RFC 3339, US slash dates).
	if t, err := dateparse.ParseIn(text, r.loc); err == nil && valid(t) {
		return t, true
	}
	// A numeric date dateparse refused is out of range; never let a phrase
	// rule pick a fragment of it.
	if numericDate.MatchString(text) {
		return time.Time{}, false
	}

	res, err := r.parser.Parse(text, r.now().In(r.loc))
	if err != nil || res == nil {
		return time.Time{}, false
	}
	if len(strings.TrimSpace(res.Text)) < minMatchLen || !valid(res.Time) {
		return time.Time{}, false
	}
	if !onlyFiller(text[:res.Index] + " " + text[res.Index+len(res.Text):]) {
		return time.Time{}, false
	}
	if !calendarDayMatches(res.Text, res.Time) {
		return time.Time{}, false
	}
	return res.Time, true
}

func valid(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	y := t.Year()
	return y >= minYear && y <= maxYear
}

var (
	numericDate = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

	monthNames = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	monthDay   = regexp.MustCompile(`(?i)\b` + monthNames + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayMonth   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `\b`)
)

// filler words may surround a recognised phrase without changing its meaning.
var filler = map[string]bool{
	"a": true, "about": true, "an": true, "and": true, "appointment": true,
	"around": true, "at": true, "book": true, "can": true, "could": true,
	"do": true, "for": true, "how": true, "i": true, "i'd": true, "is": true,
	"it": true, "let's": true, "like": true, "maybe": true, "me": true,
	"on": true, "please": true, "say": true, "schedule": true, "slot": true,
	"the": true, "time": true, "to": true, "want": true, "what": true,
	"would": true, "works": true, "you": true,
}

// onlyFiller reports whether the text left over after a phrase match carries
// nothing a caller might have meant as part of the date.
func onlyFiller(rest string) bool {
	for _, w := range wordPattern.FindAllString(strings.ToLower(rest), -1) {
		if !filler[w] {
			return false
		}
	}
	return true
}

// calendarDayMatches rejects month/day pairs the phrase rules normalised into
// a different day, e.g. "February 30" landing on March 1.
func calendarDayMatches(matched string, t time.Time) bool {
	var monthWord, dayWord string
	if m := monthDay.FindStringSubmatch(matched); m != nil {
		monthWord, dayWord = m[1], m[2]
	} else if m := dayMonth.FindStringSubmatch(matched); m != nil {
		dayWord, monthWord = m[1], m[2]
	} else {
		return true
	}

	day, err := strconv.Atoi(dayWord)
	if err != nil {
		return false
	}
	month := monthFromWord(monthWord)
	return t.Month() == month && t.Day() == day
}

func monthFromWord(w string) time.Month {
	prefix := strings.ToLower(w)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == prefix {
			return m
		}
	}
	return 0
}
