package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vapicalendar/models"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

// maxSlotsPerQuery caps slot generation for very wide windows.
const maxSlotsPerQuery = 5000

// busyInterval is one concrete occurrence of a calendar event.
type busyInterval struct {
	Start time.Time
	End   time.Time
}

// ICSBackend derives availability from a busy-time calendar feed. Slots are
// stepped by the query duration inside business hours and marked busy when
// they overlap any event occurrence.
type ICSBackend struct {
	URL      string
	Client   *http.Client
	Location *time.Location
	// DayStart and DayEnd are wall-clock times of day ("09:00" is 9h).
	DayStart time.Duration
	DayEnd   time.Duration
	Logger   *zap.Logger
}

// NewICSBackend builds a backend for feedURL. Business hours are "HH:MM".
func NewICSBackend(feedURL string, loc *time.Location, dayStart, dayEnd string, timeout time.Duration, logger *zap.Logger) (*ICSBackend, error) {
	start, err := parseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid business hours start: %w", err)
	}
	end, err := parseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid business hours end: %w", err)
	}
	if end <= start {
		return nil, errors.New("business hours must end after they start")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICSBackend{
		URL:      feedURL,
		Client:   &http.Client{Timeout: timeout},
		Location: loc,
		DayStart: start,
		DayEnd:   end,
		Logger:   logger,
	}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (b *ICSBackend) QuerySlots(ctx context.Context, q models.AvailabilityQuery) ([]models.RawSlot, error) {
	if q.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", q.DurationMinutes)
	}
	body, err := b.fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	busy, err := b.parseBusy(body, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	return b.slots(q, busy), nil
}

func (b *ICSBackend) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("calendar feed responded %s", resp.Status)
	}
	return resp.Body, nil
}

// parseBusy returns every event occurrence overlapping [from, to).
func (b *ICSBackend) parseBusy(r io.Reader, from, to time.Time) ([]busyInterval, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var busy []busyInterval
	for _, ev := range cal.Events() {
		if strings.EqualFold(propValue(ev, "STATUS"), "CANCELLED") || strings.EqualFold(propValue(ev, "TRANSP"), "TRANSPARENT") {
			continue
		}
		start, end, err := b.eventBounds(ev)
		if err != nil {
			b.Logger.Warn("skipping calendar event", zap.String("uid", propValue(ev, string(ical.ComponentPropertyUniqueId))), zap.Error(err))
			continue
		}

		raw := propValue(ev, string(ical.ComponentPropertyRrule))
		if raw == "" {
			if start.Before(to) && from.Before(end) {
				busy = append(busy, busyInterval{Start: start, End: end})
			}
			continue
		}

		occurrences, err := b.expand(ev, raw, start, end.Sub(start), from, to)
		if err != nil {
			b.Logger.Warn("skipping recurring event", zap.String("rrule", raw), zap.Error(err))
			continue
		}
		busy = append(busy, occurrences...)
	}
	return busy, nil
}

func (b *ICSBackend) eventBounds(ev *ical.VEvent) (time.Time, time.Time, error) {
	dtStart := ev.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return time.Time{}, time.Time{}, errors.New("missing DTSTART")
	}

	// All-day events block the whole local day.
	if !strings.Contains(dtStart.Value, "T") {
		day, err := time.ParseInLocation("20060102", dtStart.Value, b.Location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end := day.AddDate(0, 0, 1)
		if dtEnd := ev.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if d, err := time.ParseInLocation("20060102", dtEnd.Value, b.Location); err == nil && d.After(day) {
				end = d
			}
		}
		return day, end, nil
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ev.GetEndAt()
	if err != nil || !end.After(start) {
		// An event without DTEND still occupies its start instant's slot.
		end = start.Add(time.Minute)
	}
	return start, end, nil
}

func (b *ICSBackend) expand(ev *ical.VEvent, raw string, start time.Time, length time.Duration, from, to time.Time) ([]busyInterval, error) {
	rule, err := rrule.StrToRRule(raw)
	if err != nil {
		return nil, err
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, p := range ev.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if ex, err := b.parseICSTime(strings.TrimSpace(part)); err == nil {
				set.ExDate(ex.In(start.Location()))
			}
		}
	}

	var out []busyInterval
	// Occurrences that began before the window can still overlap it.
	for _, occ := range set.Between(from.Add(-length), to, true) {
		end := occ.Add(length)
		if occ.Before(to) && from.Before(end) {
			out = append(out, busyInterval{Start: occ, End: end})
		}
	}
	return out, nil
}

func (b *ICSBackend) parseICSTime(v string) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, b.Location)
	default:
		return time.ParseInLocation("20060102", v, b.Location)
	}
}

// slots walks [q.Start, q.End) in duration steps. The first slot always
// starts at q.Start and is unavailable when it falls outside business hours;
// later slots are placed inside business hours only.
func (b *ICSBackend) slots(q models.AvailabilityQuery, busy []busyInterval) []models.RawSlot {
	step := time.Duration(q.DurationMinutes) * time.Minute
	var out []models.RawSlot

	t := q.Start
	first := true
	for t.Before(q.End) && len(out) < maxSlotsPerQuery {
		end := t.Add(step)
		open, closeAt := b.businessDay(t)

		inHours := !t.Before(open) && !end.After(closeAt)
		if !inHours && !first {
			if t.Before(open) {
				t = open
			} else {
				t = b.nextOpen(t)
			}
			continue
		}

		out = append(out, models.RawSlot{
			StartTime:   t.UTC().Format(time.RFC3339),
			EndTime:     end.UTC().Format(time.RFC3339),
			IsAvailable: inHours && !overlapsAny(t, end, busy),
		})
		first = false
		t = end
	}
	return out
}

func (b *ICSBackend) businessDay(t time.Time) (time.Time, time.Time) {
	local := t.In(b.Location)
	y, m, d := local.Date()
	return b.clockOn(y, m, d, b.DayStart), b.clockOn(y, m, d, b.DayEnd)
}

func (b *ICSBackend) nextOpen(t time.Time) time.Time {
	y, m, d := t.In(b.Location).Date()
	return b.clockOn(y, m, d+1, b.DayStart)
}

// clockOn places a time of day on a calendar date, so opening hours keep
// their wall-clock value across DST changes.
func (b *ICSBackend) clockOn(y int, m time.Month, d int, clock time.Duration) time.Time {
	h := int(clock / time.Hour)
	minute := int(clock % time.Hour / time.Minute)
	return time.Date(y, m, d, h, minute, 0, 0, b.Location)
}

func overlapsAny(start, end time.Time, busy []busyInterval) bool {
	for _, iv := range busy {
		if iv.Start.Before(end) && start.Before(iv.End) {
			return true
		}
	}
	return false
}

func propValue(ev *ical.VEvent, name string) string {
	p := ev.GetProperty(ical.ComponentProperty(name))
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}
