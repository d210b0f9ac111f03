package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vapicalendar/config"
	"vapicalendar/database"
	"vapicalendar/database/supabase"
	"vapicalendar/models"
	"vapicalendar/services/timeparse"
	"vapicalendar/services/vapi"
	"vapicalendar/utils"
)

type Context struct {
	Config config.Config
	Out    io.Writer
	Now    func() time.Time
}

type EnvCmd struct{}

func (cmd *EnvCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	fmt.Fprintln(ctx.Out, "Checking environment...")
	fmt.Fprintln(ctx.Out)

	for _, v := range []struct {
		key   string
		value string
	}{
		{"VAPI_SECRET", cfg.VapiSecret},
		{"SUPABASE_URL", cfg.SupabaseURL},
		{"SUPABASE_ANON_KEY", cfg.SupabaseAnonKey},
		{"BOOKING_API_URL", cfg.BookingAPIURL},
		{"BOOKING_API_KEY", cfg.BookingAPIKey},
		{"TIMEZONE", cfg.Timezone},
	} {
		if v.value == "" {
			fmt.Fprintf(ctx.Out, "⊘ %s: not set\n", v.key)
			continue
		}
		fmt.Fprintf(ctx.Out, "✓ %s: set\n", v.key)
	}
	fmt.Fprintf(ctx.Out, "  availability backend: %s, audit backend: %s (async=%t)\n",
		cfg.AvailabilityBackend, cfg.AuditBackend, cfg.AuditAsync)

	problems := cfg.Validate()
	fmt.Fprintln(ctx.Out)
	if len(problems) == 0 {
		fmt.Fprintln(ctx.Out, "✓ Configuration: OK")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(ctx.Out, "❌ %s\n", p)
	}
	return fmt.Errorf("configuration has %d problem(s)", len(problems))
}

type PingCmd struct {
	Timeout time.Duration `help:"Per-check timeout." default:"5s"`
}

func (cmd *PingCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	checks := []struct {
		name  string
		skip  bool
		check func(context.Context) error
	}{
		{"Supabase", cfg.SupabaseURL == "", supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cmd.Timeout).Ping},
		{"Booking API", cfg.BookingAPIURL == "", func(c context.Context) error { return pingHTTP(c, cfg.BookingAPIURL, cfg.BookingAPIKey) }},
		{"ICS feed", cfg.ICSURL == "", func(c context.Context) error { return pingHTTP(c, cfg.ICSURL, "") }},
		{"Redis", !cfg.AuditAsync, func(context.Context) error {
			rdb, err := utils.NewQueueRedisClient(cfg)
			if err != nil {
				return err
			}
			return rdb.Close()
		}},
		{"MongoDB", !strings.EqualFold(cfg.AuditBackend, "mongo"), func(c context.Context) error {
			if _, err := database.InitDB(cfg.DatabaseURL); err != nil {
				return err
			}
			return database.CloseDB(c)
		}},
	}

	failed := 0
	for _, ch := range checks {
		if ch.skip {
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED (not configured)\n", ch.name)
			continue
		}
		checkCtx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
		err := ch.check(checkCtx)
		cancel()
		if err != nil {
			failed++
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n   Error: %v\n", ch.name, err)
			continue
		}
		fmt.Fprintf(ctx.Out, "✓ %s: OK\n", ch.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d backend(s) unreachable", failed)
	}
	return nil
}

func pingHTTP(ctx context.Context, url, bearer string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("responded %s", resp.Status)
	}
	return nil
}

type ResolveCmd struct {
	Text     []string `arg:"" help:"Phrase to resolve, e.g. tomorrow at 2pm."`
	Duration int      `help:"Interval length in minutes." default:"15"`
}

func (cmd *ResolveCmd) Run(ctx *Context) error {
	loc := ctx.Config.Location()
	resolver := timeparse.NewResolver(loc, ctx.Now)
	renderer := vapi.NewRenderer(loc)

	text := strings.Join(cmd.Text, " ")
	start, ok := resolver.Resolve(text)
	if !ok {
		fmt.Fprintln(ctx.Out, vapi.GuidanceMessage)
		return errors.New("phrase could not be resolved")
	}

	duration := cmd.Duration
	if duration <= 0 {
		duration = 15
	}
	interval := models.NewResolvedInterval(start, duration)
	fmt.Fprintf(ctx.Out, "input:    %q\n", text)
	fmt.Fprintf(ctx.Out, "timezone: %s\n", loc)
	fmt.Fprintf(ctx.Out, "start:    %s\n", interval.StartTime.Format(time.RFC3339))
	fmt.Fprintf(ctx.Out, "end:      %s\n", interval.EndTime.Format(time.RFC3339))
	fmt.Fprintf(ctx.Out, "spoken:   %s\n", renderer.FormatTime(interval.StartTime))
	return nil
}
