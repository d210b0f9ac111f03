package availabilityRepo

import (
	"context"

	"vapicalendar/models"
)

// RPCCaller is the slice of the Supabase client the availability backend needs.
type RPCCaller interface {
	RPC(ctx context.Context, fn string, params any, out any) error
}

// isoMillis matches the millisecond UTC rendering the RPC was written against.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type checkAvailabilityParams struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	UserID          string `json:"user_id,omitempty"`
}

// SupabaseBackend answers availability queries through a Postgres function.
type SupabaseBackend struct {
	RPC      RPCCaller
	Function string
}

func NewSupabaseBackend(rpc RPCCaller, function string) *SupabaseBackend {
	if function == "" {
		function = "fn_check_availability"
	}
	return &SupabaseBackend{RPC: rpc, Function: function}
}

func (b *SupabaseBackend) QuerySlots(ctx context.Context, q models.AvailabilityQuery) ([]models.RawSlot, error) {
	params := checkAvailabilityParams{
		StartTime:       q.Start.UTC().Format(isoMillis),
		EndTime:         q.End.UTC().Format(isoMillis),
		DurationMinutes: q.DurationMinutes,
		UserID:          q.UserID,
	}

	var slots []models.RawSlot
	if err := b.RPC.RPC(ctx, b.Function, params, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

