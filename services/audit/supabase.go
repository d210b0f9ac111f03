package audit

import (
	"context"
	"fmt"

	"vapicalendar/models"
)

// RPCCaller is satisfied by *supabase.Client.
type RPCCaller interface {
	RPC(ctx context.Context, fn string, params any, out any) error
}

type captureParams struct {
	RequestID    string                `json:"p_request_id"`
	FunctionName string                `json:"p_function_name"`
	Parameters   map[string]any        `json:"p_parameters"`
	Response     models.FunctionResult `json:"p_response"`
}

// SupabaseRecorder stores interactions through the capture RPC.
type SupabaseRecorder struct {
	RPC      RPCCaller
	Function string
}

func NewSupabaseRecorder(rpc RPCCaller, function string) *SupabaseRecorder {
	if function == "" {
		function = "fn_capture_vapi_data"
	}
	return &SupabaseRecorder{RPC: rpc, Function: function}
}

func (r *SupabaseRecorder) Capture(ctx context.Context, interaction models.Interaction) error {
	params := captureParams{
		RequestID:    interaction.RequestID,
		FunctionName: interaction.FunctionName,
		Parameters:   interaction.Parameters,
		Response:     interaction.Response,
	}
	if params.Parameters == nil {
		params.Parameters = map[string]any{}
	}
	if err := r.RPC.RPC(ctx, r.Function, params, nil); err != nil {
		return fmt.Errorf("failed to capture interaction %s: %w", interaction.RequestID, err)
	}
	return nil
}
