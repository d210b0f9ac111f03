package models

// EnvelopeTypeFunctionCall is the only envelope type the webhook accepts.
const EnvelopeTypeFunctionCall = "function-call"

// GenericFailureResult is spoken back when the request could not be processed.
const GenericFailureResult = "Sorry, there was an error processing your request."

// WebhookRequest is the body VAPI posts to the calendar webhook.
type WebhookRequest struct {
	Message *FunctionCallEnvelope `json:"message" validate:"required"`
}

// FunctionCallEnvelope wraps a single intent and its parameters.
type FunctionCallEnvelope struct {
	Type         string        `json:"type" validate:"required,eq=function-call"`
	FunctionCall *FunctionCall `json:"functionCall" validate:"required"`
}

// FunctionCall names the intent; Parameters are validated again per intent.
// An empty Name is well formed and dispatches as an unknown intent.
type FunctionCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters" validate:"required"`
}

// FunctionResult is the only shape returned to the voice assistant.
type FunctionResult struct {
	Result string        `json:"result"`
	Error  *ErrorDetails `json:"error,omitempty"`
}

// ErrorDetails is diagnostic detail attached to server failures. Never spoken.
type ErrorDetails struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}
