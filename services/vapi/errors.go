package vapi

import "errors"

// InvalidRequestMessage is the 400 body for envelopes that fail validation.
const InvalidRequestMessage = "Invalid request format. Please check the message structure."

// ErrInvalidEnvelope marks a request body that must never reach the dispatcher.
var ErrInvalidEnvelope = errors.New("invalid function-call envelope")
