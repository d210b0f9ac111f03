package vapi

import (
	"encoding/json"
	"fmt"

	"vapicalendar/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseRequest decodes a webhook body of the form {"message": <envelope>}.
func ParseRequest(body []byte) (models.FunctionCallEnvelope, error) {
	var req models.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.FunctionCallEnvelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := validate.Struct(req); err != nil {
		return models.FunctionCallEnvelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return *req.Message, nil
}

// ParseEnvelope decodes and validates a bare function-call envelope. JSON type
// mismatches (a numeric name, an array of parameters) fail decoding.
func ParseEnvelope(raw json.RawMessage) (models.FunctionCallEnvelope, error) {
	var env models.FunctionCallEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.FunctionCallEnvelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := validate.Struct(env); err != nil {
		return models.FunctionCallEnvelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return env, nil
}
