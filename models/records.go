// File: models/records.go
package models

import "time"

// Interaction is the audit record captured after each dispatched function call.
type Interaction struct {
	ID           string         `bson:"id" json:"id"`
	RequestID    string         `bson:"requestId" json:"requestId"`       // per-request id, also logged
	FunctionName string         `bson:"functionName" json:"functionName"` // intent name as received
	Parameters   map[string]any `bson:"parameters" json:"parameters"`
	Response     FunctionResult `bson:"response" json:"response"`
	Status       string         `bson:"status" json:"status"` // dispatcher outcome status
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
}
