package inbound

import (
	"net/http"
	"time"
)

type GenerateRequest struct {
	OperationID string `json:"operation_id"`
}

type GenerateResponse struct {
	ID        int64     `json:"id,string"`
	Channel   string    `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (GenerateResponse) StatusCode() int { return http.StatusCreated }

func (GenerateResponse) Message() string { return "OTP code has been sent" }

type ValidateRequest struct {
	OperationID string `json:"operation_id"`
	Code        string `json:"code"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

func (ValidateResponse) Message() string { return "OTP code is valid" }

type ConfigRequest struct {
	CodeLength int `json:"code_length"`
	TTLSeconds int `json:"ttl_seconds"`
}

type ConfigResponse struct {
	CodeLength      int    `json:"code_length"`
	TTLSeconds      int    `json:"ttl_seconds"`
	DeliveryChannel string `json:"delivery_channel"`
}
