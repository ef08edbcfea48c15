package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// Gateway is the request boundary the services call through.
type Gateway interface {
	Do(ctx context.Context, req connection.Request, out any) error
}

// AuthNotifier reports credential rejection to the session.
type AuthNotifier interface {
	OnAuthLost(fn func(connection.AuthLostEvent)) (cancel func())
}

// envelope is the {success,data,message} wrapper some endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decodeList accepts a bare JSON array or an envelope around one.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	items := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return items, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		return nil, envelopeFailure(env.Message, "request failed")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return items, nil
	}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Message extracts the text shown to the user for err: the backend or
// transport message of a request error, the message of a domain error,
// else fallback.
func Message(err error, fallback string) string {
	var re *connection.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var de *domain.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}

// envelopeFailure turns a 2xx body carrying success:false into a request
// error with the body's message.
func envelopeFailure(msg, fallback string) *connection.RequestError {
	return &connection.RequestError{
		StatusCode: http.StatusOK,
		Message:    messageOr(msg, fallback),
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
