package resources

import (
	"bytes"
	"encoding/json"

	"github.com/jrsteele09/go-church-admin/internal/errors"
)

// Envelope is the API's standard response wrapper.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// DecodeEnvelope decodes body as an Envelope when it is a JSON object with a
// "data" member, and as a bare T otherwise. The shape is decided up front;
// a body that does not decode in its detected shape is ErrUnexpectedShape.
func DecodeEnvelope[T any](body []byte) (*Envelope[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.Wrapf(errors.ErrUnexpectedShape, "[resources DecodeEnvelope] empty body")
	}

	if trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, errors.Wrapf(errors.ErrUnexpectedShape, "[resources DecodeEnvelope] %v", err)
		}
		if _, wrapped := probe["data"]; wrapped {
			var env Envelope[T]
			if err := json.Unmarshal(trimmed, &env); err != nil {
				return nil, errors.Wrapf(errors.ErrUnexpectedShape, "[resources DecodeEnvelope] data: %v", err)
			}
			return &env, nil
		}
	}

	var bare T
	if err := json.Unmarshal(trimmed, &bare); err != nil {
		return nil, errors.Wrapf(errors.ErrUnexpectedShape, "[resources DecodeEnvelope] %v", err)
	}
	return &Envelope[T]{Data: bare}, nil
}
