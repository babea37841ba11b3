package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. In-process events carry T or *T
// directly; events read back from a dead-letter file carry a generic JSON
// map and are converted through a JSON round-trip.
func DecodePayload[T any](payload any) (T, error) {
	switch v := payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var out T
	raw, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayloadFailed, out, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayloadFailed, out, err)
	}
	return out, nil
}
