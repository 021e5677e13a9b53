package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	socketio "github.com/googollee/go-socket.io"
)

// Messages over the socket are JSON wrapped in base64 so they survive the
// bridge's string-only event payloads.
func encode(value any) (string, error) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("error marshalling message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(jsonBytes), nil
}

func decode(msg string, value any) error {
	jsonBytes, err := base64.StdEncoding.DecodeString(msg)
	if err != nil {
		return fmt.Errorf("error decoding message: %w", err)
	}
	err = json.Unmarshal(jsonBytes, value)
	if err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	return nil
}

// socketTransport lets the sim package emit device commands without knowing
// about the socket client or the wire encoding.
type socketTransport struct {
	client *socketio.Client
}

func (t socketTransport) Emit(event string, payload any) error {
	encodedMsg, err := encode(payload)
	if err != nil {
		return err
	}
	t.client.Emit(event, encodedMsg)
	return nil
}
