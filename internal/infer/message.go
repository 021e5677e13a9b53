package infer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Wire format for the model-server link: one request frame out, one
// reply frame back, big-endian throughout.
const (
	MessageTypePredictRequest = 0x01
	MessageTypeSteering       = 0x02
	MessageTypeError          = 0x10
)

// PredictRequestMessage carries one image tensor to the model server.
type PredictRequestMessage struct {
	Width    uint16
	Height   uint16
	Channels uint8
	Pixels   []byte
}

func (m *PredictRequestMessage) MarshalBinary() ([]byte, error) {
	want := int(m.Width) * int(m.Height) * int(m.Channels)
	if len(m.Pixels) != want {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%dx%d",
			len(m.Pixels), want, m.Width, m.Height, m.Channels)
	}

	data := make([]byte, 0, 6+len(m.Pixels))
	data = append(data, MessageTypePredictRequest)
	data = binary.BigEndian.AppendUint16(data, m.Width)
	data = binary.BigEndian.AppendUint16(data, m.Height)
	data = append(data, m.Channels)
	data = append(data, m.Pixels...)
	return data, nil
}

// SteeringMessage is the model server's reply: one scalar steering
// value.
type SteeringMessage struct {
	Angle float64
}

func (m *SteeringMessage) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, 9)
	data = append(data, MessageTypeSteering)
	data = binary.BigEndian.AppendUint64(data, math.Float64bits(m.Angle))
	return data, nil
}

// ServerError is an error frame sent by the model server.
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("model server error: %s", e.Msg)
}

func readPredictRequestMessage(r io.Reader) (*PredictRequestMessage, error) {
	var header struct {
		Width    uint16
		Height   uint16
		Channels uint8
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}

	pixels := make([]byte, int(header.Width)*int(header.Height)*int(header.Channels))
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, err
	}
	return &PredictRequestMessage{
		Width:    header.Width,
		Height:   header.Height,
		Channels: header.Channels,
		Pixels:   pixels,
	}, nil
}

func readSteeringMessage(r io.Reader) (*SteeringMessage, error) {
	var bits uint64
	if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
		return nil, err
	}
	return &SteeringMessage{Angle: math.Float64frombits(bits)}, nil
}

func readErrorMessage(r io.Reader) (*ServerError, error) {
	var length uint8
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}

	msg := make([]byte, length)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, err
	}
	return &ServerError{Msg: string(msg)}, nil
}

// readReply consumes one reply frame of any type. A ServerError frame
// is returned as an error value.
func readReply(r io.Reader) (*SteeringMessage, error) {
	var msgType [1]byte
	if _, err := io.ReadFull(r, msgType[:]); err != nil {
		return nil, err
	}

	switch msgType[0] {
	case MessageTypeSteering:
		return readSteeringMessage(r)
	case MessageTypeError:
		serverErr, err := readErrorMessage(r)
		if err != nil {
			return nil, err
		}
		return nil, serverErr
	default:
		return nil, fmt.Errorf("unexpected reply type 0x%02x", msgType[0])
	}
}
