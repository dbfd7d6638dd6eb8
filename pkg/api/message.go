package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Event is the type for event types used in notification messages.
type Event int

const (
	LayerAdded Event = iota
	LayerUpdated
	LayerDeleted
	TrainingStarted
	TrainingFinished
)

// Message contains the data from a notification message.
type Message struct {
	Event       Event
	PublishTime time.Time
	PaperID     string
	LayerID     string
	Class       string
}

// msgWrapper is used to unmarshal a notification message from JSON.
type msgWrapper struct {
	Event       Event  `json:"event"`
	PublishTime string `json:"publishTime"`
	PaperID     string `json:"paperId"`
	LayerID     string `json:"layerId"`
	Class       string `json:"class"`
}

func (w msgWrapper) toMessage() (Message, error) {
	m := Message{
		Event:   w.Event,
		PaperID: w.PaperID,
		LayerID: w.LayerID,
		Class:   w.Class,
	}
	if w.PublishTime != "" {
		t, err := time.Parse(time.RFC3339Nano, w.PublishTime)
		if err != nil {
			return m, err
		}
		m.PublishTime = t
	}
	return m, nil
}

func parseMessage(data []byte) (Message, error) {
	var w msgWrapper
	err := json.Unmarshal(data, &w)
	if err != nil {
		return Message{}, err
	}
	return w.toMessage()
}

// UnmarshalJSON unmarshals an Event from a JSON string value.
func (e *Event) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}

	var et Event
	switch s {
	case "LayerAdded":
		et = LayerAdded
	case "LayerUpdated":
		et = LayerUpdated
	case "LayerDeleted":
		et = LayerDeleted
	case "TrainingStarted":
		et = TrainingStarted
	case "TrainingFinished":
		et = TrainingFinished
	default:
		return fmt.Errorf("invalid event type %q", s)
	}

	*e = et
	return nil
}

// MarshalJSON marshals an Event to a JSON string value.
func (e Event) MarshalJSON() ([]byte, error) {
	s := e.String()

	if s == "UNKNOWN" {
		return nil, fmt.Errorf("invalid event type %v", int(e))
	}

	buf := bytes.NewBufferString(`"`)
	buf.WriteString(s)
	buf.WriteString(`"`)

	return buf.Bytes(), nil
}

func (e Event) String() string {
	switch e {
	case LayerAdded:
		return "LayerAdded"
	case LayerUpdated:
		return "LayerUpdated"
	case LayerDeleted:
		return "LayerDeleted"
	case TrainingStarted:
		return "TrainingStarted"
	case TrainingFinished:
		return "TrainingFinished"
	default:
		return "UNKNOWN"
	}
}
