package main

import (
	"context"
	"fmt"
	"time"

	"github.com/akeil/tkb/internal/logging"
	"github.com/akeil/tkb/pkg/api"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

func doWatch(ctx context.Context, s settings, paperID string) error {
	client, repo := setupStore(s)

	n, err := client.NewNotifications()
	if err != nil {
		return err
	}

	n.OnMessage(func(m api.Message) {
		repo.Apply(m)
		if paperID != "" && m.PaperID != paperID {
			return
		}
		showMessage(m)
	})

	fmt.Printf("%v watching %v\n", ellipsis, s.url)
	err = watch(ctx, n, repo.Flush, minBackoff)
	fmt.Println()
	return err
}

// notifier is the part of api.Notifications that watch needs.
type notifier interface {
	Connect() error
	Disconnect()
	Done() <-chan struct{}
}

// watch keeps n connected until ctx is done.
//
// A lost connection is re-established with exponential backoff, starting
// at backoff. Messages may have been missed meanwhile, so resync is called
// after every reconnect.
func watch(ctx context.Context, n notifier, resync func(), backoff time.Duration) error {
	err := n.Connect()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			n.Disconnect()
			return nil
		case <-n.Done():
		}

		fmt.Printf("%v connection lost, reconnecting\n", crossmark)
		delay := backoff
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}

			err = n.Connect()
			if err == nil {
				break
			}
			logging.Warning("Reconnect failed: %v", err)
			delay *= 2
			if delay > maxBackoff {
				delay = maxBackoff
			}
		}

		resync()
		fmt.Printf("%v reconnected\n", checkmark)
	}
}

func showMessage(m api.Message) {
	ts := m.PublishTime.Local().Format("15:04:05")
	if m.PublishTime.IsZero() {
		ts = "--:--:--"
	}

	switch m.Event {
	case api.TrainingFinished:
		fmt.Printf("%v %v %v %q", ts, checkmark, m.Event, m.Class)
	default:
		fmt.Printf("%v %v %v", ts, ellipsis, m.Event)
		if m.Class != "" {
			fmt.Printf(" %q", m.Class)
		}
	}

	if m.PaperID != "" {
		fmt.Printf(" paper %q", m.PaperID)
	}
	if m.LayerID != "" {
		fmt.Printf(" layer %q", m.LayerID)
	}
	fmt.Println()
}
