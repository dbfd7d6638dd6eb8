package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akeil/tkb/internal/logging"
)

// MessageHandler is called for every notification message.
type MessageHandler func(Message)

const (
	pingInterval = 30 * time.Second
	closeTimeout = time.Second
)

// Notifications receives layer events from the service over a websocket.
type Notifications struct {
	url     string
	mx      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	exit    chan struct{}
	stopped chan struct{}
	hdl     MessageHandler
}

func NewNotifications(url string) *Notifications {
	return &Notifications{
		url: url,
	}
}

// Connect opens the websocket connection and starts receiving messages.
func (n *Notifications) Connect() error {
	n.mx.Lock()
	defer n.mx.Unlock()
	if n.conn != nil {
		return fmt.Errorf("already connected to %q", n.url)
	}

	logging.Info("Connecting to notifications server at %q", n.url)

	conn, res, err := websocket.DefaultDialer.Dial(n.url, nil)
	if err != nil {
		if res != nil {
			return fmt.Errorf("websocket connection failed with status %v, error %v", res.StatusCode, err)
		}
		return fmt.Errorf("websocket connection failed: %v", err)
	}

	n.conn = conn
	n.done = make(chan struct{})
	n.exit = make(chan struct{})
	n.stopped = make(chan struct{})

	go n.loop(conn, n.done, n.exit, n.stopped)
	go n.read(conn, n.done)

	return nil
}

// Disconnect closes the connection.
// It returns after the connection is closed.
func (n *Notifications) Disconnect() {
	n.mx.Lock()
	exit, stopped := n.exit, n.stopped
	n.exit = nil
	n.mx.Unlock()

	if exit == nil {
		return
	}
	close(exit)
	<-stopped
}

// Done is closed when the connection is lost or closed.
// It is nil before the first call to Connect.
func (n *Notifications) Done() <-chan struct{} {
	n.mx.Lock()
	defer n.mx.Unlock()
	return n.stopped
}

func (n *Notifications) onDisconnected(conn *websocket.Conn) {
	logging.Info("Notifications disconnected")
	conn.Close()
	n.mx.Lock()
	if n.conn == conn {
		n.conn = nil
	}
	n.mx.Unlock()
}

func (n *Notifications) loop(conn *websocket.Conn, done, exit, stopped chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer close(stopped)
	defer n.onDisconnected(conn)

	for {
		select {
		case <-done:
			return
		case <-exit:
			// close the connection by sending a close message
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			err := conn.WriteMessage(websocket.CloseMessage, msg)
			if err != nil {
				logging.Warning("write close: %v", err)
				return
			}
			// wait for server to close the connection (or timeout)
			select {
			case <-done:
			case <-time.After(closeTimeout):
			}
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(closeTimeout))
			if err != nil {
				logging.Warning("ping: %v", err)
				return
			}
		}
	}
}

func (n *Notifications) read(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// server closed connection
			logging.Debug("read: %v", err)
			return
		}
		msg, err := parseMessage(data)
		if err != nil {
			logging.Warning("Ignore invalid notification %q: %v", string(data), err)
			continue
		}
		n.onMessage(msg)
	}
}

func (n *Notifications) onMessage(msg Message) {
	n.mx.Lock()
	hdl := n.hdl
	n.mx.Unlock()
	if hdl == nil {
		return
	}

	logging.Debug("Notification %v for paper %q", msg.Event, msg.PaperID)
	hdl(msg)
}

// OnMessage sets the handler for incoming messages.
func (n *Notifications) OnMessage(f MessageHandler) {
	n.mx.Lock()
	defer n.mx.Unlock()
	n.hdl = f
}
