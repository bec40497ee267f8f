package ipc

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/seat"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrNotRunning is returned when no seat is listening on the socket
var ErrNotRunning = errors.New("wayseat is not running")

// Client handles IPC communication with a running seat
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client. An empty path selects the per-user
// default.
func NewClient(socketPath string) (*Client, error) {
	if socketPath == "" {
		var err error
		socketPath, err = GetSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}, nil
}

// SetTimeout changes the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SendStatus queries the seat state
func (c *Client) SendStatus() (seat.Status, error) {
	msg, err := NewStatusMessage()
	if err != nil {
		return seat.Status{}, fmt.Errorf("failed to create status message: %w", err)
	}

	response, err := c.sendMessage(msg)
	if err != nil {
		return seat.Status{}, err
	}

	switch MessageType(response) {
	case TypeStatusResponse:
		return GetStatusResponse(response)
	case TypeError:
		errText, _ := GetError(response)
		return seat.Status{}, fmt.Errorf("server error: %s", errText)
	default:
		return seat.Status{}, fmt.Errorf("unexpected response type: %q", MessageType(response))
	}
}

// SendEndGrab asks the seat to return to normal pointer behaviour
func (c *Client) SendEndGrab() error {
	msg, err := NewEndGrabMessage()
	if err != nil {
		return fmt.Errorf("failed to create end grab message: %w", err)
	}

	response, err := c.sendMessage(msg)
	if err != nil {
		return err
	}

	if MessageType(response) == TypeError {
		errText, _ := GetError(response)
		return fmt.Errorf("server error: %s", errText)
	}
	return nil
}

// IsRunning checks if a seat answers on the socket
func (c *Client) IsRunning() bool {
	_, err := c.SendStatus()
	return err == nil
}

func (c *Client) sendMessage(msg *structpb.Struct) (*structpb.Struct, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to connect to wayseat: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(conn, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	response, err := readMessage(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return response, nil
}

// isConnectionRefused checks if the error is a connection refused error
func isConnectionRefused(err error) bool {
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return netErr.Op == "dial"
	}
	return false
}
