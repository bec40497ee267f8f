package ipc

import (
	"fmt"

	"github.com/bnema/wayseat/internal/seat"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message types carried in the "type" field
const (
	TypeStatus         = "status"
	TypeStatusResponse = "status_response"
	TypeEndGrab        = "end_grab"
	TypeOK             = "ok"
	TypeError          = "error"
)

// MessageType returns the type of an IPC message
func MessageType(msg *structpb.Struct) string {
	return msg.GetFields()["type"].GetStringValue()
}

func newMessage(typ string, fields map[string]interface{}) (*structpb.Struct, error) {
	m := map[string]interface{}{"type": typ}
	for k, v := range fields {
		m[k] = v
	}
	return structpb.NewStruct(m)
}

// NewStatusMessage creates a new status query message
func NewStatusMessage() (*structpb.Struct, error) {
	return newMessage(TypeStatus, nil)
}

// NewEndGrabMessage asks the seat to drop its active grab
func NewEndGrabMessage() (*structpb.Struct, error) {
	return newMessage(TypeEndGrab, nil)
}

// NewOKMessage acknowledges a command
func NewOKMessage() (*structpb.Struct, error) {
	return newMessage(TypeOK, nil)
}

// NewErrorMessage creates a new error message
func NewErrorMessage(errMsg string) (*structpb.Struct, error) {
	return newMessage(TypeError, map[string]interface{}{"error": errMsg})
}

// NewStatusResponseMessage creates a status response carrying a seat snapshot
func NewStatusResponseMessage(st seat.Status) (*structpb.Struct, error) {
	keys := make([]interface{}, len(st.Keys))
	for i, k := range st.Keys {
		keys[i] = float64(k)
	}
	return newMessage(TypeStatusResponse, map[string]interface{}{
		"status": map[string]interface{}{
			"x":              st.X,
			"y":              st.Y,
			"current":        st.Current,
			"current_x":      st.CurrentX,
			"current_y":      st.CurrentY,
			"pointer_focus":  st.PointerFocus,
			"keyboard_focus": st.KeyboardFocus,
			"grab":           st.Grab,
			"button_count":   float64(st.ButtonCount),
			"grab_button":    float64(st.GrabButton),
			"grab_time":      float64(st.GrabTime),
			"keys":           keys,
			"clients":        float64(st.Clients),
		},
	})
}

// GetStatusResponse extracts the seat snapshot from a status response
func GetStatusResponse(msg *structpb.Struct) (seat.Status, error) {
	if MessageType(msg) != TypeStatusResponse {
		return seat.Status{}, fmt.Errorf("message is not a status response")
	}

	v, ok := msg.GetFields()["status"]
	if !ok || v.GetStructValue() == nil {
		return seat.Status{}, fmt.Errorf("invalid status response payload")
	}
	f := v.GetStructValue().GetFields()

	st := seat.Status{
		X:             f["x"].GetNumberValue(),
		Y:             f["y"].GetNumberValue(),
		Current:       f["current"].GetStringValue(),
		CurrentX:      f["current_x"].GetNumberValue(),
		CurrentY:      f["current_y"].GetNumberValue(),
		PointerFocus:  f["pointer_focus"].GetStringValue(),
		KeyboardFocus: f["keyboard_focus"].GetStringValue(),
		Grab:          f["grab"].GetStringValue(),
		ButtonCount:   int(f["button_count"].GetNumberValue()),
		GrabButton:    uint32(f["grab_button"].GetNumberValue()),
		GrabTime:      uint32(f["grab_time"].GetNumberValue()),
		Clients:       int(f["clients"].GetNumberValue()),
	}
	for _, k := range f["keys"].GetListValue().GetValues() {
		st.Keys = append(st.Keys, uint32(k.GetNumberValue()))
	}
	return st, nil
}

// GetError extracts the error text from an error message
func GetError(msg *structpb.Struct) (string, error) {
	if MessageType(msg) != TypeError {
		return "", fmt.Errorf("message is not an error response")
	}
	return msg.GetFields()["error"].GetStringValue(), nil
}
