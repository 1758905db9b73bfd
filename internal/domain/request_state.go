package domain

import (
	"encoding/json"
	"fmt"
)

// Status identifica la variante activa de RequestState.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusInFlight Status = "in_flight"
	StatusError    Status = "error"
	StatusSuccess  Status = "success"
)

// RequestState es el ciclo de vida de una solicitud de historia.
// Solo la variante de error lleva mensaje.
type RequestState struct {
	status  Status
	message string
}

func Idle() RequestState { return RequestState{status: StatusIdle} }

func InFlight() RequestState { return RequestState{status: StatusInFlight} }

func Succeeded() RequestState { return RequestState{status: StatusSuccess} }

func Failed(message string) RequestState {
	return RequestState{status: StatusError, message: message}
}

// Status devuelve la variante activa. El valor cero se considera idle.
func (s RequestState) Status() Status {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

func (s RequestState) IsInFlight() bool { return s.status == StatusInFlight }

// ErrorMessage devuelve el mensaje visible solo cuando el estado es error.
func (s RequestState) ErrorMessage() (string, bool) {
	if s.status != StatusError {
		return "", false
	}
	return s.message, true
}

type requestStateJSON struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s RequestState) MarshalJSON() ([]byte, error) {
	out := requestStateJSON{Status: s.Status()}
	if msg, ok := s.ErrorMessage(); ok {
		out.Error = msg
	}
	return json.Marshal(out)
}

func (s *RequestState) UnmarshalJSON(data []byte) error {
	var in requestStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Status {
	case StatusIdle, "":
		*s = Idle()
	case StatusInFlight:
		*s = InFlight()
	case StatusSuccess:
		*s = Succeeded()
	case StatusError:
		*s = Failed(in.Error)
	default:
		return fmt.Errorf("unknown request status %q", in.Status)
	}
	return nil
}
