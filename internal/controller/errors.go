package controller

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/msalah0e/pathviz/internal/api"
	"github.com/msalah0e/pathviz/internal/graph"
)

// ValidationError reports malformed local input. It never reaches the network
// and never changes state.
type ValidationError struct {
	Op    Op
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// reason turns any error from an operation into the user-visible reason.
func reason(err error) string {
	var se *api.ServiceError
	if errors.As(err, &se) {
		return se.Reason()
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return te.Err.Error()
	}
	var ie *graph.IntegrityError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return err.Error()
}

func parseID(raw string) (graph.NodeID, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return graph.NodeID(v), true
}

func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseOptional treats blank input as absent.
func parseOptional(raw string) (*float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	v, ok := parseFinite(raw)
	if !ok {
		return nil, false
	}
	return &v, true
}

func invalid(op Op, field, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Field: field, Msg: fmt.Sprintf(format, args...)}
}
