package graph

import "fmt"

// IntegrityError reports an internally inconsistent snapshot, such as an edge
// whose endpoint is not a node of the same snapshot.
type IntegrityError struct {
	Edge   EdgeKey
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.Edge != (EdgeKey{}) {
		return fmt.Sprintf("graph integrity: edge %s: %s", e.Edge, e.Reason)
	}
	return "graph integrity: " + e.Reason
}
