package wpgraphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GraphQLError is a single entry of the response "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Error is returned for every failed query: transport failures, non-2xx
// responses and responses carrying GraphQL errors.
type Error struct {
	Operation     string         `json:"operation,omitempty"`
	StatusCode    int            `json:"statusCode,omitempty"`
	GraphQLErrors []GraphQLError `json:"graphQLErrors,omitempty"`
	NetworkError  string         `json:"networkError,omitempty"`

	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("wpgraphql")
	if e.Operation != "" {
		b.WriteString(": " + e.Operation)
	}
	switch {
	case len(e.GraphQLErrors) > 0:
		msgs := make([]string, len(e.GraphQLErrors))
		for i, ge := range e.GraphQLErrors {
			msgs[i] = ge.Message
		}
		b.WriteString(": " + strings.Join(msgs, "; "))
	case e.NetworkError != "":
		b.WriteString(": " + e.NetworkError)
	case e.StatusCode != 0:
		fmt.Fprintf(&b, ": unexpected status %d", e.StatusCode)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// MarshalJSON adds the flattened message next to the structured fields.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return json.Marshal(struct {
		Message string `json:"message"`
		*plain
	}{
		Message: e.Error(),
		plain:   (*plain)(e),
	})
}

// SerializeError renders err as JSON for display on an error page.
func SerializeError(err error) string {
	var v any = map[string]string{"message": err.Error()}
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		v = gqlErr
	}
	b, mErr := json.Marshal(v)
	if mErr != nil {
		return fmt.Sprintf("{%q:%q}", "message", err.Error())
	}
	return string(b)
}
