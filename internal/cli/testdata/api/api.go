// Package api is loaded by the cli tests.
package api

// Method is an HTTP method.
// +jtd:derive
type Method string

const (
	Get  Method = "GET"
	Post Method = "POST"
)

// Request is a recorded call.
// +jtd:derive
type Request struct {
	Method  Method            `json:"method"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    Payload           `json:"body"`
}

// Payload is a request body.
// +jtd:derive
// +jtd:tag=type
type Payload interface{ isPayload() }

type Text struct {
	Content string `json:"content"`
}

type Binary struct {
	Size uint32 `json:"size"`
}

func (Text) isPayload()   {}
func (Binary) isPayload() {}
