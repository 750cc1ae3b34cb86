// Package shapes is loaded by the scan tests.
package shapes

import "time"

// Shape is a drawable figure.
// +jtd:derive
// +jtd:tag=kind
type Shape interface{ isShape() }

// Circle is a round shape.
type Circle struct {
	Radius float64 `json:"radius"`
}

// +jtd:variant=square
type Square struct {
	Side float64 `json:"side"`
}

func (Circle) isShape()  {}
func (*Square) isShape() {}

// Color is a paint color.
// +jtd:derive
type Color string

const (
	Red   Color = "red"
	Green Color = "green"
	Blue  Color = "blue"
)

// UserID identifies a user.
// +jtd:derive
type UserID string

// Drawing is a titled collection of shapes.
// +jtd:derive
type Drawing struct {
	Title   string            `json:"title"`
	Owner   UserID            `json:"owner"`
	Shapes  []Shape           `json:"shapes"`
	Fill    *Color            `json:"fill,omitempty"`
	Created time.Time         `json:"created"`
	Labels  map[string]string `json:"labels,omitempty"`
	Layers  Pair[int, Color]  `json:"layers"`
	audit   string
}

type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

// +jtd:derive
type Box[T any] struct {
	Value T `json:"value"`
}

// Node is a singly linked list.
// +jtd:derive
type Node struct {
	Value string `json:"value"`
	Next  *Node  `json:"next"`
}

// Event mixes unit and struct variants.
// +jtd:derive
// +jtd:tag=type
type Event interface{ isEvent() }

type Click struct {
	X, Y int32
}

type Close struct{}

func (Click) isEvent() {}
func (Close) isEvent() {}

// Status is encoded under a tag.
// +jtd:derive
// +jtd:tag=state
type Status string

const (
	Active   Status = "active"
	Disabled Status = "disabled"
)

// +jtd:derive
// +jtd:rename=snake
type Bad struct {
	A string `json:"a"`
}

// +jtd:tag=ignored
type Unmarked struct{}

// +jtd:variant=orphan
type Orphan struct{}

type Audit struct {
	By string `json:"by"`
}

type Created struct{ Audit }

type Updated struct{ Audit }

// Revision embeds Audit twice at the same depth.
//
//nolint:unused
// +jtd:derive
type Revision struct {
	Created
	Updated
	Number int32 `json:"number"`
}
