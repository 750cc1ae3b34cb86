// Package broken holds one derivable and one rejected type.
package broken

// +jtd:derive
type Fine struct {
	Name string `json:"name"`
}

// +jtd:derive
// +jtd:tag=kind
type Mixed interface{ isMixed() }

type Empty struct{}

type Full struct {
	Value int32 `json:"value"`
}

func (Empty) isMixed() {}
func (Full) isMixed()  {}
