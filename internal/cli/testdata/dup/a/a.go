package a

// +jtd:derive
type Shape struct {
	Radius float64 `json:"radius"`
}
