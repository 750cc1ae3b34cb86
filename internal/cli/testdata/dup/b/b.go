package b

// +jtd:derive
type Shape struct {
	Side float64 `json:"side"`
}
