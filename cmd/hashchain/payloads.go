package hashchain

// Human is the payload of the demo chain.
type Human struct {
	Name string `json:"name"`
	Age  uint32 `json:"age"`
}

// Record is the payload of the fork replicas.
type Record struct {
	Replica string `json:"replica"`
	Height  uint64 `json:"height"`
}

// Tick is the payload of the live mining loop.
type Tick struct {
	Sequence uint64 `json:"sequence"`
	Note     string `json:"note,omitempty"`
}
