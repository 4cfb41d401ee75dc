package mirror

// Mirror best-effort replicates successful writes to a secondary
// key-value store. Implementations never block the caller and never
// report failures upstream - mirroring is not part of the write path
type Mirror interface {
	Store(collection string, id string, record any)
	Remove(collection string, id string)
}

type disabledMirror struct{}

// NewDisabled builds Mirror doing nothing, used when secondary store
// credentials are not configured
func NewDisabled() Mirror {
	return disabledMirror{}
}

func (disabledMirror) Store(string, string, any)  {}
func (disabledMirror) Remove(string, string)      {}
