package hideblock

// UnknownTagPolicy decides what the engine does with tags that have no
// registered handler.
type UnknownTagPolicy int

const (
	UnknownPassthrough UnknownTagPolicy = iota // copy the marker verbatim for a later templating pass
	UnknownDrop                                // remove the marker, keep the surrounding text
	UnknownStrict                              // fail with MalformedTagError
)

// ParseUnknownTagPolicy maps a config value to a policy.
func ParseUnknownTagPolicy(s string) (UnknownTagPolicy, bool) {
	switch canonicalName(s) {
	case "", "passthrough":
		return UnknownPassthrough, true
	case "drop":
		return UnknownDrop, true
	case "strict":
		return UnknownStrict, true
	}
	return UnknownPassthrough, false
}

type Engine struct {
	reg        *Registry
	policy     UnknownTagPolicy
	validators *ValidatorRegistry
	nested     bool
	startLine  int
}
