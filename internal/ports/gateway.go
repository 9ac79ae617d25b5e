package ports

// Gateway is a transport surface that feeds untrusted inputs to the analysis
// engine. Implementations own their listener lifecycle; verdict logic stays
// in the engine.
type Gateway interface {
	// Start starts serving requests. It must not block.
	Start() error

	// Stop shuts the gateway down.
	Stop() error
}
