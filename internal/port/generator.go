package port

// Generator produces text from a prompt. The two hosted backends (chat
// completion and direct generation) both satisfy this; the answer pipeline
// picks one at construction time and never branches on provider.
type Generator interface {
	Generate(prompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
