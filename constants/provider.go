package constants

// ProviderID identifies one tier of the extraction fallback chain.
type ProviderID string

// Fixed priority order: Engine, Ollama (both behind the prefer-local flag),
// then Groq, then HuggingFace. ProviderNone marks a local-only result.
const (
	ProviderEngine      ProviderID = "engine"
	ProviderOllama      ProviderID = "ollama"
	ProviderGroq        ProviderID = "groq"
	ProviderHuggingFace ProviderID = "huggingface"
	ProviderNone        ProviderID = "none"
)
