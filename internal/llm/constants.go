package llm

const (
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"

	DefaultProvider = ProviderOpenAI
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Claude requires an explicit completion budget.
const DefaultClaudeMaxTokens = 4096

var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "llama3.1",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// DefaultModelForProvider returns the model used when LLM_MODEL is unset.
func DefaultModelForProvider(p Provider) string {
	return defaultModels[p]
}
