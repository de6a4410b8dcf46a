// internal/workers/conversation/generic-answer/config.go
package genericanswer

type Config struct {
	PromptTemplate string
}

func LoadConfig() *Config {
	return &Config{
		PromptTemplate: `You are a friendly and engaging intelligent assistant.
If the user greets you with a simple greeting like "hi", "hello", or similar, respond with a warm and cheerful message.
Otherwise, respond to their question in a helpful, clear, and conversational tone.

User: {{.question}}
Answer:`,
	}
}
