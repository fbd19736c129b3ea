package llm

import (
	_ "embed"
	"fmt"
)

// TemplatePrompt is the system prompt that constrains the model to emit a
// defaultPages array and nothing else. It is embedded rather than inlined
// because the prompt itself is full of backtick template literals.
//
//go:embed template_prompt.md
var TemplatePrompt string

// ChatPrompt frames a project-scoped chat turn.
func ChatPrompt(projectName string) string {
	return fmt.Sprintf(
		"You are a web development assistant. The project is called %q. "+
			"Be helpful, concise, and provide practical advice for building web "+
			"applications. Focus on code suggestions, best practices, and "+
			"problem-solving.",
		projectName,
	)
}
