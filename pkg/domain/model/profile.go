package model

// AssistantProfile carries the assistant persona and prompt overrides loaded
// from the profile TOML file. Empty fields fall back to built-in prompts.
type AssistantProfile struct {
	Persona      string
	AnswerPrompt string
	PolicyPrompt string
}
