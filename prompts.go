package main

import (
	"strings"

	"github.com/bniladridas/snapenhanceai/providers"
)

// promptClass selects the system prompt that frames a chat turn.
type promptClass int

const (
	classDefault promptClass = iota
	classLlamaHowTo
	classModelComparison
	classWeather
	classTime
	classWikipedia
	classProducts
	classGreeting
)

// classifyPrompt picks a prompt class from keywords in the user text.
// Order matters: the more specific classes are checked first.
func classifyPrompt(prompt string) promptClass {
	p := strings.ToLower(prompt)

	has := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(p, t) {
				return true
			}
		}
		return false
	}

	switch {
	case has("llama") && has("how to", "usage", "use", "guide", "tutorial"):
		return classLlamaHowTo
	case has("compare", "comparison", "versus", " vs ", "difference between"):
		return classModelComparison
	case has("weather", "temperature", "forecast", "rain", "sunny", "humid"):
		return classWeather
	case has("time", "clock", "timezone", "time zone", "what hour"):
		return classTime
	case has("wikipedia", "wiki", "article about", "look up", "search for information"):
		return classWikipedia
	case has("product", "buy", "purchase", "price of", "shopping", "catalog"):
		return classProducts
	case isGreetingPrompt(p):
		return classGreeting
	default:
		return classDefault
	}
}

func isGreetingPrompt(lowered string) bool {
	trimmed := strings.TrimSpace(strings.Trim(lowered, "!.?"))
	switch trimmed {
	case "hi", "hello", "hey", "hola", "greetings", "good morning", "good afternoon", "good evening", "howdy":
		return true
	}
	return false
}

const formattingHint = "Format your response using Markdown: use **bold** for emphasis, " +
	"bullet lists for enumerations, and fenced code blocks for code."

// systemMessageFor returns the system prompt text for a class. Quick
// mode asks for a tighter answer since the completion budget is small.
func systemMessageFor(class promptClass, quick bool) string {
	var body string
	switch class {
	case classLlamaHowTo:
		body = "You are a helpful assistant specializing in practical guidance on using Llama models. " +
			"Give concrete, step-by-step instructions with code examples where useful."
	case classModelComparison:
		body = "You are a helpful assistant that compares AI models and technologies. " +
			"Lay out the comparison clearly, covering capabilities, trade-offs, and typical use cases."
	case classWeather:
		body = "You are a helpful assistant with access to a weather lookup function. " +
			"When the user asks about current weather conditions, call the function rather than guessing."
	case classTime:
		body = "You are a helpful assistant with access to a time lookup function. " +
			"When the user asks for the current time somewhere, call the function rather than guessing."
	case classWikipedia:
		body = "You are a helpful assistant with access to a Wikipedia search function. " +
			"Use it to ground factual answers, and cite the article you drew from."
	case classProducts:
		body = "You are a helpful shopping assistant with access to a product search function. " +
			"Use it to find matching products and summarize the best options."
	case classGreeting:
		body = "You are a friendly assistant. Respond to the greeting warmly and briefly, " +
			"and invite the user to ask a question. Do not call any functions."
	default:
		body = "You are a helpful, accurate assistant."
	}

	if quick {
		body += " Keep the answer short and to the point."
	}
	return body + " " + formattingHint
}

// --- DeepSeek prompt shaping ---
//
// The R1 distill models reason inside <think> tags and drift without an
// explicit instruction to close them and answer plainly.

const deepseekModelPrefix = "deepseek-ai/"

func isDeepSeekModel(modelID string) bool {
	return strings.HasPrefix(modelID, deepseekModelPrefix)
}

var mathKeywords = []string{
	"calculate", "solve", "equation", "integral", "derivative", "probability",
	"theorem", "proof", "algebra", "geometry", "arithmetic", "math",
	"sum of", "product of", "square root",
}

func isMathProblem(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, kw := range mathKeywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}

// deepseekWrap frames a user prompt for the R1 distill models: reason
// step by step inside <think>, then give the final answer outside it.
func deepseekWrap(prompt string) string {
	var b strings.Builder
	b.WriteString("Please reason step by step inside <think> tags, then close the tag ")
	b.WriteString("and give only your final answer outside it.")
	if isMathProblem(prompt) {
		b.WriteString(" Put the final numeric or symbolic result on its own line, for example: \\boxed{42}.")
	}
	b.WriteString("\n\n")
	b.WriteString(prompt)
	return b.String()
}

// shapeDeepSeekMessages applies deepseekWrap to user messages that do
// not already carry the instruction.
func shapeDeepSeekMessages(messages []providers.Message) []providers.Message {
	shaped := make([]providers.Message, len(messages))
	copy(shaped, messages)
	for i := range shaped {
		if shaped[i].Role != "user" {
			continue
		}
		if strings.Contains(shaped[i].Content, "<think>") {
			continue
		}
		shaped[i].Content = deepseekWrap(shaped[i].Content)
	}
	return shaped
}
