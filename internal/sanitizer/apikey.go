package sanitizer

// OpenAIKeyRule ловит ключи вида sk-XXXXXXXXXX.
var OpenAIKeyRule = NewPatternRule("OPENAI_API_KEY", `\bsk-[A-Za-z0-9]{10,}\b`)
