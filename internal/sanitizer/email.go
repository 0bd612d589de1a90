package sanitizer

var EmailRule = NewPatternRule("EMAIL", `\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
