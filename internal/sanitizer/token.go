package sanitizer

// GenericTokenRule ловит присваивания секретов: token=..., api key: ..., password=...
var GenericTokenRule = NewPatternRule("GENERIC_TOKEN", `(?i)\b(token|api\s*key|secret|password)\b\s*[:=]\s*\S+`)

var BearerTokenRule = NewPatternRule("BEARER_TOKEN", `(?i)\bbearer\s+[a-zA-Z0-9._~+/=-]{20,}`)
