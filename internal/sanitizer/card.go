package sanitizer

var CardNumberRule = NewPatternRule("CARD_NUMBER", `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
