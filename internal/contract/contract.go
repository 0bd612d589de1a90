// Package contract описывает строгую JSON-форму ответа модели и проверяет ее.
// Вызывающий код может полагаться на схему, а не угадывать, что имела в виду модель.
package contract

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Response - ответ модели, прошедший проверку.
type Response struct {
	Answer      string   `json:"answer"`
	Assumptions []string `json:"assumptions"`
	SourcesUsed []string `json:"sources_used"`
}

// Kind различает синтаксические ошибки и несоответствие схеме.
type Kind int

const (
	KindSyntax Kind = iota
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Error возвращается, когда вывод модели не соответствует контракту.
// Raw хранит исходный текст для отладки.
type Error struct {
	Kind    Kind
	Message string
	Raw     string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

const instructions = "Return ONLY valid JSON. No prose. No markdown. No code fences. " +
	"The JSON must match this schema exactly:\n" +
	"{\n" +
	"  \"answer\": string,\n" +
	"  \"assumptions\": [string, ...],\n" +
	"  \"sources_used\": [string, ...]\n" +
	"}\n"

// Instructions возвращает инструкцию для модели: отвечать только JSON по схеме Response.
func Instructions() string {
	return instructions
}

var resolved = mustResolve()

func mustResolve() *jsonschema.Resolved {
	minAnswer := 1
	// Каждый узел схемы должен быть отдельным значением: дерево не допускает общих поддеревьев.
	stringList := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		}
	}
	schema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"answer"},
		Properties: map[string]*jsonschema.Schema{
			"answer":       {Type: "string", MinLength: &minAnswer},
			"assumptions":  stringList(),
			"sources_used": stringList(),
		},
	}

	rs, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("contract: схема не собирается: %v", err))
	}
	return rs
}

// Validate разбирает сырой вывод модели и проверяет его по схеме.
// Отсутствующие списки заменяются пустыми.
func Validate(raw string) (*Response, error) {
	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return nil, &Error{
			Kind:    KindSyntax,
			Message: fmt.Sprintf("ответ не является корректным JSON: %v", err),
			Raw:     raw,
			Err:     err,
		}
	}

	if err := resolved.Validate(instance); err != nil {
		return nil, &Error{
			Kind:    KindSchema,
			Message: fmt.Sprintf("JSON не соответствует контракту: %v", err),
			Raw:     raw,
			Err:     err,
		}
	}

	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &Error{
			Kind:    KindSchema,
			Message: fmt.Sprintf("JSON не соответствует контракту: %v", err),
			Raw:     raw,
			Err:     err,
		}
	}

	if resp.Assumptions == nil {
		resp.Assumptions = []string{}
	}
	if resp.SourcesUsed == nil {
		resp.SourcesUsed = []string{}
	}

	return &resp, nil
}
