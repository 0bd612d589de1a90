// Package redteam прогоняет набор атакующих сценариев через сборку контекста и модель
// и проверяет ответы простыми утверждениями.
package redteam

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"contextAgent/internal/message"
)

const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
)

type Assertion struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Case - один сценарий из файла *.json.
type Case struct {
	ID         string            `json:"id"`
	Messages   []message.Message `json:"messages"`
	Assertions []Assertion       `json:"assertions"`
}

// LoadCases читает все *.json из каталога в порядке имён файлов.
func LoadCases(dir string) ([]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	cases := make([]Case, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", p, err)
		}

		var c Case
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("разбор %s: %w", p, err)
		}
		if c.ID == "" {
			c.ID = filepath.Base(p)
		}
		cases = append(cases, c)
	}

	return cases, nil
}
