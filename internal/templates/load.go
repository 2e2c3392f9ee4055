// Package templates holds the message templates per category and the bag
// that hands them out without repeats.
package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/ytannounce/internal/video"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Data is what a template can reference.
type Data struct {
	Title string
	Link  string
	Time  string // formatted scheduled start, upcoming only
}

// FileConfig is the YAML layout:
//
//	live:      ["..."]
//	upcoming:  ["..."]
//	published: ["..."]
type FileConfig struct {
	Live      []string `yaml:"live"`
	Upcoming  []string `yaml:"upcoming"`
	Published []string `yaml:"published"`
}

// Set is an ordered list of parsed templates per category. Order matters:
// pools persist indices into it.
type Set struct {
	byCat map[video.Category][]*template.Template
}

// Default returns the built-in templates.
func Default() *Set {
	s, err := Parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("templates: embedded defaults are invalid: %v", err))
	}
	return s
}

// Load reads templates from path, or the built-in set when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return Parse(data)
}

// Parse builds a Set from YAML.
func Parse(data []byte) (*Set, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Set{byCat: make(map[video.Category][]*template.Template, 3)}
	for cat, texts := range map[video.Category][]string{
		video.Live:      fc.Live,
		video.Upcoming:  fc.Upcoming,
		video.Published: fc.Published,
	} {
		for i, text := range texts {
			tpl, err := template.New(fmt.Sprintf("%s-%d", cat, i)).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("template %s[%d]: %w", cat, i, err)
			}
			s.byCat[cat] = append(s.byCat[cat], tpl)
		}
	}
	return s, nil
}

// Count returns how many templates cat has.
func (s *Set) Count(cat video.Category) int {
	return len(s.byCat[cat])
}

// Render executes template i of cat.
func (s *Set) Render(cat video.Category, i int, data Data) (string, error) {
	tpls := s.byCat[cat]
	if i < 0 || i >= len(tpls) {
		return "", fmt.Errorf("template %s[%d] out of range", cat, i)
	}
	var b bytes.Buffer
	if err := tpls[i].Execute(&b, data); err != nil {
		return "", fmt.Errorf("template %s[%d]: %w", cat, i, err)
	}
	return b.String(), nil
}
