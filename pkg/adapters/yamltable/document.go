package yamltable

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a table file cannot be decoded.
var ErrInvalidDocument = errors.New("invalid table document")

// Document is the file representation of a machine: its table plus the
// bindings that implement its actions.
type Document struct {
	Name     string             `yaml:"name" json:"name"`
	Initial  string             `yaml:"initial" json:"initial"`
	Events   []string           `yaml:"events" json:"events"`
	Statics  []string           `yaml:"statics" json:"statics"`
	Declare  []string           `yaml:"declare" json:"declare"`
	Globals  []InputDoc         `yaml:"globals" json:"globals"`
	States   []StateDoc         `yaml:"states" json:"states"`
	Bindings map[string]Binding `yaml:"bindings" json:"bindings"`
	MaxSteps int                `yaml:"max_steps" json:"max_steps"`
}

// StateDoc describes one state.
type StateDoc struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Entry       []string        `yaml:"entry" json:"entry"`
	Exit        []string        `yaml:"exit" json:"exit"`
	Inputs      []InputDoc      `yaml:"inputs" json:"inputs"`
	Transitions []TransitionDoc `yaml:"transitions" json:"transitions"`
}

// InputDoc is an input action: Do fires whenever When holds.
type InputDoc struct {
	When any    `yaml:"when" json:"when"`
	Do   string `yaml:"do" json:"do"`
}

// TransitionDoc moves to To when When holds, dispatching Do on the way.
type TransitionDoc struct {
	When any      `yaml:"when" json:"when"`
	To   string   `yaml:"to" json:"to"`
	Do   []string `yaml:"do" json:"do"`
}

// Binding maps an action to one of the built-in handlers.
type Binding struct {
	Op      string `yaml:"op" json:"op" mapstructure:"op"`
	Key     string `yaml:"key" json:"key" mapstructure:"key"`
	Delta   int64  `yaml:"delta" json:"delta" mapstructure:"delta"`
	Tag     string `yaml:"tag" json:"tag" mapstructure:"tag"`
	Message string `yaml:"message" json:"message" mapstructure:"message"`
	Policy  string `yaml:"policy" json:"policy" mapstructure:"policy"`
}

// Parse decodes a YAML document. JSON is accepted too, being a subset of YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Initial == "" {
		return nil, fmt.Errorf("%w: missing initial state", ErrInvalidDocument)
	}
	return &doc, nil
}

// Load reads a table file, choosing the decoder from its extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, filepath.Base(path), err)
		}
		if doc.Initial == "" {
			return nil, fmt.Errorf("%w: missing initial state", ErrInvalidDocument)
		}
		return &doc, nil
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
