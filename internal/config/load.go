package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an argument file and returns its raw mapping. The format is
// chosen by extension: .json, .yaml, .yml or .lua.
func (p *Parser) LoadFile(ctx context.Context, path string) (map[string]any, error) {
	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	p.logger.Debug("loading argument file", "path", path, "format", strings.TrimPrefix(ext, "."))

	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".lua":
		return p.ParseLua(ctx, string(data))
	default:
		return nil, fmt.Errorf("unsupported argument file type %q (want .json, .yaml, .yml or .lua)", ext)
	}
}

// ParseJSON decodes a JSON object. Numbers are kept as json.Number so their
// text survives into environment overrides unchanged.
func ParseJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		return nil, &ParseError{Message: "invalid JSON arguments", Detail: err.Error()}
	}
	if params == nil {
		return nil, &ParseError{Message: "invalid JSON arguments", Detail: "expected an object"}
	}

	return params, nil
}

// ParseYAML decodes a YAML mapping. Numbers are kept as json.Number holding
// their source text, so 1.0 and 1.5e300 reach environment overrides as
// written.
func ParseYAML(data []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: "invalid YAML arguments", Detail: err.Error()}
	}

	value, err := yamlToGo(&doc, 0)
	if err != nil {
		return nil, &ParseError{Message: "invalid YAML arguments", Detail: err.Error()}
	}

	switch params := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return params, nil
	default:
		return nil, &ParseError{Message: "invalid YAML arguments", Detail: "expected a mapping"}
	}
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open argument file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read argument file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("argument file %s exceeds %d bytes", path, MaxFileSize)
	}

	return data, nil
}
