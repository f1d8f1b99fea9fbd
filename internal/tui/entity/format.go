package entity

import (
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"gopkg.in/yaml.v3"
)

// format is the format in which attributes are rendered.
type format int

const (
	jsonFormat format = iota
	yamlFormat
)

func (f format) String() string {
	if f == yamlFormat {
		return "yaml"
	}
	return "json"
}

func (f format) toggle() format {
	if f == jsonFormat {
		return yamlFormat
	}
	return jsonFormat
}

// render renders attributes in the format. Upon error the attributes are
// rendered with fmt and the error is returned.
func (f format) render(attributes map[string]any) (string, error) {
	if len(attributes) == 0 {
		return "", nil
	}
	var (
		b   []byte
		err error
	)
	switch f {
	case yamlFormat:
		b, err = yaml.Marshal(attributes)
	default:
		b, err = prettyjson.Marshal(attributes)
	}
	if err != nil {
		return fmt.Sprintf("%v", attributes), fmt.Errorf("rendering attributes as %s: %w", f, err)
	}
	return string(b), nil
}
