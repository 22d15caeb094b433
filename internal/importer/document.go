package importer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the supplier price-list as uploaded. Unknown keys are
// ignored by the yaml decoder.
type Document struct {
	Shop       string             `yaml:"shop"`
	Categories []DocumentCategory `yaml:"categories"`
	Goods      []DocumentGood     `yaml:"goods"`
}

type DocumentCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type DocumentGood struct {
	ID         int64             `yaml:"id"`
	Category   int64             `yaml:"category"`
	Name       string            `yaml:"name"`
	Model      string            `yaml:"model"`
	Price      int64             `yaml:"price"`
	PriceRRC   int64             `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Field: "document", Detail: fmt.Sprintf("malformed yaml: %v", err)}
	}
	return &doc, nil
}
