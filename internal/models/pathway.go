package models

import (
	"bytes"
	"encoding/json"
)

// PathwayItem is either a plain string or a single key/value pair.
type PathwayItem struct {
	Text  string
	Key   string
	Value string
	Pair  bool
}

func TextItem(text string) PathwayItem {
	return PathwayItem{Text: text}
}

func PairItem(key, value string) PathwayItem {
	return PathwayItem{Key: key, Value: value, Pair: true}
}

func (i PathwayItem) MarshalJSON() ([]byte, error) {
	if i.Pair {
		return json.Marshal(map[string]string{i.Key: i.Value})
	}
	return json.Marshal(i.Text)
}

// Pathway maps section headers to their items, keeping headers in first-seen order.
type Pathway struct {
	headers  []string
	sections map[string][]PathwayItem
}

func NewPathway() *Pathway {
	return &Pathway{sections: make(map[string][]PathwayItem)}
}

// Set replaces the items of header; a new header is appended to the order.
func (p *Pathway) Set(header string, items []PathwayItem) {
	if p.sections == nil {
		p.sections = make(map[string][]PathwayItem)
	}
	if _, ok := p.sections[header]; !ok {
		p.headers = append(p.headers, header)
	}
	if items == nil {
		items = []PathwayItem{}
	}
	p.sections[header] = items
}

func (p *Pathway) Get(header string) ([]PathwayItem, bool) {
	items, ok := p.sections[header]
	return items, ok
}

func (p *Pathway) Headers() []string {
	out := make([]string, len(p.headers))
	copy(out, p.headers)
	return out
}

func (p *Pathway) Len() int {
	return len(p.headers)
}

func (p *Pathway) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, header := range p.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(header)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.sections[header])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Certification struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type CareerPathway struct {
	Status         string          `json:"status"`
	Job            JobRequirements `json:"job"`
	PathStr        string          `json:"path_str"`
	PathJSON       *Pathway        `json:"path_json"`
	Certifications []Certification `json:"certifications"`
}
