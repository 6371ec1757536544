// Package category maps upstream category labels onto the closed canonical
// taxonomy.
package category

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/unicode/norm"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Breadcrumb-style labels ("Elektronik > TV") are split on these when the
// whole label is unknown.
const labelSeparators = ">/|,"

type Classifier struct {
	table map[string][]value.Category
}

func NewClassifier() *Classifier {
	return &Classifier{table: defaultTable}
}

// WithMapping returns a classifier whose table is the default table extended
// (or overridden) by extra. Keys are normalized the same way labels are.
func (c *Classifier) WithMapping(extra map[string][]value.Category) *Classifier {
	table := make(map[string][]value.Category, len(c.table)+len(extra))
	for k, v := range c.table {
		table[k] = v
	}
	for k, v := range extra {
		table[normalizeLabel(k)] = v
	}

	return &Classifier{table: table}
}

// Classify maps labels to canonical categories. The result is never empty and
// never contains a code outside the taxonomy.
func (c *Classifier) Classify(labels []string) value.Categories {
	var found []value.Category

	for _, label := range labels {
		found = append(found, c.lookup(label)...)
	}

	return value.NewCategories(found...)
}

// Reclassify recomputes categories from a stored raw payload envelope.
func (c *Classifier) Reclassify(rawPayload []byte) (value.Categories, error) {
	var payload entity.RawPayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidPayload, "failed to decode raw payload")
	}

	return c.Classify(payload.CategoryLabels), nil
}

func (c *Classifier) lookup(label string) []value.Category {
	key := normalizeLabel(label)
	if key == "" {
		return nil
	}

	if cats, ok := c.table[key]; ok {
		return cats
	}

	var cats []value.Category

	parts := strings.FieldsFunc(key, func(r rune) bool {
		return strings.ContainsRune(labelSeparators, r)
	})
	if len(parts) < 2 {
		return nil
	}

	for _, part := range parts {
		cats = append(cats, c.table[strings.TrimSpace(part)]...)
	}

	return cats
}

func normalizeLabel(label string) string {
	label = norm.NFC.String(label)
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
