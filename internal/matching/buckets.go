package matching

import (
	"os"

	"gopkg.in/yaml.v3"
)

// BucketTable maps the categorical answers collected by the intake form to
// representative numeric values used for scoring. Portfolio values are the
// midpoint of the bucket's dollar range; age values are the midpoint of the
// bucket's year range. The table is fixed at startup so scoring stays
// reproducible; a YAML file may override the compiled-in defaults.
type BucketTable struct {
	Portfolio        map[string]int64 `yaml:"portfolio"`
	Age              map[string]int   `yaml:"age"`
	DefaultPortfolio int64            `yaml:"defaultPortfolio"`
	DefaultAge       int              `yaml:"defaultAge"`
}

// DefaultBucketTable returns the compiled-in bucket mapping.
// Unrecognized or missing labels resolve to DefaultPortfolio / DefaultAge
// rather than failing.
func DefaultBucketTable() BucketTable {
	return BucketTable{
		Portfolio: map[string]int64{
			"under_100k": 50_000,
			"100k_250k":  175_000,
			"250k_500k":  375_000,
			"500k_1m":    750_000,
			"over_1m":    1_500_000,
		},
		Age: map[string]int{
			"under_30": 25,
			"30_44":    37,
			"45_60":    52,
			"over_60":  67,
		},
		DefaultPortfolio: 50_000,
		DefaultAge:       45,
	}
}

// LoadBucketTable reads a bucket table from a YAML file. Fields omitted in
// the file keep their default values.
func LoadBucketTable(path string) (BucketTable, error) {
	table := DefaultBucketTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return BucketTable{}, err
	}

	var overrides BucketTable
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return BucketTable{}, err
	}

	if len(overrides.Portfolio) > 0 {
		table.Portfolio = overrides.Portfolio
	}
	if len(overrides.Age) > 0 {
		table.Age = overrides.Age
	}
	if overrides.DefaultPortfolio > 0 {
		table.DefaultPortfolio = overrides.DefaultPortfolio
	}
	if overrides.DefaultAge > 0 {
		table.DefaultAge = overrides.DefaultAge
	}

	return table, nil
}

// ResolvePortfolio maps a portfolio-size bucket label to its representative value.
func (t BucketTable) ResolvePortfolio(label string) int64 {
	if value, ok := t.Portfolio[label]; ok {
		return value
	}
	return t.DefaultPortfolio
}

// ResolveAge maps an age bucket label to its representative value.
func (t BucketTable) ResolveAge(label string) int {
	if value, ok := t.Age[label]; ok {
		return value
	}
	return t.DefaultAge
}
