package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assetCategoryList() *DropdownList {
	return &DropdownList{
		ID:   "dl-items",
		Name: "Request Items",
		Options: []DropdownOption{
			{Label: "Laptop", Value: "laptop", ParentValue: "hardware"},
			{Label: "Monitor", Value: "monitor", ParentValue: "hardware"},
			{Label: "CRM License", Value: "crm-license", ParentValue: "software"},
		},
	}
}

func TestOptionsForFiltersByParentValue(t *testing.T) {
	list := assetCategoryList()
	parent := "hardware"

	options := list.OptionsFor(&parent)
	assert.Len(t, options, 2)
	assert.Equal(t, "laptop", options[0].Value)
	assert.Equal(t, "monitor", options[1].Value)
}

func TestOptionsForWithoutParentReturnsAll(t *testing.T) {
	list := assetCategoryList()
	assert.Len(t, list.OptionsFor(nil), 3)
}

func TestHasValueHonoursParentFilter(t *testing.T) {
	list := assetCategoryList()
	software := "software"

	assert.True(t, list.HasValue("crm-license", &software))
	assert.False(t, list.HasValue("laptop", &software))
	assert.True(t, list.HasValue("laptop", nil))
}

func TestDuplicateValues(t *testing.T) {
	list := assetCategoryList()
	assert.Empty(t, list.DuplicateValues())

	list.Options = append(list.Options, DropdownOption{Label: "Laptop 2", Value: "laptop"})
	assert.Equal(t, []string{"laptop"}, list.DuplicateValues())
}
