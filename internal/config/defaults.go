package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pbaille/tagkb/internal/tagindex"
)

// DefaultCategories are registered in every new index.
var DefaultCategories = []CategorySeed{
	{Name: "language", Description: "Programming language tags"},
	{Name: "framework", Description: "Framework and library tags"},
	{Name: "domain", Description: "Domain-specific knowledge tags"},
	{Name: "status", Description: "Status and state tags"},
	{Name: "priority", Description: "Priority level tags"},
	{Name: "type", Description: "Content type tags"},
	{Name: "complexity", Description: "Complexity level tags"},
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(DefaultDir(), "tagkb.db"))

	v.SetDefault("engine.case_sensitive", false)
	v.SetDefault("engine.max_tag_length", tagindex.DefaultMaxTagLength)
	v.SetDefault("engine.enable_hierarchy", true)
	v.SetDefault("engine.enable_synonyms", true)

	v.SetDefault("query.limit", tagindex.DefaultQueryLimit)
	v.SetDefault("query.include_children", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")

	seeds := make([]map[string]interface{}, 0, len(DefaultCategories))
	for _, seed := range DefaultCategories {
		seeds = append(seeds, map[string]interface{}{
			"name":        seed.Name,
			"description": seed.Description,
		})
	}
	v.SetDefault("categories", seeds)

	v.SetDefault("autotag.enabled", true)
	v.SetDefault("autotag.rules", map[string][]string{})
}
