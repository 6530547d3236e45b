package config

import (
	types "ClipForge/pkg"
)

type Config struct {
	Tools    types.ToolsConfig      `mapstructure:"tools" json:"tools"`
	Indexing types.IndexingConfig   `mapstructure:"indexing" json:"indexing"`
	Plugins  []types.PluginMapEntry `mapstructure:"plugins" json:"plugins"`
	Store    types.StoreConfig      `mapstructure:"store" json:"store"`
	Logging  types.LoggingConfig    `mapstructure:"logging" json:"logging"`
}
