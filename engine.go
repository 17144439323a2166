/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package venn

import (
	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/database"
	"github.com/vennhq/venn/internal/cache"
)

// Venn represents the main struct for the Venn matching engine.
type Venn struct {
	datasource database.IDataSource
	cache      cache.Cache
	matcher    config.MatcherConfig
}

// NewVenn initializes a new instance of Venn with the provided database
// datasource. It fetches the configuration and wires the rule cache.
func NewVenn(db database.IDataSource) (*Venn, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	return &Venn{datasource: db, cache: newCache, matcher: configuration.Matcher}, nil
}

// NewVennWithCache builds an engine with an explicit cache, used by tests
// that pin the cache to an in-memory redis.
func NewVennWithCache(db database.IDataSource, c cache.Cache) (*Venn, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Venn{datasource: db, cache: c, matcher: configuration.Matcher}, nil
}
