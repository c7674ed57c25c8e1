// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package analyzer

// archRule labels a repository layout. Rules are evaluated in order and
// the first match wins; there is no confidence scoring. The table is a
// replaceable policy, not load-bearing logic.
type archRule struct {
	label string
	match func(*treeStats) bool
}

var archRules = []archRule{
	{
		label: "MVC (Model-View-Controller)",
		match: func(s *treeStats) bool {
			return s.anyDirContains("controller") && s.anyDirContains("model") && s.anyDirContains("view")
		},
	},
	{
		label: "Microservices Architecture",
		match: func(s *treeStats) bool {
			return s.anyDirContains("services") || s.countDirsContaining("service") > 2
		},
	},
	{
		label: "Domain-Driven Design (DDD)",
		match: func(s *treeStats) bool {
			return s.anyDirContains("domain") && s.anyDirContains("infrastructure")
		},
	},
	{
		label: "Component-Based Architecture",
		match: func(s *treeStats) bool {
			return s.anyDirContains("components")
		},
	},
	{
		label: "API-First Architecture",
		match: func(s *treeStats) bool {
			return s.anyDirContains("api") && (s.anyConfigContains("swagger") || s.anyConfigContains("openapi"))
		},
	},
	{
		label: "Monolithic Architecture",
		match: func(s *treeStats) bool {
			return s.maxDepth < 3 && s.totalDirs < 10
		},
	},
	{
		label: "Modular Architecture",
		match: func(s *treeStats) bool {
			return s.anyDirContains("modules") || s.anyDirContains("packages")
		},
	},
}

const defaultArchLabel = "Standard Project Structure"

// detectArchitecture returns the label of the first matching rule.
func detectArchitecture(stats *treeStats) string {
	for _, rule := range archRules {
		if rule.match(stats) {
			return rule.label
		}
	}
	return defaultArchLabel
}
