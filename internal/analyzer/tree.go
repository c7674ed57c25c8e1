// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-github/v68/github"
)

// treeStats summarizes the recursive file tree for the section builders.
type treeStats struct {
	totalFiles  int
	totalDirs   int
	maxDepth    int
	fileTypes   map[string]int      // extension -> count
	dirFiles    map[string][]string // directory path -> file names
	configFiles []string
	testFiles   []string
	docFiles    []string
}

var manifestNames = map[string]bool{
	"package.json":       true,
	"requirements.txt":   true,
	"Gemfile":            true,
	"Cargo.toml":         true,
	"go.mod":             true,
	"pom.xml":            true,
	"build.gradle":       true,
	".env.example":       true,
	"Dockerfile":         true,
	"docker-compose.yml": true,
}

var lintFileNames = []string{
	".eslintrc", ".eslintrc.json", ".eslintrc.js",
	".prettierrc", ".prettierrc.json",
	".flake8", ".pylintrc", "pyproject.toml",
	".rubocop.yml", "rustfmt.toml",
	".golangci.yml", ".golangci.yaml",
}

// summarizeTree walks the recursive tree entries once, classifying each
// blob by filename. Config detection also covers CI and lint files so
// downstream sections can match paths without re-walking.
func summarizeTree(entries []*github.TreeEntry) *treeStats {
	stats := &treeStats{
		fileTypes: make(map[string]int),
		dirFiles:  make(map[string][]string),
	}

	for _, e := range entries {
		path := e.GetPath()
		switch e.GetType() {
		case "tree":
			stats.totalDirs++
		case "blob":
			stats.totalFiles++

			if i := strings.LastIndex(path, "."); i >= 0 && i < len(path)-1 {
				stats.fileTypes[strings.ToLower(path[i+1:])]++
			}

			lower := strings.ToLower(path)
			if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
				stats.testFiles = append(stats.testFiles, path)
			}
			if strings.Contains(lower, "readme") || strings.Contains(lower, "doc") ||
				strings.Contains(lower, "license") || strings.Contains(lower, "contributing") {
				stats.docFiles = append(stats.docFiles, path)
			}
			base := path[strings.LastIndex(path, "/")+1:]
			if manifestNames[base] || strings.HasPrefix(path, ".github/") ||
				isLintConfig(base) || isCIConfig(path) ||
				strings.Contains(lower, "swagger") || strings.Contains(lower, "openapi") {
				stats.configFiles = append(stats.configFiles, path)
			}

			parts := strings.Split(path, "/")
			depth := len(parts) - 1
			if depth > stats.maxDepth {
				stats.maxDepth = depth
			}
			if depth > 0 {
				dir := strings.Join(parts[:len(parts)-1], "/")
				stats.dirFiles[dir] = append(stats.dirFiles[dir], parts[len(parts)-1])
			}
		}
	}
	return stats
}

func isLintConfig(base string) bool {
	for _, name := range lintFileNames {
		if base == name {
			return true
		}
	}
	return false
}

func isCIConfig(path string) bool {
	return strings.Contains(path, ".gitlab-ci") ||
		strings.Contains(path, "Jenkinsfile") ||
		strings.Contains(path, ".travis")
}

// dirs returns all directory paths that directly contain files.
func (s *treeStats) dirs() []string {
	out := make([]string, 0, len(s.dirFiles))
	for d := range s.dirFiles {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// topLevelDirs returns the distinct first path segments, sorted.
func (s *treeStats) topLevelDirs() []string {
	seen := make(map[string]bool)
	for d := range s.dirFiles {
		if first, _, _ := strings.Cut(d, "/"); first != "" {
			seen[first] = true
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// anyDirContains reports whether any directory path contains the
// substring, case-insensitively.
func (s *treeStats) anyDirContains(sub string) bool {
	for d := range s.dirFiles {
		if strings.Contains(strings.ToLower(d), sub) {
			return true
		}
	}
	return false
}

// countDirsContaining counts directory paths containing the substring.
func (s *treeStats) countDirsContaining(sub string) int {
	n := 0
	for d := range s.dirFiles {
		if strings.Contains(strings.ToLower(d), sub) {
			n++
		}
	}
	return n
}

// anyConfigContains reports whether any config file path contains the
// substring, case-insensitively.
func (s *treeStats) anyConfigContains(sub string) bool {
	for _, f := range s.configFiles {
		if strings.Contains(strings.ToLower(f), sub) {
			return true
		}
	}
	return false
}

// topFileTypes returns the n most common extensions as "ext: N files"
// strings, most common first. Ties break alphabetically for
// deterministic output.
func (s *treeStats) topFileTypes(n int) []string {
	type kv struct {
		ext   string
		count int
	}
	all := make([]kv, 0, len(s.fileTypes))
	for ext, count := range s.fileTypes {
		all = append(all, kv{ext, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].ext < all[j].ext
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = t.ext + ": " + strconv.Itoa(t.count) + " files"
	}
	return out
}
