package analyzer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
)

// dependencyInfo aggregates parsed manifest contents across package
// managers.
type dependencyInfo struct {
	totalCount      int
	core            []string // direct dependency names, per-manager order
	dev             []string
	flexibleVersion []string // "name: using flexible versioning (spec)" notes
	packageManagers []string
	entryPoints     []string // npm scripts, "name: command"
}

type packageJSON struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type cargoManifest struct {
	Dependencies    map[string]toml.Primitive `toml:"dependencies"`
	DevDependencies map[string]toml.Primitive `toml:"dev-dependencies"`
}

// parseManifests extracts dependency facts from the manifest files
// fetched by content. Parse failures are logged and skipped; a corrupt
// manifest never fails the analysis.
func parseManifests(manifests map[string]string) *dependencyInfo {
	info := &dependencyInfo{}

	if raw, ok := manifests["package.json"]; ok {
		parseNPM(raw, info)
	}
	if raw, ok := manifests["requirements.txt"]; ok {
		parsePip(raw, info)
	}
	if raw, ok := manifests["go.mod"]; ok {
		parseGoMod(raw, info)
	}
	if raw, ok := manifests["Cargo.toml"]; ok {
		parseCargo(raw, info)
	}
	return info
}

func parseNPM(raw string, info *dependencyInfo) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(raw), &pkg); err != nil {
		slog.Debug("skipping malformed package.json", "error", err)
		return
	}
	info.packageManagers = append(info.packageManagers, "npm/yarn")

	for _, name := range sortedKeys(pkg.Scripts) {
		info.entryPoints = append(info.entryPoints, name+": "+pkg.Scripts[name])
	}
	for _, name := range sortedKeys(pkg.Dependencies) {
		info.core = append(info.core, name)
		if v := pkg.Dependencies[name]; strings.HasPrefix(v, "^") || strings.HasPrefix(v, "~") {
			info.flexibleVersion = append(info.flexibleVersion,
				fmt.Sprintf("%s: using flexible versioning (%s)", name, v))
		}
	}
	info.dev = append(info.dev, sortedKeys(pkg.DevDependencies)...)
	info.totalCount += len(pkg.Dependencies) + len(pkg.DevDependencies)
}

func parsePip(raw string, info *dependencyInfo) {
	info.packageManagers = append(info.packageManagers, "pip")
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.Contains(line, "=="):
			name, _, _ := strings.Cut(line, "==")
			info.core = append(info.core, strings.TrimSpace(name))
			info.totalCount++
		case strings.Contains(line, ">=") || strings.Contains(line, "<="):
			info.flexibleVersion = append(info.flexibleVersion, line+": using flexible versioning")
		default:
			info.core = append(info.core, line)
			info.totalCount++
		}
	}
}

func parseGoMod(raw string, info *dependencyInfo) {
	f, err := modfile.Parse("go.mod", []byte(raw), nil)
	if err != nil {
		slog.Debug("skipping malformed go.mod", "error", err)
		return
	}
	info.packageManagers = append(info.packageManagers, "go modules")
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		info.core = append(info.core, r.Mod.Path)
		info.totalCount++
	}
}

func parseCargo(raw string, info *dependencyInfo) {
	var m cargoManifest
	if _, err := toml.Decode(raw, &m); err != nil {
		slog.Debug("skipping malformed Cargo.toml", "error", err)
		return
	}
	info.packageManagers = append(info.packageManagers, "cargo")
	info.core = append(info.core, sortedKeys(m.Dependencies)...)
	info.dev = append(info.dev, sortedKeys(m.DevDependencies)...)
	info.totalCount += len(m.Dependencies) + len(m.DevDependencies)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
