package analyzer

import (
	"fmt"
	"strings"

	"github.com/repolens/repolens/internal/ghapi"
)

const maxListedDeps = 20

// buildArchitecture labels the layout via the rule table and summarizes
// structure and dependencies.
func buildArchitecture(facets *ghapi.Facets, stats *treeStats, deps *dependencyInfo) ArchitectureSection {
	section := ArchitectureSection{
		Pattern:            detectArchitecture(stats),
		EntryPoints:        deps.entryPoints,
		CoreDependencies:   truncate(deps.core, maxListedDeps),
		DevDependencies:    truncate(deps.dev, maxListedDeps),
		BuildSystem:        detectBuildSystem(facets.Manifests, stats),
		DeploymentPipeline: "No CI/CD detected",
		DataFlow: fmt.Sprintf("Repository structure: %d directories, %d files, max depth: %d",
			stats.totalDirs, stats.totalFiles, stats.maxDepth),
		Scalability: fmt.Sprintf("Modular structure with %d modules", len(stats.dirFiles)),
		Performance: fmt.Sprintf("Dependencies: %d total packages across %d package managers",
			deps.totalCount, len(deps.packageManagers)),
	}
	if len(section.EntryPoints) == 0 {
		section.EntryPoints = []string{"No explicit entry points found"}
	}

	section.DirectoryStructure = fmt.Sprintf("%d files in %d directories", stats.totalFiles, stats.totalDirs)
	if top := stats.topLevelDirs(); len(top) > 0 {
		section.DirectoryStructure += " | Main folders: " + strings.Join(truncate(top, 10), ", ")
	}

	if len(deps.packageManagers) > 0 {
		section.DeploymentPipeline = "Detected: " + strings.Join(deps.packageManagers, ", ")
	}
	if types := stats.topFileTypes(5); len(types) > 0 {
		section.PrimaryTechnologies = strings.Join(types, ", ")
	}

	return section
}

// detectBuildSystem picks a label from the manifests present, preferring
// the most specific signal.
func detectBuildSystem(manifests map[string]string, stats *treeStats) string {
	if pkg, ok := manifests["package.json"]; ok {
		switch {
		case strings.Contains(pkg, "\"next\""):
			return "Next.js"
		case strings.Contains(pkg, "webpack"):
			return "Webpack + Node.js"
		case strings.Contains(pkg, "vite"):
			return "Vite + Node.js"
		case strings.Contains(pkg, "\"react\""):
			return "React application"
		}
		return "Node.js/NPM"
	}
	if reqs, ok := manifests["requirements.txt"]; ok {
		lower := strings.ToLower(reqs)
		switch {
		case strings.Contains(lower, "django"):
			return "Django (Python)"
		case strings.Contains(lower, "flask"):
			return "Flask (Python)"
		case strings.Contains(lower, "fastapi"):
			return "FastAPI (Python)"
		}
		return "Python/pip"
	}
	if _, ok := manifests["go.mod"]; ok {
		return "Go modules"
	}
	if _, ok := manifests["Cargo.toml"]; ok {
		return "Rust/Cargo"
	}
	if stats.fileTypes["go"] > 0 {
		return "Go modules"
	}
	if stats.fileTypes["rs"] > 0 {
		return "Rust/Cargo"
	}
	return "Unknown"
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
