package probe

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/hashicorp/go-version"
)

// HTTPClient is the package every n8n API call goes through.
const HTTPClient = "net/http"

// MinimumGo is the oldest Go runtime this tool is supported on.
const MinimumGo = "1.22"

// Dependency describes one probed package or module.
type Dependency struct {
	Name      string
	Version   string
	Available bool
	Stdlib    bool
}

// Report is the result of a capability probe.
type Report struct {
	GoVersion     string
	Module        string
	ModuleVersion string
	Dependencies  []Dependency
}

// Prober looks dependencies up in build information.
type Prober struct {
	readBuildInfo func() (*debug.BuildInfo, bool)
	goVersion     func() string
}

// New returns a Prober backed by the running binary.
func New() *Prober {
	return &Prober{
		readBuildInfo: debug.ReadBuildInfo,
		goVersion:     runtime.Version,
	}
}

// Check probes names against the running binary.
func Check(names ...string) Report {
	return New().Check(names...)
}

// Check reports the runtime version and, for each name, whether it is linked
// into the binary. Standard library packages are always available.
func (p *Prober) Check(names ...string) Report {
	r := Report{GoVersion: p.goVersion()}

	info, ok := p.readBuildInfo()
	if ok && info != nil {
		r.Module = info.Main.Path
		r.ModuleVersion = info.Main.Version
	}

	for _, name := range names {
		dep := Dependency{Name: name}
		switch {
		case isStdlib(name):
			dep.Stdlib = true
			dep.Available = true
			dep.Version = r.GoVersion
		case ok && info != nil:
			if m := findModule(info, name); m != nil {
				dep.Available = true
				dep.Version = m.Version
				if m.Replace != nil {
					dep.Version = m.Replace.Version
				}
			}
		}
		r.Dependencies = append(r.Dependencies, dep)
	}
	return r
}

// Missing returns the names of unavailable dependencies.
func (r Report) Missing() []string {
	var out []string
	for _, d := range r.Dependencies {
		if !d.Available {
			out = append(out, d.Name)
		}
	}
	return out
}

// MeetsMinimum compares the runtime version against min, e.g. "1.22".
func (r Report) MeetsMinimum(min string) (bool, error) {
	want, err := version.NewVersion(min)
	if err != nil {
		return false, fmt.Errorf("parse minimum version %q: %w", min, err)
	}

	raw := strings.TrimPrefix(r.GoVersion, "go")
	// Toolchain versions may carry a suffix such as "go1.25.5 X:nocoverageredesign".
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	have, err := version.NewVersion(raw)
	if err != nil {
		return false, fmt.Errorf("parse runtime version %q: %w", r.GoVersion, err)
	}
	return have.Core().GreaterThanOrEqual(want), nil
}

// isStdlib treats import paths whose first element has no dot as standard library.
func isStdlib(name string) bool {
	first, _, _ := strings.Cut(name, "/")
	return first != "" && !strings.Contains(first, ".")
}

// findModule matches name against the module path or a package inside it.
func findModule(info *debug.BuildInfo, name string) *debug.Module {
	if info.Main.Path != "" && (name == info.Main.Path || strings.HasPrefix(name, info.Main.Path+"/")) {
		return &info.Main
	}
	var best *debug.Module
	for _, m := range info.Deps {
		if name == m.Path || strings.HasPrefix(name, m.Path+"/") {
			if best == nil || len(m.Path) > len(best.Path) {
				best = m
			}
		}
	}
	return best
}
