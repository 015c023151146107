package lockfile

import "fmt"

// WarningKind classifies a soft thaw advisory.
type WarningKind string

const (
	// WarnPythonVersion flags a lockfile captured under a different python
	// version than the thaw target.
	WarnPythonVersion WarningKind = "python-version-mismatch"

	// WarnPlatform flags a lockfile captured on a different platform.
	WarnPlatform WarningKind = "platform-mismatch"
)

// Warning is one advisory attached to a thaw plan. Warnings never block the
// plan; the caller decides whether to proceed.
type Warning struct {
	Kind   WarningKind
	Detail string
}

func (w Warning) String() string {
	return w.Detail
}

// ThawPlan is everything needed to rebuild an equivalent environment:
// which python to provision and the exact pins to install, in lockfile
// order.
type ThawPlan struct {
	PythonVersion string
	Specs         []string
	Warnings      []Warning
}

// Thaw derives the install plan for snap against a thaw target.
// targetPython is the python version of the environment being rebuilt into;
// empty means the snapshot's own version will be provisioned, which can
// never mismatch. Platform and python differences produce warnings, not
// failures.
func Thaw(snap Snapshot, targetPython string, plat Platform) ThawPlan {
	plan := ThawPlan{PythonVersion: snap.PythonVersion}
	for _, p := range snap.Packages {
		plan.Specs = append(plan.Specs, p.Spec())
	}

	if targetPython != "" && targetPython != snap.PythonVersion {
		plan.PythonVersion = targetPython
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:   WarnPythonVersion,
			Detail: fmt.Sprintf("lockfile was generated with python %s, thawing into %s", snap.PythonVersion, targetPython),
		})
	}
	if snap.Platform != (Platform{}) && snap.Platform != plat {
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:   WarnPlatform,
			Detail: fmt.Sprintf("lockfile was generated on %s, this machine is %s", snap.Platform, plat),
		})
	}
	return plan
}
