package installer

import (
	"errors"
	"os"
	"strings"
	"testing"

	"venvctl/internal/env"
	"venvctl/internal/manifest"
	"venvctl/internal/testutil/testlog"
)

type fakeRunner struct {
	files   map[string]string
	runs    []string
	runEnvs [][]string
	stderr  string
	exit    int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{files: map[string]string{}}
}

func (r *fakeRunner) Run(envv []string, name string, args ...string) ([]byte, []byte, int, error) {
	r.runs = append(r.runs, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	r.runEnvs = append(r.runEnvs, envv)
	if r.exit != 0 {
		return nil, []byte(r.stderr), r.exit, errors.New("exit status 1")
	}
	return []byte("Successfully installed requests-2.31.0"), nil, 0, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func (r *fakeRunner) PathExists(path string) (bool, error) {
	_, ok := r.files[path]
	return ok, nil
}

func (r *fakeRunner) ReadFile(path string) ([]byte, error) {
	content, ok := r.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (r *fakeRunner) AbsPath(path string) (string, error) {
	return path, nil
}

func testEnv() *env.Environment {
	return &env.Environment{Path: "/work/venv"}
}

func testVars() env.EnvVars {
	return env.EnvVars{Path: "/work/venv/bin:/bin", VirtualEnv: "/work/venv"}
}

func TestInstallAllRunsEnvironmentPip(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests\n"

	inst := &Installer{Runner: fake}
	result, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if result.Entries != 1 {
		t.Fatalf("unexpected entries: %d", result.Entries)
	}
	if len(fake.runs) != 1 || fake.runs[0] != "/work/venv/bin/python -m pip install -r requirements.txt" {
		t.Fatalf("unexpected commands: %v", fake.runs)
	}
}

func TestInstallAllAppliesActivationState(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests\n"

	inst := &Installer{Runner: fake}
	if _, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt"); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	envv := fake.runEnvs[0]
	found := map[string]bool{}
	for _, kv := range envv {
		found[kv] = true
	}
	if !found["PATH=/work/venv/bin:/bin"] || !found["VIRTUAL_ENV=/work/venv"] || !found["PYTHONHOME="] {
		t.Fatalf("activation state not applied: %v", envv)
	}
}

func TestInstallAllMissingManifestNeverInvokesPip(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()

	inst := &Installer{Runner: fake}
	_, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, manifest.ErrManifestNotFound) {
		t.Fatalf("expected manifest not found, got %v", err)
	}
	if len(fake.runs) != 0 {
		t.Fatalf("pip must not run without a manifest, ran %v", fake.runs)
	}
}

func TestInstallAllMalformedManifestNeverInvokesPip(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests\n???broken???\n"

	inst := &Installer{Runner: fake}
	_, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, manifest.ErrManifestParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if len(fake.runs) != 0 {
		t.Fatalf("pip must not run for a malformed manifest, ran %v", fake.runs)
	}
}

func TestInstallAllClassifiesResolutionFailure(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests==99.99.99\n"
	fake.exit = 1
	fake.stderr = "ERROR: ResolutionImpossible: for help visit ..."

	inst := &Installer{Runner: fake}
	result, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
	if result == nil || result.ExitCode != 1 {
		t.Fatalf("expected result with exit code, got %+v", result)
	}
}

func TestInstallAllClassifiesNetworkFailure(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests\n"
	fake.exit = 1
	fake.stderr = strings.Join([]string{
		"WARNING: Retrying (Retry(total=0)) after connection broken by 'NewConnectionError...'",
		"ERROR: Could not find a version that satisfies the requirement requests",
	}, "\n")

	inst := &Installer{Runner: fake}
	_, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestInstallAllUnsatisfiableConstraintWithoutNetworkMarkers(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests==99.99.99\n"
	fake.exit = 1
	fake.stderr = "ERROR: Could not find a version that satisfies the requirement requests==99.99.99"

	inst := &Installer{Runner: fake}
	_, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestInstallAllDefaultsToInstallError(t *testing.T) {
	testlog.Start(t)
	fake := newFakeRunner()
	fake.files["requirements.txt"] = "requests\n"
	fake.exit = 2
	fake.stderr = "ERROR: THESE PACKAGES DO NOT MATCH THE HASHES"

	inst := &Installer{Runner: fake}
	_, err := inst.InstallAll(testEnv(), testVars(), "requirements.txt")
	if !errors.Is(err, ErrInstall) {
		t.Fatalf("expected install error, got %v", err)
	}
	if !strings.Contains(err.Error(), "HASHES") {
		t.Fatalf("cause not preserved: %v", err)
	}
}
