// Package containertest provides an in-memory execution environment for
// tests of code that depends on container.Runtime.
package containertest

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/PolarWolf314/stowaway/internal/container"
)

// Program simulates an executable inside the environment. It returns the
// exit status and the combined output.
type Program func(rt *Runtime, args []string) (int, string)

// Runtime is a deterministic stand-in for a container runtime driving a
// single environment. Its filesystem is a flat map of absolute paths.
type Runtime struct {
	mu sync.Mutex

	// ID is the only environment id the runtime accepts.
	ID string

	Running bool
	files   map[string][]byte
	dirs    map[string]bool

	// Programs maps argv[0] to its simulation.
	Programs map[string]Program

	// Calls records every operation in order, e.g. "start", "exec pman",
	// "copy-in /data/files/secret.txt".
	Calls []string

	// Failure injection. A non-nil error makes the operation fail.
	StartErr   error
	StopErr    error
	ExecErr    error
	CopyInErr  error
	CopyOutErr error

	// TruncateCopyIn stores zero bytes on copy-in while reporting success.
	TruncateCopyIn bool

	// TruncateCopyOut writes zero bytes on copy-out while reporting success.
	TruncateCopyOut bool
}

// New returns a stopped environment with the given directories present and
// the sh, ls and wc programs installed.
func New(id string, dirs ...string) *Runtime {
	rt := &Runtime{
		ID:       id,
		files:    map[string][]byte{},
		dirs:     map[string]bool{"/": true},
		Programs: map[string]Program{},
	}
	for _, d := range dirs {
		rt.mkdirAll(d)
	}
	rt.Programs["sh"] = clearScript
	rt.Programs["ls"] = listDir
	rt.Programs["wc"] = wordCount
	return rt
}

var _ container.Runtime = (*Runtime)(nil)

func (rt *Runtime) Start(ctx context.Context, id string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.Calls = append(rt.Calls, "start")
	if err := rt.check(id, rt.StartErr); err != nil {
		return err
	}
	rt.Running = true
	return nil
}

func (rt *Runtime) Stop(ctx context.Context, id string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.Calls = append(rt.Calls, "stop")
	if err := rt.check(id, rt.StopErr); err != nil {
		return err
	}
	rt.Running = false
	return nil
}

func (rt *Runtime) Exec(ctx context.Context, id string, argv []string) (container.ExecResult, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if len(argv) == 0 {
		return container.ExecResult{}, fmt.Errorf("empty command")
	}
	rt.Calls = append(rt.Calls, "exec "+argv[0])
	if err := rt.check(id, rt.ExecErr); err != nil {
		return container.ExecResult{}, err
	}
	if !rt.Running {
		return container.ExecResult{}, fmt.Errorf("container %s is not running", id)
	}
	if err := ctx.Err(); err != nil {
		return container.ExecResult{}, err
	}

	program, ok := rt.Programs[argv[0]]
	if !ok {
		return container.ExecResult{ExitCode: 127, Output: []byte(argv[0] + ": not found\n")}, nil
	}
	code, out := program(rt, argv[1:])
	return container.ExecResult{ExitCode: code, Output: []byte(out)}, nil
}

func (rt *Runtime) CopyIn(ctx context.Context, id, hostPath, containerPath string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.Calls = append(rt.Calls, "copy-in "+containerPath)
	if err := rt.check(id, rt.CopyInErr); err != nil {
		return err
	}
	if !rt.dirs[path.Dir(containerPath)] {
		return fmt.Errorf("no such directory in container: %s", path.Dir(containerPath))
	}

	data, err := os.ReadFile(hostPath)
	if err != nil {
		return err
	}
	if rt.TruncateCopyIn {
		data = nil
	}
	rt.files[containerPath] = data
	return nil
}

func (rt *Runtime) CopyOut(ctx context.Context, id, containerPath, hostPath string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.Calls = append(rt.Calls, "copy-out "+containerPath)
	if err := rt.check(id, rt.CopyOutErr); err != nil {
		return err
	}
	data, ok := rt.files[containerPath]
	if !ok {
		return fmt.Errorf("no such file in container: %s", containerPath)
	}
	if rt.TruncateCopyOut {
		data = nil
	}
	return os.WriteFile(hostPath, data, 0600)
}

// WriteFile places a file in the environment, creating its directory.
func (rt *Runtime) WriteFile(p string, data []byte) {
	rt.mkdirAll(path.Dir(p))
	rt.files[p] = append([]byte(nil), data...)
}

// AppendLine appends line and a newline to the file at p.
func (rt *Runtime) AppendLine(p, line string) {
	rt.WriteFile(p, append(rt.files[p], []byte(line+"\n")...))
}

// ReadFile returns the content of the file at p.
func (rt *Runtime) ReadFile(p string) ([]byte, bool) {
	data, ok := rt.files[p]
	return data, ok
}

// List returns the sorted names of direct children of dir.
func (rt *Runtime) List(dir string) []string {
	dir = path.Clean(dir)
	seen := map[string]bool{}
	for p := range rt.files {
		if path.Dir(p) == dir {
			seen[path.Base(p)] = true
		}
	}
	for d := range rt.dirs {
		if d != dir && path.Dir(d) == dir {
			seen[path.Base(d)] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DirExists reports whether dir exists in the environment.
func (rt *Runtime) DirExists(dir string) bool {
	return rt.dirs[path.Clean(dir)]
}

// CallsSnapshot returns a copy of the recorded calls.
func (rt *Runtime) CallsSnapshot() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]string(nil), rt.Calls...)
}

// RemoveAll deletes dir and everything beneath it.
func (rt *Runtime) RemoveAll(dir string) {
	dir = path.Clean(dir)
	prefix := strings.TrimSuffix(dir, "/") + "/"
	for p := range rt.files {
		if p == dir || strings.HasPrefix(p, prefix) {
			delete(rt.files, p)
		}
	}
	for d := range rt.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(rt.dirs, d)
		}
	}
}

func (rt *Runtime) mkdirAll(dir string) {
	for d := path.Clean(dir); ; d = path.Dir(d) {
		rt.dirs[d] = true
		if d == "/" || d == "." {
			return
		}
	}
}

func (rt *Runtime) check(id string, injected error) error {
	if injected != nil {
		return injected
	}
	if id != rt.ID {
		return fmt.Errorf("no such container: %s", id)
	}
	return nil
}

// clearScript simulates `sh -c <script> <name> <staging dir> [manifest]`
// for the clearing script: it empties the staging directory, recreates it
// and truncates the manifest.
func clearScript(rt *Runtime, args []string) (int, string) {
	if len(args) < 4 || args[0] != "-c" {
		return 2, "sh: unsupported invocation\n"
	}
	staging := args[3]
	rt.RemoveAll(staging)
	rt.mkdirAll(staging)
	if len(args) >= 5 {
		manifest := args[4]
		rt.WriteFile(manifest, nil)
	}
	return 0, ""
}

// listDir simulates `ls -A <dir>`.
func listDir(rt *Runtime, args []string) (int, string) {
	if len(args) != 2 || args[0] != "-A" {
		return 2, "ls: unsupported invocation\n"
	}
	if !rt.DirExists(args[1]) {
		return 2, "ls: cannot access '" + args[1] + "': No such file or directory\n"
	}
	names := rt.List(args[1])
	if len(names) == 0 {
		return 0, ""
	}
	return 0, strings.Join(names, "\n") + "\n"
}

// wordCount simulates `wc -c <file>`.
func wordCount(rt *Runtime, args []string) (int, string) {
	if len(args) != 2 || args[0] != "-c" {
		return 2, "wc: unsupported invocation\n"
	}
	data, ok := rt.files[args[1]]
	if !ok {
		return 1, "wc: " + args[1] + ": No such file or directory\n"
	}
	return 0, fmt.Sprintf("%d %s\n", len(data), args[1])
}
