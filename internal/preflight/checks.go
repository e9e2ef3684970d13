package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// minFreeBytes is the free space floor below which transcript writes are
// likely to fail mid-batch.
const minFreeBytes = 100 * 1024 * 1024

// CheckBinary verifies that the configured external binary resolves on PATH
// or at its absolute location.
func CheckBinary(name, command string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "no binary configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not found on PATH)", command)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has headroom for
// transcript output.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: only %d MiB free)", path, free/(1024*1024))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free/(1024*1024))}
}

// CheckNtfy verifies the configured ntfy endpoint is reachable.
func CheckNtfy(ctx context.Context, topic string) Result {
	const name = "ntfy"

	endpoint := strings.TrimSpace(topic)
	if endpoint == "" {
		return Result{Name: name, Detail: "missing topic"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}
