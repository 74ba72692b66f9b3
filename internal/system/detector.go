package system

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Detect fills ctx with facts about the local machine. These feed `when:`
// conditions and template data; states can gate on os, distro, init and so
// on.
func Detect(ctx *core.SystemContext) {
	ctx.OS = runtime.GOOS
	ctx.Arch = runtime.GOARCH

	if host, err := os.Hostname(); err == nil {
		ctx.Hostname = host
	}

	// Linux distro detection via /etc/os-release. Missing file just leaves
	// the fields empty (macOS, stripped containers).
	info := readOSRelease()
	ctx.Distro = info["ID"]
	ctx.Version = info["VERSION_ID"]

	ctx.Init = detectInitSystem()
}

// DetectRemote probes the transport's target with uname and fills the OS
// facts from there. Distro and init detection stay empty for remote
// targets; conditions that need them should not be combined with --host.
func DetectRemote(ctx *core.SystemContext) error {
	out, err := ctx.Transport.Execute(ctx, "uname -s")
	if err != nil {
		return err
	}
	ctx.OS = strings.ToLower(strings.TrimSpace(out))

	out, err = ctx.Transport.Execute(ctx, "uname -m")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(out) {
	case "x86_64":
		ctx.Arch = "amd64"
	case "aarch64", "arm64":
		ctx.Arch = "arm64"
	case "i386", "i686":
		ctx.Arch = "386"
	default:
		ctx.Arch = strings.TrimSpace(out)
	}

	if out, err = ctx.Transport.Execute(ctx, "hostname"); err == nil {
		ctx.Hostname = strings.TrimSpace(out)
	}
	return nil
}

func readOSRelease() map[string]string {
	info := make(map[string]string)
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return info
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			info[parts[0]] = strings.Trim(parts[1], "\"")
		}
	}
	return info
}
