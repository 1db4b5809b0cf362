// pkg/backend/detect.go
package backend

import (
	"os"
	"strings"
)

var osReleasePath = "/etc/os-release"

// Detect picks the package manager of the host
func Detect(goos string) (BackendType, error) {
	switch goos {
	case "darwin":
		if commandExists("brew") {
			return BackendBrew, nil
		}
	case "windows":
		if commandExists("winget") {
			return BackendWinget, nil
		}
		if commandExists("choco") {
			return BackendChoco, nil
		}
	case "linux":
		if t, ok := detectLinux(); ok {
			return t, nil
		}
		// Linuxbrew
		if commandExists("brew") {
			return BackendBrew, nil
		}
	}
	return "", ErrNoBackend
}

func detectLinux() (BackendType, bool) {
	ids := osReleaseIDs()

	byID := []struct {
		ids     []string
		backend BackendType
	}{
		{[]string{"alpine"}, BackendApk},
		{[]string{"fedora", "rhel", "centos"}, BackendDnf},
		{[]string{"arch", "manjaro"}, BackendPacman},
		{[]string{"opensuse", "suse", "sles"}, BackendZypper},
		{[]string{"ubuntu", "debian"}, BackendApt},
	}
	for _, id := range ids {
		for _, m := range byID {
			for _, want := range m.ids {
				if id == want || strings.HasPrefix(id, want+"-") {
					return m.backend, true
				}
			}
		}
	}

	// No os-release match: fall back to whichever query tool is present
	for _, t := range []BackendType{BackendApt, BackendApk, BackendDnf, BackendPacman} {
		if commandExists(queries[t].tool) {
			return t, true
		}
	}
	return "", false
}

// osReleaseIDs returns ID followed by the ID_LIKE entries of os-release
func osReleaseIDs() []string {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return nil
	}

	var id, like []string
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		value = strings.ToLower(strings.Trim(value, `"'`))
		switch key {
		case "ID":
			id = []string{value}
		case "ID_LIKE":
			like = strings.Fields(value)
		}
	}
	return append(id, like...)
}

func commandExists(cmd string) bool {
	_, err := lookPath(cmd)
	return err == nil
}
