// Package hints turns common failures into one-line suggestions, appended
// to error messages as "\n  hint: <text>".
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docx2pdf/internal/fileutil"
)

// ciVars are set by the CI systems we recognize.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// dockerenv is replaced in tests.
var dockerenv = "/.dockerenv"

// InCI reports whether a known CI variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Container reports whether the process runs in a container, and which
// signal said so.
func Container() (bool, string) {
	switch {
	case os.Getenv("DOCX2PDF_CONTAINER") == "1":
		return true, "DOCX2PDF_CONTAINER=1"
	case fileutil.FileExists(dockerenv):
		return true, dockerenv
	case os.Getenv("container") != "": // podman, systemd-nspawn
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// ForBrowserConnect suggests the rod variables that usually fix a failed
// Chrome launch.
func ForBrowserConnect() string {
	var parts []string
	inContainer, _ := Container()
	if (InCI() || inContainer) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 in containers and CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to an installed Chrome")
	}
	parts = append(parts, "or use --engine native")
	return format(strings.Join(parts, "; "))
}

func ForTimeout() string {
	return format("large documents may need a longer --timeout")
}

func ForNotFound() string {
	return format("check the path; run 'docx2pdf sample' to create a test document")
}

// ForFormat explains why path was not accepted as a .docx package.
func ForFormat(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".doc":
		return format("legacy .doc files are not supported; save as .docx first")
	case ".docx":
		return format("the file is not a valid Word package; re-save it from Word or LibreOffice")
	case "":
		return format("the input needs a .docx extension")
	default:
		return format("only .docx files are supported, got " + ext)
	}
}

// ForConfigNotFound points at --config, and at the user config location
// among searched when there is one.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(filepath.ToSlash(p), "/go-docx2pdf/") {
			return format(hint + " or create " + p)
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check the output's parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
