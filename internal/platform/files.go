package platform

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Directory names
const (
	SupportDirName = "OpenRA"
	ModsDirName    = "mods"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

var parentSegment = regexp.MustCompile(`\.\.[/\\]?`)

// CleanPath strips the volume/root prefix and every ".." segment so a path
// supplied by embedded content can only ever be joined below a base directory.
func CleanPath(path string) string {
	cleaned := strings.TrimPrefix(path, filepath.VolumeName(path))
	cleaned = strings.TrimLeft(cleaned, `/\`)
	return parentSegment.ReplaceAllString(cleaned, "")
}

// JoinClean joins a content-supplied path below base after cleaning it
func JoinClean(base, path string) string {
	return filepath.Join(base, filepath.FromSlash(CleanPath(path)))
}

// ModPath returns the location of file inside the given mod under gameDir
func ModPath(gameDir, mod, file string) string {
	return filepath.Join(gameDir, ModsDirName, CleanPath(mod), filepath.FromSlash(CleanPath(file)))
}

// ExistsInMod reports whether file exists inside the given mod
func ExistsInMod(gameDir, mod, file string) bool {
	info, err := os.Stat(ModPath(gameDir, mod, file))
	return err == nil && !info.IsDir()
}

// IsExecutableFile reports whether path is a regular file the current user may
// run. Any stat error counts as not executable.
func IsExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return isExecutableMode(info.Mode())
}

func isExecutableMode(mode fs.FileMode) bool {
	if !mode.IsRegular() {
		return false
	}
	if runtime.GOOS == OSWindows {
		return true
	}
	return mode.Perm()&0111 != 0
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetSupportDir returns the per-user directory the game keeps settings and caches in
func GetSupportDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return filepath.Join(homeDir, "Library", "Application Support", SupportDirName), nil
	case OSWindows:
		return filepath.Join(homeDir, "Documents", SupportDirName), nil
	default:
		return filepath.Join(homeDir, "."+strings.ToLower(SupportDirName)), nil
	}
}

// OpenFolderInManager opens dirPath in the system file manager
func OpenFolderInManager(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", dirPath)
	}

	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Run()
	case OSLinux:
		return openFolderLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFolderLinux tries xdg-open first, then well-known file managers
func openFolderLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
