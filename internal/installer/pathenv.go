package installer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathRegistrar puts a directory on PATH for future shells (profile files)
// and for the current process.
type PathRegistrar struct {
	// Home is the directory holding the shell profiles.
	Home string

	getenv func(string) string
	setenv func(string, string) error
}

// NewPathRegistrar returns a registrar for the profiles under home.
func NewPathRegistrar(home string) *PathRegistrar {
	return &PathRegistrar{Home: home, getenv: os.Getenv, setenv: os.Setenv}
}

// ExportLine is the line appended to shell profiles.
func ExportLine(dir string) string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, dir)
}

// Profiles returns the profile files Register touches: ~/.bashrc and
// ~/.profile always, ~/.zshrc only when it already exists.
func (p *PathRegistrar) Profiles() []string {
	profiles := []string{
		filepath.Join(p.Home, ".bashrc"),
		filepath.Join(p.Home, ".profile"),
	}
	zshrc := filepath.Join(p.Home, ".zshrc")
	if info, err := os.Stat(zshrc); err == nil && info.Mode().IsRegular() {
		profiles = append(profiles, zshrc)
	}
	return profiles
}

// Register adds the export line for dir to each profile that does not
// already contain it, and prepends dir to this process's PATH. It returns
// the profiles that were modified.
func (p *PathRegistrar) Register(dir string) ([]string, error) {
	line := ExportLine(dir)
	var changed []string
	for _, profile := range p.Profiles() {
		has, err := hasLine(profile, line)
		if err != nil {
			return changed, &InstallError{Op: "read profile", Path: profile, Err: err}
		}
		if has {
			continue
		}
		if err := appendLine(profile, line); err != nil {
			return changed, &InstallError{Op: "update profile", Path: profile, Err: err}
		}
		changed = append(changed, profile)
	}

	current := p.getenv("PATH")
	for _, entry := range filepath.SplitList(current) {
		if entry == dir {
			return changed, nil
		}
	}
	value := dir
	if current != "" {
		value = dir + string(os.PathListSeparator) + current
	}
	if err := p.setenv("PATH", value); err != nil {
		return changed, &InstallError{Op: "set PATH", Path: dir, Err: err}
	}
	return changed, nil
}

// hasLine reports whether path contains line exactly (ignoring surrounding
// whitespace). A missing file has no lines.
func hasLine(path, line string) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == line {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func appendLine(path, line string) error {
	prefix := ""
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
		prefix = "\n"
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
