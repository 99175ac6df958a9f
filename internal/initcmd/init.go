package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/templates"
)

const configFile = "prerender.yaml"

var ErrAlreadyInitialized = errors.New("prerender.yaml already exists")

// Run writes a starter config and page template into projectDir. Existing
// files other than the config are left alone.
func Run(projectDir string, out *cli.Output) error {
	if _, err := os.Stat(filepath.Join(projectDir, configFile)); err == nil {
		return fmt.Errorf("%w in %s", ErrAlreadyInitialized, projectDir)
	}

	starter, err := templates.Starter()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data := templates.TemplateData{
		Name: templates.DeriveProjectName(projectDir),
	}

	created := 0
	err = fs.WalkDir(starter, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		targetPath, isTemplate := templates.ProcessFilename(path)
		targetPath = filepath.Join(projectDir, filepath.FromSlash(targetPath))

		if _, err := os.Stat(targetPath); err == nil {
			out.PrintWarning("Skipped %s (already exists)", targetPath)
			return nil
		}

		content, err := fs.ReadFile(starter, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(targetPath), err)
		}
		if err := os.WriteFile(targetPath, templates.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetPath, err)
		}

		out.PrintFile(targetPath)
		created++
		return nil
	})
	if err != nil {
		return err
	}

	out.PrintSuccess("Created %d files", created)
	return nil
}
