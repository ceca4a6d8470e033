package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/srcfetch/srcfetch/pkg/config"
)

// resolveEditConsent returns whether project files may be edited. With the
// consent unset in every config layer, the user is prompted and offered to
// save the choice.
func resolveEditConsent() (bool, error) {
	switch DevCfg.EditConsent() {
	case config.ConsentAllow:
		return true, nil
	case config.ConsentDeny:
		return false, nil
	}
	return promptEditConsent()
}

// promptEditConsent asks whether srcfetch may edit AGENTS.md and .gitignore,
// then asks whether to remember the answer for future runs.
func promptEditConsent() (bool, error) {
	var allow bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow srcfetch to update AGENTS.md and .gitignore in this project?").
				Value(&allow),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("file-edit consent prompt failed: %w", err)
	}

	var saveChoice string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save this choice for future runs?").
				Options(
					huh.NewOption("Yes, for this project", "project"),
					huh.NewOption("Yes, globally", "global"),
					huh.NewOption("No", "no"),
				).
				Value(&saveChoice),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("save preference prompt failed: %w", err)
	}

	devCfg := &config.DevConfig{EditFiles: &allow}
	switch saveChoice {
	case "project":
		wd, err := os.Getwd()
		if err != nil {
			return false, fmt.Errorf("getting working directory: %w", err)
		}
		if err := config.WriteLocalDevConfig(wd, devCfg); err != nil {
			return false, err
		}
	case "global":
		if err := config.WriteGlobalDevConfig(devCfg); err != nil {
			return false, err
		}
	}

	return allow, nil
}
