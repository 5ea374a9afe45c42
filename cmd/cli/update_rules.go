package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/codelens/internal/rulesource"
)

var (
	updateCheck       bool
	updateList        bool
	updateInstalled   bool
	updateBackup      bool
	updateVerify      bool
	updateKeepBackups int
)

var updateRulesCmd = &cobra.Command{
	Use:   "update-rules [source]",
	Short: "Update the installed rule packs from their configured sources",
	Long: `Update-rules fetches and atomically installs rule packs. Without a source
name every enabled source is updated. Use --check to only report whether
updates are available, --list to show configured sources, and --installed
to show what is on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdateRules,
}

func init() {
	updateRulesCmd.Flags().BoolVar(&updateCheck, "check", false, "check for updates without installing")
	updateRulesCmd.Flags().BoolVar(&updateList, "list", false, "list the configured sources")
	updateRulesCmd.Flags().BoolVar(&updateInstalled, "installed", false, "show installed sources and their metadata")
	updateRulesCmd.Flags().BoolVar(&updateBackup, "backup", true, "back up the current rules before installing")
	updateRulesCmd.Flags().BoolVar(&updateVerify, "verify", true, "verify rule files after extraction")
	updateRulesCmd.Flags().IntVar(&updateKeepBackups, "keep-backups", 3, "backups to keep per source after a successful update")
}

func runUpdateRules(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sourceName := ""
	if len(args) == 1 {
		sourceName = args[0]
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()
	mgr := app.engine.RuleSources()

	if updateList {
		titleColor.Println("Configured sources")
		for _, s := range mgr.ListSources() {
			state := "enabled"
			if !s.Enabled {
				state = "disabled"
			}
			fmt.Printf("  %-12s priority %3d  %-8s %s (%s)\n", s.Name, s.Priority, state, s.Location, s.Type)
		}
		return nil
	}

	if updateInstalled {
		installed, err := mgr.GetInstalledSources()
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Println("No rule packs installed yet.")
			return nil
		}
		titleColor.Println("Installed sources")
		for _, m := range installed {
			fmt.Printf("  %-12s %d rules, version %s, downloaded %s\n",
				m.Source, m.RuleCount, m.Version, m.DownloadedAt.Format("2006-01-02 15:04"))
		}
		usage, err := mgr.DiskUsage()
		if err == nil {
			fmt.Printf("  disk usage: %d bytes\n", usage)
		}
		return nil
	}

	if updateCheck {
		infos, err := app.engine.CheckRuleUpdates(ctx, sourceName)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if info.UpdateAvailable {
				warningColor.Printf("  %s: update available (%s -> %s)\n",
					info.SourceName, info.CurrentVersion, info.AvailableVersion)
			} else {
				successColor.Printf("  %s: up to date\n", info.SourceName)
			}
		}
		return nil
	}

	targets := []string{sourceName}
	if sourceName == "" {
		targets = targets[:0]
		for _, s := range mgr.ListSources() {
			if s.Enabled {
				targets = append(targets, s.Name)
			}
		}
	}

	updateArgs := rulesource.UpdateArgs{Backup: updateBackup, Verify: updateVerify}
	for _, name := range targets {
		meta, err := app.engine.UpdateRules(ctx, name, updateArgs)
		if err != nil {
			errorColor.Printf("  %s: %v\n", name, err)
			if sourceName != "" {
				return err
			}
			continue
		}
		successColor.Printf("  %s: installed %d rules (version %s)\n", name, meta.RuleCount, meta.Version)
	}

	if removed, err := mgr.CleanupBackups(updateKeepBackups); err == nil && removed > 0 {
		fmt.Printf("removed %d old backups\n", removed)
	}
	return nil
}
