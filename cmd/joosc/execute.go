package main

import (
	"fmt"
	"os"
	"path/filepath"

	"joosc/build"
	"joosc/mods"
	"joosc/report"

	"github.com/ComedicChimera/olive"
)

// Version is the compiler version reported by the version subcommand.
const Version = "0.3.0"

// Execute runs the main `joosc` application.
func Execute() {
	// Set up the argument parser and all its commands and arguments.
	cli := olive.NewCLI("joosc", "joosc is a compiler for the Joos 1W subset of Java", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false,
		[]string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a project", true)
	buildCmd.AddPrimaryArg("project-path", "the path to the project to build", true)

	cli.AddSubcommand("version", "print the joosc version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Printf("cli usage error: %s\n", err)
		os.Exit(2)
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string))
	case "version":
		fmt.Printf("joosc %s\n", Version)
	}
}

// execBuildCommand executes the build subcommand and handles all its
// errors.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	projectRelPath, _ := result.PrimaryArg()

	projectPath, err := filepath.Abs(projectRelPath)
	if err != nil {
		fmt.Printf("path error: %s\n", err)
		os.Exit(2)
	}

	proj, err := mods.LoadProject(projectPath)
	if err != nil {
		fmt.Printf("project load error: %s\n", err)
		os.Exit(2)
	}

	report.InitReporter(logLevelFromName(loglevel), nil)
	report.DisplayCompileHeader(Version, fmt.Sprintf("%d-bit", proj.PointerSizeBits))

	defer func() {
		// Internal invariant failures abort the whole run.
		if x := recover(); x != nil {
			os.Exit(3)
		}
	}()

	if !build.NewPipeline(proj).Compile() {
		os.Exit(1)
	}
}

func logLevelFromName(name string) int {
	switch name {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
