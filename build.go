//go:build ignore

// build.go - cvtransform build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	module = "cvtransform"
	binary = "cvtransform"
)

var distDir = "dist"

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "build":
		build(runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		release(*verbose)
	case "help":
		showHelp()
		return
	default:
		printError(fmt.Sprintf("Unknown target: %s", *target))
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(text.FgCyan.Sprint("==========================================="))
	fmt.Println(text.FgCyan.Sprint("        cvtransform - Build System"))
	fmt.Println(text.FgCyan.Sprint("==========================================="))
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s %s\n", text.FgBlue.Sprint("[INFO]"), msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s %s\n", text.FgGreen.Sprint("[SUCCESS]"), msg)
}

func printError(msg string) {
	fmt.Printf("%s %s\n", text.FgRed.Sprint("[ERROR]"), msg)
}

// ldflags stamps the version information reported by the binary
func ldflags() string {
	flags := []string{
		"-s", "-w",
		fmt.Sprintf("-X %s/pkg/contracts.BuildTime=%s", module, time.Now().UTC().Format(time.RFC3339)),
	}
	if commit := gitCommit(); commit != "" {
		flags = append(flags, fmt.Sprintf("-X %s/pkg/contracts.GitCommit=%s", module, commit))
	}
	return strings.Join(flags, " ")
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func build(goos, goarch string, verbose bool) {
	name := binary
	if goos == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, goos+"_"+goarch, name)
	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, goos, goarch))

	args := []string{"build", "-trimpath", "-ldflags", ldflags(), "-o", outputPath, "./cmd/cvtransform"}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, sizeMB))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

// release cross-compiles the CLI for the platforms reports are prepared on
func release(verbose bool) {
	clean()
	runTests(verbose)
	for _, platform := range [][2]string{
		{"linux", "amd64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	} {
		build(platform[0], platform[1], verbose)
	}
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build    Build cvtransform for the current platform (default)")
	fmt.Println("  test     Run all Go tests with the race detector")
	fmt.Println("  clean    Remove the dist directory")
	fmt.Println("  release  Test, then build for linux, darwin and windows")
}
