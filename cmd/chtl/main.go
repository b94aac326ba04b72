// Command chtl is the CLI surface spec §6 describes: compile a single
// .chtl source file to HTML (with CSS/JS inlined, and with -o also
// written to sibling .css/.js files),
// pack a module directory into a CMOD/CJMOD archive, or unpack one back
// to a source tree. Flag layout and the RunE/exit-code style are
// grounded on sammcj-ingest's cobra root command.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chtl-lang/chtl/internal/dispatcher"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/module"
	"github.com/chtl-lang/chtl/internal/term"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	debugMode    bool
	modulePaths  []string
	packDir      string
	packCJModDir string
	unpackFile   string
	showVersion  bool
)

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:          "chtl [flags] <input>",
		Short:        "Compile CHTL source to HTML, CSS, and JS",
		RunE:         run,
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	root.Flags().BoolVarP(&debugMode, "debug", "d", false, "accepted; has no effect on diagnostics or output")
	root.Flags().StringArrayVarP(&modulePaths, "module", "m", nil, "a CMOD/CJMOD archive to load before compiling (repeatable)")
	root.Flags().StringVar(&packDir, "pack", "", "pack a module source directory into a .cmod archive")
	root.Flags().StringVar(&packCJModDir, "pack-cjmod", "", "pack a module source directory into a .cjmod archive")
	root.Flags().StringVar(&unpackFile, "unpack", "", "unpack a CMOD/CJMOD archive into a source directory")
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "print the version number")

	// fatih/color defaults to checking os.Stdout; diagnostics go to
	// stderr, which can be redirected independently of stdout.
	color.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// cliError carries the exit code spec §6 assigns: 1 for usage/compile
// errors, 2 for I/O errors.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	if ce, ok := err.(*cliError); ok {
		return ce.code
	}
	return 1
}

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("chtl version %s\n", version)
		return nil
	}

	switch {
	case packDir != "":
		return runPack(packDir, module.MagicCMOD)
	case packCJModDir != "":
		return runPack(packCJModDir, module.MagicCJMD)
	case unpackFile != "":
		return runUnpack(unpackFile)
	}

	if len(args) != 1 {
		return &cliError{code: 1, err: fmt.Errorf("expected exactly one input file")}
	}
	return runCompile(args[0])
}

func runCompile(input string) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return &cliError{code: 2, err: fmt.Errorf("reading %s: %w", input, err)}
	}

	mods, err := loadModules(modulePaths)
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	res, h := dispatcher.CompileWithModules(string(source), input, mods)
	for _, d := range h.Diagnostics() {
		printDiagnostic(d)
	}
	if h.HasErrors() {
		return &cliError{code: 1, err: fmt.Errorf("compile failed with %d error(s)", len(h.Errors()))}
	}

	if outputPath == "" {
		fmt.Print(res.HTML)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(res.HTML), 0o644); err != nil {
		return &cliError{code: 2, err: err}
	}
	if res.CSS != "" {
		cssPath := siblingWithExt(outputPath, ".css")
		if err := os.WriteFile(cssPath, []byte(res.CSS), 0o644); err != nil {
			return &cliError{code: 2, err: err}
		}
	}
	if res.JS != "" {
		jsPath := siblingWithExt(outputPath, ".js")
		if err := os.WriteFile(jsPath, []byte(res.JS), 0o644); err != nil {
			return &cliError{code: 2, err: err}
		}
	}
	return nil
}

// printDiagnostic prints one diagnostic to stderr, coloring the severity
// label when stderr is a terminal (main sets color.NoColor from
// internal/term's check on stderr, so this just respects it).
func printDiagnostic(d loc.DiagnosticMessage) {
	sev := loc.DiagnosticSeverity(d.Severity).String()
	switch loc.DiagnosticSeverity(d.Severity) {
	case loc.ErrorType:
		sev = color.New(color.FgRed, color.Bold).Sprint(sev)
	case loc.WarningType:
		sev = color.New(color.FgYellow).Sprint(sev)
	default:
		sev = color.New(color.FgCyan).Sprint(sev)
	}
	if d.Location == nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", sev, d.Text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s:%d:%d: %s\n", sev, d.Location.File, d.Location.Line, d.Location.Column, d.Text)
}

func siblingWithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func loadModules(paths []string) ([]dispatcher.PreloadedModule, error) {
	mods := make([]dispatcher.PreloadedModule, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("opening module %s: %w", p, err)
		}
		a, err := module.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading module %s: %w", p, err)
		}
		loaded, err := module.Load(a)
		if err != nil {
			return nil, fmt.Errorf("loading module %s: %w", p, err)
		}
		ns := loaded.Info.Name
		if ns == "" {
			ns = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		mods = append(mods, dispatcher.PreloadedModule{Namespace: ns, Sources: loaded.Sources})
	}
	return mods, nil
}

// runPack walks dir (expecting an info.chtl and a src/ subtree, per spec
// §4.13's module layout) and writes magic-typed archive to -o, defaulting
// to dir's own name with the matching extension.
func runPack(dir, magic string) error {
	var files []module.File
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, module.File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	out := outputPath
	if out == "" {
		ext := ".cmod"
		if magic == module.MagicCJMD {
			ext = ".cjmod"
		}
		out = strings.TrimSuffix(filepath.Base(dir), "/") + ext
	}
	w, err := os.Create(out)
	if err != nil {
		return &cliError{code: 2, err: err}
	}
	defer w.Close()

	a := &module.Archive{Magic: magic, Version: module.CurrentVersion, Files: files}
	if err := module.Write(w, a, true); err != nil {
		return &cliError{code: 2, err: err}
	}
	return nil
}

func runUnpack(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &cliError{code: 2, err: err}
	}
	a, err := module.Read(f)
	f.Close()
	if err != nil {
		return &cliError{code: 1, err: err}
	}

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, file := range a.Files {
		dest := filepath.Join(out, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return &cliError{code: 2, err: err}
		}
		if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
			return &cliError{code: 2, err: err}
		}
	}
	return nil
}
