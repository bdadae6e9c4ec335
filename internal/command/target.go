package command

import "strconv"

// SymbolListLines lists the line table of a source file.
func SymbolListLines(file string) (string, error) {
	if err := requireText("-symbol-list-lines", "file", file); err != nil {
		return "", err
	}
	return line("-symbol-list-lines", Quote(file)), nil
}

// FileExecAndSymbols loads file as both executable and symbol table.
func FileExecAndSymbols(file string) (string, error) {
	if err := requireText("-file-exec-and-symbols", "file", file); err != nil {
		return "", err
	}
	return line("-file-exec-and-symbols", Quote(file)), nil
}

// FileExec loads file as the executable only.
func FileExec(file string) (string, error) {
	if err := requireText("-file-exec-file", "file", file); err != nil {
		return "", err
	}
	return line("-file-exec-file", Quote(file)), nil
}

// FileSymbol loads symbols from file. An empty file discards them.
func FileSymbol(file string) string {
	if file == "" {
		return "-file-symbol-file"
	}
	return line("-file-symbol-file", Quote(file))
}

// FileListExecSourceFile describes the current source file.
func FileListExecSourceFile() string { return "-file-list-exec-source-file" }

// FileListExecSourceFiles lists the source files of the executable.
func FileListExecSourceFiles() string { return "-file-list-exec-source-files" }

// TargetAttach attaches to process pid.
func TargetAttach(pid int) (string, error) {
	if err := requireID("-target-attach", "pid", pid); err != nil {
		return "", err
	}
	return line("-target-attach", strconv.Itoa(pid)), nil
}

// TargetDetach detaches from pid, or from the current inferior when pid is 0.
func TargetDetach(pid int) (string, error) {
	if err := requireCount("-target-detach", "pid", pid); err != nil {
		return "", err
	}
	if pid == 0 {
		return "-target-detach", nil
	}
	return line("-target-detach", strconv.Itoa(pid)), nil
}

// TargetDisconnect disconnects from the remote target.
func TargetDisconnect() string { return "-target-disconnect" }

// TargetDownload loads the executable onto the remote target.
func TargetDownload() string { return "-target-download" }

// TargetSelect connects to a target, e.g. TargetSelect("remote", "localhost:1234").
func TargetSelect(kind string, params ...string) (string, error) {
	if err := requireText("-target-select", "type", kind); err != nil {
		return "", err
	}
	return line("-target-select", append([]string{kind}, params...)...), nil
}
