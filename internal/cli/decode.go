package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tessro/gdbmi/internal/transcript"
)

var (
	decodeFormat  string
	decodeSummary bool
	decodeTail    int
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a recorded GDB/MI transcript",
	Long: `Decode GDB/MI output (from file, or stdin when no file is given) and
print every record. With --summary the transcript is replayed through a
session instead, and the resulting state, tracked pids and output tails
are printed.`,
	Example: `  gdb --interpreter=mi ./hello < cmds.txt | gdbmi decode --format yaml
  gdbmi decode --format html session.mi > session.html
  gdbmi decode --summary session.mi`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	format, err := transcript.ParseFormat(decodeFormat)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		in = f
	}
	out := cmd.OutOrStdout()

	if decodeSummary {
		return writeSummary(out, in, format)
	}

	entries, err := transcript.Decode(in)
	if err != nil {
		return err
	}
	return transcript.Write(out, entries, format)
}

func writeSummary(out io.Writer, in io.Reader, format transcript.Format) error {
	sum, err := transcript.Replay(in, cfg.SessionConfig(), decodeTail)
	if err != nil {
		return err
	}
	switch format {
	case transcript.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case transcript.FormatYAML:
		return yaml.NewEncoder(out).Encode(sum)
	}
	return fmt.Errorf("--summary supports json and yaml, not %s", format)
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "json", "output format: json, yaml, markdown, html")
	decodeCmd.Flags().BoolVarP(&decodeSummary, "summary", "s", false, "replay through a session and print the final state")
	decodeCmd.Flags().IntVar(&decodeTail, "tail", 20, "console and program lines kept in the summary (0 for all)")
	rootCmd.AddCommand(decodeCmd)
}
