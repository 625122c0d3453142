package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/model"
)

func init() {
	export := &cobra.Command{
		Use:   "export",
		Short: "Export drafts as JSON",
		Long:  "Export every live draft version as JSON. Limit to one sequence with --seq.",
		Args:  cobra.NoArgs,
		Run:   runDraftExport,
	}
	export.Flags().Int("seq", 0, "Only this sequence")

	imp := &cobra.Command{
		Use:   "import",
		Short: "Import drafts from JSON",
		Long:  "Import drafts from JSON on stdin. Expects the format produced by export.",
		Args:  cobra.NoArgs,
		Run:   runDraftImport,
	}

	draftCmd.AddCommand(export, imp)
}

func runDraftExport(cmd *cobra.Command, args []string) {
	seq, _ := cmd.Flags().GetInt("seq")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	drafts, err := s.ExportAll(cmd.Context(), seq)
	if err != nil {
		exitErr("export", err)
	}
	if drafts == nil {
		drafts = []model.Draft{}
	}
	printJSON(drafts)
}

func runDraftImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var drafts []model.Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), drafts)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
